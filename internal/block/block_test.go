package block

import (
	"bytes"
	"testing"
)

func TestBlocksNeeded(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 1},
		{2879, 1},
		{2880, 1},
		{2881, 2},
		{40000, 14},
	}

	for _, tt := range tests {
		if got := BlocksNeeded(tt.n); got != tt.want {
			t.Errorf("BlocksNeeded(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestPaddedLenInvariant(t *testing.T) {
	if PaddedLen(0) != 0 {
		t.Fatalf("PaddedLen(0) = %d, want 0", PaddedLen(0))
	}
	for n := 0; n < 3*Size+7; n += 37 {
		p := PaddedLen(n)
		if p%Size != 0 {
			t.Errorf("PaddedLen(%d) = %d, not a multiple of %d", n, p, Size)
		}
		if p < n {
			t.Errorf("PaddedLen(%d) = %d, smaller than input", n, p)
		}
		if p-n >= Size {
			t.Errorf("PaddedLen(%d) = %d, more than one block of padding", n, p)
		}
	}
}

func TestPadHeaderAndData(t *testing.T) {
	src := []byte("SIMPLE")

	hdr := make([]byte, Size)
	PadHeader(hdr, src)
	if !bytes.HasPrefix(hdr, src) {
		t.Fatalf("header prefix lost")
	}
	if hdr[len(src)] != ' ' || hdr[Size-1] != ' ' {
		t.Errorf("header not space padded")
	}

	data := make([]byte, Size)
	PadData(data, src)
	if data[len(src)] != 0 || data[Size-1] != 0 {
		t.Errorf("data not zero padded")
	}
}

func TestPadWrongLengthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for short destination")
		}
	}()
	PadData(make([]byte, 10), []byte{1, 2, 3})
}

func TestPadded(t *testing.T) {
	out := Padded([]byte{1, 2, 3}, DataPad)
	if len(out) != Size {
		t.Fatalf("len = %d, want %d", len(out), Size)
	}
	if out[0] != 1 || out[2] != 3 || out[3] != 0 {
		t.Errorf("unexpected content %v", out[:4])
	}
	if len(Padded(nil, DataPad)) != 0 {
		t.Errorf("empty input should stay empty")
	}
}
