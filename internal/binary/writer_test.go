package binary

import (
	"bytes"
	"testing"
)

func TestWriterIntegers(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint8(0xAB)
	w.WriteInt16(0x0102)
	w.WriteInt32(-1)
	w.WriteInt64(1)

	want := []byte{
		0xAB,
		0x01, 0x02,
		0xFF, 0xFF, 0xFF, 0xFF,
		0, 0, 0, 0, 0, 0, 0, 1,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("expected %x, got %x", want, w.Bytes())
	}
	if w.Len() != len(want) {
		t.Errorf("expected length %d, got %d", len(want), w.Len())
	}
}

func TestWriterFloat32Layout(t *testing.T) {
	w := NewWriter(4)
	w.WriteFloat32(1.0)
	want := []byte{0x3F, 0x80, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("expected %x, got %x", want, w.Bytes())
	}
}

func TestWriterAlign(t *testing.T) {
	tests := []struct {
		name      string
		written   int
		alignment int
		fill      byte
		wantLen   int
	}{
		{"already aligned", 8, 4, 0, 8},
		{"pad to 8", 5, 8, 0, 8},
		{"pad block with spaces", 80, 2880, ' ', 2880},
		{"empty", 0, 2880, 0, 0},
		{"zero alignment", 3, 0, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(0)
			w.WriteZeros(tt.written)
			w.Align(tt.alignment, tt.fill)
			if w.Len() != tt.wantLen {
				t.Fatalf("expected length %d, got %d", tt.wantLen, w.Len())
			}
			for i := tt.written; i < w.Len(); i++ {
				if w.Bytes()[i] != tt.fill {
					t.Fatalf("byte %d = 0x%02x, expected fill 0x%02x", i, w.Bytes()[i], tt.fill)
				}
			}
		})
	}
}

func TestWriterWriteBytes(t *testing.T) {
	w := NewWriter(0)
	w.WriteBytes([]byte("END"))
	w.WriteFill(' ', 5)
	if string(w.Bytes()) != "END     " {
		t.Errorf("expected %q, got %q", "END     ", w.Bytes())
	}
}
