package heap

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

func TestParseP(t *testing.T) {
	w := binary.NewWriter(8)
	w.WriteInt32(12)
	w.WriteInt32(-1) // 0xFFFFFFFF read as unsigned

	d, err := ParseP(w.Bytes())
	if err != nil {
		t.Fatalf("ParseP failed: %v", err)
	}
	if d.Count != 12 || d.Offset != 0xFFFFFFFF {
		t.Errorf("unexpected descriptor %+v", d)
	}

	if _, err := ParseP([]byte{0, 0, 0, 1}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected io.ErrUnexpectedEOF for short descriptor, got %v", err)
	}
}

func TestParseQ(t *testing.T) {
	w := binary.NewWriter(16)
	w.WriteInt64(3)
	w.WriteInt64(1 << 40)

	d, err := ParseQ(w.Bytes())
	if err != nil {
		t.Fatalf("ParseQ failed: %v", err)
	}
	if d.Count != 3 || d.Offset != 1<<40 {
		t.Errorf("unexpected descriptor %+v", d)
	}
}

func TestHeapSlice(t *testing.T) {
	buf := []byte("rowsrowsHEAPDATAnexthdu")
	h := New(buf, 8, 16)

	tests := []struct {
		name     string
		desc     Descriptor
		elemSize int
		want     []byte
		wantErr  bool
	}{
		{"whole heap", Descriptor{Count: 8, Offset: 0}, 1, []byte("HEAPDATA"), false},
		{"middle", Descriptor{Count: 2, Offset: 4}, 1, []byte("DA"), false},
		{"int16 elements", Descriptor{Count: 2, Offset: 0}, 2, []byte("HEAP"), false},
		{"empty", Descriptor{Count: 0, Offset: 8}, 4, []byte{}, false},
		{"past end", Descriptor{Count: 9, Offset: 0}, 1, nil, true},
		{"offset past end", Descriptor{Count: 1, Offset: 100}, 1, nil, true},
		{"into next HDU", Descriptor{Count: 4, Offset: 6}, 1, nil, true},
		{"starts at heap end", Descriptor{Count: 1, Offset: 8}, 1, nil, true},
		{"negative", Descriptor{Count: -1, Offset: 0}, 1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := h.Slice(tt.desc, tt.elemSize)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Slice failed: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
	if h.Start() != 8 || h.Len() != 8 {
		t.Errorf("expected start 8 and length 8, got %d and %d", h.Start(), h.Len())
	}

	if n := New(buf, 8, 100).Len(); n != len(buf)-8 {
		t.Errorf("end past the buffer: expected length %d, got %d", len(buf)-8, n)
	}
}
