package tile

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	p := Params{Bitpix: 16, TilePixels: 10, Blocksize: 32, Bytepix: 2}

	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"RICE_1", "RICE_1", nil},
		{"rice_1", "RICE_1", nil},
		{"RICE_ONE", "RICE_1", nil},
		{"GZIP_1", "GZIP_1", nil},
		{"GZIP_2", "GZIP_2", nil},
		{"PLIO_1", "", ErrUnsupportedCompression},
		{"HCOMPRESS_1", "", ErrUnsupportedCompression},
		{"", "", ErrUnsupportedCompression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := New(tt.name, p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if dec.Name() != tt.want {
				t.Errorf("expected %s decoder, got %s", tt.want, dec.Name())
			}
		})
	}
}

func TestNewRiceBadBytepix(t *testing.T) {
	if _, err := New("RICE_1", Params{Bytepix: 8}); !errors.Is(err, ErrUnsupportedCompression) {
		t.Errorf("expected ErrUnsupportedCompression, got %v", err)
	}
}

func TestTileInt(t *testing.T) {
	tests := []struct {
		tile Tile
		want []int64
	}{
		{Tile{Data: []byte{0xFF, 0x01}, Width: 1}, []int64{-1, 1}},
		{Tile{Data: []byte{0xFF, 0xFE, 0x00, 0x05}, Width: 2}, []int64{-2, 5}},
		{Tile{Data: []byte{0x80, 0, 0, 0}, Width: 4}, []int64{-1 << 31}},
		{Tile{Data: []byte{0, 0, 0, 1, 0, 0, 0, 0}, Width: 8}, []int64{1 << 32}},
	}
	for _, tt := range tests {
		if tt.tile.Len() != len(tt.want) {
			t.Fatalf("width %d: expected len %d, got %d", tt.tile.Width, len(tt.want), tt.tile.Len())
		}
		for i, w := range tt.want {
			if got := tt.tile.Int(i); got != w {
				t.Errorf("width %d sample %d: expected %d, got %d", tt.tile.Width, i, w, got)
			}
		}
	}
	if (Tile{}).Len() != 0 {
		t.Errorf("zero tile should be empty")
	}
}
