package tile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

// Tile codec errors
var (
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrDecompression          = errors.New("decompression failed")
)

// Params carries the per-image settings a codec needs.
type Params struct {
	Bitpix     int  // ZBITPIX of the uncompressed image
	Quantized  bool // float image stored as scaled integers
	TilePixels int  // pixels in a full tile
	Blocksize  int  // Rice pixels per block (ZVAL1)
	Bytepix    int  // Rice bytes per pixel (ZVAL2)
}

// Decoder is the interface implemented by all tile codecs.
type Decoder interface {
	// Name returns the ZCMPTYPE the decoder handles.
	Name() string

	// Decode decompresses one tile of npix pixels.
	Decode(src []byte, npix int) (Tile, error)
}

// Tile is a decoded tile: consecutive big-endian signed samples of Width
// bytes each.
type Tile struct {
	Data  []byte
	Width int
}

// Len returns the number of whole samples in the tile.
func (t Tile) Len() int {
	if t.Width <= 0 {
		return 0
	}
	return len(t.Data) / t.Width
}

// Int returns sample i sign-extended to int64.
func (t Tile) Int(i int) int64 {
	b := t.Data[i*t.Width:]
	switch t.Width {
	case 1:
		return int64(int8(b[0]))
	case 2:
		return int64(binary.Int16(b))
	case 4:
		return int64(binary.Int32(b))
	default:
		return binary.Int64(b)
	}
}

// Registry maps compression type names to decoder constructors.
var Registry = map[string]func(Params) (Decoder, error){
	"RICE_1": func(p Params) (Decoder, error) { return NewRice(p) },
	"GZIP_1": func(p Params) (Decoder, error) { return NewGzip(p), nil },
	"GZIP_2": func(p Params) (Decoder, error) { return NewGzip2(p), nil },
}

// New creates a decoder for the ZCMPTYPE value name. Any name containing
// RICE or GZIP selects the matching codec; GZIP_2 selects the shuffled
// variant.
func New(name string, p Params) (Decoder, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	key := upper
	switch {
	case strings.Contains(upper, "RICE"):
		key = "RICE_1"
	case strings.Contains(upper, "GZIP_2"):
		key = "GZIP_2"
	case strings.Contains(upper, "GZIP"):
		key = "GZIP_1"
	}
	constructor, ok := Registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, name)
	}
	return constructor(p)
}
