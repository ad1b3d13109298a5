package tile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"

	"github.com/robert-malhotra/go-fits/internal/dtype"
)

// gzip member header flags
const (
	flagHCRC    = 0x02
	flagExtra   = 0x04
	flagName    = 0x08
	flagComment = 0x10
)

// Gzip decodes GZIP_1 tiles, and GZIP_2 tiles whose bytes were shuffled
// before compression.
type Gzip struct {
	p        Params
	shuffled bool
}

// NewGzip creates a GZIP_1 decoder.
func NewGzip(p Params) *Gzip {
	return &Gzip{p: p}
}

// NewGzip2 creates a GZIP_2 decoder.
func NewGzip2(p Params) *Gzip {
	return &Gzip{p: p, shuffled: true}
}

func (g *Gzip) Name() string {
	if g.shuffled {
		return "GZIP_2"
	}
	return "GZIP_1"
}

// Decode inflates a tile and returns at most npix samples.
func (g *Gzip) Decode(src []byte, npix int) (Tile, error) {
	raw, err := Inflate(src)
	if err != nil {
		return Tile{}, err
	}
	width, err := g.sampleWidth(len(raw), npix)
	if err != nil {
		return Tile{}, err
	}
	if g.shuffled {
		raw = Unshuffle(raw, width)
	}
	n := min(len(raw)/width, npix)
	return Tile{Data: raw[:n*width], Width: width}, nil
}

// Unshuffle reverses the GZIP_2 byte shuffle, which stores byte 0 of every
// sample, then byte 1 of every sample, and so on. Trailing bytes that do
// not form a whole sample are dropped.
func Unshuffle(data []byte, width int) []byte {
	if width <= 1 {
		return data
	}
	n := len(data) / width
	out := make([]byte, n*width)
	for i := 0; i < n; i++ {
		for j := 0; j < width; j++ {
			out[i*width+j] = data[j*n+i]
		}
	}
	return out
}

// sampleWidth picks the stored sample width for n inflated bytes. Quantized
// floats are always int32; 8 and 16-bit images may also be stored as int32.
func (g *Gzip) sampleWidth(n, npix int) (int, error) {
	if g.p.Quantized {
		return 4, nil
	}
	if g.p.Bitpix == dtype.Uint8 || g.p.Bitpix == dtype.Int16 {
		if n == g.p.TilePixels*4 || (n == npix*4 && npix > 0) {
			return 4, nil
		}
	}
	return dtype.BytesPerValue(g.p.Bitpix)
}

// Inflate decompresses a gzip member, a zlib stream or raw DEFLATE data.
func Inflate(src []byte) ([]byte, error) {
	if len(src) >= 2 && src[0] == 0x1f && src[1] == 0x8b {
		body, err := stripGzipHeader(src)
		if err != nil {
			return nil, err
		}
		return readAll(flate.NewReader(bytes.NewReader(body)))
	}
	if zr, err := zlib.NewReader(bytes.NewReader(src)); err == nil {
		out, err := readAll(zr)
		if err == nil {
			return out, nil
		}
	}
	return readAll(flate.NewReader(bytes.NewReader(src)))
}

func readAll(r io.ReadCloser) ([]byte, error) {
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompression, err)
	}
	return out, nil
}

// stripGzipHeader returns the DEFLATE payload of a gzip member, without its
// header and 8-byte trailer.
func stripGzipHeader(data []byte) ([]byte, error) {
	if len(data) < 18 || data[0] != 0x1f || data[1] != 0x8b || data[2] != 0x08 {
		return nil, fmt.Errorf("%w: malformed gzip header", ErrDecompression)
	}
	flg := data[3]
	pos := 10
	if flg&flagExtra != 0 {
		if pos+2 > len(data) {
			return nil, fmt.Errorf("%w: truncated gzip extra field", ErrDecompression)
		}
		pos += 2 + int(binary.LittleEndian.Uint16(data[pos:]))
	}
	skipString := func() {
		for pos < len(data) && data[pos] != 0 {
			pos++
		}
		pos++
	}
	if flg&flagName != 0 {
		skipString()
	}
	if flg&flagComment != 0 {
		skipString()
	}
	if flg&flagHCRC != 0 {
		pos += 2
	}
	if pos >= len(data) || len(data) < pos+8 {
		return nil, fmt.Errorf("%w: gzip member has no payload", ErrDecompression)
	}
	return data[pos : len(data)-8], nil
}
