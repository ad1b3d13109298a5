package tile

import (
	"fmt"
	"math/bits"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

// DefaultBlocksize is the Rice block length when ZVAL1 is absent.
const DefaultBlocksize = 32

// Rice decodes RICE_1 tiles.
type Rice struct {
	blocksize int
	bytepix   int
	fsbits    int
	fsmax     int
	bbits     int
}

// NewRice creates a Rice decoder. Bytepix must be 1, 2 or 4.
func NewRice(p Params) (*Rice, error) {
	r := &Rice{blocksize: p.Blocksize, bytepix: p.Bytepix}
	if r.blocksize <= 0 {
		r.blocksize = DefaultBlocksize
	}
	switch p.Bytepix {
	case 1:
		r.fsbits, r.fsmax, r.bbits = 3, 6, 8
	case 2:
		r.fsbits, r.fsmax, r.bbits = 4, 14, 16
	case 4:
		r.fsbits, r.fsmax, r.bbits = 5, 25, 32
	default:
		return nil, fmt.Errorf("%w: RICE_1 with %d bytes per pixel", ErrUnsupportedCompression, p.Bytepix)
	}
	return r, nil
}

func (r *Rice) Name() string {
	return "RICE_1"
}

// byteStream yields the bytes of a Rice stream, then zeros once exhausted.
type byteStream struct {
	buf []byte
	pos int
}

func (s *byteStream) more() bool {
	return s.pos < len(s.buf)
}

func (s *byteStream) next() uint32 {
	if s.pos >= len(s.buf) {
		return 0
	}
	v := uint32(s.buf[s.pos])
	s.pos++
	return v
}

// Decode decompresses npix pixels into 4-byte samples. A stream that ends
// early is completed with the last decoded pixel.
func (r *Rice) Decode(src []byte, npix int) (Tile, error) {
	if len(src) < r.bytepix {
		return Tile{}, fmt.Errorf("%w: rice stream of %d bytes has no seed pixel", ErrDecompression, len(src))
	}

	var lastpix int32
	switch r.bytepix {
	case 1:
		lastpix = int32(int8(src[0]))
	case 2:
		lastpix = int32(binary.Int16(src))
	default:
		lastpix = binary.Int32(src)
	}

	w := binary.NewWriter(npix * 4)
	if npix == 0 {
		return Tile{Data: w.Bytes(), Width: 4}, nil
	}
	s := &byteStream{buf: src[r.bytepix:]}
	if !s.more() {
		for i := 0; i < npix; i++ {
			w.WriteInt32(lastpix)
		}
		return Tile{Data: w.Bytes(), Width: 4}, nil
	}

	b := s.next()
	nbits := 8
	emit := func(diff uint32) {
		if diff&1 == 0 {
			diff >>= 1
		} else {
			diff = ^(diff >> 1)
		}
		lastpix += int32(diff)
		w.WriteInt32(lastpix)
	}

	for i := 0; i < npix; {
		imax := min(i+r.blocksize, npix)

		// split parameter
		nbits -= r.fsbits
		for nbits < 0 {
			b = b<<8 | s.next()
			nbits += 8
		}
		fs := int(b>>nbits) - 1
		b &= 1<<nbits - 1

		switch {
		case fs < 0:
			for ; i < imax; i++ {
				w.WriteInt32(lastpix)
			}

		case fs == r.fsmax:
			for ; i < imax; i++ {
				k := r.bbits - nbits
				if k < 0 {
					return Tile{}, fmt.Errorf("%w: rice bit buffer overrun at pixel %d", ErrDecompression, i)
				}
				diff := uint64(b) << k
				for k -= 8; k >= 0; k -= 8 {
					b = s.next()
					diff |= uint64(b) << k
				}
				if nbits > 0 {
					b = s.next()
					diff |= uint64(b >> -k)
					b &= 1<<nbits - 1
				} else {
					b = 0
				}
				emit(uint32(diff))
			}

		default:
			for i < imax {
				for b == 0 {
					nbits += 8
					if !s.more() {
						break
					}
					b = s.next()
				}
				nzero := nbits - bits.Len8(uint8(b))
				nbits -= nzero + 1
				if nbits < 0 || nbits > 31 {
					for ; i < imax; i++ {
						w.WriteInt32(lastpix)
					}
					break
				}
				b ^= 1 << nbits

				nbits -= fs
				for nbits < 0 {
					b = b<<8 | s.next()
					nbits += 8
				}
				diff := uint32(nzero)<<fs | b>>nbits
				b &= 1<<nbits - 1
				emit(diff)
				i++
			}
		}
	}

	return Tile{Data: w.Bytes(), Width: 4}, nil
}
