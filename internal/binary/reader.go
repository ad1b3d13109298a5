// Package binary provides big-endian primitives for FITS data segments.
//
// FITS stores every multi-byte value in big-endian order regardless of the
// host. The free functions here decode and encode single values at the start
// of a slice; Reader and Writer add a cursor on top of them.
package binary

import (
	"encoding/binary"
	"io"
	"math"
)

var be = binary.BigEndian

// Int16 decodes a big-endian int16 from the first two bytes of b.
func Int16(b []byte) int16 { return int16(be.Uint16(b)) }

// Int32 decodes a big-endian int32 from the first four bytes of b.
func Int32(b []byte) int32 { return int32(be.Uint32(b)) }

// Int64 decodes a big-endian int64 from the first eight bytes of b.
func Int64(b []byte) int64 { return int64(be.Uint64(b)) }

// Float32 decodes a big-endian IEEE-754 float32.
func Float32(b []byte) float32 { return math.Float32frombits(be.Uint32(b)) }

// Float64 decodes a big-endian IEEE-754 float64.
func Float64(b []byte) float64 { return math.Float64frombits(be.Uint64(b)) }

// PutInt16 encodes v into the first two bytes of b.
func PutInt16(b []byte, v int16) { be.PutUint16(b, uint16(v)) }

// PutInt32 encodes v into the first four bytes of b.
func PutInt32(b []byte, v int32) { be.PutUint32(b, uint32(v)) }

// PutInt64 encodes v into the first eight bytes of b.
func PutInt64(b []byte, v int64) { be.PutUint64(b, uint64(v)) }

// PutFloat32 encodes v into the first four bytes of b.
func PutFloat32(b []byte, v float32) { be.PutUint32(b, math.Float32bits(v)) }

// PutFloat64 encodes v into the first eight bytes of b.
func PutFloat64(b []byte, v float64) { be.PutUint64(b, math.Float64bits(v)) }

// Reader is a bounds-checked cursor over an in-memory byte slice.
// Reads past the end return io.ErrUnexpectedEOF and leave the position unchanged.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// At returns a new reader over the same buffer positioned at offset.
func (r *Reader) At(offset int) *Reader {
	return &Reader{buf: r.buf, pos: offset}
}

// Pos returns the current read position.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.buf) {
		return 0
	}
	return len(r.buf) - r.pos
}

// ReadBytes returns the next n bytes. The result aliases the buffer.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos < 0 || n > r.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the position by n bytes.
func (r *Reader) Skip(n int) error {
	_, err := r.ReadBytes(n)
	return err
}

// ReadUint8 reads an unsigned 8-bit integer.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt16 reads a big-endian int16.
func (r *Reader) ReadInt16() (int16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return Int16(b), nil
}

// ReadInt32 reads a big-endian int32.
func (r *Reader) ReadInt32() (int32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return Int32(b), nil
}

// ReadInt64 reads a big-endian int64.
func (r *Reader) ReadInt64() (int64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return Int64(b), nil
}

// ReadFloat32 reads a big-endian float32.
func (r *Reader) ReadFloat32() (float32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return Float32(b), nil
}

// ReadFloat64 reads a big-endian float64.
func (r *Reader) ReadFloat64() (float64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return Float64(b), nil
}
