package heap

import (
	"fmt"
	"io"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

// Descriptor sizes in bytes.
const (
	PSize = 8
	QSize = 16
)

// Descriptor is a (count, offset) pair locating one row's variable-length
// array. Count is in elements; Offset is in bytes from the heap start.
type Descriptor struct {
	Count  int64
	Offset int64
}

// ParseP decodes a 32-bit descriptor. Both fields are read as unsigned.
func ParseP(b []byte) (Descriptor, error) {
	r := binary.NewReader(b)
	count, err := r.ReadInt32()
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading P descriptor: %w", err)
	}
	offset, err := r.ReadInt32()
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading P descriptor: %w", err)
	}
	return Descriptor{Count: int64(uint32(count)), Offset: int64(uint32(offset))}, nil
}

// ParseQ decodes a 64-bit descriptor.
func ParseQ(b []byte) (Descriptor, error) {
	r := binary.NewReader(b)
	count, err := r.ReadInt64()
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading Q descriptor: %w", err)
	}
	offset, err := r.ReadInt64()
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading Q descriptor: %w", err)
	}
	return Descriptor{Count: count, Offset: offset}, nil
}

// Heap is a view of the heap region of a buffer.
type Heap struct {
	buf   []byte
	start int
	end   int
}

// New creates a heap view over buf[start:end]. Descriptors never resolve to
// bytes at or past end, even when buf continues with another HDU.
func New(buf []byte, start, end int) *Heap {
	if end > len(buf) {
		end = len(buf)
	}
	if end < start {
		end = start
	}
	return &Heap{buf: buf, start: start, end: end}
}

// Start returns the absolute offset of the heap in the buffer.
func (h *Heap) Start() int {
	return h.start
}

// Len returns the number of heap bytes addressable through the view.
func (h *Heap) Len() int {
	return h.end - h.start
}

// Slice returns the bytes described by d for elements of elemSize bytes.
// The result aliases the underlying buffer.
func (h *Heap) Slice(d Descriptor, elemSize int) ([]byte, error) {
	if d.Count < 0 || d.Offset < 0 || elemSize <= 0 {
		return nil, fmt.Errorf("heap: invalid descriptor (%d, %d)", d.Count, d.Offset)
	}
	n := d.Count * int64(elemSize)
	begin := int64(h.start) + d.Offset
	end := begin + n
	if n/int64(elemSize) != d.Count || end < begin || end > int64(h.end) {
		return nil, fmt.Errorf("heap: descriptor (%d, %d) exceeds heap: %w", d.Count, d.Offset, io.ErrUnexpectedEOF)
	}
	return h.buf[begin:end], nil
}
