package binary

// Writer accumulates big-endian values into a growable buffer.
type Writer struct {
	buf []byte
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

// Bytes returns the written data. The result aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteBytes appends data.
func (w *Writer) WriteBytes(data []byte) {
	w.buf = append(w.buf, data...)
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteInt16 appends a big-endian int16.
func (w *Writer) WriteInt16(v int16) {
	w.buf = be.AppendUint16(w.buf, uint16(v))
}

// WriteInt32 appends a big-endian int32.
func (w *Writer) WriteInt32(v int32) {
	w.buf = be.AppendUint32(w.buf, uint32(v))
}

// WriteInt64 appends a big-endian int64.
func (w *Writer) WriteInt64(v int64) {
	w.buf = be.AppendUint64(w.buf, uint64(v))
}

// WriteFloat32 appends a big-endian float32.
func (w *Writer) WriteFloat32(v float32) {
	var b [4]byte
	PutFloat32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteFloat64 appends a big-endian float64.
func (w *Writer) WriteFloat64(v float64) {
	var b [8]byte
	PutFloat64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

// WriteFill appends n copies of fill.
func (w *Writer) WriteFill(fill byte, n int) {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, fill)
	}
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	w.WriteFill(0, n)
}

// Align pads with fill until the length is a multiple of alignment.
func (w *Writer) Align(alignment int, fill byte) {
	if alignment <= 0 {
		return
	}
	if rem := len(w.buf) % alignment; rem != 0 {
		w.WriteFill(fill, alignment-rem)
	}
}
