package dtype

import "github.com/robert-malhotra/go-fits/internal/binary"

// Encode converts values to big-endian bytes.
func Encode[T Scalar](values []T) []byte {
	out := make([]byte, len(values)*SizeOf[T]())
	EncodeInto(out, values)
	return out
}

// EncodeInto writes values as big-endian bytes into dst, which must be at
// least len(values)*SizeOf[T]() bytes long.
func EncodeInto[T Scalar](dst []byte, values []T) {
	switch v := any(values).(type) {
	case []uint8:
		copy(dst, v)
	case []int16:
		for i, x := range v {
			binary.PutInt16(dst[2*i:], x)
		}
	case []int32:
		for i, x := range v {
			binary.PutInt32(dst[4*i:], x)
		}
	case []int64:
		for i, x := range v {
			binary.PutInt64(dst[8*i:], x)
		}
	case []float32:
		for i, x := range v {
			binary.PutFloat32(dst[4*i:], x)
		}
	case []float64:
		for i, x := range v {
			binary.PutFloat64(dst[8*i:], x)
		}
	}
}
