package dtype

import (
	"math"

	"github.com/robert-malhotra/go-fits/internal/binary"
)

// Decode converts big-endian bytes to a slice of T. Trailing bytes that do
// not form a whole element are ignored.
func Decode[T Scalar](raw []byte) []T {
	size := SizeOf[T]()
	n := len(raw) / size
	out := make([]T, n)
	decodeInto(out, raw)
	return out
}

// DecodeInto converts big-endian bytes into dst, which must hold at least
// len(raw)/size elements. It returns the number of elements written.
func DecodeInto[T Scalar](dst []T, raw []byte) int {
	size := SizeOf[T]()
	n := len(raw) / size
	if n > len(dst) {
		n = len(dst)
	}
	decodeInto(dst[:n], raw)
	return n
}

func decodeInto[T Scalar](dst []T, raw []byte) {
	switch d := any(dst).(type) {
	case []uint8:
		copy(d, raw)
	case []int16:
		for i := range d {
			d[i] = binary.Int16(raw[2*i:])
		}
	case []int32:
		for i := range d {
			d[i] = binary.Int32(raw[4*i:])
		}
	case []int64:
		for i := range d {
			d[i] = binary.Int64(raw[8*i:])
		}
	case []float32:
		for i := range d {
			d[i] = binary.Float32(raw[4*i:])
		}
	case []float64:
		for i := range d {
			d[i] = binary.Float64(raw[8*i:])
		}
	}
}

// ToFloat64 widens v to float64.
func ToFloat64[T Scalar](v T) float64 {
	return float64(v)
}

// FromFloat64 narrows f to T. Integer targets are rounded to nearest and
// clamped to the range of T; NaN becomes zero. Float targets are converted
// directly.
func FromFloat64[T Scalar](f float64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(f)
	}
	if math.IsNaN(f) {
		return zero
	}
	lo, hi := intRange[T]()
	r := math.Round(f)
	switch {
	case r <= lo:
		return minOf[T]()
	case r >= hi:
		return maxOf[T]()
	}
	return T(r)
}

func intRange[T Scalar]() (float64, float64) {
	return float64(minOf[T]()), float64(maxOf[T]())
}

func minOf[T Scalar]() T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 0
	case int16:
		v := int16(math.MinInt16)
		return T(v)
	case int32:
		v := int32(math.MinInt32)
		return T(v)
	case int64:
		v := int64(math.MinInt64)
		return T(v)
	}
	return zero
}

func maxOf[T Scalar]() T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		v := uint8(math.MaxUint8)
		return T(v)
	case int16:
		v := int16(math.MaxInt16)
		return T(v)
	case int32:
		v := int32(math.MaxInt32)
		return T(v)
	case int64:
		v := int64(math.MaxInt64)
		return T(v)
	}
	return zero
}
