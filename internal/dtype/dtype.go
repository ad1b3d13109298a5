package dtype

import (
	"errors"
	"fmt"
)

// ErrInvalidBitpix is returned for BITPIX values outside the six legal ones.
var ErrInvalidBitpix = errors.New("invalid BITPIX")

// Scalar is the set of Go types that FITS images and tables store natively.
type Scalar interface {
	uint8 | int16 | int32 | int64 | float32 | float64
}

// Legal BITPIX values.
const (
	Uint8   = 8
	Int16   = 16
	Int32   = 32
	Int64   = 64
	Float32 = -32
	Float64 = -64
)

// BytesPerValue returns the element width for bitpix.
func BytesPerValue(bitpix int) (int, error) {
	switch bitpix {
	case Uint8:
		return 1, nil
	case Int16:
		return 2, nil
	case Int32, Float32:
		return 4, nil
	case Int64, Float64:
		return 8, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
}

// ValidBitpix reports whether bitpix is one of the six legal values.
func ValidBitpix(bitpix int) bool {
	_, err := BytesPerValue(bitpix)
	return err == nil
}

// BitpixOf returns the BITPIX value that stores T.
func BitpixOf[T Scalar]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Uint8
	case int16:
		return Int16
	case int32:
		return Int32
	case int64:
		return Int64
	case float32:
		return Float32
	default:
		return Float64
	}
}

// SizeOf returns the encoded width of T in bytes.
func SizeOf[T Scalar]() int {
	n, _ := BytesPerValue(BitpixOf[T]())
	return n
}

// IsFloat reports whether bitpix denotes a floating-point type.
func IsFloat(bitpix int) bool {
	return bitpix == Float32 || bitpix == Float64
}
