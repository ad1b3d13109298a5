// Package dtype provides FITS numeric type handling and Go type conversion.
//
// FITS encodes the on-disk type of image pixels with the BITPIX keyword.
// This package maps BITPIX to Go types and converts between big-endian
// bytes and typed slices with a single generic implementation.
//
// # Type Mapping
//
//	BITPIX | Go Type  | Bytes
//	-------|----------|------
//	8      | uint8    | 1
//	16     | int16    | 2
//	32     | int32    | 4
//	64     | int64    | 8
//	-32    | float32  | 4
//	-64    | float64  | 8
//
// # Reading Data
//
// Use [Decode] to turn raw big-endian bytes into a typed slice:
//
//	pixels := dtype.Decode[int16](raw)
//
// # Writing Data
//
// Use [Encode] to produce big-endian bytes from a typed slice:
//
//	raw := dtype.Encode([]float32{1, 2, 3})
//
// # Conversions
//
// [ToFloat64] widens any scalar to float64. [FromFloat64] narrows back,
// rounding to nearest and clamping to the integer range of the target type;
// float targets are converted without clamping.
package dtype
