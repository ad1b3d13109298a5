// Package header implements the FITS header card codec.
//
// A FITS header is a sequence of 80-byte cards packed 36 to a 2880-byte
// block and terminated by an END card. Each card holds an 8-byte keyword,
// an optional "= " value indicator, and a 70-byte value/comment field.
//
// # Values
//
// The value field is decoded into one of six [Value] variants:
//
//	Field text            | Variant
//	----------------------|----------------
//	'text'                | String
//	T or F                | Logical
//	(re, im) integers     | ComplexInt
//	(re, im) otherwise    | ComplexFloat
//	digits only           | Integer
//	1.5E3, 2.0D-4, ...    | Float
//
// Text following a " /" separator is the card comment. Fortran-style D
// exponents are accepted on input.
//
// # Cards and Blocks
//
// [ParseCard] and [FormatCard] convert a single 80-byte card. [ParseBlocks]
// scans whole blocks up to and including END, merging CONTINUE long-string
// cards into the value they extend. [Serialize] validates the mandatory
// keyword set for the detected HDU kind, then writes the cards followed by
// END and space padding to a block boundary.
//
// # Lookups
//
// [Cards] adds typed keyword lookups used throughout the module:
//
//	n, ok := cards.Int("NAXIS")
//	bscale, ok := cards.Float("BSCALE")
//	naxis1, err := cards.RequireInt("NAXIS1")
package header
