// Package block implements FITS record arithmetic.
//
// A FITS stream is a sequence of 2880-byte logical records (blocks). Headers
// are made of 80-byte cards, 36 to a block, and are padded with ASCII spaces.
// Data segments are padded with zero bytes.
package block

import "fmt"

const (
	// Size is the length of one FITS logical record.
	Size = 2880

	// CardSize is the length of one header card.
	CardSize = 80

	// CardsPerBlock is the number of cards in one header block.
	CardsPerBlock = Size / CardSize

	// HeaderPad fills unused header space.
	HeaderPad = byte(' ')

	// DataPad fills unused data space.
	DataPad = byte(0)
)

// BlocksNeeded returns the number of blocks required to hold n bytes.
func BlocksNeeded(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + Size - 1) / Size
}

// PaddedLen returns n rounded up to a whole number of blocks.
func PaddedLen(n int) int {
	return BlocksNeeded(n) * Size
}

// PadHeader copies src into dst and fills the remainder with spaces.
// dst must be exactly PaddedLen(len(src)) bytes long.
func PadHeader(dst, src []byte) {
	pad(dst, src, HeaderPad)
}

// PadData copies src into dst and fills the remainder with zeros.
// dst must be exactly PaddedLen(len(src)) bytes long.
func PadData(dst, src []byte) {
	pad(dst, src, DataPad)
}

func pad(dst, src []byte, fill byte) {
	if want := PaddedLen(len(src)); len(dst) != want {
		panic(fmt.Sprintf("block: destination is %d bytes, want %d", len(dst), want))
	}
	n := copy(dst, src)
	for i := n; i < len(dst); i++ {
		dst[i] = fill
	}
}

// Padded returns a copy of src extended with fill to a block boundary.
func Padded(src []byte, fill byte) []byte {
	out := make([]byte, PaddedLen(len(src)))
	pad(out, src, fill)
	return out
}
