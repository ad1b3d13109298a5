package fits

import (
	"fmt"
	"strings"

	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/header"
)

// Header card and value types.
type (
	Card         = header.Card
	Cards        = header.Cards
	Value        = header.Value
	Logical      = header.Logical
	Integer      = header.Integer
	Float        = header.Float
	String       = header.String
	ComplexInt   = header.ComplexInt
	ComplexFloat = header.ComplexFloat
)

// Layout constants.
const (
	BlockSize = block.Size
	CardSize  = block.CardSize
)

// NewCard creates a valued card.
func NewCard(keyword string, value Value, comment string) Card {
	return header.NewCard(keyword, value, comment)
}

// BlocksNeeded returns the number of 2880-byte blocks holding n bytes.
func BlocksNeeded(n int) int { return block.BlocksNeeded(n) }

// PaddedLen rounds n up to a whole number of blocks.
func PaddedLen(n int) int { return block.PaddedLen(n) }

// ParseValue parses a 70-byte value field. ok is false when the field holds
// no recognizable value; comment is the text after the " /" separator.
func ParseValue(field []byte) (v Value, comment string, ok bool) {
	return header.ParseValue(field)
}

// FormatValue renders v into a value field.
func FormatValue(v Value) [header.ValueFieldSize]byte { return header.FormatValue(v) }

// ParseCard decodes one 80-byte card.
func ParseCard(raw []byte) (Card, error) { return header.ParseCard(raw) }

// FormatCard renders c as an 80-byte card.
func FormatCard(c Card) [CardSize]byte { return header.FormatCard(c) }

// ParseHeader decodes header blocks up to and including the END card.
func ParseHeader(data []byte) (Cards, error) { return header.ParseBlocks(data) }

// HeaderByteLen returns the block-padded length of the header at the start
// of data.
func HeaderByteLen(data []byte) (int, error) { return header.ByteLen(data) }

// SerializeHeader renders cards followed by END, padded to a block boundary.
func SerializeHeader(cards []Card) ([]byte, error) { return header.Serialize(cards) }

// PrimaryHeader holds the mandatory keywords of a primary HDU.
type PrimaryHeader struct {
	Bitpix int
	Naxes  []int
	Cards  Cards
}

// DataByteCount returns the unpadded size of the primary data array.
func (h *PrimaryHeader) DataByteCount() int {
	return imageByteCount(h.Bitpix, h.Naxes)
}

// DataPaddedByteCount returns DataByteCount rounded up to whole blocks.
func (h *PrimaryHeader) DataPaddedByteCount() int {
	return block.PaddedLen(h.DataByteCount())
}

func imageByteCount(bitpix int, naxes []int) int {
	if len(naxes) == 0 {
		return 0
	}
	n := abs(bitpix) / 8
	for _, d := range naxes {
		n *= d
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// ParsePrimaryHeader validates cards as a primary header and extracts
// BITPIX and the axis lengths.
func ParsePrimaryHeader(cards []Card) (*PrimaryHeader, error) {
	if err := header.Validate(header.KindPrimary, cards); err != nil {
		return nil, err
	}
	cs := Cards(cards)
	bitpix, err := requireBitpix(cs, "BITPIX")
	if err != nil {
		return nil, err
	}
	naxes, err := readAxes(cs, "NAXIS")
	if err != nil {
		return nil, err
	}
	return &PrimaryHeader{Bitpix: bitpix, Naxes: naxes, Cards: cs}, nil
}

// BuildPrimaryHeader returns the mandatory cards of a primary header.
func BuildPrimaryHeader(bitpix int, naxes []int) ([]Card, error) {
	if !dtype.ValidBitpix(bitpix) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
	}
	cards := make([]Card, 0, 3+len(naxes))
	cards = append(cards,
		NewCard("SIMPLE", Logical(true), "conforms to FITS standard"),
		NewCard("BITPIX", Integer(bitpix), "bits per data value"),
		NewCard("NAXIS", Integer(len(naxes)), "number of axes"),
	)
	for i, d := range naxes {
		cards = append(cards, NewCard(fmt.Sprintf("NAXIS%d", i+1), Integer(d), ""))
	}
	return cards, nil
}

// ExtensionType is the XTENSION of a standard extension.
type ExtensionType int

const (
	ExtImage ExtensionType = iota
	ExtASCIITable
	ExtBinaryTable
)

func (t ExtensionType) String() string {
	switch t {
	case ExtImage:
		return "IMAGE"
	case ExtASCIITable:
		return "TABLE"
	case ExtBinaryTable:
		return "BINTABLE"
	default:
		return fmt.Sprintf("ExtensionType(%d)", int(t))
	}
}

func (t ExtensionType) kind() header.Kind {
	switch t {
	case ExtASCIITable:
		return header.KindASCIITable
	case ExtBinaryTable:
		return header.KindBinaryTable
	default:
		return header.KindImage
	}
}

// ExtensionHeader holds the mandatory keywords of an extension HDU.
type ExtensionHeader struct {
	Type   ExtensionType
	Bitpix int
	Naxes  []int
	PCount int
	GCount int
	Cards  Cards
}

// DataByteCount returns the unpadded data size, GCOUNT groups of the axes
// plus PCOUNT bytes of heap or parameters. A GCOUNT of 0 counts as 1.
func (h *ExtensionHeader) DataByteCount() int {
	if len(h.Naxes) == 0 {
		return 0
	}
	gcount := h.GCount
	if gcount == 0 {
		gcount = 1
	}
	return gcount * (imageByteCount(h.Bitpix, h.Naxes) + h.PCount)
}

// DataPaddedByteCount returns DataByteCount rounded up to whole blocks.
func (h *ExtensionHeader) DataPaddedByteCount() int {
	return block.PaddedLen(h.DataByteCount())
}

// extensionType maps an XTENSION value to its type.
func extensionType(xtension string) (ExtensionType, error) {
	switch xtension {
	case "IMAGE":
		return ExtImage, nil
	case "TABLE":
		return ExtASCIITable, nil
	case "BINTABLE":
		return ExtBinaryTable, nil
	}
	name := "unknown XTENSION"
	switch {
	case strings.HasPrefix(xtension, "A3D"):
		name = "A3DTABLE"
	case strings.HasPrefix(xtension, "FOREIGN"):
		name = "FOREIGN"
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedExtension, name)
}

// ParseExtensionHeader validates cards as an IMAGE, TABLE or BINTABLE
// extension header.
func ParseExtensionHeader(cards []Card) (*ExtensionHeader, error) {
	if len(cards) == 0 || cards[0].Keyword != "XTENSION" {
		return nil, fmt.Errorf("%w: XTENSION", ErrMissingKeyword)
	}
	xt, ok := cards[0].Value.(String)
	if !ok {
		return nil, fmt.Errorf("%w: XTENSION is not a string", ErrUnsupportedExtension)
	}
	typ, err := extensionType(strings.TrimSpace(string(xt)))
	if err != nil {
		return nil, err
	}
	if err := header.Validate(typ.kind(), cards); err != nil {
		return nil, err
	}

	cs := Cards(cards)
	h := &ExtensionHeader{Type: typ, Cards: cs}
	if h.Bitpix, err = requireBitpix(cs, "BITPIX"); err != nil {
		return nil, err
	}
	if h.Naxes, err = readAxes(cs, "NAXIS"); err != nil {
		return nil, err
	}
	if h.PCount, err = cs.RequireCount("PCOUNT"); err != nil {
		return nil, err
	}
	if h.GCount, err = cs.RequireCount("GCOUNT"); err != nil {
		return nil, err
	}
	return h, nil
}

// BuildExtensionHeader returns the mandatory cards of an extension header.
func BuildExtensionHeader(typ ExtensionType, bitpix int, naxes []int, pcount, gcount int) ([]Card, error) {
	if !dtype.ValidBitpix(bitpix) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBitpix, bitpix)
	}
	cards := make([]Card, 0, 5+len(naxes))
	cards = append(cards,
		NewCard("XTENSION", String(typ.String()), ""),
		NewCard("BITPIX", Integer(bitpix), ""),
		NewCard("NAXIS", Integer(len(naxes)), ""),
	)
	for i, d := range naxes {
		cards = append(cards, NewCard(fmt.Sprintf("NAXIS%d", i+1), Integer(d), ""))
	}
	cards = append(cards,
		NewCard("PCOUNT", Integer(pcount), ""),
		NewCard("GCOUNT", Integer(gcount), ""),
	)
	return cards, nil
}

func requireBitpix(cs Cards, keyword string) (int, error) {
	v, err := cs.RequireInt(keyword)
	if err != nil {
		return 0, err
	}
	if !dtype.ValidBitpix(int(v)) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidBitpix, v)
	}
	return int(v), nil
}

// maxAxes is the largest NAXIS the standard allows.
const maxAxes = 999

// readAxes reads prefix (NAXIS or ZNAXIS) and then prefix1..prefixN.
func readAxes(cs Cards, prefix string) ([]int, error) {
	n, err := cs.RequireCount(prefix)
	if err != nil {
		return nil, err
	}
	if n > maxAxes {
		return nil, fmt.Errorf("%w: %s = %d", ErrInvalidValue, prefix, n)
	}
	naxes := make([]int, n)
	for i := range naxes {
		if naxes[i], err = cs.RequireCount(fmt.Sprintf("%s%d", prefix, i+1)); err != nil {
			return nil, err
		}
	}
	return naxes, nil
}
