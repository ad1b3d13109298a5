package fits

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/robert-malhotra/go-fits/internal/binary"
	"github.com/robert-malhotra/go-fits/internal/block"
	"github.com/robert-malhotra/go-fits/internal/dtype"
	"github.com/robert-malhotra/go-fits/internal/heap"
)

// BinaryColumnType is the TFORM type code of a binary-table column.
type BinaryColumnType byte

const (
	TypeLogical    BinaryColumnType = 'L'
	TypeBit        BinaryColumnType = 'X'
	TypeByte       BinaryColumnType = 'B'
	TypeShort      BinaryColumnType = 'I'
	TypeInt        BinaryColumnType = 'J'
	TypeLong       BinaryColumnType = 'K'
	TypeFloat      BinaryColumnType = 'E'
	TypeDouble     BinaryColumnType = 'D'
	TypeComplex64  BinaryColumnType = 'C'
	TypeComplex128 BinaryColumnType = 'M'
	TypeASCII      BinaryColumnType = 'A'
	TypeVarP       BinaryColumnType = 'P'
	TypeVarQ       BinaryColumnType = 'Q'
)

func (t BinaryColumnType) String() string {
	switch t {
	case TypeLogical:
		return "logical"
	case TypeBit:
		return "bit"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "int16"
	case TypeInt:
		return "int32"
	case TypeLong:
		return "int64"
	case TypeFloat:
		return "float32"
	case TypeDouble:
		return "float64"
	case TypeComplex64:
		return "complex64"
	case TypeComplex128:
		return "complex128"
	case TypeASCII:
		return "ascii"
	case TypeVarP:
		return "varP"
	case TypeVarQ:
		return "varQ"
	default:
		return fmt.Sprintf("BinaryColumnType(%q)", byte(t))
	}
}

// elementSize returns the bytes per element; 0 for bit columns.
func (t BinaryColumnType) elementSize() int {
	switch t {
	case TypeLogical, TypeByte, TypeASCII:
		return 1
	case TypeShort:
		return 2
	case TypeInt, TypeFloat:
		return 4
	case TypeLong, TypeDouble, TypeComplex64:
		return 8
	case TypeComplex128:
		return 16
	case TypeVarP:
		return heap.PSize
	case TypeVarQ:
		return heap.QSize
	}
	return 0
}

func fixedType(c byte) bool {
	switch BinaryColumnType(c) {
	case TypeLogical, TypeBit, TypeByte, TypeShort, TypeInt, TypeLong,
		TypeFloat, TypeDouble, TypeComplex64, TypeComplex128, TypeASCII:
		return true
	}
	return false
}

// BinaryColumn describes one binary-table column.
type BinaryColumn struct {
	Name   string // TTYPEn, "" when absent
	Repeat int
	Type   BinaryColumnType
	Width  int // bytes per row
	Offset int // byte offset within a row

	// ElemType is the heap element type of a P or Q column. TForm writes
	// B when it is unset.
	ElemType BinaryColumnType
}

// NewBinaryColumn returns a column description with its width computed.
// Offset is assigned when the column is placed in a table.
func NewBinaryColumn(name string, repeat int, typ BinaryColumnType) BinaryColumn {
	return BinaryColumn{Name: name, Repeat: repeat, Type: typ, Width: ColumnByteWidth(repeat, typ)}
}

// NewVarColumn returns a P or Q descriptor column whose heap arrays hold
// elements of type elem.
func NewVarColumn(name string, desc, elem BinaryColumnType) BinaryColumn {
	c := NewBinaryColumn(name, 1, desc)
	c.ElemType = elem
	return c
}

// TForm returns the TFORMn value for c.
func (c BinaryColumn) TForm() string {
	tform := strconv.Itoa(c.Repeat) + string(rune(c.Type))
	if c.Type == TypeVarP || c.Type == TypeVarQ {
		elem := c.ElemType
		if elem == 0 {
			elem = TypeByte
		}
		tform += string(rune(elem))
	}
	return tform
}

// ParseTFormBinary parses a binary TFORM value such as "1J", "20A",
// "1024X", "1PB(200)" or "QJ". The repeat count defaults to 1. For P and Q
// columns the element type must be valid and is not returned.
func ParseTFormBinary(s string) (repeat int, typ BinaryColumnType, err error) {
	repeat, typ, _, err = parseTForm(s)
	return repeat, typ, err
}

// parseTForm is ParseTFormBinary that also returns the heap element type of
// P and Q columns.
func parseTForm(s string) (repeat int, typ, elem BinaryColumnType, err error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return 0, 0, 0, fmt.Errorf("%w: empty TFORM", ErrInvalidValue)
	}

	code := s[len(s)-1]
	digits := s[:len(s)-1]
	if n := len(s); n >= 2 && (s[n-2] == 'P' || s[n-2] == 'Q') {
		if !fixedType(code) {
			return 0, 0, 0, fmt.Errorf("%w: TFORM %q has unknown element type", ErrInvalidValue, s)
		}
		elem = BinaryColumnType(code)
		code = s[n-2]
		digits = s[:n-2]
	} else if !fixedType(code) {
		return 0, 0, 0, fmt.Errorf("%w: TFORM %q has unknown type code", ErrInvalidValue, s)
	}

	repeat = 1
	if digits != "" {
		r, err := strconv.Atoi(digits)
		if err != nil || r < 0 {
			return 0, 0, 0, fmt.Errorf("%w: TFORM %q has bad repeat count", ErrInvalidValue, s)
		}
		repeat = r
	}
	return repeat, BinaryColumnType(code), elem, nil
}

// ColumnByteWidth returns the bytes one row of a column occupies.
func ColumnByteWidth(repeat int, typ BinaryColumnType) int {
	if typ == TypeBit {
		return (repeat + 7) / 8
	}
	return repeat * typ.elementSize()
}

// ParseBinaryColumns reads the TFORMn and TTYPEn cards of a binary table
// with tfields columns and assigns row offsets.
func ParseBinaryColumns(cards Cards, tfields int) ([]BinaryColumn, error) {
	cols := make([]BinaryColumn, 0, tfields)
	offset := 0
	for i := 1; i <= tfields; i++ {
		kw := fmt.Sprintf("TFORM%d", i)
		tform, ok := cards.Text(kw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKeyword, kw)
		}
		repeat, typ, elem, err := parseTForm(tform)
		if err != nil {
			return nil, err
		}
		name, _ := cards.Text(fmt.Sprintf("TTYPE%d", i))

		col := NewBinaryColumn(name, repeat, typ)
		col.ElemType = elem
		col.Offset = offset
		offset += col.Width
		cols = append(cols, col)
	}
	return cols, nil
}

// binaryTable is the row layout of a BINTABLE HDU.
type binaryTable struct {
	naxis1  int
	naxis2  int
	columns []BinaryColumn
}

func binaryTableOf(buf []byte, hdu *HDU) (*binaryTable, error) {
	var naxis1, naxis2, tfields int
	switch info := hdu.Info.(type) {
	case BinaryTableInfo:
		naxis1, naxis2, tfields = info.Naxis1, info.Naxis2, info.TFields
	case CompressedImageInfo:
		naxis1, naxis2, tfields = info.Naxis1, info.Naxis2, info.TFields
	default:
		return nil, fmt.Errorf("%w: %s HDU is not a binary table", ErrInvalidHeader, hdu.Info.Kind())
	}

	if end := hdu.DataStart + naxis1*naxis2; end > len(buf) {
		return nil, fmt.Errorf("fits: table rows end at %d past %d-byte buffer: %w", end, len(buf), ErrUnexpectedEOF)
	}
	cols, err := ParseBinaryColumns(hdu.Cards, tfields)
	if err != nil {
		return nil, err
	}
	for i, c := range cols {
		if c.Offset+c.Width > naxis1 {
			return nil, fmt.Errorf("%w: column %d ends at byte %d of a %d-byte row", ErrInvalidHeader, i+1, c.Offset+c.Width, naxis1)
		}
	}
	return &binaryTable{naxis1: naxis1, naxis2: naxis2, columns: cols}, nil
}

func (t *binaryTable) names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ReadBinaryColumn decodes column index (0-based) of a binary table for
// every row. Variable-length P and Q columns cannot be read this way.
func ReadBinaryColumn(buf []byte, hdu *HDU, index int) (ColumnData, error) {
	t, err := binaryTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.columns) {
		return nil, fmt.Errorf("%w: column index %d of %d", ErrInvalidValue, index, len(t.columns))
	}
	return readBinaryCells(buf, hdu.DataStart, t.naxis1, t.naxis2, t.columns[index])
}

// ReadBinaryColumnByName decodes the first column whose TTYPE equals name.
func ReadBinaryColumnByName(buf []byte, hdu *HDU, name string) (ColumnData, error) {
	t, err := binaryTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	i, err := findColumn(t.names(), name)
	if err != nil {
		return nil, err
	}
	return readBinaryCells(buf, hdu.DataStart, t.naxis1, t.naxis2, t.columns[i])
}

// ReadBinaryRow decodes every column of one row. Each element holds the
// values of a single cell.
func ReadBinaryRow(buf []byte, hdu *HDU, row int) ([]ColumnData, error) {
	t, err := binaryTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= t.naxis2 {
		return nil, fmt.Errorf("%w: row %d of %d", ErrInvalidValue, row, t.naxis2)
	}
	out := make([]ColumnData, len(t.columns))
	for i, c := range t.columns {
		if out[i], err = readBinaryCells(buf, hdu.DataStart+row*t.naxis1, t.naxis1, 1, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// readBinaryCells decodes nrows cells of col from rows of stride bytes
// starting at start.
func readBinaryCells(buf []byte, start, stride, nrows int, col BinaryColumn) (ColumnData, error) {
	if col.Type == TypeVarP || col.Type == TypeVarQ {
		return nil, fmt.Errorf("%w: variable-length column %q needs heap access", ErrInvalidValue, col.Name)
	}
	if nrows > 0 {
		if end := start + (nrows-1)*stride + col.Offset + col.Width; end > len(buf) {
			return nil, fmt.Errorf("fits: column %q ends at %d past %d-byte buffer: %w", col.Name, end, len(buf), ErrUnexpectedEOF)
		}
	}
	cell := func(row int) []byte {
		off := start + row*stride + col.Offset
		return buf[off : off+col.Width]
	}

	switch col.Type {
	case TypeLogical:
		out := make(LogicalColumn, 0, nrows*col.Repeat)
		for row := range nrows {
			for _, b := range cell(row) {
				out = append(out, b == 'T')
			}
		}
		return out, nil
	case TypeByte:
		return readNumericCells[uint8](cell, nrows, col.Repeat), nil
	case TypeShort:
		return readNumericCells[int16](cell, nrows, col.Repeat), nil
	case TypeInt:
		return readNumericCells[int32](cell, nrows, col.Repeat), nil
	case TypeLong:
		return readNumericCells[int64](cell, nrows, col.Repeat), nil
	case TypeFloat:
		return readNumericCells[float32](cell, nrows, col.Repeat), nil
	case TypeDouble:
		return readNumericCells[float64](cell, nrows, col.Repeat), nil
	case TypeComplex64:
		out := make(Complex64Column, 0, nrows*col.Repeat)
		for row := range nrows {
			c := cell(row)
			for i := 0; i+8 <= len(c); i += 8 {
				out = append(out, complex(binary.Float32(c[i:]), binary.Float32(c[i+4:])))
			}
		}
		return out, nil
	case TypeComplex128:
		out := make(Complex128Column, 0, nrows*col.Repeat)
		for row := range nrows {
			c := cell(row)
			for i := 0; i+16 <= len(c); i += 16 {
				out = append(out, complex(binary.Float64(c[i:]), binary.Float64(c[i+8:])))
			}
		}
		return out, nil
	case TypeASCII:
		out := make(StringColumn, 0, nrows)
		for row := range nrows {
			c := cell(row)
			if !utf8.Valid(c) {
				return nil, fmt.Errorf("%w: column %q row %d is not valid text", ErrInvalidValue, col.Name, row)
			}
			out = append(out, strings.TrimRight(string(c), " "))
		}
		return out, nil
	case TypeBit:
		out := make(BitColumn, 0, nrows)
		for row := range nrows {
			out = append(out, append([]byte(nil), cell(row)...))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: column type %s", ErrInvalidValue, col.Type)
}

func readNumericCells[T Scalar](cell func(int) []byte, nrows, repeat int) Column[T] {
	out := make(Column[T], nrows*repeat)
	for row := range nrows {
		dtype.DecodeInto(out[row*repeat:(row+1)*repeat], cell(row))
	}
	return out
}

// SerializeBinaryCell encodes the cell of data at row for col. The
// ColumnData variant must match the column type.
func SerializeBinaryCell(col BinaryColumn, data ColumnData, row int) ([]byte, error) {
	if row < 0 {
		return nil, fmt.Errorf("%w: row %d", ErrInvalidValue, row)
	}
	lo, hi := row*col.Repeat, (row+1)*col.Repeat

	switch col.Type {
	case TypeLogical:
		v, ok := data.(LogicalColumn)
		if !ok {
			return nil, cellMismatch(col, data)
		}
		if hi > len(v) {
			return nil, cellMissing(col, row)
		}
		out := make([]byte, col.Repeat)
		for i, b := range v[lo:hi] {
			out[i] = 'F'
			if b {
				out[i] = 'T'
			}
		}
		return out, nil
	case TypeByte:
		return encodeNumericCell[uint8](col, data, row)
	case TypeShort:
		return encodeNumericCell[int16](col, data, row)
	case TypeInt:
		return encodeNumericCell[int32](col, data, row)
	case TypeLong:
		return encodeNumericCell[int64](col, data, row)
	case TypeFloat:
		return encodeNumericCell[float32](col, data, row)
	case TypeDouble:
		return encodeNumericCell[float64](col, data, row)
	case TypeComplex64:
		v, ok := data.(Complex64Column)
		if !ok {
			return nil, cellMismatch(col, data)
		}
		if hi > len(v) {
			return nil, cellMissing(col, row)
		}
		w := binary.NewWriter(col.Width)
		for _, c := range v[lo:hi] {
			w.WriteFloat32(real(c))
			w.WriteFloat32(imag(c))
		}
		return w.Bytes(), nil
	case TypeComplex128:
		v, ok := data.(Complex128Column)
		if !ok {
			return nil, cellMismatch(col, data)
		}
		if hi > len(v) {
			return nil, cellMissing(col, row)
		}
		w := binary.NewWriter(col.Width)
		for _, c := range v[lo:hi] {
			w.WriteFloat64(real(c))
			w.WriteFloat64(imag(c))
		}
		return w.Bytes(), nil
	case TypeASCII:
		v, ok := data.(StringColumn)
		if !ok {
			return nil, cellMismatch(col, data)
		}
		if row >= len(v) {
			return nil, cellMissing(col, row)
		}
		out := []byte(strings.Repeat(" ", col.Repeat))
		copy(out, v[row])
		return out, nil
	case TypeBit:
		v, ok := data.(BitColumn)
		if !ok {
			return nil, cellMismatch(col, data)
		}
		if row >= len(v) {
			return nil, cellMissing(col, row)
		}
		out := make([]byte, col.Width)
		copy(out, v[row])
		return out, nil
	}
	return nil, cellMismatch(col, data)
}

func encodeNumericCell[T Scalar](col BinaryColumn, data ColumnData, row int) ([]byte, error) {
	v, ok := data.(Column[T])
	if !ok {
		return nil, cellMismatch(col, data)
	}
	lo, hi := row*col.Repeat, (row+1)*col.Repeat
	if hi > len(v) {
		return nil, cellMissing(col, row)
	}
	return dtype.Encode([]T(v[lo:hi])), nil
}

func cellMismatch(col BinaryColumn, data ColumnData) error {
	return fmt.Errorf("%w: %T cannot fill %s column %q", ErrInvalidValue, data, col.Type, col.Name)
}

func cellMissing(col BinaryColumn, row int) error {
	return fmt.Errorf("%w: column %q has no data for row %d", ErrInvalidValue, col.Name, row)
}

// BuildBinaryTableCards returns the mandatory BINTABLE cards for columns
// followed by TFORMn and, for named columns, TTYPEn.
func BuildBinaryTableCards(columns []BinaryColumn, nrows, pcount int) []Card {
	naxis1 := 0
	for _, c := range columns {
		naxis1 += c.Width
	}
	cards := make([]Card, 0, 8+2*len(columns))
	cards = append(cards,
		NewCard("XTENSION", String("BINTABLE"), ""),
		NewCard("BITPIX", Integer(8), ""),
		NewCard("NAXIS", Integer(2), ""),
		NewCard("NAXIS1", Integer(naxis1), ""),
		NewCard("NAXIS2", Integer(nrows), ""),
		NewCard("PCOUNT", Integer(pcount), ""),
		NewCard("GCOUNT", Integer(1), ""),
		NewCard("TFIELDS", Integer(len(columns)), ""),
	)
	for i, c := range columns {
		cards = append(cards, NewCard(fmt.Sprintf("TFORM%d", i+1), String(c.TForm()), ""))
		if c.Name != "" {
			cards = append(cards, NewCard(fmt.Sprintf("TTYPE%d", i+1), String(c.Name), ""))
		}
	}
	return cards
}

// SerializeBinaryTable encodes nrows rows, one ColumnData per column, into
// block-padded row-major data. Column offsets are recomputed from widths.
func SerializeBinaryTable(columns []BinaryColumn, data []ColumnData, nrows int) ([]byte, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("%w: %d columns but %d data sets", ErrInvalidValue, len(columns), len(data))
	}
	if nrows < 0 {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidValue, nrows)
	}
	naxis1 := 0
	for _, c := range columns {
		naxis1 += c.Width
	}

	out := make([]byte, block.PaddedLen(naxis1*nrows))
	for row := range nrows {
		off := row * naxis1
		for i, c := range columns {
			cell, err := SerializeBinaryCell(c, data[i], row)
			if err != nil {
				return nil, err
			}
			copy(out[off:off+c.Width], cell)
			off += c.Width
		}
	}
	return out, nil
}

// SerializeBinaryTableHDU builds a complete BINTABLE HDU with an empty heap.
func SerializeBinaryTableHDU(columns []BinaryColumn, data []ColumnData, nrows int, opts ...HDUOption) ([]byte, error) {
	body, err := SerializeBinaryTable(columns, data, nrows)
	if err != nil {
		return nil, err
	}
	width := 0
	for _, c := range columns {
		width += c.Width
	}
	cards := BuildBinaryTableCards(columns, nrows, 0)
	return assembleHDU(cards, body[:width*nrows], newHDUOptions(opts))
}
