package fits

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/robert-malhotra/go-fits/internal/block"
)

// ASCIIFieldType is the TFORM type code of an ASCII-table column.
type ASCIIFieldType byte

const (
	FieldCharacter ASCIIFieldType = 'A'
	FieldInteger   ASCIIFieldType = 'I'
	FieldFixed     ASCIIFieldType = 'F'
	FieldExp       ASCIIFieldType = 'E'
	FieldDoubleExp ASCIIFieldType = 'D'
)

// ASCIIFormat is a parsed ASCII TFORM: Aw, Iw, Fw.d, Ew.d or Dw.d.
type ASCIIFormat struct {
	Type     ASCIIFieldType
	Width    int
	Decimals int // F, E and D only
}

func (f ASCIIFormat) String() string {
	switch f.Type {
	case FieldFixed, FieldExp, FieldDoubleExp:
		return fmt.Sprintf("%c%d.%d", f.Type, f.Width, f.Decimals)
	}
	return fmt.Sprintf("%c%d", f.Type, f.Width)
}

// ParseTFormASCII parses an ASCII-table TFORM value such as "A20", "I10",
// "F12.4", "E15.7" or "D25.17".
func ParseTFormASCII(s string) (ASCIIFormat, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ASCIIFormat{}, fmt.Errorf("%w: empty TFORM", ErrInvalidValue)
	}
	f := ASCIIFormat{Type: ASCIIFieldType(s[0])}
	rest := s[1:]

	var err error
	switch f.Type {
	case FieldCharacter, FieldInteger:
		f.Width, err = strconv.Atoi(rest)
	case FieldFixed, FieldExp, FieldDoubleExp:
		w, d, ok := strings.Cut(rest, ".")
		if !ok {
			return ASCIIFormat{}, fmt.Errorf("%w: TFORM %q needs w.d", ErrInvalidValue, s)
		}
		if f.Width, err = strconv.Atoi(w); err == nil {
			f.Decimals, err = strconv.Atoi(d)
		}
	default:
		return ASCIIFormat{}, fmt.Errorf("%w: TFORM %q has unknown type code", ErrInvalidValue, s)
	}
	if err != nil || f.Width < 0 || f.Decimals < 0 {
		return ASCIIFormat{}, fmt.Errorf("%w: TFORM %q", ErrInvalidValue, s)
	}
	return f, nil
}

// ASCIIColumn describes one ASCII-table column.
type ASCIIColumn struct {
	Name   string // TTYPEn, "" when absent
	Format ASCIIFormat
	Start  int // 0-based byte position in the row (TBCOLn - 1)
}

// ParseASCIIColumns reads the TFORMn, TBCOLn and TTYPEn cards of an ASCII
// table with tfields columns.
func ParseASCIIColumns(cards Cards, tfields int) ([]ASCIIColumn, error) {
	cols := make([]ASCIIColumn, 0, tfields)
	for i := 1; i <= tfields; i++ {
		kw := fmt.Sprintf("TFORM%d", i)
		tform, ok := cards.Text(kw)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingKeyword, kw)
		}
		f, err := ParseTFormASCII(tform)
		if err != nil {
			return nil, err
		}

		kw = fmt.Sprintf("TBCOL%d", i)
		tbcol, err := cards.RequireInt(kw)
		if err != nil {
			return nil, err
		}
		if tbcol < 1 {
			return nil, fmt.Errorf("%w: %s = %d", ErrInvalidValue, kw, tbcol)
		}

		name, _ := cards.Text(fmt.Sprintf("TTYPE%d", i))
		cols = append(cols, ASCIIColumn{Name: name, Format: f, Start: int(tbcol) - 1})
	}
	return cols, nil
}

type asciiTable struct {
	naxis1  int
	naxis2  int
	columns []ASCIIColumn
}

func asciiTableOf(buf []byte, hdu *HDU) (*asciiTable, error) {
	info, ok := hdu.Info.(ASCIITableInfo)
	if !ok {
		return nil, fmt.Errorf("%w: %s HDU is not an ASCII table", ErrInvalidHeader, hdu.Info.Kind())
	}
	cols, err := ParseASCIIColumns(hdu.Cards, info.TFields)
	if err != nil {
		return nil, err
	}
	if end := hdu.DataStart + info.Naxis1*info.Naxis2; end > len(buf) {
		return nil, fmt.Errorf("fits: table rows end at %d past %d-byte buffer: %w", end, len(buf), ErrUnexpectedEOF)
	}
	return &asciiTable{naxis1: info.Naxis1, naxis2: info.Naxis2, columns: cols}, nil
}

func (t *asciiTable) names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// ReadASCIIColumn decodes column index (0-based) of an ASCII table for
// every row. A columns yield StringColumn, I columns Column[int64] and
// F, E and D columns Column[float64].
func ReadASCIIColumn(buf []byte, hdu *HDU, index int) (ColumnData, error) {
	t, err := asciiTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.columns) {
		return nil, fmt.Errorf("%w: column index %d of %d", ErrInvalidValue, index, len(t.columns))
	}
	return readASCIIFields(buf, hdu.DataStart, t.naxis1, t.naxis2, t.columns[index])
}

// ReadASCIIColumnByName decodes the first column whose TTYPE equals name.
func ReadASCIIColumnByName(buf []byte, hdu *HDU, name string) (ColumnData, error) {
	t, err := asciiTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	i, err := findColumn(t.names(), name)
	if err != nil {
		return nil, err
	}
	return readASCIIFields(buf, hdu.DataStart, t.naxis1, t.naxis2, t.columns[i])
}

// ReadASCIIRow decodes every column of one row.
func ReadASCIIRow(buf []byte, hdu *HDU, row int) ([]ColumnData, error) {
	t, err := asciiTableOf(buf, hdu)
	if err != nil {
		return nil, err
	}
	if row < 0 || row >= t.naxis2 {
		return nil, fmt.Errorf("%w: row %d of %d", ErrInvalidValue, row, t.naxis2)
	}
	out := make([]ColumnData, len(t.columns))
	for i, c := range t.columns {
		if out[i], err = readASCIIFields(buf, hdu.DataStart+row*t.naxis1, t.naxis1, 1, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readASCIIFields(buf []byte, start, stride, nrows int, col ASCIIColumn) (ColumnData, error) {
	field := func(row int) (string, error) {
		off := start + row*stride + col.Start
		end := off + col.Format.Width
		if end > len(buf) {
			return "", fmt.Errorf("fits: field of column %q row %d ends at %d past %d-byte buffer: %w",
				col.Name, row, end, len(buf), ErrUnexpectedEOF)
		}
		raw := buf[off:end]
		if !utf8.Valid(raw) {
			return "", fmt.Errorf("%w: column %q row %d is not valid text", ErrInvalidValue, col.Name, row)
		}
		return string(raw), nil
	}

	switch col.Format.Type {
	case FieldCharacter:
		out := make(StringColumn, 0, nrows)
		for row := range nrows {
			s, err := field(row)
			if err != nil {
				return nil, err
			}
			out = append(out, strings.TrimRight(s, " "))
		}
		return out, nil
	case FieldInteger:
		out := make(Column[int64], 0, nrows)
		for row := range nrows {
			s, err := field(row)
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %q is not an integer", ErrInvalidValue, col.Name, row, s)
			}
			out = append(out, n)
		}
		return out, nil
	}

	out := make(Column[float64], 0, nrows)
	for row := range nrows {
		s, err := field(row)
		if err != nil {
			return nil, err
		}
		f, err := parseASCIIFloat(s)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %q is not a number", ErrInvalidValue, col.Name, row, s)
		}
		out = append(out, f)
	}
	return out, nil
}

// parseASCIIFloat accepts D as an exponent marker.
func parseASCIIFloat(s string) (float64, error) {
	s = strings.NewReplacer("D", "E", "d", "e").Replace(strings.TrimSpace(s))
	return strconv.ParseFloat(s, 64)
}

// FormatASCIIField renders value index of data in format f. Character
// fields are left-justified; numbers are right-justified and, when too
// long, keep their rightmost Width characters.
func FormatASCIIField(data ColumnData, f ASCIIFormat, index int) (string, error) {
	mismatch := func() error {
		return fmt.Errorf("%w: %T cannot fill %s field", ErrInvalidValue, data, f)
	}
	missing := func() error {
		return fmt.Errorf("%w: no value at index %d", ErrInvalidValue, index)
	}

	switch f.Type {
	case FieldCharacter:
		v, ok := data.(StringColumn)
		if !ok {
			return "", mismatch()
		}
		if index < 0 || index >= len(v) {
			return "", missing()
		}
		s := v[index]
		if len(s) >= f.Width {
			return s[:f.Width], nil
		}
		return s + strings.Repeat(" ", f.Width-len(s)), nil

	case FieldInteger:
		v, ok := data.(Column[int64])
		if !ok {
			return "", mismatch()
		}
		if index < 0 || index >= len(v) {
			return "", missing()
		}
		return rightJustify(strconv.FormatInt(v[index], 10), f.Width), nil
	}

	v, ok := data.(Column[float64])
	if !ok {
		return "", mismatch()
	}
	if index < 0 || index >= len(v) {
		return "", missing()
	}
	var s string
	switch f.Type {
	case FieldFixed:
		s = strconv.FormatFloat(v[index], 'f', f.Decimals, 64)
	case FieldExp:
		s = strconv.FormatFloat(v[index], 'E', f.Decimals, 64)
	case FieldDoubleExp:
		s = strings.Replace(strconv.FormatFloat(v[index], 'E', f.Decimals, 64), "E", "D", 1)
	default:
		return "", mismatch()
	}
	return rightJustify(s, f.Width), nil
}

func rightJustify(s string, width int) string {
	if len(s) >= width {
		return s[len(s)-width:]
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func asciiRowWidth(columns []ASCIIColumn) int {
	w := 0
	for _, c := range columns {
		w = max(w, c.Start+c.Format.Width)
	}
	return w
}

// BuildASCIITableCards returns the mandatory TABLE cards followed by
// TFORMn, TBCOLn and, for named columns, TTYPEn. NAXIS1 is the furthest
// column end.
func BuildASCIITableCards(columns []ASCIIColumn, nrows int) []Card {
	cards := make([]Card, 0, 8+3*len(columns))
	cards = append(cards,
		NewCard("XTENSION", String("TABLE"), ""),
		NewCard("BITPIX", Integer(8), ""),
		NewCard("NAXIS", Integer(2), ""),
		NewCard("NAXIS1", Integer(asciiRowWidth(columns)), ""),
		NewCard("NAXIS2", Integer(nrows), ""),
		NewCard("PCOUNT", Integer(0), ""),
		NewCard("GCOUNT", Integer(1), ""),
		NewCard("TFIELDS", Integer(len(columns)), ""),
	)
	for i, c := range columns {
		n := i + 1
		cards = append(cards,
			NewCard(fmt.Sprintf("TFORM%d", n), String(c.Format.String()), ""),
			NewCard(fmt.Sprintf("TBCOL%d", n), Integer(c.Start+1), ""),
		)
		if c.Name != "" {
			cards = append(cards, NewCard(fmt.Sprintf("TTYPE%d", n), String(c.Name), ""))
		}
	}
	return cards
}

// SerializeASCIITable renders rows of naxis1 characters, blank-filled,
// and zero-pads the result to a block boundary. The row count is the
// length of the first column's data.
func SerializeASCIITable(columns []ASCIIColumn, data []ColumnData, naxis1 int) ([]byte, error) {
	if len(columns) != len(data) {
		return nil, fmt.Errorf("%w: %d columns but %d data sets", ErrInvalidValue, len(columns), len(data))
	}
	nrows := 0
	if len(data) > 0 {
		nrows = data[0].Len()
	}

	raw := naxis1 * nrows
	out := make([]byte, block.PaddedLen(raw))
	for i := range raw {
		out[i] = ' '
	}
	for row := range nrows {
		base := row * naxis1
		for i, c := range columns {
			s, err := FormatASCIIField(data[i], c.Format, row)
			if err != nil {
				return nil, err
			}
			at := base + c.Start
			if c.Start < 0 || at+len(s) > raw || c.Start+len(s) > naxis1 {
				return nil, fmt.Errorf("%w: column %d does not fit a %d-character row", ErrInvalidValue, i+1, naxis1)
			}
			copy(out[at:], s)
		}
	}
	return out, nil
}

// SerializeASCIITableHDU builds a complete TABLE HDU.
func SerializeASCIITableHDU(columns []ASCIIColumn, data []ColumnData, opts ...HDUOption) ([]byte, error) {
	naxis1 := asciiRowWidth(columns)
	body, err := SerializeASCIITable(columns, data, naxis1)
	if err != nil {
		return nil, err
	}
	nrows := 0
	if len(data) > 0 {
		nrows = data[0].Len()
	}
	cards := BuildASCIITableCards(columns, nrows)
	return assembleHDU(cards, body[:naxis1*nrows], newHDUOptions(opts))
}
