package fits

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// tableFile wraps a serialized extension HDU behind an empty primary and
// returns the buffer and the extension.
func tableFile(t *testing.T, ext []byte) ([]byte, *HDU) {
	t.Helper()
	buf := concat(emptyPrimary(t), ext)
	return buf, mustParse(t, buf).Get(1)
}

func TestBinaryTableByName(t *testing.T) {
	cols := []BinaryColumn{
		NewBinaryColumn("ID", 1, TypeInt),
		NewBinaryColumn("VAL", 1, TypeDouble),
	}
	data := []ColumnData{
		Column[int32]{10, 20, 30},
		Column[float64]{1.5, 2.5, 3.5},
	}
	buf, hdu := tableFile(t, mustBuild(t, SerializeBinaryTableHDU(cols, data, 3)))

	id, err := ReadBinaryColumnByName(buf, hdu, "ID")
	if err != nil {
		t.Fatalf("ReadBinaryColumnByName(ID) failed: %v", err)
	}
	equalSlices(t, "ID", id.(Column[int32]), Column[int32]{10, 20, 30})

	val, err := ReadBinaryColumnByName(buf, hdu, "VAL")
	if err != nil {
		t.Fatalf("ReadBinaryColumnByName(VAL) failed: %v", err)
	}
	equalSlices(t, "VAL", val.(Column[float64]), Column[float64]{1.5, 2.5, 3.5})

	_, err = ReadBinaryColumnByName(buf, hdu, "NOPE")
	if !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "column not found") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestBinaryTableAllTypes(t *testing.T) {
	cols := []BinaryColumn{
		NewBinaryColumn("FLAG", 2, TypeLogical),
		NewBinaryColumn("BITS", 12, TypeBit),
		NewBinaryColumn("B", 1, TypeByte),
		NewBinaryColumn("I", 1, TypeShort),
		NewBinaryColumn("J", 1, TypeInt),
		NewBinaryColumn("K", 1, TypeLong),
		NewBinaryColumn("E", 3, TypeFloat),
		NewBinaryColumn("D", 1, TypeDouble),
		NewBinaryColumn("C", 1, TypeComplex64),
		NewBinaryColumn("M", 1, TypeComplex128),
		NewBinaryColumn("NAME", 6, TypeASCII),
	}
	data := []ColumnData{
		LogicalColumn{true, false, false, true},
		BitColumn{{0xA5, 0xF0}, {0x01, 0x80}},
		Column[uint8]{0, 255},
		Column[int16]{math.MinInt16, math.MaxInt16},
		Column[int32]{math.MinInt32, -1},
		Column[int64]{math.MaxInt64, 0},
		Column[float32]{-1.5, 0, 2.25, float32(math.Inf(1)), -0.125, 1e30},
		Column[float64]{math.SmallestNonzeroFloat64, -math.MaxFloat64},
		Complex64Column{complex(1, -2), complex(-0.5, 0.25)},
		Complex128Column{complex(3, 4), complex(0, -1e300)},
		StringColumn{"alpha", "b"},
	}
	buf, hdu := tableFile(t, mustBuild(t, SerializeBinaryTableHDU(cols, data, 2, WithExtName("ALL"))))

	info := hdu.Info.(BinaryTableInfo)
	width := 0
	for _, c := range cols {
		width += c.Width
	}
	if info.Naxis1 != width || info.Naxis2 != 2 || info.TFields != len(cols) {
		t.Fatalf("unexpected table info %+v", info)
	}

	for i := range cols {
		got, err := ReadBinaryColumn(buf, hdu, i)
		if err != nil {
			t.Fatalf("ReadBinaryColumn(%d) failed: %v", i, err)
		}
		switch want := data[i].(type) {
		case LogicalColumn:
			equalSlices(t, cols[i].Name, got.(LogicalColumn), want)
		case BitColumn:
			g := got.(BitColumn)
			if len(g) != len(want) {
				t.Fatalf("BITS: got %d rows", len(g))
			}
			for r := range want {
				equalSlices(t, "BITS row", g[r], want[r])
			}
		case Column[uint8]:
			equalSlices(t, cols[i].Name, got.(Column[uint8]), want)
		case Column[int16]:
			equalSlices(t, cols[i].Name, got.(Column[int16]), want)
		case Column[int32]:
			equalSlices(t, cols[i].Name, got.(Column[int32]), want)
		case Column[int64]:
			equalSlices(t, cols[i].Name, got.(Column[int64]), want)
		case Column[float32]:
			equalSlices(t, cols[i].Name, got.(Column[float32]), want)
		case Column[float64]:
			equalSlices(t, cols[i].Name, got.(Column[float64]), want)
		case Complex64Column:
			equalSlices(t, cols[i].Name, got.(Complex64Column), want)
		case Complex128Column:
			equalSlices(t, cols[i].Name, got.(Complex128Column), want)
		case StringColumn:
			equalSlices(t, cols[i].Name, got.(StringColumn), want)
		}
	}
}

func TestReadBinaryRow(t *testing.T) {
	cols := []BinaryColumn{
		NewBinaryColumn("X", 2, TypeShort),
		NewBinaryColumn("S", 4, TypeASCII),
	}
	data := []ColumnData{
		Column[int16]{1, 2, 3, 4, 5, 6},
		StringColumn{"one", "two", "thre"},
	}
	buf, hdu := tableFile(t, mustBuild(t, SerializeBinaryTableHDU(cols, data, 3)))

	row, err := ReadBinaryRow(buf, hdu, 1)
	if err != nil {
		t.Fatalf("ReadBinaryRow failed: %v", err)
	}
	equalSlices(t, "X", row[0].(Column[int16]), Column[int16]{3, 4})
	equalSlices(t, "S", row[1].(StringColumn), StringColumn{"two"})

	if _, err := ReadBinaryRow(buf, hdu, 3); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for row 3, got %v", err)
	}
	if _, err := ReadBinaryColumn(buf, hdu, 2); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for column 2, got %v", err)
	}
}

func TestParseTFormBinary(t *testing.T) {
	tests := []struct {
		in     string
		repeat int
		typ    BinaryColumnType
	}{
		{"J", 1, TypeInt},
		{"1J", 1, TypeInt},
		{"20A", 20, TypeASCII},
		{"1024X", 1024, TypeBit},
		{"0D", 0, TypeDouble},
		{" 3E ", 3, TypeFloat},
		{"1PB(200)", 1, TypeVarP},
		{"QJ", 1, TypeVarQ},
		{"2M", 2, TypeComplex128},
	}
	for _, tt := range tests {
		repeat, typ, err := ParseTFormBinary(tt.in)
		if err != nil {
			t.Errorf("ParseTFormBinary(%q) failed: %v", tt.in, err)
			continue
		}
		if repeat != tt.repeat || typ != tt.typ {
			t.Errorf("ParseTFormBinary(%q) = %d%s, expected %d%s", tt.in, repeat, typ, tt.repeat, tt.typ)
		}
	}

	for _, bad := range []string{"", "Z", "xJ", "-1J", "PZ"} {
		if _, _, err := ParseTFormBinary(bad); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ParseTFormBinary(%q): expected ErrInvalidValue, got %v", bad, err)
		}
	}
}

func TestColumnByteWidth(t *testing.T) {
	for _, repeat := range []int{1, 7, 8, 9, 1024} {
		want := (repeat + 7) / 8
		if got := ColumnByteWidth(repeat, TypeBit); got != want {
			t.Errorf("ColumnByteWidth(%d, X) = %d, expected %d", repeat, got, want)
		}
	}
	widths := map[BinaryColumnType]int{
		TypeLogical: 1, TypeByte: 1, TypeShort: 2, TypeInt: 4, TypeLong: 8,
		TypeFloat: 4, TypeDouble: 8, TypeComplex64: 8, TypeComplex128: 16,
		TypeASCII: 1, TypeVarP: 8, TypeVarQ: 16,
	}
	for typ, w := range widths {
		if got := ColumnByteWidth(3, typ); got != 3*w {
			t.Errorf("ColumnByteWidth(3, %s) = %d, expected %d", typ, got, 3*w)
		}
	}
}

func TestParseBinaryColumns(t *testing.T) {
	cards := Cards{
		NewCard("TFORM1", String("2I"), ""),
		NewCard("TTYPE1", String("PAIR"), ""),
		NewCard("TFORM2", String("1PE(5)"), ""),
		NewCard("TFORM3", String("9X"), ""),
	}
	cols, err := ParseBinaryColumns(cards, 3)
	if err != nil {
		t.Fatalf("ParseBinaryColumns failed: %v", err)
	}
	want := []BinaryColumn{
		{Name: "PAIR", Repeat: 2, Type: TypeShort, Width: 4, Offset: 0},
		{Name: "", Repeat: 1, Type: TypeVarP, Width: 8, Offset: 4, ElemType: TypeFloat},
		{Name: "", Repeat: 9, Type: TypeBit, Width: 2, Offset: 12},
	}
	equalSlices(t, "columns", cols, want)

	_, err = ParseBinaryColumns(cards, 4)
	if !errors.Is(err, ErrMissingKeyword) || !strings.Contains(err.Error(), "TFORM4") {
		t.Errorf("expected missing TFORM4, got %v", err)
	}
}

func TestVarColumnTForm(t *testing.T) {
	tests := []struct {
		col  BinaryColumn
		want string
	}{
		{NewVarColumn("DATA", TypeVarP, TypeByte), "1PB"},
		{NewVarColumn("DATA", TypeVarQ, TypeDouble), "1QD"},
		{NewBinaryColumn("DATA", 1, TypeVarP), "1PB"},
		{NewBinaryColumn("FLUX", 3, TypeFloat), "3E"},
	}
	for _, tt := range tests {
		if got := tt.col.TForm(); got != tt.want {
			t.Errorf("TForm() = %q, expected %q", got, tt.want)
		}
	}

	cols := []BinaryColumn{NewVarColumn("V", TypeVarQ, TypeShort), NewBinaryColumn("N", 1, TypeInt)}
	parsed, err := ParseBinaryColumns(BuildBinaryTableCards(cols, 2, 0), 2)
	if err != nil {
		t.Fatalf("ParseBinaryColumns failed: %v", err)
	}
	cols[1].Offset = cols[0].Width
	equalSlices(t, "columns", parsed, cols)
}

func TestReadVariableLengthColumn(t *testing.T) {
	cards := BuildBinaryTableCards([]BinaryColumn{NewBinaryColumn("V", 1, TypeVarP)}, 1, 0)
	ext := concat(mustHeader(t, cards), make([]byte, BlockSize))
	buf, hdu := tableFile(t, ext)

	if _, err := ReadBinaryColumn(buf, hdu, 0); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for P column, got %v", err)
	}
}

func TestReadBinaryColumnOnImage(t *testing.T) {
	buf := mustBuild(t, BuildImageHDU(8, []int{1}, Pixels[uint8]{1}))
	if _, err := ReadBinaryColumn(buf, mustParse(t, buf).Primary(), 0); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestSerializeBinaryTableErrors(t *testing.T) {
	cols := []BinaryColumn{NewBinaryColumn("J", 1, TypeInt)}

	if _, err := SerializeBinaryTable(cols, []ColumnData{Column[int16]{1}}, 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("type mismatch: expected ErrInvalidValue, got %v", err)
	}
	if _, err := SerializeBinaryTable(cols, []ColumnData{Column[int32]{1}}, 2); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("short data: expected ErrInvalidValue, got %v", err)
	}
	if _, err := SerializeBinaryTable(cols, nil, 1); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("column count: expected ErrInvalidValue, got %v", err)
	}

	body, err := SerializeBinaryTable(cols, []ColumnData{Column[int32]{-2}}, 1)
	if err != nil {
		t.Fatalf("SerializeBinaryTable failed: %v", err)
	}
	if len(body) != BlockSize {
		t.Errorf("expected one padded block, got %d bytes", len(body))
	}
	equalSlices(t, "cell", body[:4], []byte{0xFF, 0xFF, 0xFF, 0xFE})
}

func TestSerializeBinaryCellPadsStrings(t *testing.T) {
	cell, err := SerializeBinaryCell(NewBinaryColumn("S", 5, TypeASCII), StringColumn{"ab"}, 0)
	if err != nil {
		t.Fatalf("SerializeBinaryCell failed: %v", err)
	}
	if string(cell) != "ab   " {
		t.Errorf("expected space padding, got %q", cell)
	}
	cell, err = SerializeBinaryCell(NewBinaryColumn("L", 2, TypeLogical), LogicalColumn{false, true}, 0)
	if err != nil {
		t.Fatalf("SerializeBinaryCell failed: %v", err)
	}
	if string(cell) != "FT" {
		t.Errorf("expected FT, got %q", cell)
	}
}

func TestColumnWiderThanRow(t *testing.T) {
	cards := []Card{
		NewCard("XTENSION", String("BINTABLE"), ""),
		NewCard("BITPIX", Integer(8), ""),
		NewCard("NAXIS", Integer(2), ""),
		NewCard("NAXIS1", Integer(2), ""),
		NewCard("NAXIS2", Integer(1), ""),
		NewCard("PCOUNT", Integer(0), ""),
		NewCard("GCOUNT", Integer(1), ""),
		NewCard("TFIELDS", Integer(1), ""),
		NewCard("TFORM1", String("1J"), ""),
	}
	buf, hdu := tableFile(t, concat(mustHeader(t, cards), make([]byte, BlockSize)))
	if _, err := ReadBinaryColumn(buf, hdu, 0); !errors.Is(err, ErrInvalidHeader) {
		t.Errorf("expected ErrInvalidHeader, got %v", err)
	}
}
