package fits

import "fmt"

// ColumnData is the decoded content of one table column. Values of
// multi-element cells are flattened row by row. The concrete type is one
// of Column[T], LogicalColumn, StringColumn, BitColumn, Complex64Column or
// Complex128Column.
type ColumnData interface {
	// Len returns the number of stored values.
	Len() int
	isColumnData()
}

// Column holds numeric column values: B, I, J, K, E and D binary columns,
// and I, F, E and D ASCII columns.
type Column[T Scalar] []T

// LogicalColumn holds L column values.
type LogicalColumn []bool

// StringColumn holds one string per row, trailing spaces removed.
type StringColumn []string

// BitColumn holds the raw packed bytes of an X column, one slice per row.
type BitColumn [][]byte

// Complex64Column holds C column values.
type Complex64Column []complex64

// Complex128Column holds M column values.
type Complex128Column []complex128

func (c Column[T]) Len() int        { return len(c) }
func (c LogicalColumn) Len() int    { return len(c) }
func (c StringColumn) Len() int     { return len(c) }
func (c BitColumn) Len() int        { return len(c) }
func (c Complex64Column) Len() int  { return len(c) }
func (c Complex128Column) Len() int { return len(c) }

func (Column[T]) isColumnData()       {}
func (LogicalColumn) isColumnData()    {}
func (StringColumn) isColumnData()     {}
func (BitColumn) isColumnData()        {}
func (Complex64Column) isColumnData()  {}
func (Complex128Column) isColumnData() {}

// findColumn returns the index of the first name equal to name.
func findColumn(names []string, name string) (int, error) {
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}
