package table

import (
	"errors"
	"fmt"
	"strings"
)

// Limits inherited by every table.
const (
	// MaxColumns is the maximum number of columns a table may hold
	MaxColumns = 50

	// MaxColumnNameLength is the maximum length of a column name
	MaxColumnNameLength = 50

	// InitialCapacity is the number of row slots allocated for a new table
	InitialCapacity = 100
)

var (
	// ErrTooManyColumns is returned when a schema exceeds MaxColumns
	ErrTooManyColumns = errors.New("too many columns")

	// ErrColumnNameTooLong is returned when a column name exceeds MaxColumnNameLength
	ErrColumnNameTooLong = errors.New("column name too long")

	// ErrArityMismatch is returned when a row does not have one cell per column
	ErrArityMismatch = errors.New("row arity does not match column count")

	// ErrColumnOutOfRange is returned for an invalid column index
	ErrColumnOutOfRange = errors.New("column index out of range")

	// ErrTypeAlreadySet is returned when a column type is assigned twice
	ErrTypeAlreadySet = errors.New("column type already assigned")
)

// Table is an in-memory relation: typed columns and an ordered, growable
// collection of rows.
//
// Rows are stored by value. AppendRow copies the given cells, and every
// accessor that returns a row returns a copy, so no two tables ever share row
// storage.
type Table struct {
	Name     string
	columns  []Column
	rows     []Row
	capacity int
}

// New creates an empty table with the given column schema.
//
// Column types are kept as given; loaders usually pass TypeUnknown and assign
// the inferred type later with SetColumnType.
func New(name string, columns []Column) (*Table, error) {
	if len(columns) > MaxColumns {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManyColumns, len(columns), MaxColumns)
	}
	for _, col := range columns {
		if len(col.Name) > MaxColumnNameLength {
			return nil, fmt.Errorf("%w: %q (max %d)", ErrColumnNameTooLong, col.Name, MaxColumnNameLength)
		}
	}

	cols := make([]Column, len(columns))
	copy(cols, columns)

	return &Table{
		Name:     name,
		columns:  cols,
		rows:     make([]Row, 0, InitialCapacity),
		capacity: InitialCapacity,
	}, nil
}

// NewWithNames creates an empty table whose columns all have TypeUnknown.
func NewWithNames(name string, names ...string) (*Table, error) {
	columns := make([]Column, len(names))
	for i, n := range names {
		columns[i] = Column{Name: n, Type: TypeUnknown}
	}
	return New(name, columns)
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Capacity returns the number of row slots currently allocated.
func (t *Table) Capacity() int {
	return t.capacity
}

// Column returns the column at index i.
func (t *Table) Column(i int) Column {
	return t.columns[i]
}

// Columns returns a copy of the column schema.
func (t *Table) Columns() []Column {
	cols := make([]Column, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// ColumnNames returns the column names in schema order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// ColumnIndex returns the index of the named column using a case-insensitive
// comparison, or -1 when no column matches.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, col := range t.columns {
		if strings.EqualFold(col.Name, name) {
			return i
		}
	}
	return -1
}

// SetColumnType assigns the type of column i. A type can only be assigned
// while the column is still TypeUnknown.
func (t *Table) SetColumnType(i int, typ DataType) error {
	if i < 0 || i >= len(t.columns) {
		return fmt.Errorf("%w: %d", ErrColumnOutOfRange, i)
	}
	if t.columns[i].Type != TypeUnknown {
		return fmt.Errorf("%w: %s is %s", ErrTypeAlreadySet, t.columns[i].Name, t.columns[i].Type)
	}
	t.columns[i].Type = typ
	return nil
}

// AppendRow copies cells into a new row at the end of the table.
func (t *Table) AppendRow(cells []Cell) error {
	if len(cells) != len(t.columns) {
		return fmt.Errorf("%w: got %d cells, want %d", ErrArityMismatch, len(cells), len(t.columns))
	}

	if len(t.rows) >= t.capacity {
		t.grow()
	}

	row := make(Row, len(cells))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// AppendStrings appends a row of present (non-NULL) text values.
func (t *Table) AppendStrings(values ...string) error {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Text(v)
	}
	return t.AppendRow(cells)
}

// grow doubles the row capacity.
func (t *Table) grow() {
	newCapacity := t.capacity * 2
	if newCapacity == 0 {
		newCapacity = InitialCapacity
	}
	rows := make([]Row, len(t.rows), newCapacity)
	copy(rows, t.rows)
	t.rows = rows
	t.capacity = newCapacity
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Row {
	row := make(Row, len(t.rows[i]))
	copy(row, t.rows[i])
	return row
}

// Cell returns the cell at (row, col). The boolean is false when either index
// is out of range.
func (t *Table) Cell(row, col int) (Cell, bool) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.columns) {
		return Cell{}, false
	}
	return t.rows[row][col], true
}

// Clone returns a deep copy of the table under a new name.
func (t *Table) Clone(name string) *Table {
	clone := &Table{
		Name:     name,
		columns:  t.Columns(),
		rows:     make([]Row, 0, t.capacity),
		capacity: t.capacity,
	}
	for i := range t.rows {
		clone.rows = append(clone.rows, t.Row(i))
	}
	return clone
}

// Equal reports whether both tables have the same schema and the same rows
// in the same order. Table names are not compared.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != other.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		if !t.rows[i].Equal(other.rows[i]) {
			return false
		}
	}
	return true
}
