package table

// DataType is the inferred type of a column
type DataType int

const (
	TypeInteger DataType = iota
	TypeFloat
	TypeString
	TypeUnknown
)

// String returns the lower-case name of the type
func (d DataType) String() string {
	switch d {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether values of this type compare numerically
func (d DataType) IsNumeric() bool {
	return d == TypeInteger || d == TypeFloat
}

// Column is a named, typed column
type Column struct {
	Name string
	Type DataType
}

// Cell is a nullable text value. A Cell with Valid == false is NULL.
type Cell struct {
	Text  string
	Valid bool
}

// Text returns a present cell holding s
func Text(s string) Cell {
	return Cell{Text: s, Valid: true}
}

// Null returns an absent cell
func Null() Cell {
	return Cell{}
}

// String returns the cell text, or "NULL" for an absent cell
func (c Cell) String() string {
	if !c.Valid {
		return "NULL"
	}
	return c.Text
}

// Row is a fixed-arity sequence of cells in column order
type Row []Cell

// Equal reports whether both rows hold the same cells
func (r Row) Equal(other Row) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
