package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/minidb/table"
)

// DefaultMaxRows is the number of rows the text formatter displays by default
const DefaultMaxRows = 20

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// Formats lists the names accepted by NewFormatter
var Formats = []string{"table", "csv", "json", "jsonl"}

// NewFormatter returns the formatter registered under name.
//
// maxRows limits the rows shown by the table format; zero or less means
// DefaultMaxRows. The other formats always write every row.
func NewFormatter(name string, w io.Writer, maxRows int) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table", "text":
		f := NewTextFormatter(w)
		if maxRows > 0 {
			f.MaxRows = maxRows
		}
		return f, nil
	case "csv":
		return NewCSVFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	case "jsonl":
		return NewJSONLinesFormatter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats, ", "))
	}
}
