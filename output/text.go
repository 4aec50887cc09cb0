package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/minidb/table"
)

// TextFormatter renders a table as an aligned text grid
type TextFormatter struct {
	writer io.Writer

	// MaxRows is the number of rows displayed; the rest are summarized
	MaxRows int
}

// NewTextFormatter creates a new text formatter showing DefaultMaxRows rows
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w, MaxRows: DefaultMaxRows}
}

// SetOutput sets the output writer
func (f *TextFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format writes the table grid followed by the total row count. NULL cells
// are shown as NULL.
func (f *TextFormatter) Format(t *table.Table) error {
	tw := tablewriter.NewWriter(f.writer)
	tw.SetHeader(t.ColumnNames())
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)

	shown := t.RowCount()
	if f.MaxRows > 0 && shown > f.MaxRows {
		shown = f.MaxRows
	}

	for r := 0; r < shown; r++ {
		row := t.Row(r)
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = cell.String()
		}
		tw.Append(record)
	}
	tw.Render()

	if hidden := t.RowCount() - shown; hidden > 0 {
		if _, err := fmt.Fprintf(f.writer, "... %d more rows not displayed\n", hidden); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(f.writer, "(%d rows)\n", t.RowCount())
	return err
}
