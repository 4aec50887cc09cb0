package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/minidb/table"
)

// CSVFormatter outputs a table as CSV with a header row. NULL cells are
// written as empty fields.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV
func (c *CSVFormatter) Format(t *table.Table) error {
	csvWriter := csv.NewWriter(c.writer)

	if err := csvWriter.Write(t.ColumnNames()); err != nil {
		return err
	}

	columns := t.Columns()
	record := make([]string, len(columns))
	for r := 0; r < t.RowCount(); r++ {
		for i, col := range columns {
			cell, _ := t.Cell(r, i)
			record[i] = formatValue(cell, col.Type)
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	// Flush and check for errors
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}

	return nil
}

// formatValue converts a cell to its CSV field text
func formatValue(cell table.Cell, typ table.DataType) string {
	if !cell.Valid {
		return ""
	}
	if typ.IsNumeric() {
		return cell.Text
	}

	// Sanitize against CSV injection by prefixing characters that could
	// trigger formula execution in spreadsheet applications
	val := cell.Text
	if len(val) > 0 {
		switch val[0] {
		case '=', '+', '-', '@', '\t', '\r', '\n', '|':
			return "'" + strings.ReplaceAll(val, "'", "''")
		}
	}
	return val
}
