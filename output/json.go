package output

import (
	"bytes"
	"io"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/minidb/table"
)

// JSONFormatter outputs a table as a JSON array of objects
type JSONFormatter struct {
	writer io.Writer
	lines  bool
}

// NewJSONFormatter creates a new JSON array formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// NewJSONLinesFormatter creates a new JSON Lines formatter (one object per line)
func NewJSONLinesFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w, lines: true}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes the table rows as JSON objects keyed by column name, in
// column order. NULL cells become null and numeric columns are written as
// numbers when their text parses.
func (j *JSONFormatter) Format(t *table.Table) error {
	columns := t.Columns()

	keys := make([][]byte, len(columns))
	for i, col := range columns {
		key, err := json.Marshal(col.Name)
		if err != nil {
			return err
		}
		keys[i] = key
	}

	var buf bytes.Buffer
	if !j.lines {
		buf.WriteByte('[')
	}

	for r := 0; r < t.RowCount(); r++ {
		if !j.lines && r > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for i, col := range columns {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(keys[i])
			buf.WriteByte(':')

			cell, _ := t.Cell(r, i)
			value, err := jsonValue(cell, col.Type)
			if err != nil {
				return err
			}
			buf.Write(value)
		}
		buf.WriteByte('}')
		if j.lines {
			buf.WriteByte('\n')
		}
	}

	if !j.lines {
		buf.WriteString("]\n")
	}

	_, err := j.writer.Write(buf.Bytes())
	return err
}

// jsonValue encodes one cell
func jsonValue(cell table.Cell, typ table.DataType) ([]byte, error) {
	if !cell.Valid {
		return []byte("null"), nil
	}

	switch typ {
	case table.TypeInteger:
		if n, err := strconv.ParseInt(cell.Text, 10, 64); err == nil {
			return json.Marshal(n)
		}
	case table.TypeFloat:
		if f, err := strconv.ParseFloat(cell.Text, 64); err == nil {
			if b, err := json.Marshal(f); err == nil {
				return b, nil
			}
		}
	}

	return json.Marshal(cell.Text)
}
