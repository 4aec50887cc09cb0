package reader

import (
	"strconv"

	"github.com/vegasq/minidb/table"
)

// DetectType classifies a single value: integer when the whole text is a
// base-10 integer, float when it parses as a floating point number, string
// otherwise.
func DetectType(value string) table.DataType {
	if _, err := strconv.ParseInt(value, 10, 64); err == nil {
		return table.TypeInteger
	}
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return table.TypeFloat
	}
	return table.TypeString
}

// mergeTypes combines the types seen in one column
func mergeTypes(a, b table.DataType) table.DataType {
	switch {
	case a == table.TypeUnknown:
		return b
	case a == b:
		return a
	case a.IsNumeric() && b.IsNumeric():
		return table.TypeFloat
	default:
		return table.TypeString
	}
}

// InferColumnTypes assigns a type to every column of t that is still
// unknown, looking at up to sampleRows non-NULL values per column. A column
// with no values becomes a string column.
func InferColumnTypes(t *table.Table, sampleRows int) error {
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	for col := 0; col < t.ColumnCount(); col++ {
		if t.Column(col).Type != table.TypeUnknown {
			continue
		}

		typ := table.TypeUnknown
		seen := 0
		for row := 0; row < t.RowCount() && seen < sampleRows; row++ {
			cell, _ := t.Cell(row, col)
			if !cell.Valid {
				continue
			}
			typ = mergeTypes(typ, DetectType(cell.Text))
			seen++
		}
		if typ == table.TypeUnknown {
			typ = table.TypeString
		}

		if err := t.SetColumnType(col, typ); err != nil {
			return err
		}
	}

	return nil
}
