package reader

import "github.com/vegasq/minidb/table"

// SchemaInfo represents metadata about a single column of a loaded table.
type SchemaInfo struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Nulls  int    `json:"nulls"`
	Sample string `json:"sample"`
}

// DescribeSchema returns one SchemaInfo per column of t, in column order.
//
// Sample is the first non-NULL value of the column, or empty when the column
// holds only NULLs.
func DescribeSchema(t *table.Table) []SchemaInfo {
	infos := make([]SchemaInfo, t.ColumnCount())

	for col := range infos {
		column := t.Column(col)
		info := SchemaInfo{
			Name: column.Name,
			Type: column.Type.String(),
		}

		for row := 0; row < t.RowCount(); row++ {
			cell, _ := t.Cell(row, col)
			if !cell.Valid {
				info.Nulls++
				continue
			}
			if info.Sample == "" {
				info.Sample = cell.Text
			}
		}

		infos[col] = info
	}

	return infos
}
