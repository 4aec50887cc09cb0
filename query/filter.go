package query

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/vegasq/minidb/table"
)

// Names given to the tables produced by each stage
const (
	FilterResultName  = "filtered_result"
	ProjectResultName = "query_result"
	SortResultName    = "sorted_result"
)

var (
	// ErrNilTable is returned when a stage is given no source table
	ErrNilTable = errors.New("no source table")

	// ErrUnknownColumn is returned when a column reference does not resolve
	// and the stage cannot continue without it
	ErrUnknownColumn = errors.New("unknown column")
)

// EvaluateCondition reports whether row of t satisfies cond.
//
// It fails closed: a nil table or condition, an out-of-range row, an
// unresolved column and a NULL cell all evaluate to false.
func EvaluateCondition(t *table.Table, row int, cond *Condition) bool {
	if t == nil || cond == nil {
		return false
	}
	col := t.ColumnIndex(cond.Column)
	if col < 0 {
		return false
	}
	return evaluateAt(t, row, col, cond)
}

// evaluateAt evaluates cond against an already resolved column index
func evaluateAt(t *table.Table, row, col int, cond *Condition) bool {
	cell, ok := t.Cell(row, col)
	if !ok || !cell.Valid {
		return false
	}

	switch cond.Operator {
	case OpEqual:
		return cell.Text == cond.Value
	case OpNotEqual:
		return cell.Text != cond.Value
	case OpLike:
		// substring containment; wildcard characters are matched literally
		return strings.Contains(cell.Text, cond.Value)
	}

	typ := t.Column(col).Type
	if typ.IsNumeric() && (math.IsNaN(parseNumericPrefix(cell.Text)) || math.IsNaN(parseNumericPrefix(cond.Value))) {
		// NaN is unordered
		return false
	}
	cmp := compareText(typ, cell.Text, cond.Value)
	switch cond.Operator {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	default:
		return false
	}
}

// compareText compares two cell texts under the given column type:
// numerically for integer and float columns, byte-wise otherwise.
func compareText(typ table.DataType, a, b string) int {
	if typ.IsNumeric() {
		return compareNumbers(parseNumericPrefix(a), parseNumericPrefix(b))
	}
	return strings.Compare(a, b)
}

// compareNumbers returns -1, 0 or +1
func compareNumbers(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ApplyFilter returns a new table holding the rows of src that satisfy cond
func ApplyFilter(src *table.Table, cond *Condition) (*table.Table, error) {
	return ApplyFilterWithContext(src, cond, nil)
}

// ApplyFilterWithContext applies a filter, reporting an unresolved condition
// column through ctx. Rows keep their source order.
func ApplyFilterWithContext(src *table.Table, cond *Condition, ctx *ExecutionContext) (*table.Table, error) {
	if src == nil {
		return nil, ErrNilTable
	}

	filtered, err := table.New(FilterResultName, src.Columns())
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return filtered, nil
	}

	col := src.ColumnIndex(cond.Column)
	if col < 0 {
		// every row fails closed
		ctx.reportMiss(StageFilter, cond.Column)
		return filtered, nil
	}

	for i := 0; i < src.RowCount(); i++ {
		if !evaluateAt(src, i, col, cond) {
			continue
		}
		if err := filtered.AppendRow(src.Row(i)); err != nil {
			return nil, err
		}
	}

	return filtered, nil
}

// ApplySelectList projects src onto columns. An empty list selects all
// columns; the result is always a new table.
func ApplySelectList(src *table.Table, columns []string) (*table.Table, error) {
	return ApplySelectListWithContext(src, columns, nil)
}

// ApplySelectListWithContext projects src onto columns.
//
// Result columns keep the names as written in the projection list and the
// type of the source column they resolve to. A name that does not resolve
// produces an empty-text column of unknown type, unless ctx requires strict
// columns, in which case projection fails with ErrUnknownColumn.
func ApplySelectListWithContext(src *table.Table, columns []string, ctx *ExecutionContext) (*table.Table, error) {
	if src == nil {
		return nil, ErrNilTable
	}

	var (
		schema []table.Column
		index  []int
	)
	if len(columns) == 0 {
		schema = src.Columns()
		index = make([]int, len(schema))
		for i := range index {
			index[i] = i
		}
	} else {
		schema = make([]table.Column, len(columns))
		index = make([]int, len(columns))
		for i, name := range columns {
			idx := src.ColumnIndex(name)
			index[i] = idx
			schema[i] = table.Column{Name: name, Type: table.TypeUnknown}
			if idx < 0 {
				if ctx.strict() {
					return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
				}
				ctx.reportMiss(StageProject, name)
				continue
			}
			schema[i].Type = src.Column(idx).Type
		}
	}

	projected, err := table.New(ProjectResultName, schema)
	if err != nil {
		return nil, err
	}

	for r := 0; r < src.RowCount(); r++ {
		cells := make([]table.Cell, len(index))
		for i, idx := range index {
			if idx < 0 {
				cells[i] = table.Text("")
				continue
			}
			cells[i], _ = src.Cell(r, idx)
		}
		if err := projected.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	return projected, nil
}

// ApplyOrderBy returns a copy of src with its rows ordered by column.
//
// Values compare numerically for integer and float columns and byte-wise
// otherwise; NULL sorts as empty text. The relative order of equal rows is
// not guaranteed.
func ApplyOrderBy(src *table.Table, column string, dir SortDirection) (*table.Table, error) {
	return ApplyOrderByWithContext(src, column, dir, nil)
}

// ApplyOrderByWithContext sorts src, reporting an unresolved sort column
// through ctx before failing with ErrUnknownColumn.
func ApplyOrderByWithContext(src *table.Table, column string, dir SortDirection, ctx *ExecutionContext) (*table.Table, error) {
	if src == nil {
		return nil, ErrNilTable
	}

	col := src.ColumnIndex(column)
	if col < 0 {
		ctx.reportMiss(StageSort, column)
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	typ := src.Column(col).Type

	keys := make([]string, src.RowCount())
	for i := range keys {
		cell, _ := src.Cell(i, col)
		keys[i] = cell.Text
	}

	// sort a permutation, then materialize rows in that order
	perm := make([]int, len(keys))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		cmp := compareText(typ, keys[perm[a]], keys[perm[b]])
		if dir == SortDescending {
			return cmp > 0
		}
		return cmp < 0
	})

	sorted, err := table.New(SortResultName, src.Columns())
	if err != nil {
		return nil, err
	}
	for _, i := range perm {
		if err := sorted.AppendRow(src.Row(i)); err != nil {
			return nil, err
		}
	}

	return sorted, nil
}
