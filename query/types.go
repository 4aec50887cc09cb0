package query

import (
	"fmt"
	"strings"

	"github.com/vegasq/minidb/table"
)

// Kind is the kind of a parsed statement.
// Only KindSelect is produced by the parser; the rest are reserved.
type Kind int

const (
	KindSelect Kind = iota
	KindFilter
	KindAggregate
	KindSort
)

// Operator is a comparison operator in a WHERE condition
type Operator int

const (
	OpEqual        Operator = iota // =
	OpNotEqual                     // !=
	OpGreater                      // >
	OpLess                         // <
	OpGreaterEqual                 // >=
	OpLessEqual                    // <=
	OpLike                         // LIKE
)

// String returns the SQL spelling of the operator
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpNotEqual:
		return "!="
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	case OpLike:
		return "LIKE"
	default:
		return fmt.Sprintf("Operator(%d)", int(o))
	}
}

// SortDirection is the direction of an ORDER BY
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

// String returns ASC or DESC
func (d SortDirection) String() string {
	if d == SortDescending {
		return "DESC"
	}
	return "ASC"
}

// AggregateFunc names an aggregate function. Reserved: never populated by the
// parser and never executed.
type AggregateFunc int

const (
	AggNone AggregateFunc = iota
	AggCount
	AggSum
	AggAvg
	AggMax
	AggMin
)

// Condition is a single column-operator-literal comparison
type Condition struct {
	Column   string
	Operator Operator
	Value    string
}

// String renders the condition back to SQL
func (c *Condition) String() string {
	return fmt.Sprintf("%s %s '%s'", c.Column, c.Operator, c.Value)
}

// Query represents a parsed SQL statement
type Query struct {
	Kind      Kind
	TableName string

	// Columns is the projection list. An empty list selects all columns.
	Columns []string

	// Condition is the single WHERE predicate, nil when absent
	Condition *Condition

	// OrderBy names the sort column; empty means no sort
	OrderBy string
	SortDir SortDirection

	// Reserved for future extension, never populated
	GroupBy         string
	Aggregate       AggregateFunc
	AggregateColumn string
	Limit           int
}

// NewQuery returns a Query with default values
func NewQuery() *Query {
	return &Query{
		Kind:    KindSelect,
		SortDir: SortAscending,
		Limit:   -1,
	}
}

// SelectsAll reports whether the projection list is the "all columns" sentinel
func (q *Query) SelectsAll() bool {
	return len(q.Columns) == 0
}

// String renders the query back to SQL
func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.SelectsAll() {
		sb.WriteString("*")
	} else {
		sb.WriteString(strings.Join(q.Columns, ", "))
	}
	sb.WriteString(" FROM ")
	sb.WriteString(q.TableName)
	if q.Condition != nil {
		sb.WriteString(" WHERE ")
		sb.WriteString(q.Condition.String())
	}
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.OrderBy)
		sb.WriteString(" ")
		sb.WriteString(q.SortDir.String())
	}
	return sb.String()
}

// Stage identifies one phase of the execution pipeline
type Stage int

const (
	StageNone Stage = iota
	StageFilter
	StageProject
	StageSort
)

// String returns the stage name
func (s Stage) String() string {
	switch s {
	case StageFilter:
		return "filter"
	case StageProject:
		return "project"
	case StageSort:
		return "sort"
	default:
		return "none"
	}
}

// Result is the outcome of executing a query.
//
// On success Table holds the final result table and AffectedRows its row
// count. On failure Table is nil, FailedStage names the stage that failed and
// Message describes why. The holder of a Result owns its Table.
type Result struct {
	Success      bool
	Message      string
	AffectedRows int
	Table        *table.Table
	FailedStage  Stage
}

// LookupMiss describes a column reference that did not resolve
type LookupMiss struct {
	Stage  Stage
	Column string
}
