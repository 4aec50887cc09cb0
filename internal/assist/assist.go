// Package assist answers simple questions about writing queries.
//
// It is a keyword matcher: the question is lower-cased and checked for a
// handful of words, and the answers are filled in from the current table.
// Every function accepts a nil table.
package assist

import (
	"fmt"
	"strings"

	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/table"
)

// placeholder table and column names used when no table is loaded
const (
	anyTable  = "table_name"
	anyColumn = "column_name"
)

func tableName(t *table.Table) string {
	if t == nil || t.Name == "" {
		return anyTable
	}
	return t.Name
}

func firstColumn(t *table.Table) string {
	if t == nil || t.ColumnCount() == 0 {
		return anyColumn
	}
	return t.Column(0).Name
}

// columnList joins up to limit column names, adding "etc." when more exist
func columnList(t *table.Table, limit int) string {
	names := t.ColumnNames()
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:limit], ", ") + " etc."
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// Suggest answers a free-form question
func Suggest(question string, t *table.Table) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "how", "what"):
		switch {
		case containsAny(q, "query", "select"):
			return fmt.Sprintf("You can use SELECT statement to query data. For example: SELECT * FROM %s WHERE condition", tableName(t))
		case strings.Contains(q, "filter"):
			return fmt.Sprintf("Use WHERE clause for data filtering. For example: SELECT * FROM %s WHERE %s = 'value'", tableName(t), firstColumn(t))
		case strings.Contains(q, "sort"):
			return fmt.Sprintf("Use ORDER BY clause for sorting. For example: SELECT * FROM %s ORDER BY %s ASC/DESC", tableName(t), firstColumn(t))
		default:
			return "Please specify what functionality you want to learn about, I can provide corresponding SQL statement examples."
		}
	case containsAny(q, "select", "query"):
		if t == nil {
			return "Please load a data file first, then I can provide more specific query suggestions."
		}
		return fmt.Sprintf("Current table '%s' contains %d columns: %s", t.Name, t.ColumnCount(), columnList(t, 5))
	case strings.Contains(q, "optimize"):
		return "SQL optimization suggestions: 1. Use specific column names instead of * 2. Add a WHERE condition to reduce the rows returned 3. Sort only when the order matters"
	default:
		return "I can help you: 1. Generate SQL query statements 2. Optimize existing queries 3. Explain query execution plans 4. Provide database usage suggestions"
	}
}

// GenerateSQL turns a short request such as "show all" or "sort" into a
// statement for t.
func GenerateSQL(text string, t *table.Table) string {
	s := strings.ToLower(text)

	switch {
	case containsAny(s, "show all", "view all"):
		return fmt.Sprintf("SELECT * FROM %s", tableName(t))
	case containsAny(s, "find", "search"):
		// LIKE matches substrings, so no wildcards are needed
		return fmt.Sprintf("SELECT * FROM %s WHERE %s LIKE 'keyword'", tableName(t), firstColumn(t))
	case strings.Contains(s, "sort"):
		return fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC", tableName(t), firstColumn(t))
	default:
		return fmt.Sprintf("SELECT * FROM %s", tableName(t))
	}
}

// Optimize returns a single tip for sql
func Optimize(sql string, t *table.Table) string {
	upper := strings.ToUpper(sql)

	switch {
	case strings.Contains(upper, "SELECT *"):
		if t == nil || t.ColumnCount() == 0 {
			return "Suggestion: Use specific column names instead of * to reduce the size of the result"
		}
		return fmt.Sprintf("Suggestion: Use specific column names instead of *, for example: SELECT %s FROM ...", columnList(t, 3))
	case strings.Contains(upper, "LIKE '%"):
		return "Suggestion: LIKE already matches substrings and treats % as a literal character, remove the wildcards"
	case strings.Contains(upper, "WHERE") && !strings.Contains(upper, "ORDER BY"):
		return "Query looks good. If you need to sort results, you can add ORDER BY clause"
	default:
		return "Query syntax is correct. For further optimization, please provide more context information"
	}
}

// Explain describes the stages that executing sql would run
func Explain(sql string, t *table.Table, opts query.ParseOptions) string {
	q, err := query.ParseWithOptions(sql, opts)
	if err != nil {
		return fmt.Sprintf("Unable to parse query: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("Query plan:\n")
	step := 1
	if q.Condition != nil {
		fmt.Fprintf(&sb, "%d. Filter rows where %s\n", step, q.Condition)
		step++
	}
	if q.SelectsAll() {
		fmt.Fprintf(&sb, "%d. Project all columns\n", step)
	} else {
		fmt.Fprintf(&sb, "%d. Project columns %s\n", step, strings.Join(q.Columns, ", "))
	}
	step++
	if q.OrderBy != "" {
		fmt.Fprintf(&sb, "%d. Sort by %s %s\n", step, q.OrderBy, q.SortDir)
		step++
	}
	fmt.Fprintf(&sb, "%d. Return query results", step)

	// the estimate only applies to the table the statement reads
	if t != nil && (q.TableName == "" || strings.EqualFold(q.TableName, t.Name)) {
		fmt.Fprintf(&sb, "\nExpected to process %d rows of data", t.RowCount())
	}
	return sb.String()
}
