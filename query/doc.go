// Package query provides statement parsing and execution over in-memory tables.
//
// The accepted language is a single restricted SELECT:
//
//	SELECT <col[, col]...|*> FROM <table> [WHERE <col> <op> <value>] [ORDER BY <col> [ASC|DESC]]
//
// where <op> is one of =, !=, >, <, >=, <=, LIKE and <value> may be quoted
// with single or double quotes. AND and OR are rejected.
//
// # Basic Usage
//
// Parse a statement and run it against a table:
//
//	q, err := query.Parse("SELECT name FROM people WHERE age > 28")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result := query.Execute(people, q)
//	if !result.Success {
//	    log.Fatal(result.Message)
//	}
//
// # Pipeline
//
// Execute runs three stages in a fixed order, each producing a new table:
//
//   - Filter, when the query has a condition
//   - Project, always; an empty projection list copies every column
//   - Sort, when the query names an ORDER BY column
//
// A failing stage stops the pipeline. The failure is reported in the Result
// (Success false, FailedStage and Message set) and never as a panic.
//
// # Comparison Rules
//
// = and != compare text exactly. The relational operators compare
// numerically when the column type is integer or float, converting each text
// by its longest numeric prefix, and byte-wise otherwise. LIKE is a
// case-sensitive substring test; % and _ have no special meaning.
//
// # Unresolved Columns
//
// Column references are resolved case-insensitively. An unresolved reference
// in a WHERE condition matches no rows, and in a projection list produces a
// column of empty cells. Both are reported through
// ExecutionContext.OnLookupMiss. Setting ExecutionContext.StrictColumns makes
// an unresolved projection column fail the query instead.
package query
