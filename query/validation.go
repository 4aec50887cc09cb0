package query

import (
	"errors"
	"fmt"

	"github.com/vegasq/minidb/table"
)

// Validation limits for statements
const (
	// MaxQueryLength is the maximum allowed statement length
	MaxQueryLength = 4096

	// MaxColumnNameLength is the maximum length for a column reference
	MaxColumnNameLength = table.MaxColumnNameLength

	// MaxProjectionColumns is the maximum number of projected columns
	MaxProjectionColumns = table.MaxColumns
)

var (
	// ErrParseRejected is wrapped by every parse failure
	ErrParseRejected = errors.New("SQL syntax error")

	// ErrEmptyStatement is returned for an empty statement
	ErrEmptyStatement = errors.New("statement is empty")

	// ErrNotSelect is returned when the statement is not a SELECT
	ErrNotSelect = errors.New("only SELECT statements are supported")

	// ErrMissingFrom is returned when no FROM follows SELECT
	ErrMissingFrom = errors.New("missing FROM clause")

	// ErrMultiplePredicates is returned when the WHERE clause uses AND or OR
	ErrMultiplePredicates = errors.New("only a single WHERE condition is supported (no AND/OR)")

	// ErrInvalidOrderBy is returned for a malformed ORDER BY clause
	ErrInvalidOrderBy = errors.New("invalid ORDER BY clause")

	// ErrQueryTooLong is returned when a statement exceeds MaxQueryLength
	ErrQueryTooLong = errors.New("query too long")

	// ErrColumnNameTooLong is returned when a column reference is too long
	ErrColumnNameTooLong = errors.New("column name too long")

	// ErrTooManyColumns is returned when the projection list is too long
	ErrTooManyColumns = errors.New("too many columns in projection")
)

// rejected wraps cause so that it matches both ErrParseRejected and cause
func rejected(cause error) error {
	return fmt.Errorf("%w: %w", ErrParseRejected, cause)
}

// ValidateQuery performs length validation on statement input
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrQueryTooLong, len(query), MaxQueryLength)
	}
	return nil
}

// ValidateColumnName validates column reference length
func ValidateColumnName(name string) error {
	if len(name) > MaxColumnNameLength {
		return fmt.Errorf("%w: %d chars (max %d)", ErrColumnNameTooLong, len(name), MaxColumnNameLength)
	}
	return nil
}
