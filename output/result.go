package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vegasq/minidb/query"
)

// ErrNoResult is returned when exporting a failed or empty result
var ErrNoResult = errors.New("no query result to export")

// PrintResult writes the outcome of a query to w: the result message and the
// table rendered by f on success, the failure message otherwise.
func PrintResult(w io.Writer, result *query.Result, f Formatter) error {
	if result == nil {
		_, err := fmt.Fprintln(w, "Query failed: no result")
		return err
	}
	if !result.Success || result.Table == nil {
		_, err := fmt.Fprintf(w, "Query failed: %s\n", result.Message)
		return err
	}

	if _, err := fmt.Fprintf(w, "Query result: %s\n", result.Message); err != nil {
		return err
	}
	f.SetOutput(w)
	return f.Format(result.Table)
}

// ExportCSV writes the result table to a CSV file at path
func ExportCSV(path string, result *query.Result) error {
	if result == nil || !result.Success || result.Table == nil {
		return ErrNoResult
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := NewCSVFormatter(file).Format(result.Table); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
