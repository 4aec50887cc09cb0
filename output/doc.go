// Package output provides formatters for rendering query results.
//
// This package defines the Formatter interface and provides implementations
// for a text grid, CSV, JSON and JSON Lines. All formatters work on a
// *table.Table and write columns in schema order.
//
// # Supported Formats
//
//   - table: aligned text grid, NULL shown as NULL, long results truncated
//   - csv: comma-separated values with header row, NULL written as empty
//   - json: one JSON array of objects
//   - jsonl: one JSON object per line (suitable for streaming)
//
// # Basic Usage
//
// Select a formatter by name and print a query result:
//
//	f, err := output.NewFormatter("table", os.Stdout, 20)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := output.PrintResult(os.Stdout, result, f); err != nil {
//	    log.Fatal(err)
//	}
//
// # Exporting
//
// Write a successful result to a CSV file:
//
//	if err := output.ExportCSV("result.csv", result); err != nil {
//	    log.Fatal(err)
//	}
//
// # Type Handling
//
// CSV and text output write cell text unchanged. The JSON formatters write
// integer and float columns as JSON numbers when the text parses and fall
// back to strings otherwise. String fields that start with a formula
// character are quoted in CSV output.
package output
