// Package reader loads data files into in-memory tables.
//
// Delimited text (CSV) and Apache Parquet files are supported. Every loader
// returns a *table.Table named after the file, without its extension.
//
// # Basic Usage
//
// Load a file, choosing the format by extension:
//
//	tbl, err := reader.Load("data/people.csv", reader.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(tbl.Name, tbl.RowCount())
//
// # CSV Files
//
// The first record names the columns. Fields are trimmed and empty fields are
// stored as NULL. Records with fewer fields than the header are skipped and
// logged; extra fields are dropped.
//
// Column types are inferred from the first Options.SampleRows non-NULL values
// of each column: integer when every sample is a base-10 integer, float when
// every sample is numeric, string otherwise.
//
// # Parquet Files
//
// Reading a parquet file directly:
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	tbl, err := r.ReadTable("data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Column types come from the physical parquet type and values are stored as
// text.
//
// # Schema Introspection
//
//	for _, info := range reader.DescribeSchema(tbl) {
//	    fmt.Printf("%s: %s (%d nulls)\n", info.Name, info.Type, info.Nulls)
//	}
//
// The package uses github.com/segmentio/parquet-go for the underlying
// parquet file operations.
package reader
