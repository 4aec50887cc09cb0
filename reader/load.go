package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vegasq/minidb/table"
)

// Load reads a data file into a new table, choosing the format by extension:
// .parquet files are read as parquet, .csv, .txt and .tsv files as delimited
// text. A .tsv file defaults to a tab delimiter.
func Load(path string, opts Options) (*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return LoadParquet(path, opts)
	case ".tsv":
		if opts.Delimiter == 0 {
			opts.Delimiter = '\t'
		}
		return LoadCSV(path, opts)
	case ".csv", ".txt", "":
		return LoadCSV(path, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}
