package reader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/minidb/table"
)

// DefaultSampleRows is the number of values per column used for type inference
const DefaultSampleRows = 10

var (
	// ErrNoHeader is returned when a CSV file has no header row
	ErrNoHeader = errors.New("missing header row")

	// ErrUnsupportedFormat is returned by Load for an unknown file extension
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Options controls how files are loaded into tables
type Options struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// SampleRows is the number of non-NULL values per column inspected by
	// type inference. Zero or less means DefaultSampleRows.
	SampleRows int
	// Log receives warnings about skipped rows. Nil discards them.
	Log *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Log == nil {
		return zap.NewNop()
	}
	return o.Log
}

// TableName derives a table name from a file path: the base name without its
// extension.
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadCSV reads a delimited text file into a new table named after the file.
//
// The first record holds the column names. Fields are trimmed and an empty
// field is stored as NULL. Records with fewer fields than the header are
// skipped; extra fields are dropped. Column types are inferred after loading.
func LoadCSV(path string, opts Options) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	tbl, err := ReadCSV(TableName(path), f, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return tbl, nil
}

// ReadCSV reads delimited text from r into a new table called name
func ReadCSV(name string, r io.Reader, opts Options) (*table.Table, error) {
	log := opts.logger()

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
		if names[i] == "" {
			names[i] = fmt.Sprintf("column%d", i+1)
		}
	}

	tbl, err := table.NewWithNames(name, names...)
	if err != nil {
		return nil, err
	}

	skipped := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if isBlank(record) {
			continue
		}
		if len(record) < len(names) {
			line, _ := cr.FieldPos(0)
			log.Warn("skipping short record",
				zap.String("table", name),
				zap.Int("line", line),
				zap.Int("fields", len(record)),
				zap.Int("want", len(names)),
			)
			skipped++
			continue
		}

		cells := make([]table.Cell, len(names))
		for i := range cells {
			value := strings.TrimSpace(record[i])
			if value == "" {
				cells[i] = table.Null()
			} else {
				cells[i] = table.Text(value)
			}
		}
		if err := tbl.AppendRow(cells); err != nil {
			return nil, err
		}
	}

	if err := InferColumnTypes(tbl, opts.SampleRows); err != nil {
		return nil, err
	}

	log.Debug("loaded csv",
		zap.String("table", name),
		zap.Int("columns", tbl.ColumnCount()),
		zap.Int("rows", tbl.RowCount()),
		zap.Int("skipped", skipped),
	)

	return tbl, nil
}

// isBlank reports whether a record is a line holding only whitespace
func isBlank(record []string) bool {
	return len(record) == 1 && strings.TrimSpace(record[0]) == ""
}
