package reader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/segmentio/parquet-go"
	"go.uber.org/zap"

	"github.com/vegasq/minidb/table"
)

// rowBatchSize is the number of rows read from a parquet file per call
const rowBatchSize = 128

// Reader reads parquet files into tables.
//
// It maintains both an OS file handle and a parquet file handle to enable
// proper resource cleanup.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader creates a new parquet reader for the specified file path.
//
// The file is opened and validated as a parquet file. Returns an error if
// the file doesn't exist or is not a valid parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	return &Reader{
		file:   file,
		pqFile: pqFile,
	}, nil
}

// Schema returns the parquet file schema
func (r *Reader) Schema() *parquet.Schema {
	return r.pqFile.Schema()
}

// NumRows returns the number of rows recorded in the file metadata
func (r *Reader) NumRows() int64 {
	return r.pqFile.NumRows()
}

// ReadTable reads every row of the file into a new table called name.
//
// Each leaf column becomes a table column named by its dotted path. Column
// types come from the physical type: INT32 and INT64 become integer, FLOAT
// and DOUBLE become float, everything else string. Repeated columns are
// rendered as comma-separated text. Parquet nulls stay NULL.
func (r *Reader) ReadTable(name string) (*table.Table, error) {
	schema := r.pqFile.Schema()
	paths := schema.Columns()

	columns := make([]table.Column, len(paths))
	for i, path := range paths {
		columns[i] = table.Column{Name: strings.Join(path, "."), Type: table.TypeString}
		if leaf, ok := schema.Lookup(path...); ok {
			columns[i].Type = leafType(leaf)
		}
	}

	tbl, err := table.New(name, columns)
	if err != nil {
		return nil, err
	}

	reader := parquet.NewReader(r.pqFile)
	defer func() { _ = reader.Close() }()

	buf := make([]parquet.Row, rowBatchSize)
	for {
		n, readErr := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			if err := tbl.AppendRow(rowCells(row, len(columns))); err != nil {
				return nil, err
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", readErr)
		}
		if n == 0 {
			break
		}
	}

	return tbl, nil
}

// Close closes the parquet reader and releases associated resources.
//
// It is safe to call Close multiple times.
func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// LoadParquet reads a parquet file into a new table named after the file
func LoadParquet(path string, opts Options) (*table.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	tbl, err := r.ReadTable(TableName(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	opts.logger().Debug("loaded parquet",
		zap.String("table", tbl.Name),
		zap.Int("columns", tbl.ColumnCount()),
		zap.Int("rows", tbl.RowCount()),
	)

	return tbl, nil
}

// leafType maps a parquet leaf column to a table column type
func leafType(leaf parquet.LeafColumn) table.DataType {
	if leaf.MaxRepetitionLevel > 0 || leaf.Node.Type() == nil {
		return table.TypeString
	}

	switch leaf.Node.Type().Kind() {
	case parquet.Int32, parquet.Int64:
		return table.TypeInteger
	case parquet.Float, parquet.Double:
		return table.TypeFloat
	default:
		return table.TypeString
	}
}

// rowCells converts one parquet row into cells, one per leaf column
func rowCells(row parquet.Row, width int) []table.Cell {
	cells := make([]table.Cell, width)
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= width || v.IsNull() {
			continue
		}
		text := valueText(v)
		if cells[col].Valid {
			cells[col].Text += "," + text
			continue
		}
		cells[col] = table.Text(text)
	}
	return cells
}

// valueText renders a parquet value as cell text
func valueText(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Int96:
		return fmt.Sprint(v.Int96())
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	default:
		return string(v.ByteArray())
	}
}
