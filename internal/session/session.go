// Package session holds the tables and settings of one interactive session.
package session

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vegasq/minidb/query"
	"github.com/vegasq/minidb/reader"
	"github.com/vegasq/minidb/table"
)

var (
	// ErrNoTable is returned when a statement needs the current table and none is set
	ErrNoTable = errors.New("no table loaded")

	// ErrUnknownTable is returned for a table name that is not loaded
	ErrUnknownTable = errors.New("unknown table")
)

// Options configures a Session
type Options struct {
	Load  reader.Options
	Parse query.ParseOptions

	// StrictColumns fails a query whose projection names an unknown column
	StrictColumns bool

	Log *zap.Logger
}

// Session owns the loaded tables, the current table and the last result.
// A Session is not safe for concurrent use.
type Session struct {
	ID string

	opts    Options
	log     *zap.Logger
	exec    *query.ExecutionContext
	tables  map[string]*table.Table
	current string
	last    *query.Result
}

// New creates an empty session
func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Load.Log == nil {
		opts.Load.Log = log
	}

	id := uuid.NewString()
	log = log.With(zap.String("session", id))

	exec := query.NewExecutionContext(log)
	exec.StrictColumns = opts.StrictColumns

	return &Session{
		ID:     id,
		opts:   opts,
		log:    log,
		exec:   exec,
		tables: make(map[string]*table.Table),
	}
}

// OnLookupMiss installs a callback for unresolved column references
func (s *Session) OnLookupMiss(fn func(query.LookupMiss)) {
	s.exec.OnLookupMiss = fn
}

// ParseOptions returns the parse options used by Execute
func (s *Session) ParseOptions() query.ParseOptions {
	return s.opts.Parse
}

// Load reads a data file, registers it and makes it the current table
func (s *Session) Load(path string) (*table.Table, error) {
	tbl, err := reader.Load(path, s.opts.Load)
	if err != nil {
		return nil, err
	}
	s.Register(tbl)
	s.log.Info("table loaded",
		zap.String("table", tbl.Name),
		zap.String("path", path),
		zap.Int("rows", tbl.RowCount()),
		zap.Int("columns", tbl.ColumnCount()),
	)
	return tbl, nil
}

// Register adds t under its name, replacing any table with the same name
// compared case-insensitively, and makes it the current table.
func (s *Session) Register(t *table.Table) {
	key := strings.ToLower(t.Name)
	if _, ok := s.tables[key]; ok {
		s.log.Debug("replacing table", zap.String("table", t.Name))
	}
	s.tables[key] = t
	s.current = key
}

// Use makes the named table current
func (s *Session) Use(name string) error {
	key := strings.ToLower(name)
	if _, ok := s.tables[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	s.current = key
	return nil
}

// Current returns the current table, or nil when none is loaded
func (s *Session) Current() *table.Table {
	return s.tables[s.current]
}

// Table returns the named table
func (s *Session) Table(name string) (*table.Table, error) {
	t, ok := s.tables[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	return t, nil
}

// Tables returns the loaded tables sorted by name
func (s *Session) Tables() []*table.Table {
	tables := make([]*table.Table, 0, len(s.tables))
	for _, t := range s.tables {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool {
		return strings.ToLower(tables[i].Name) < strings.ToLower(tables[j].Name)
	})
	return tables
}

// Drop removes the named table. Dropping the current table leaves no
// current table.
func (s *Session) Drop(name string) error {
	key := strings.ToLower(name)
	if _, ok := s.tables[key]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, name)
	}
	delete(s.tables, key)
	if s.current == key {
		s.current = ""
	}
	return nil
}

// Resolve returns the table a statement refers to: the named table, or the
// current table when name is empty.
func (s *Session) Resolve(name string) (*table.Table, error) {
	if name == "" {
		if t := s.Current(); t != nil {
			return t, nil
		}
		return nil, ErrNoTable
	}
	return s.Table(name)
}

// Execute parses and runs a statement.
//
// A statement that does not parse, or that names a table that is not loaded,
// returns an error. Stage failures are reported in the Result, which also
// becomes LastResult.
func (s *Session) Execute(statement string) (*query.Result, error) {
	q, err := query.ParseWithOptions(statement, s.opts.Parse)
	if err != nil {
		s.log.Debug("statement rejected", zap.Error(err))
		return nil, err
	}

	return s.Run(q)
}

// Run executes an already parsed query
func (s *Session) Run(q *query.Query) (*query.Result, error) {
	src, err := s.Resolve(q.TableName)
	if err != nil {
		return nil, err
	}

	result := s.exec.Execute(src, q)
	s.last = result
	s.log.Debug("statement executed",
		zap.String("table", src.Name),
		zap.Bool("success", result.Success),
		zap.Int("rows", result.AffectedRows),
	)
	return result, nil
}

// LastResult returns the result of the last executed statement
func (s *Session) LastResult() *query.Result {
	return s.last
}
