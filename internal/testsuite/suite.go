// Package testsuite loads and runs data-driven query test suites.
//
// A suite is a list of cases, each naming a data file, a statement and the
// expected shape of the result. Suites are written either as YAML or in the
// pipe-delimited line format:
//
//	# name|type|sql|data_file|expected_rows|description
//	adults|SQL_QUERY|SELECT name FROM people WHERE age > 26|people.csv|2|people over 26
package testsuite

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrMalformedLine is returned for a pipe-format line that cannot be parsed
var ErrMalformedLine = errors.New("malformed test case line")

// Type is the kind of check a case performs
type Type int

const (
	TypeSQLQuery Type = iota
	TypeDataLoad
	TypeFunctional
	TypePerformance
)

// String returns the name used in suite files
func (t Type) String() string {
	switch t {
	case TypeDataLoad:
		return "DATA_LOAD"
	case TypeFunctional:
		return "FUNCTIONAL"
	case TypePerformance:
		return "PERFORMANCE"
	default:
		return "SQL_QUERY"
	}
}

// ParseType maps a type name to a Type. The TEST_ prefix is optional and
// unknown names are SQL queries.
func ParseType(s string) Type {
	switch strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "TEST_") {
	case "DATA_LOAD":
		return TypeDataLoad
	case "FUNCTIONAL":
		return TypeFunctional
	case "PERFORMANCE":
		return TypePerformance
	default:
		return TypeSQLQuery
	}
}

// UnmarshalYAML decodes a type name
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*t = ParseType(s)
	return nil
}

// Status is the outcome of a case
type Status int

const (
	StatusPending Status = iota
	StatusPassed
	StatusFailed
	StatusSkipped
	StatusError
)

// String returns the status label
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	case StatusSkipped:
		return "SKIP"
	case StatusError:
		return "ERROR"
	default:
		return "PENDING"
	}
}

// Case is a single test case
type Case struct {
	Name        string
	Type        Type
	SQL         string
	DataFile    string
	Description string

	// ExpectedRows is the expected row count, -1 when unchecked
	ExpectedRows int
	// ExpectedColumns is the expected column count, 0 when unchecked
	ExpectedColumns int

	Status   Status
	Message  string
	Duration time.Duration
}

// Suite is an ordered list of cases plus the totals of its last run
type Suite struct {
	Name  string
	RunID string
	Cases []*Case

	Passed    int
	Failed    int
	Skipped   int
	Errors    int
	TotalTime time.Duration
}

// Ok reports whether no case failed or errored
func (s *Suite) Ok() bool {
	return s.Failed == 0 && s.Errors == 0
}

// suiteFile is the YAML layout of a suite
type suiteFile struct {
	Name  string     `yaml:"name"`
	Cases []caseFile `yaml:"cases"`
}

type caseFile struct {
	Name            string `yaml:"name"`
	Type            Type   `yaml:"type"`
	SQL             string `yaml:"sql"`
	DataFile        string `yaml:"data_file"`
	ExpectedRows    *int   `yaml:"expected_rows"`
	ExpectedColumns int    `yaml:"expected_columns"`
	Description     string `yaml:"description"`
}

// LoadFile reads a suite from path. Files ending in .yaml or .yml are YAML;
// anything else is read as the pipe format.
func LoadFile(path string, log *zap.Logger) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test file: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(path, f)
	default:
		return ReadLines(path, f, log)
	}
}

// ReadYAML decodes a YAML suite. A missing suite name defaults to name.
func ReadYAML(name string, r io.Reader) (*Suite, error) {
	var doc suiteFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode test suite: %w", err)
	}

	suite := &Suite{Name: doc.Name}
	if suite.Name == "" {
		suite.Name = name
	}
	for i, c := range doc.Cases {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d: missing name", i+1)
		}
		tc := &Case{
			Name:            c.Name,
			Type:            c.Type,
			SQL:             c.SQL,
			DataFile:        c.DataFile,
			ExpectedRows:    -1,
			ExpectedColumns: c.ExpectedColumns,
			Description:     c.Description,
		}
		if c.ExpectedRows != nil {
			tc.ExpectedRows = *c.ExpectedRows
		}
		suite.Cases = append(suite.Cases, tc)
	}
	return suite, nil
}

// ReadLines reads a pipe-format suite. Blank lines and lines starting with #
// are skipped; malformed lines are logged and skipped.
func ReadLines(name string, r io.Reader, log *zap.Logger) (*Suite, error) {
	if log == nil {
		log = zap.NewNop()
	}

	suite := &Suite{Name: name}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tc, err := ParseLine(line)
		if err != nil {
			log.Warn("skipping test case line",
				zap.Int("line", lineNo),
				zap.String("text", line),
				zap.Error(err),
			)
			continue
		}
		suite.Cases = append(suite.Cases, tc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read test suite: %w", err)
	}
	return suite, nil
}

// ParseLine parses name|type|sql|data_file|expected_rows|description.
// An empty expected_rows field leaves the row count unchecked.
func ParseLine(line string) (*Case, error) {
	fields := strings.SplitN(line, "|", 6)
	if len(fields) < 6 {
		return nil, fmt.Errorf("%w: want 6 fields, got %d", ErrMalformedLine, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[0] == "" {
		return nil, fmt.Errorf("%w: missing name", ErrMalformedLine)
	}

	expected := -1
	if fields[4] != "" {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("%w: expected rows %q", ErrMalformedLine, fields[4])
		}
		expected = n
	}

	return &Case{
		Name:         fields[0],
		Type:         ParseType(fields[1]),
		SQL:          fields[2],
		DataFile:     fields[3],
		ExpectedRows: expected,
		Description:  fields[5],
	}, nil
}
