package testsuite

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"SQL_QUERY", TypeSQLQuery},
		{"TEST_SQL_QUERY", TypeSQLQuery},
		{"DATA_LOAD", TypeDataLoad},
		{"TEST_DATA_LOAD", TypeDataLoad},
		{"functional", TypeFunctional},
		{"TEST_PERFORMANCE", TypePerformance},
		{"bogus", TypeSQLQuery},
		{"", TypeSQLQuery},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseType(tt.in); got != tt.want {
				t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Case
		wantErr bool
	}{
		{
			name: "full line",
			line: "adults|SQL_QUERY|SELECT name FROM people WHERE age > 26|people.csv|2|people over 26",
			want: Case{
				Name:         "adults",
				Type:         TypeSQLQuery,
				SQL:          "SELECT name FROM people WHERE age > 26",
				DataFile:     "people.csv",
				ExpectedRows: 2,
				Description:  "people over 26",
			},
		},
		{
			name: "unchecked row count",
			line: "load|DATA_LOAD||people.csv||load only",
			want: Case{Name: "load", Type: TypeDataLoad, DataFile: "people.csv", ExpectedRows: -1, Description: "load only"},
		},
		{
			name: "pipe in description",
			line: "x|SQL_QUERY|SELECT * FROM t|t.csv|0|a|b",
			want: Case{Name: "x", Type: TypeSQLQuery, SQL: "SELECT * FROM t", DataFile: "t.csv", ExpectedRows: 0, Description: "a|b"},
		},
		{name: "too few fields", line: "x|SQL_QUERY|SELECT", wantErr: true},
		{name: "bad row count", line: "x|SQL_QUERY|SELECT * FROM t|t.csv|many|d", wantErr: true},
		{name: "missing name", line: "|SQL_QUERY|SELECT * FROM t|t.csv|1|d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLine(tt.line)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedLine) {
					t.Errorf("ParseLine() error = %v, want ErrMalformedLine", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLine() error = %v", err)
			}
			if *got != tt.want {
				t.Errorf("ParseLine() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestReadLines(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	input := strings.Join([]string{
		"# name|type|sql|data_file|expected_rows|description",
		"",
		"all|SQL_QUERY|SELECT * FROM people|people.csv|3|everyone",
		"broken line",
		"load|TEST_DATA_LOAD||people.csv|3|row count\r",
	}, "\n")

	suite, err := ReadLines("basic", strings.NewReader(input), zap.New(core))
	if err != nil {
		t.Fatalf("ReadLines() error = %v", err)
	}
	if suite.Name != "basic" || len(suite.Cases) != 2 {
		t.Fatalf("ReadLines() = %+v", suite)
	}
	if suite.Cases[1].Description != "row count" {
		t.Errorf("description = %q, want carriage return stripped", suite.Cases[1].Description)
	}
	if logs.FilterMessage("skipping test case line").Len() != 1 {
		t.Errorf("expected one warning for the broken line, got %v", logs.All())
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.yaml")
	content := `name: people
cases:
  - name: adults
    type: SQL_QUERY
    sql: SELECT name FROM people WHERE age > 26
    data_file: people.csv
    expected_rows: 2
    expected_columns: 1
  - name: load
    type: TEST_DATA_LOAD
    data_file: people.csv
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write suite: %v", err)
	}

	suite, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if suite.Name != "people" || len(suite.Cases) != 2 {
		t.Fatalf("LoadFile() = %+v", suite)
	}

	adults := suite.Cases[0]
	if adults.ExpectedRows != 2 || adults.ExpectedColumns != 1 || adults.Type != TypeSQLQuery {
		t.Errorf("adults = %+v", adults)
	}
	load := suite.Cases[1]
	if load.Type != TypeDataLoad || load.ExpectedRows != -1 {
		t.Errorf("load = %+v, want DATA_LOAD with unchecked rows", load)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.txt"), nil); err == nil {
		t.Error("LoadFile(missing) succeeded")
	}

	path := filepath.Join(t.TempDir(), "noname.yml")
	_ = os.WriteFile(path, []byte("cases:\n  - sql: SELECT * FROM t\n"), 0o644)
	if _, err := LoadFile(path, nil); err == nil {
		t.Error("LoadFile(case without name) succeeded")
	}
}
