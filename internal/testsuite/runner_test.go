package testsuite

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vegasq/minidb/query"
)

// newDataDir writes people.csv into a temporary directory
func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := "name,age,city\nAlice,30,NYC\nBob,25,LA\nCarol,35,NYC\n"
	if err := os.WriteFile(filepath.Join(dir, "people.csv"), []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write data file: %v", err)
	}
	return dir
}

func TestRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		tc         Case
		wantStatus Status
		wantMsg    string
	}{
		{
			name:       "query passes",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT name FROM people WHERE age > 26", DataFile: "people.csv", ExpectedRows: 2, ExpectedColumns: 1},
			wantStatus: StatusPassed,
		},
		{
			name:       "row mismatch",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM people", DataFile: "people.csv", ExpectedRows: 5},
			wantStatus: StatusFailed,
			wantMsg:    "Row count mismatch: expected 5, got 3",
		},
		{
			name:       "column mismatch",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM people", DataFile: "people.csv", ExpectedRows: -1, ExpectedColumns: 2},
			wantStatus: StatusFailed,
			wantMsg:    "Column count mismatch: expected 2, got 3",
		},
		{
			name:       "parse failure",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM people WHERE a = 1 AND b = 2", DataFile: "people.csv", ExpectedRows: -1},
			wantStatus: StatusFailed,
			wantMsg:    "SQL parsing failed",
		},
		{
			name:       "execution failure",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM people ORDER BY salary", DataFile: "people.csv", ExpectedRows: -1},
			wantStatus: StatusFailed,
			wantMsg:    "Query execution failed: " + query.MsgSortFailed,
		},
		{
			name:       "no data file",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM people", ExpectedRows: -1},
			wantStatus: StatusFailed,
			wantMsg:    "Data table not loaded",
		},
		{
			name:       "empty sql",
			tc:         Case{Type: TypeSQLQuery, DataFile: "people.csv", ExpectedRows: -1},
			wantStatus: StatusFailed,
			wantMsg:    "SQL query is empty",
		},
		{
			name:       "missing data file",
			tc:         Case{Type: TypeSQLQuery, SQL: "SELECT * FROM x", DataFile: "missing.csv", ExpectedRows: -1},
			wantStatus: StatusError,
			wantMsg:    "Data file loading failed",
		},
		{
			name:       "data load passes",
			tc:         Case{Type: TypeDataLoad, DataFile: "people.csv", ExpectedRows: 3},
			wantStatus: StatusPassed,
		},
		{
			name:       "data load mismatch",
			tc:         Case{Type: TypeDataLoad, DataFile: "people.csv", ExpectedRows: 4},
			wantStatus: StatusFailed,
			wantMsg:    "Expected 4 rows, got 3 rows",
		},
		{
			name:       "data load without file",
			tc:         Case{Type: TypeDataLoad, ExpectedRows: -1},
			wantStatus: StatusFailed,
			wantMsg:    "Data file not specified",
		},
		{
			name:       "functional skipped",
			tc:         Case{Type: TypeFunctional, ExpectedRows: -1},
			wantStatus: StatusSkipped,
			wantMsg:    "Functional test not implemented",
		},
		{
			name:       "performance skipped",
			tc:         Case{Type: TypePerformance, ExpectedRows: -1},
			wantStatus: StatusSkipped,
			wantMsg:    "Performance test not implemented",
		},
	}

	dir := newDataDir(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := tt.tc
			tc.Name = tt.name
			suite := &Suite{Name: "single", Cases: []*Case{&tc}}

			r := &Runner{DataDir: dir}
			if err := r.Run(context.Background(), suite); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if tc.Status != tt.wantStatus {
				t.Errorf("status = %v (%s), want %v", tc.Status, tc.Message, tt.wantStatus)
			}
			if !strings.HasPrefix(tc.Message, tt.wantMsg) {
				t.Errorf("message = %q, want prefix %q", tc.Message, tt.wantMsg)
			}
		})
	}
}

func TestRunner_RunParallel(t *testing.T) {
	dir := newDataDir(t)

	var cases []*Case
	for i := 0; i < 20; i++ {
		cases = append(cases, &Case{
			Name:         "nyc",
			Type:         TypeSQLQuery,
			SQL:          "SELECT name FROM people WHERE city = 'NYC' ORDER BY name DESC",
			DataFile:     "people.csv",
			ExpectedRows: 2,
		})
	}
	cases = append(cases, &Case{Name: "skip", Type: TypeFunctional, ExpectedRows: -1})
	cases = append(cases, &Case{Name: "bad", Type: TypeDataLoad, DataFile: "people.csv", ExpectedRows: 1})
	cases = append(cases, &Case{Name: "missing", Type: TypeDataLoad, DataFile: "nope.csv", ExpectedRows: 1})
	suite := &Suite{Name: "parallel", Cases: cases}

	r := &Runner{DataDir: dir, Parallelism: 4}
	if err := r.Run(context.Background(), suite); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if suite.Passed != 20 || suite.Skipped != 1 || suite.Failed != 1 || suite.Errors != 1 {
		t.Errorf("totals = passed %d, failed %d, skipped %d, errors %d",
			suite.Passed, suite.Failed, suite.Skipped, suite.Errors)
	}
	if suite.Ok() {
		t.Error("Ok() = true with failures")
	}
	if suite.RunID == "" {
		t.Error("RunID not set")
	}

	var buf bytes.Buffer
	if err := WriteSummary(&buf, suite); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}
	for _, want := range []string{"Suite: parallel", "Total test cases: 23", "Passed: 20", "Errors: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	WriteDetails(&buf, suite)
	for _, want := range []string{"Case", "Status", "PASS", "SKIP", "FAIL", "ERROR"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("details missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunner_QueryContext(t *testing.T) {
	dir := newDataDir(t)
	newCase := func() *Case {
		return &Case{
			Name:         "unknown column",
			Type:         TypeSQLQuery,
			SQL:          "SELECT name, salary FROM people",
			DataFile:     "people.csv",
			ExpectedRows: 3,
		}
	}

	t.Run("lenient logs the miss", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		tc := newCase()
		r := &Runner{DataDir: dir, Log: zap.New(core)}
		if err := r.Run(context.Background(), &Suite{Name: "lenient", Cases: []*Case{tc}}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if tc.Status != StatusPassed {
			t.Errorf("status = %v (%s), want passed", tc.Status, tc.Message)
		}
		misses := logs.FilterMessage("column not found").All()
		if len(misses) != 1 {
			t.Fatalf("logged %d misses, want 1", len(misses))
		}
		fields := misses[0].ContextMap()
		if fields["column"] != "salary" || fields["case"] != "unknown column" {
			t.Errorf("miss fields = %v", fields)
		}
	})

	t.Run("strict fails the case", func(t *testing.T) {
		tc := newCase()
		r := &Runner{DataDir: dir, StrictColumns: true}
		if err := r.Run(context.Background(), &Suite{Name: "strict", Cases: []*Case{tc}}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if tc.Status != StatusFailed {
			t.Errorf("status = %v, want failed", tc.Status)
		}
		want := "Query execution failed: " + query.MsgProjectFailed
		if !strings.HasPrefix(tc.Message, want) {
			t.Errorf("message = %q, want prefix %q", tc.Message, want)
		}
	})
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	suite := &Suite{Cases: []*Case{{Name: "x", Type: TypeFunctional}}}
	err := (&Runner{}).Run(ctx, suite)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
