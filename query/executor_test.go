package query

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vegasq/minidb/table"
)

func TestExecute_PeopleScenario(t *testing.T) {
	src := newPeople(t)

	q, err := Parse("SELECT name FROM people WHERE age > 26")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	result := Execute(src, q)
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Message)
	}
	if result.AffectedRows != 1 {
		t.Errorf("AffectedRows = %d, want 1", result.AffectedRows)
	}
	if result.Message != "Query successful, returned 1 rows" {
		t.Errorf("Message = %q", result.Message)
	}
	if result.FailedStage != StageNone {
		t.Errorf("FailedStage = %v, want none", result.FailedStage)
	}

	want := newTable(t, "want",
		[]table.Column{{Name: "name", Type: table.TypeString}},
		[]string{"Alice"},
	)
	if !result.Table.Equal(want) {
		t.Errorf("result = %v, want [[Alice]]", columnValues(t, result.Table, 0))
	}
}

func TestExecute_QuotedOrderByInValue(t *testing.T) {
	src := newTable(t, "docs",
		[]table.Column{{Name: "title", Type: table.TypeString}},
		[]string{"sort ORDER BY name here"},
		[]string{"unrelated"},
	)

	q, err := Parse("SELECT title FROM docs WHERE title LIKE 'ORDER BY name'")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	result := Execute(src, q)
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Message)
	}
	if got := columnValues(t, result.Table, 0); !equalStrings(got, []string{"sort ORDER BY name here"}) {
		t.Errorf("result = %v, want the matching title", got)
	}
}

func TestExecute_RejectedStatement(t *testing.T) {
	q, err := Parse("SELECT * FROM t WHERE a = 1 AND b = 2")
	if q != nil {
		t.Errorf("Parse() = %+v, want nil", q)
	}
	if !errors.Is(err, ErrParseRejected) {
		t.Errorf("error = %v, want ErrParseRejected", err)
	}
}

func TestExecute_Pipeline(t *testing.T) {
	src := newTable(t, "people",
		[]table.Column{
			{Name: "name", Type: table.TypeString},
			{Name: "age", Type: table.TypeInteger},
			{Name: "city", Type: table.TypeString},
		},
		[]string{"Alice", "30", "Paris"},
		[]string{"Bob", "25", "Berlin"},
		[]string{"Carol", "41", "Paris"},
		[]string{"Dave", "19", "Rome"},
	)

	tests := []struct {
		name      string
		sql       string
		wantNames []string
		wantCol0  []string
	}{
		{
			name:      "select all",
			sql:       "SELECT * FROM people",
			wantNames: []string{"name", "age", "city"},
			wantCol0:  []string{"Alice", "Bob", "Carol", "Dave"},
		},
		{
			name:      "filter and project",
			sql:       "SELECT name FROM people WHERE city = 'Paris'",
			wantNames: []string{"name"},
			wantCol0:  []string{"Alice", "Carol"},
		},
		{
			name:      "sort descending",
			sql:       "SELECT name, age FROM people ORDER BY age DESC",
			wantNames: []string{"name", "age"},
			wantCol0:  []string{"Carol", "Alice", "Bob", "Dave"},
		},
		{
			name:      "filter project sort",
			sql:       "SELECT age, name FROM people WHERE age > 20 ORDER BY age",
			wantNames: []string{"age", "name"},
			wantCol0:  []string{"25", "30", "41"},
		},
		{
			name:      "like",
			sql:       "SELECT name FROM people WHERE name LIKE 'a'",
			wantNames: []string{"name"},
			wantCol0:  []string{"Carol", "Dave"},
		},
		{
			name:      "no matches",
			sql:       "SELECT name FROM people WHERE city = 'Oslo'",
			wantNames: []string{"name"},
			wantCol0:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.sql)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			result := Execute(src, q)
			if !result.Success {
				t.Fatalf("Execute() failed: %s", result.Message)
			}
			if !equalStrings(result.Table.ColumnNames(), tt.wantNames) {
				t.Errorf("ColumnNames() = %v, want %v", result.Table.ColumnNames(), tt.wantNames)
			}
			if got := columnValues(t, result.Table, 0); !equalStrings(got, tt.wantCol0) {
				t.Errorf("first column = %v, want %v", got, tt.wantCol0)
			}
			if result.AffectedRows != result.Table.RowCount() {
				t.Errorf("AffectedRows = %d, RowCount() = %d", result.AffectedRows, result.Table.RowCount())
			}
		})
	}

	if src.RowCount() != 4 || src.Name != "people" {
		t.Errorf("source table modified: %s with %d rows", src.Name, src.RowCount())
	}
}

func TestExecute_StageFailures(t *testing.T) {
	src := newPeople(t)

	t.Run("sort on unknown column", func(t *testing.T) {
		q, err := Parse("SELECT * FROM people ORDER BY salary")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		result := Execute(src, q)
		if result.Success || result.Table != nil {
			t.Fatalf("Execute() = %+v, want failure", result)
		}
		if result.FailedStage != StageSort {
			t.Errorf("FailedStage = %v, want sort", result.FailedStage)
		}
		if !strings.HasPrefix(result.Message, MsgSortFailed) {
			t.Errorf("Message = %q", result.Message)
		}
	})

	t.Run("strict projection", func(t *testing.T) {
		q, err := Parse("SELECT name, salary FROM people")
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		ctx := NewExecutionContext(nil)
		ctx.StrictColumns = true

		result := ctx.Execute(src, q)
		if result.Success {
			t.Fatal("Execute() succeeded, want failure")
		}
		if result.FailedStage != StageProject {
			t.Errorf("FailedStage = %v, want project", result.FailedStage)
		}
		if !strings.HasPrefix(result.Message, MsgProjectFailed) {
			t.Errorf("Message = %q", result.Message)
		}
	})

	t.Run("nil source", func(t *testing.T) {
		result := Execute(nil, NewQuery())
		if result.Success {
			t.Error("Execute(nil) succeeded")
		}
	})

	t.Run("nil query", func(t *testing.T) {
		result := Execute(src, nil)
		if result.Success {
			t.Error("Execute(nil query) succeeded")
		}
	})
}

func TestExecute_LogsLookupMiss(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := NewExecutionContext(zap.New(core))

	q, err := Parse("SELECT name, salary FROM people")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	result := ctx.Execute(newPeople(t), q)
	if !result.Success {
		t.Fatalf("Execute() failed: %s", result.Message)
	}

	entries := logs.FilterMessage("column not found").All()
	if len(entries) != 1 {
		t.Fatalf("got %d lookup miss log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["column"]; got != "salary" {
		t.Errorf("logged column = %v, want salary", got)
	}
}
