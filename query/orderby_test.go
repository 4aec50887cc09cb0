package query

import (
	"errors"
	"testing"

	"github.com/vegasq/minidb/table"
)

func TestApplyOrderBy_SingleColumn(t *testing.T) {
	letters := newTable(t, "t",
		[]table.Column{{Name: "s", Type: table.TypeString}},
		[]string{"b"}, []string{"a"}, []string{"c"},
	)
	numbers := newTable(t, "t",
		[]table.Column{{Name: "n", Type: table.TypeInteger}},
		[]string{"3"}, []string{"10"}, []string{"2"},
	)
	floats := newTable(t, "t",
		[]table.Column{{Name: "f", Type: table.TypeFloat}},
		[]string{"1.5"}, []string{"-2"}, []string{"1e1"},
	)
	nulls := newTable(t, "t",
		[]table.Column{{Name: "s", Type: table.TypeString}},
		[]string{"b"}, []string{"NULL"}, []string{"a"},
	)

	tests := []struct {
		name   string
		src    *table.Table
		column string
		dir    SortDirection
		want   []string
	}{
		{"string ascending", letters, "s", SortAscending, []string{"a", "b", "c"}},
		{"string descending", letters, "s", SortDescending, []string{"c", "b", "a"}},
		{"column case insensitive", letters, "S", SortAscending, []string{"a", "b", "c"}},
		{"integer ascending", numbers, "n", SortAscending, []string{"2", "3", "10"}},
		{"integer descending", numbers, "n", SortDescending, []string{"10", "3", "2"}},
		{"float ascending", floats, "f", SortAscending, []string{"-2", "1.5", "1e1"}},
		{"null sorts as empty text", nulls, "s", SortAscending, []string{"NULL", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sorted, err := ApplyOrderBy(tt.src, tt.column, tt.dir)
			if err != nil {
				t.Fatalf("ApplyOrderBy() error = %v", err)
			}
			if got := columnValues(t, sorted, 0); !equalStrings(got, tt.want) {
				t.Errorf("sorted = %v, want %v", got, tt.want)
			}
			if sorted.Name != SortResultName {
				t.Errorf("Name = %q, want %q", sorted.Name, SortResultName)
			}
		})
	}

	// source order is untouched
	if got := columnValues(t, letters, 0); !equalStrings(got, []string{"b", "a", "c"}) {
		t.Errorf("source reordered: %v", got)
	}
}

func TestApplyOrderBy_KeepsRowsTogether(t *testing.T) {
	src := newPeople(t)

	sorted, err := ApplyOrderBy(src, "age", SortAscending)
	if err != nil {
		t.Fatalf("ApplyOrderBy() error = %v", err)
	}
	if got := columnValues(t, sorted, 0); !equalStrings(got, []string{"Bob", "Alice"}) {
		t.Errorf("names = %v, want [Bob Alice]", got)
	}
	if got := columnValues(t, sorted, 1); !equalStrings(got, []string{"25", "30"}) {
		t.Errorf("ages = %v, want [25 30]", got)
	}
}

func TestApplyOrderBy_UnknownColumn(t *testing.T) {
	src := newPeople(t)

	var misses []LookupMiss
	ctx := NewExecutionContext(nil)
	ctx.OnLookupMiss = func(m LookupMiss) { misses = append(misses, m) }

	sorted, err := ApplyOrderByWithContext(src, "salary", SortAscending, ctx)
	if !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("error = %v, want ErrUnknownColumn", err)
	}
	if sorted != nil {
		t.Error("expected no table on failure")
	}
	if len(misses) != 1 || misses[0].Stage != StageSort {
		t.Errorf("misses = %+v", misses)
	}
}
