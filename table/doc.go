// Package table provides the in-memory relation queried by minidb.
//
// A Table has an ordered schema of typed columns and an ordered, growable
// collection of rows. Every row has exactly one cell per column, and each
// cell is either present text or NULL.
//
// # Basic Usage
//
// Building a table by hand:
//
//	t, err := table.New("people", []table.Column{
//	    {Name: "name", Type: table.TypeString},
//	    {Name: "age", Type: table.TypeInteger},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	_ = t.AppendStrings("Alice", "30")
//	_ = t.AppendRow([]table.Cell{table.Text("Bob"), table.Null()})
//
// # Column Types
//
// Column types drive comparison semantics in the query engine:
//   - Integer and Float columns compare numerically
//   - String and Unknown columns compare lexically
//
// A type is assigned once. Loaders create columns as TypeUnknown and call
// SetColumnType after sampling the data; later assignments are rejected.
//
// # Ownership
//
// Rows are copied on insertion and on read, so a table never shares row
// storage with another table. Query stages always produce new tables.
//
// # Capacity
//
// A table starts with InitialCapacity row slots and doubles its capacity
// whenever it fills up. A schema holds at most MaxColumns columns.
package table
