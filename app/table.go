package main

import (
	"context"
	"strings"
)

// Table is the logical view of a sqlite_schema "table" entry: its declared
// columns and the rows reachable from its root page B-tree.
type Table struct {
	name     string
	rootPage int
	sql      string
	columns  []Column
	indexes  []schemaEntry
	bt       *BTree
}

func newTable(db *Database, entry schemaEntry, indexes []schemaEntry) (*Table, error) {
	columns, err := parseCreateTable(entry.SQL)
	if err != nil {
		return nil, wrapErr("new_table", err, map[string]interface{}{"table": entry.Name})
	}
	return &Table{
		name:     entry.Name,
		rootPage: entry.RootPage,
		sql:      entry.SQL,
		columns:  columns,
		indexes:  indexes,
		bt:       newTableBTree(db, entry.RootPage),
	}, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) Columns() []Column { return t.columns }

// ColumnIndex returns the declared position of name, or -1 if not found.
// Column lookup is case-insensitive, per spec.md §9's documented "Case
// handling" (table lookup stays case-sensitive; see findTableEntry).
func (t *Table) ColumnIndex(name string) int {
	for _, c := range t.columns {
		if strings.EqualFold(c.Name, name) {
			return c.Index
		}
	}
	return -1
}

// Rows returns every row in the table, in on-disk order.
func (t *Table) Rows(ctx context.Context) ([]Row, error) {
	return t.bt.ScanRows(ctx)
}

// Count returns the root page's direct cell count, per spec.md §4.8's
// documented COUNT(*) limitation: it does not recurse into interior
// nodes, so it undercounts tables spanning more than one leaf.
func (t *Table) Count(ctx context.Context) (int, error) {
	return t.bt.RootCellCount(ctx)
}

// RowByRowID looks up a single row by its integer key.
func (t *Table) RowByRowID(ctx context.Context, rowID int64) (Row, bool, error) {
	return t.bt.FindByRowID(ctx, rowID)
}

// IndexForColumn returns the schema entry for a single-column index on
// columnName, if spec.md §4.6's narrow index-discovery heuristic
// recognizes one.
func (t *Table) IndexForColumn(columnName string) (schemaEntry, bool) {
	for _, idx := range t.indexes {
		col, ok := indexedColumn(idx.SQL)
		if ok && col == columnName {
			return idx, true
		}
	}
	return schemaEntry{}, false
}

// Value returns a column's value for a row, substituting the row's rowid
// when that column is the declared INTEGER PRIMARY KEY alias.
func (t *Table) Value(row Row, columnIndex int) (CellValue, error) {
	return row.Get(columnIndex, t.columns)
}
