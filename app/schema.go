package main

import (
	"context"
	"strings"
)

const schemaRootPage = 1

// schemaEntry is one row of sqlite_schema: type, name, tbl_name, rootpage,
// sql (spec.md §3 "Schema catalog").
type schemaEntry struct {
	Type     string
	Name     string
	TblName  string
	RootPage int
	SQL      string
}

// loadSchema reads every row of sqlite_schema off the root table B-tree on
// page 1, in on-disk order.
func loadSchema(ctx context.Context, db *Database) ([]schemaEntry, error) {
	bt := newTableBTree(db, schemaRootPage)
	rows, err := bt.ScanRows(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]schemaEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := schemaEntryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func schemaEntryFromRow(row Row) (schemaEntry, error) {
	if len(row.Values) < 5 {
		return schemaEntry{}, wrapErr("parse_schema_entry", ErrShortRecord, map[string]interface{}{
			"columns": len(row.Values),
		})
	}
	rootPage, _ := row.Values[3].AsInt64()
	return schemaEntry{
		Type:     row.Values[0].Display(),
		Name:     row.Values[1].Display(),
		TblName:  row.Values[2].Display(),
		RootPage: int(rootPage),
		SQL:      row.Values[4].Display(),
	}, nil
}

func findTableEntry(entries []schemaEntry, name string) (schemaEntry, bool) {
	for _, e := range entries {
		if e.Type == "table" && e.Name == name {
			return e, true
		}
	}
	return schemaEntry{}, false
}

func findIndexEntry(entries []schemaEntry, name string) (schemaEntry, bool) {
	for _, e := range entries {
		if e.Type == "index" && e.Name == name {
			return e, true
		}
	}
	return schemaEntry{}, false
}

// indexesOnTable returns every index entry belonging to tableName.
func indexesOnTable(entries []schemaEntry, tableName string) []schemaEntry {
	var out []schemaEntry
	for _, e := range entries {
		if e.Type == "index" && e.TblName == tableName {
			out = append(out, e)
		}
	}
	return out
}

// indexedColumn applies the narrow index-discovery heuristic (spec.md §4.6):
// it lowercases sql, finds the first " on ", and returns the trimmed text of
// the first parenthesised group after it. ok is false when there is no
// " on ", no such group, or the group lists more than one column. The table
// name written in sql and the spacing around it are not checked.
func indexedColumn(sql string) (column string, ok bool) {
	lower := strings.ToLower(sql)
	onIdx := strings.Index(lower, " on ")
	if onIdx == -1 {
		return "", false
	}
	rest := lower[onIdx+len(" on "):]

	open := strings.Index(rest, "(")
	close := strings.Index(rest, ")")
	if open == -1 || close == -1 || close < open {
		return "", false
	}
	inner := rest[open+1 : close]
	if strings.Contains(inner, ",") {
		return "", false
	}
	return strings.TrimSpace(inner), true
}
