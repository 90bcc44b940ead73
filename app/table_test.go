package main

import "testing"

func TestColumnIndexIsCaseInsensitive(t *testing.T) {
	table := &Table{
		columns: []Column{
			{Name: "id", Index: 0, IsRowIDAlias: true},
			{Name: "Color", Index: 1},
		},
	}
	if table.ColumnIndex("ID") != 0 {
		t.Fatalf("expected case-insensitive match for ID")
	}
	if table.ColumnIndex("color") != 1 {
		t.Fatalf("expected case-insensitive match for color")
	}
	if table.ColumnIndex("missing") != -1 {
		t.Fatalf("expected -1 for a column that doesn't exist")
	}
}
