package main

import "testing"

func TestIndexedColumnRecognizesNarrowPhrasing(t *testing.T) {
	sql := `CREATE INDEX idx_companies_country ON companies (country)`
	column, ok := indexedColumn(sql)
	if !ok {
		t.Fatal("expected the exact phrasing to be recognized")
	}
	if column != "country" {
		t.Fatalf("got %q, want country", column)
	}
}

func TestIndexedColumnRejectsMultiColumn(t *testing.T) {
	sql := `CREATE INDEX idx ON companies (country, city)`
	if _, ok := indexedColumn(sql); ok {
		t.Fatal("expected multi-column index to be rejected by the narrow heuristic")
	}
}

func TestIndexedColumnRejectsMissingOn(t *testing.T) {
	if _, ok := indexedColumn("garbage sql"); ok {
		t.Fatal("expected no match without an ON clause")
	}
}

func TestSchemaEntryFromRow(t *testing.T) {
	row := Row{
		RowID: 1,
		Values: []CellValue{
			{Kind: KindText, Bytes: []byte("table")},
			{Kind: KindText, Bytes: []byte("apples")},
			{Kind: KindText, Bytes: []byte("apples")},
			{Kind: KindInt, Int: 2},
			{Kind: KindText, Bytes: []byte("CREATE TABLE apples (id INTEGER PRIMARY KEY)")},
		},
	}
	entry, err := schemaEntryFromRow(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Type != "table" || entry.Name != "apples" || entry.RootPage != 2 {
		t.Fatalf("got %+v", entry)
	}
}

func TestSchemaEntryFromRowShortRecord(t *testing.T) {
	row := Row{Values: []CellValue{{Kind: KindText, Bytes: []byte("table")}}}
	if _, err := schemaEntryFromRow(row); err == nil {
		t.Fatal("expected error for a schema row with fewer than 5 columns")
	}
}

func TestFindTableAndIndexEntry(t *testing.T) {
	entries := []schemaEntry{
		{Type: "table", Name: "apples", RootPage: 2},
		{Type: "index", Name: "idx_apples_color", TblName: "apples", RootPage: 3},
	}
	if _, ok := findTableEntry(entries, "apples"); !ok {
		t.Fatal("expected to find table apples")
	}
	if _, ok := findIndexEntry(entries, "idx_apples_color"); !ok {
		t.Fatal("expected to find index idx_apples_color")
	}
	if _, ok := findTableEntry(entries, "oranges"); ok {
		t.Fatal("did not expect to find table oranges")
	}
	idxs := indexesOnTable(entries, "apples")
	if len(idxs) != 1 {
		t.Fatalf("got %d indexes on apples, want 1", len(idxs))
	}
}
