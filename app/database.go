package main

import "context"

// LoadSchema reads sqlite_schema once and builds the table/index catalog;
// subsequent calls return the cached result (spec.md §5).
func (db *Database) LoadSchema(ctx context.Context) ([]schemaEntry, error) {
	if db.schemaLoaded {
		return db.schema, nil
	}

	entries, err := loadSchema(ctx, db)
	if err != nil {
		return nil, wrapErr("load_schema", err, nil)
	}

	tables := make(map[string]*Table)
	indexes := make(map[string]*Index)

	for _, e := range entries {
		if e.Type != "table" {
			continue
		}
		table, err := newTable(db, e, indexesOnTable(entries, e.Name))
		if err != nil {
			return nil, err
		}
		tables[e.Name] = table
	}
	for _, e := range entries {
		if e.Type != "index" {
			continue
		}
		if idx, ok := newIndex(db, e); ok {
			indexes[e.Name] = idx
		}
	}

	db.schema = entries
	db.tables = tables
	db.indexes = indexes
	db.schemaLoaded = true
	return entries, nil
}

// TableNames returns every user table name, per spec.md §4.2 (".tables").
func (db *Database) TableNames(ctx context.Context) ([]string, error) {
	entries, err := db.LoadSchema(ctx)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type == "table" {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

// GetTable returns a logical table by name.
func (db *Database) GetTable(ctx context.Context, name string) (*Table, error) {
	entries, err := db.LoadSchema(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := findTableEntry(entries, name); !ok {
		return nil, wrapErr("get_table", ErrTableNotFound, map[string]interface{}{"table": name})
	}
	return db.tables[name], nil
}

// GetIndex returns a logical index by name.
func (db *Database) GetIndex(ctx context.Context, name string) (*Index, error) {
	entries, err := db.LoadSchema(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := findIndexEntry(entries, name); !ok {
		return nil, wrapErr("get_index", ErrSchemaNotFound, map[string]interface{}{"index": name})
	}
	idx, ok := db.indexes[name]
	if !ok {
		// The schema entry exists but spec.md §4.6's narrow heuristic
		// didn't recognize its indexed column.
		return nil, wrapErr("get_index", ErrSchemaNotFound, map[string]interface{}{"index": name, "reason": "index column not recognized"})
	}
	return idx, nil
}
