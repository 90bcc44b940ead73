package main

import "context"

// Index is the logical view of a sqlite_schema "index" entry, usable only
// when spec.md §4.6's narrow single-column heuristic recognized its
// indexed column.
type Index struct {
	name      string
	tableName string
	column    string
	bt        *BTree
}

func newIndex(db *Database, entry schemaEntry) (*Index, bool) {
	column, ok := indexedColumn(entry.SQL)
	if !ok {
		return nil, false
	}
	return &Index{
		name:      entry.Name,
		tableName: entry.TblName,
		column:    column,
		bt:        newIndexBTree(db, entry.RootPage),
	}, true
}

func (idx *Index) Name() string { return idx.name }

func (idx *Index) Column() string { return idx.column }

// RowIDsForDisplay returns the rowids of every index entry whose key
// column's canonical display form equals display.
func (idx *Index) RowIDsForDisplay(ctx context.Context, display string) ([]int64, error) {
	cells, err := idx.bt.FindByKey(ctx, display)
	if err != nil {
		return nil, err
	}
	rowIDs := make([]int64, len(cells))
	for i, c := range cells {
		rowIDs[i] = c.RowID
	}
	return rowIDs, nil
}
