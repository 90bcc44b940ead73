package main

import "context"

// BTree walks a single table or index B-tree rooted at rootPage. It is the
// only traversal implementation in the program; table.go and index.go both
// build on it rather than walking pages themselves (spec.md §4.5).
type BTree struct {
	db       *Database
	rootPage int
	isTable  bool
}

func newTableBTree(db *Database, rootPage int) *BTree {
	return &BTree{db: db, rootPage: rootPage, isTable: true}
}

func newIndexBTree(db *Database, rootPage int) *BTree {
	return &BTree{db: db, rootPage: rootPage, isTable: false}
}

func headerOffsetFor(pageNum int) int {
	if pageNum == 1 {
		return databaseHeaderSize
	}
	return 0
}

// ScanRows returns every row in a table B-tree, in on-disk (rowid ascending
// within each leaf) order.
func (bt *BTree) ScanRows(ctx context.Context) ([]Row, error) {
	if !bt.isTable {
		return nil, wrapErr("scan_rows", ErrInvalidPageType, map[string]interface{}{"reason": "not a table btree"})
	}
	var rows []Row
	if err := bt.walkTablePage(ctx, bt.rootPage, func(r Row) { rows = append(rows, r) }); err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByRowID locates the row with the given rowid via a linear descent
// through interior pages, per spec.md §4.5 (binary search is permitted but
// not required).
func (bt *BTree) FindByRowID(ctx context.Context, rowID int64) (Row, bool, error) {
	if !bt.isTable {
		return Row{}, false, wrapErr("find_by_rowid", ErrInvalidPageType, nil)
	}
	return bt.searchTablePage(ctx, bt.rootPage, rowID)
}

// RootCellCount returns the cell count of the root page's B-tree header
// only, without recursing into any children — the behavior spec.md §4.8
// documents for `SELECT COUNT(*)`, correct only when the tree fits in one
// leaf page.
func (bt *BTree) RootCellCount(ctx context.Context) (int, error) {
	pageData, err := bt.db.ReadPage(ctx, bt.rootPage)
	if err != nil {
		return 0, err
	}
	header, err := parsePageHeader(pageData, headerOffsetFor(bt.rootPage))
	if err != nil {
		return 0, err
	}
	return int(header.CellCount), nil
}

// ScanKeys returns every key/rowid pair in an index B-tree.
func (bt *BTree) ScanKeys(ctx context.Context) ([]indexLeafCell, error) {
	if bt.isTable {
		return nil, wrapErr("scan_keys", ErrInvalidPageType, map[string]interface{}{"reason": "not an index btree"})
	}
	var cells []indexLeafCell
	if err := bt.walkIndexPage(ctx, bt.rootPage, func(c indexLeafCell) { cells = append(cells, c) }); err != nil {
		return nil, err
	}
	return cells, nil
}

// FindByKey descends to the single leaf page whose range could contain
// display, and returns every leaf entry whose first key column's display
// form matches. Per spec.md §4.5/§9, a match that spans a leaf boundary is
// not revisited.
func (bt *BTree) FindByKey(ctx context.Context, display string) ([]indexLeafCell, error) {
	if bt.isTable {
		return nil, wrapErr("find_by_key", ErrInvalidPageType, nil)
	}
	return bt.searchIndexPage(ctx, bt.rootPage, display)
}

func (bt *BTree) walkTablePage(ctx context.Context, pageNum int, emit func(Row)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pageData, err := bt.db.ReadPage(ctx, pageNum)
	if err != nil {
		return err
	}
	headerOffset := headerOffsetFor(pageNum)
	header, err := parsePageHeader(pageData, headerOffset)
	if err != nil {
		return err
	}

	if header.PageType == pageTypeLeafTable {
		for i := 0; i < int(header.CellCount); i++ {
			off, err := cellOffsetAt(pageData, header, headerOffset, i)
			if err != nil {
				return err
			}
			cell, _, err := decodeTableLeafCell(pageData, off)
			if err != nil {
				return err
			}
			emit(cell.Row)
		}
		return nil
	}

	if header.PageType != pageTypeInteriorTable {
		return wrapErr("walk_table_page", ErrInvalidPageType, map[string]interface{}{"page": pageNum})
	}
	for i := 0; i < int(header.CellCount); i++ {
		off, err := cellOffsetAt(pageData, header, headerOffset, i)
		if err != nil {
			return err
		}
		cell, err := decodeTableInteriorCell(pageData, off)
		if err != nil {
			return err
		}
		if err := bt.walkTablePage(ctx, cell.ChildPage, emit); err != nil {
			return err
		}
	}
	return bt.walkTablePage(ctx, int(header.RightmostChild), emit)
}

func (bt *BTree) searchTablePage(ctx context.Context, pageNum int, rowID int64) (Row, bool, error) {
	if err := ctx.Err(); err != nil {
		return Row{}, false, err
	}
	pageData, err := bt.db.ReadPage(ctx, pageNum)
	if err != nil {
		return Row{}, false, err
	}
	headerOffset := headerOffsetFor(pageNum)
	header, err := parsePageHeader(pageData, headerOffset)
	if err != nil {
		return Row{}, false, err
	}

	if header.PageType == pageTypeLeafTable {
		for i := 0; i < int(header.CellCount); i++ {
			off, err := cellOffsetAt(pageData, header, headerOffset, i)
			if err != nil {
				return Row{}, false, err
			}
			cell, _, err := decodeTableLeafCell(pageData, off)
			if err != nil {
				return Row{}, false, err
			}
			if cell.RowID == rowID {
				return cell.Row, true, nil
			}
		}
		return Row{}, false, nil
	}

	if header.PageType != pageTypeInteriorTable {
		return Row{}, false, wrapErr("search_table_page", ErrInvalidPageType, nil)
	}
	for i := 0; i < int(header.CellCount); i++ {
		off, err := cellOffsetAt(pageData, header, headerOffset, i)
		if err != nil {
			return Row{}, false, err
		}
		cell, err := decodeTableInteriorCell(pageData, off)
		if err != nil {
			return Row{}, false, err
		}
		if rowID <= cell.RowID {
			return bt.searchTablePage(ctx, cell.ChildPage, rowID)
		}
	}
	return bt.searchTablePage(ctx, int(header.RightmostChild), rowID)
}

func (bt *BTree) walkIndexPage(ctx context.Context, pageNum int, emit func(indexLeafCell)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pageData, err := bt.db.ReadPage(ctx, pageNum)
	if err != nil {
		return err
	}
	headerOffset := headerOffsetFor(pageNum)
	header, err := parsePageHeader(pageData, headerOffset)
	if err != nil {
		return err
	}

	if header.PageType == pageTypeLeafIndex {
		for i := 0; i < int(header.CellCount); i++ {
			off, err := cellOffsetAt(pageData, header, headerOffset, i)
			if err != nil {
				return err
			}
			cell, err := decodeIndexLeafCell(pageData, off)
			if err != nil {
				return err
			}
			emit(cell)
		}
		return nil
	}

	if header.PageType != pageTypeInteriorIndex {
		return wrapErr("walk_index_page", ErrInvalidPageType, nil)
	}
	for i := 0; i < int(header.CellCount); i++ {
		off, err := cellOffsetAt(pageData, header, headerOffset, i)
		if err != nil {
			return err
		}
		cell, err := decodeIndexInteriorCell(pageData, off)
		if err != nil {
			return err
		}
		if err := bt.walkIndexPage(ctx, cell.ChildPage, emit); err != nil {
			return err
		}
	}
	return bt.walkIndexPage(ctx, int(header.RightmostChild), emit)
}

func (bt *BTree) searchIndexPage(ctx context.Context, pageNum int, display string) ([]indexLeafCell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pageData, err := bt.db.ReadPage(ctx, pageNum)
	if err != nil {
		return nil, err
	}
	headerOffset := headerOffsetFor(pageNum)
	header, err := parsePageHeader(pageData, headerOffset)
	if err != nil {
		return nil, err
	}

	if header.PageType == pageTypeLeafIndex {
		var matches []indexLeafCell
		for i := 0; i < int(header.CellCount); i++ {
			off, err := cellOffsetAt(pageData, header, headerOffset, i)
			if err != nil {
				return nil, err
			}
			cell, err := decodeIndexLeafCell(pageData, off)
			if err != nil {
				return nil, err
			}
			if len(cell.Key) > 0 && cell.Key[0].Display() == display {
				matches = append(matches, cell)
			}
		}
		return matches, nil
	}

	if header.PageType != pageTypeInteriorIndex {
		return nil, wrapErr("search_index_page", ErrInvalidPageType, nil)
	}
	for i := 0; i < int(header.CellCount); i++ {
		off, err := cellOffsetAt(pageData, header, headerOffset, i)
		if err != nil {
			return nil, err
		}
		cell, err := decodeIndexInteriorCell(pageData, off)
		if err != nil {
			return nil, err
		}
		if len(cell.Key) > 0 && display <= cell.Key[0].Display() {
			return bt.searchIndexPage(ctx, cell.ChildPage, display)
		}
	}
	return bt.searchIndexPage(ctx, int(header.RightmostChild), display)
}
