package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
)

const (
	magicHeaderString  = "SQLite format 3\x00"
	databaseHeaderSize = 100

	pageTypeInteriorIndex = 2
	pageTypeInteriorTable = 5
	pageTypeLeafIndex     = 10
	pageTypeLeafTable     = 13

	leafPageHeaderSize     = 8
	interiorPageHeaderSize = 12
)

// DatabaseHeader is the parsed 100-byte SQLite database file header.
type DatabaseHeader struct {
	MagicNumber     [16]byte
	PageSize        uint16
	FileFormatWrite uint8
	FileFormatRead  uint8
	ReservedBytes   uint8
	MaxPayload      uint8
	MinPayload      uint8
	LeafPayload     uint8
	FileChangeCount uint32
	DatabaseSize    uint32
	FirstFreePage   uint32
	FreePageCount   uint32
	SchemaCookie    uint32
	SchemaFormat    uint32
	DefaultCache    uint32
	LargestBTree    uint32
	TextEncoding    uint32
	UserVersion     uint32
	IncrVacuum      uint32
	AppID           uint32
	Reserved        [20]byte
	VersionValid    uint32
	SQLiteVersion   uint32
}

// PageHeader is a B-tree page header. RightmostChild is only meaningful
// when PageType is an interior type.
type PageHeader struct {
	PageType         uint8
	FirstFreeblock   uint16
	CellCount        uint16
	CellContentStart uint16
	FragmentedBytes  uint8
	RightmostChild   uint32
}

func (h *PageHeader) isLeaf() bool {
	return h.PageType == pageTypeLeafTable || h.PageType == pageTypeLeafIndex
}

func (h *PageHeader) isTable() bool {
	return h.PageType == pageTypeLeafTable || h.PageType == pageTypeInteriorTable
}

func (h *PageHeader) cellPointerOffset() int {
	if h.isLeaf() {
		return leafPageHeaderSize
	}
	return interiorPageHeaderSize
}

// Database owns the open file handle and cached page size, plus the lazily
// loaded schema catalog and its derived tables/indexes; it is the only
// long-lived entity in the system (see spec.md §5).
type Database struct {
	file     *os.File
	header   *DatabaseHeader
	pageSize int

	schemaLoaded bool
	schema       []schemaEntry
	tables       map[string]*Table
	indexes      map[string]*Index
}

// OpenDatabase opens a SQLite file and parses its 100-byte header.
func OpenDatabase(path string) (*Database, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, wrapErr("open_database", fmt.Errorf("%w: %v", ErrIO, err), map[string]interface{}{
			"path": path,
		})
	}

	db := &Database{file: file}
	if err := db.parseHeader(); err != nil {
		file.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying file handle.
func (db *Database) Close() error {
	return db.file.Close()
}

// GetPageSize returns the database page size in bytes.
func (db *Database) GetPageSize() int {
	return db.pageSize
}

func (db *Database) parseHeader() error {
	raw := make([]byte, databaseHeaderSize)
	if _, err := db.file.ReadAt(raw, 0); err != nil {
		return wrapErr("parse_header", fmt.Errorf("%w: %v", ErrBadHeader, err), nil)
	}

	header := &DatabaseHeader{}
	if err := binary.Read(bytes.NewReader(raw), binary.BigEndian, header); err != nil {
		return wrapErr("parse_header", fmt.Errorf("%w: %v", ErrBadHeader, err), nil)
	}

	if string(header.MagicNumber[:]) != magicHeaderString {
		return wrapErr("parse_header", ErrBadHeader, map[string]interface{}{
			"reason": "missing SQLite magic string",
		})
	}

	// The sentinel page size value of 1 (meaning 65536) is deferred, per
	// spec.md §3; treated as invalid rather than remapped.
	pageSize := int(header.PageSize)
	if pageSize < 512 || pageSize > 65536 || pageSize&(pageSize-1) != 0 {
		return wrapErr("parse_header", ErrBadHeader, map[string]interface{}{
			"reason":    "page size is not a power of two in [512, 65536]",
			"page_size": header.PageSize,
		})
	}

	db.header = header
	db.pageSize = pageSize
	return nil
}

// ReadPage reads the pageSize bytes for a 1-based page number.
func (db *Database) ReadPage(ctx context.Context, pageNum int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pageNum < 1 {
		return nil, wrapErr("read_page", ErrOutOfBounds, map[string]interface{}{"page": pageNum})
	}

	offset := int64(pageNum-1) * int64(db.pageSize)
	buf := make([]byte, db.pageSize)
	n, err := db.file.ReadAt(buf, offset)
	if err != nil {
		return nil, wrapErr("read_page", fmt.Errorf("%w: %v", ErrShortRead, err), map[string]interface{}{
			"page": pageNum,
		})
	}
	if n != db.pageSize {
		return nil, wrapErr("read_page", ErrShortRead, map[string]interface{}{
			"page": pageNum, "got": n, "want": db.pageSize,
		})
	}
	return buf, nil
}

// parsePageHeader parses a B-tree page header. headerOffset is 100 for
// page 1 (the database header precedes it) and 0 for every other page.
func parsePageHeader(pageData []byte, headerOffset int) (*PageHeader, error) {
	if headerOffset+leafPageHeaderSize > len(pageData) {
		return nil, wrapErr("parse_page_header", ErrShortRead, nil)
	}

	h := &PageHeader{
		PageType:         pageData[headerOffset],
		FirstFreeblock:   binary.BigEndian.Uint16(pageData[headerOffset+1 : headerOffset+3]),
		CellCount:        binary.BigEndian.Uint16(pageData[headerOffset+3 : headerOffset+5]),
		CellContentStart: binary.BigEndian.Uint16(pageData[headerOffset+5 : headerOffset+7]),
		FragmentedBytes:  pageData[headerOffset+7],
	}

	switch h.PageType {
	case pageTypeLeafTable, pageTypeLeafIndex:
		// 8-byte header, no rightmost pointer.
	case pageTypeInteriorTable, pageTypeInteriorIndex:
		if headerOffset+interiorPageHeaderSize > len(pageData) {
			return nil, wrapErr("parse_page_header", ErrShortRead, nil)
		}
		h.RightmostChild = binary.BigEndian.Uint32(pageData[headerOffset+8 : headerOffset+12])
	default:
		return nil, wrapErr("parse_page_header", ErrInvalidPageType, map[string]interface{}{
			"page_type": h.PageType,
		})
	}

	return h, nil
}

// cellOffsetAt reads the i-th cell pointer from a page's cell pointer array.
func cellOffsetAt(pageData []byte, header *PageHeader, headerOffset, i int) (int, error) {
	ptrOffset := headerOffset + header.cellPointerOffset() + i*2
	if ptrOffset+2 > len(pageData) {
		return 0, wrapErr("cell_pointer", ErrOutOfBounds, map[string]interface{}{"index": i})
	}
	return int(binary.BigEndian.Uint16(pageData[ptrOffset : ptrOffset+2])), nil
}
