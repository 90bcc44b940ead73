package main

import "encoding/binary"

// tableLeafCell is a decoded table-leaf cell: varint payload_size, varint
// rowid, record (spec.md §3 "Cell layouts").
type tableLeafCell struct {
	RowID int64
	Row   Row
}

// tableInteriorCell is a decoded table-interior cell: 4-byte child page
// number, varint rowid key.
type tableInteriorCell struct {
	ChildPage int
	RowID     int64
}

// indexLeafCell is a decoded index-leaf cell: varint payload_size, record
// (last record column is the indexed row's rowid).
type indexLeafCell struct {
	Key   []CellValue
	RowID int64
}

// indexInteriorCell is a decoded index-interior cell: 4-byte child page
// number, varint payload_size, record (the boundary key).
type indexInteriorCell struct {
	ChildPage int
	Key       []CellValue
}

func decodeTableLeafCell(pageData []byte, offset int) (tableLeafCell, int, error) {
	payloadSize, n := readVarint(pageData, offset)
	if n == 0 {
		return tableLeafCell{}, 0, wrapErr("decode_table_leaf_cell", ErrCorruptVarint, nil)
	}
	offset += n

	rowID, n := readVarint(pageData, offset)
	if n == 0 {
		return tableLeafCell{}, 0, wrapErr("decode_table_leaf_cell", ErrCorruptVarint, nil)
	}
	offset += n

	if offset+int(payloadSize) > len(pageData) {
		return tableLeafCell{}, 0, wrapErr("decode_table_leaf_cell", ErrShortRecord, map[string]interface{}{
			"payload_size": payloadSize,
		})
	}
	payload := pageData[offset : offset+int(payloadSize)]

	values, err := decodeRecord(payload)
	if err != nil {
		return tableLeafCell{}, 0, err
	}

	return tableLeafCell{
		RowID: int64(rowID),
		Row:   Row{RowID: int64(rowID), Values: values},
	}, offset + int(payloadSize), nil
}

func decodeTableInteriorCell(pageData []byte, offset int) (tableInteriorCell, error) {
	if offset+4 > len(pageData) {
		return tableInteriorCell{}, wrapErr("decode_table_interior_cell", ErrOutOfBounds, nil)
	}
	childPage := binary.BigEndian.Uint32(pageData[offset : offset+4])
	offset += 4

	rowID, n := readVarint(pageData, offset)
	if n == 0 {
		return tableInteriorCell{}, wrapErr("decode_table_interior_cell", ErrCorruptVarint, nil)
	}

	return tableInteriorCell{ChildPage: int(childPage), RowID: int64(rowID)}, nil
}

func decodeIndexLeafCell(pageData []byte, offset int) (indexLeafCell, error) {
	payloadSize, n := readVarint(pageData, offset)
	if n == 0 {
		return indexLeafCell{}, wrapErr("decode_index_leaf_cell", ErrCorruptVarint, nil)
	}
	offset += n

	if offset+int(payloadSize) > len(pageData) {
		return indexLeafCell{}, wrapErr("decode_index_leaf_cell", ErrShortRecord, nil)
	}
	payload := pageData[offset : offset+int(payloadSize)]

	values, err := decodeRecord(payload)
	if err != nil {
		return indexLeafCell{}, err
	}
	if len(values) == 0 {
		return indexLeafCell{}, wrapErr("decode_index_leaf_cell", ErrShortRecord, map[string]interface{}{
			"reason": "empty index record",
		})
	}

	rowID, ok := values[len(values)-1].AsInt64()
	if !ok {
		return indexLeafCell{}, wrapErr("decode_index_leaf_cell", ErrInvalidSerialType, map[string]interface{}{
			"reason": "trailing rowid column is not numeric",
		})
	}

	return indexLeafCell{Key: values[:len(values)-1], RowID: rowID}, nil
}

func decodeIndexInteriorCell(pageData []byte, offset int) (indexInteriorCell, error) {
	if offset+4 > len(pageData) {
		return indexInteriorCell{}, wrapErr("decode_index_interior_cell", ErrOutOfBounds, nil)
	}
	childPage := binary.BigEndian.Uint32(pageData[offset : offset+4])
	offset += 4

	payloadSize, n := readVarint(pageData, offset)
	if n == 0 {
		return indexInteriorCell{}, wrapErr("decode_index_interior_cell", ErrCorruptVarint, nil)
	}
	offset += n

	if offset+int(payloadSize) > len(pageData) {
		return indexInteriorCell{}, wrapErr("decode_index_interior_cell", ErrShortRecord, nil)
	}
	payload := pageData[offset : offset+int(payloadSize)]

	values, err := decodeRecord(payload)
	if err != nil {
		return indexInteriorCell{}, err
	}

	return indexInteriorCell{ChildPage: int(childPage), Key: values}, nil
}
