package main

// decodeRecord parses a record payload into its ordered CellValues. A
// record payload is a varint header (header size, then one varint serial
// type per column) followed by the column bodies back to back, per
// spec.md §3 "Record".
func decodeRecord(payload []byte) ([]CellValue, error) {
	headerSize, n := readVarint(payload, 0)
	if n == 0 {
		return nil, wrapErr("decode_record", ErrCorruptVarint, map[string]interface{}{
			"reason": "record header size",
		})
	}
	if int(headerSize) > len(payload) {
		return nil, wrapErr("decode_record", ErrShortRecord, map[string]interface{}{
			"header_size": headerSize, "payload_size": len(payload),
		})
	}

	var serialTypes []uint64
	offset := n
	for offset < int(headerSize) {
		st, read := readVarint(payload, offset)
		if read == 0 {
			return nil, wrapErr("decode_record", ErrCorruptVarint, map[string]interface{}{
				"reason": "serial type", "offset": offset,
			})
		}
		serialTypes = append(serialTypes, st)
		offset += read
	}

	values := make([]CellValue, len(serialTypes))
	bodyOffset := int(headerSize)
	for i, st := range serialTypes {
		width := serialTypeWidth(st)
		if bodyOffset+width > len(payload) {
			return nil, wrapErr("decode_record", ErrShortRecord, map[string]interface{}{
				"column": i, "needed": bodyOffset + width, "payload_size": len(payload),
			})
		}
		value, err := decodeValue(st, payload[bodyOffset:bodyOffset+width])
		if err != nil {
			return nil, err
		}
		values[i] = value
		bodyOffset += width
	}

	return values, nil
}
