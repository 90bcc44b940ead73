package main

import "strings"

// parseCreateTable is a deliberately naive CREATE TABLE parser: it finds
// the first "(" and the last ")" and splits everything between them on
// plain commas, with no regard for parentheses nested inside a column's
// type or constraints (spec.md §4.7). A column definition written with a
// comma inside, e.g. a DECIMAL(10,2) type, splits incorrectly; this is a
// known, accepted limitation rather than a bug to fix.
func parseCreateTable(sql string) ([]Column, error) {
	start := strings.Index(sql, "(")
	if start == -1 {
		return nil, wrapErr("parse_create_table", ErrInvalidDDL, map[string]interface{}{
			"reason": "missing opening parenthesis",
		})
	}
	end := strings.LastIndex(sql, ")")
	if end <= start {
		return nil, wrapErr("parse_create_table", ErrInvalidDDL, map[string]interface{}{
			"reason": "missing closing parenthesis",
		})
	}

	defs := strings.Split(sql[start+1:end], ",")

	columns := make([]Column, 0, len(defs))
	rowIDAliasIndex := -1

	for i, def := range defs {
		def = strings.TrimSpace(def)
		fields := strings.Fields(def)
		if len(fields) < 1 {
			continue
		}
		name := strings.Trim(fields[0], `"`+"`")

		columns = append(columns, Column{Name: name, Index: i})

		// First PRIMARY KEY-bearing column wins when more than one column
		// definition happens to contain the phrase.
		if rowIDAliasIndex == -1 && strings.Contains(strings.ToUpper(def), "PRIMARY KEY") {
			rowIDAliasIndex = i
		}
	}

	if rowIDAliasIndex >= 0 && rowIDAliasIndex < len(columns) {
		columns[rowIDAliasIndex].IsRowIDAlias = true
	}

	return columns, nil
}
