package main

import (
	"io"
	"strings"
)

// ConsoleFormatter renders rows as pipe-separated lines, matching the
// sqlite3 CLI's default output mode (spec.md §6).
type ConsoleFormatter struct {
	io.Writer
}

func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{Writer: w}
}

func (cf *ConsoleFormatter) FormatValue(v CellValue) string {
	return v.Display()
}

func (cf *ConsoleFormatter) FormatRow(values []CellValue) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = cf.FormatValue(v)
	}
	return strings.Join(parts, "|")
}

func (cf *ConsoleFormatter) FormatRows(rows [][]CellValue) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = cf.FormatRow(row)
	}
	return strings.Join(lines, "\n")
}
