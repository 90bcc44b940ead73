package main

import (
	"strings"
	"testing"
)

func TestRunProgramCommands(t *testing.T) {
	dbPath := buildFixtureDatabase(t)

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "dbinfo command",
			args:     []string{"litepeek", dbPath, ".dbinfo"},
			contains: []string{"database page size:", "number of tables:"},
		},
		{
			name:     "tables command",
			args:     []string{"litepeek", dbPath, ".tables"},
			contains: []string{"apples"},
		},
		{
			name:     "sql select count",
			args:     []string{"litepeek", dbPath, "SELECT", "COUNT(*)", "FROM", "apples"},
			contains: []string{"2"},
		},
		{
			name:     "sql select with multiple columns",
			args:     []string{"litepeek", dbPath, "SELECT", "name,", "color", "FROM", "apples"},
			contains: []string{"Granny Smith|Green", "Fuji|Red"},
		},
		{
			name:     "sql select with where clause",
			args:     []string{"litepeek", dbPath, "SELECT", "name", "FROM", "apples", "WHERE", "color = 'Red'"},
			contains: []string{"Fuji"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr writerBuffer
			if err := runProgram(tt.args, &stdout, &stderr); err != nil {
				t.Fatalf("runProgram: %v (stderr: %s)", err, stderr.lines())
			}
			out := stdout.lines()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got: %s", want, out)
				}
			}
		})
	}
}

func TestRunProgramMissingArgs(t *testing.T) {
	var stdout, stderr writerBuffer
	err := runProgram([]string{"litepeek"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error when the database path and command are missing")
	}
	if stderr.lines() == "" {
		t.Fatal("expected a usage message on stderr")
	}
}

func TestRunProgramNonexistentDatabase(t *testing.T) {
	var stdout, stderr writerBuffer
	err := runProgram([]string{"litepeek", "/nonexistent/database.db", ".dbinfo"}, &stdout, &stderr)
	if err == nil {
		t.Fatal("expected an error for a nonexistent database file")
	}
}
