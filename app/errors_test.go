package main

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestOpenDatabaseWrapsErrIO(t *testing.T) {
	_, err := OpenDatabase("/nonexistent/path/does-not-exist.db")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected errors.Is(err, ErrIO) to hold, got %v", err)
	}
}

func TestOpenDatabaseWrapsErrBadHeader(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "bad-header-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(make([]byte, databaseHeaderSize)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err = OpenDatabase(f.Name())
	if err == nil {
		t.Fatal("expected an error for a file missing the SQLite magic string")
	}
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected errors.Is(err, ErrBadHeader) to hold, got %v", err)
	}
}

func TestOpenDatabaseWrapsErrBadHeaderOnShortFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "truncated-header-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(make([]byte, 10)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, err = OpenDatabase(f.Name())
	if err == nil {
		t.Fatal("expected an error for a file shorter than the 100-byte header")
	}
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("expected errors.Is(err, ErrBadHeader) to hold, got %v", err)
	}
}

func TestReadPageWrapsErrShortRead(t *testing.T) {
	header := buildDatabaseHeader(uint16(fixturePageSize))
	f, err := os.CreateTemp(t.TempDir(), "short-*.db")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	defer f.Close()
	// Write only the 100-byte header, well short of a full page.
	if _, err := f.Write(header); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	db, err := OpenDatabase(f.Name())
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer db.Close()

	_, err = db.ReadPage(context.Background(), 1)
	if err == nil {
		t.Fatal("expected an error reading past end of file")
	}
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("expected errors.Is(err, ErrShortRead) to hold, got %v", err)
	}
}

func TestSQLParseErrorWrapsErrUnsupportedSQL(t *testing.T) {
	path := buildFixtureDatabase(t)
	db, err := OpenDatabase(path)
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	defer db.Close()

	var out writerBuffer
	engine := NewEngine(db, NewConsoleFormatter(&out))
	err = engine.Execute(context.Background(), "not valid sql at all (((")
	if err == nil {
		t.Fatal("expected an error for unparseable sql")
	}
	if !errors.Is(err, ErrUnsupportedSQL) {
		t.Fatalf("expected errors.Is(err, ErrUnsupportedSQL) to hold, got %v", err)
	}
}
