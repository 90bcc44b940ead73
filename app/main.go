package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Usage: <program> <database-path> <command>
func main() {
	if err := runProgram(os.Args, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// runProgram implements main's logic against explicit args/output streams
// so it can be exercised directly from tests without spawning a process.
func runProgram(args []string, stdout, stderr io.Writer) error {
	if len(args) < 3 {
		fmt.Fprintln(stderr, "usage: <program> <database-path> <command>")
		return errors.New("usage: <program> <database-path> <command>")
	}

	databaseFilePath := args[1]
	command := strings.Join(args[2:], " ")

	db, err := OpenDatabase(databaseFilePath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}
	defer db.Close()

	engine := NewEngine(db, NewConsoleFormatter(stdout))
	if err := engine.Execute(context.Background(), command); err != nil {
		fmt.Fprintln(stderr, err)
		return err
	}
	return nil
}
