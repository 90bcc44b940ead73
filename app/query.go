package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/xwb1989/sqlparser"
)

// Engine dispatches command strings to the catalog + B-tree layer and
// renders results, per spec.md §4.8.
type Engine struct {
	db        *Database
	formatter *ConsoleFormatter
	config    *QueryConfig
}

// NewEngine builds a query engine, applying any QueryOption over the
// default configuration.
func NewEngine(db *Database, formatter *ConsoleFormatter, opts ...QueryOption) *Engine {
	config := DefaultQueryConfig()
	for _, opt := range opts {
		opt(config)
	}
	return &Engine{db: db, formatter: formatter, config: config}
}

// Execute dispatches a single command and writes its output via the
// engine's formatter.
func (e *Engine) Execute(ctx context.Context, command string) error {
	trimmed := strings.TrimSpace(command)
	switch {
	case trimmed == ".dbinfo":
		return e.dbInfo(ctx)
	case trimmed == ".tables":
		return e.tables(ctx)
	case trimmed == ".schema":
		return e.schema(ctx)
	default:
		return e.sql(ctx, trimmed)
	}
}

func (e *Engine) dbInfo(ctx context.Context) error {
	fmt.Fprintf(e.formatter, "database page size: %d\n", e.db.GetPageSize())

	// Counts every schema row, including indexes — spec.md §4.8's
	// documented misnomer, not the user table count.
	schemaTree := newTableBTree(e.db, schemaRootPage)
	count, err := schemaTree.RootCellCount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.formatter, "number of tables: %d\n", count)
	return nil
}

func (e *Engine) tables(ctx context.Context) error {
	entries, err := e.db.LoadSchema(ctx)
	if err != nil {
		return err
	}
	var names []string
	for _, entry := range entries {
		if entry.Type == "table" {
			names = append(names, entry.Name)
		}
	}
	fmt.Fprintln(e.formatter, strings.Join(names, " "))
	return nil
}

func (e *Engine) schema(ctx context.Context) error {
	entries, err := e.db.LoadSchema(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Fprintf(e.formatter, "%s: %s (table: %s, page: %d)\n", entry.Type, entry.Name, entry.TblName, entry.RootPage)
		fmt.Fprintf(e.formatter, "  %s\n", entry.SQL)
	}
	return nil
}

func (e *Engine) sql(ctx context.Context, query string) error {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return wrapErr("parse_sql", fmt.Errorf("%w: %v", ErrUnsupportedSQL, err), nil)
	}

	selectStmt, ok := stmt.(*sqlparser.Select)
	if !ok {
		return wrapErr("parse_sql", ErrUnsupportedSQL, map[string]interface{}{
			"statement_type": fmt.Sprintf("%T", stmt),
		})
	}

	tableName, err := tableNameFromSelect(selectStmt)
	if err != nil {
		return err
	}
	table, err := e.db.GetTable(ctx, tableName)
	if err != nil {
		return err
	}

	isCount, columns, err := projectionFromSelect(selectStmt)
	if err != nil {
		return err
	}

	if isCount {
		count, err := table.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.formatter, "%d\n", count)
		return nil
	}

	whereCol, whereOp, whereVal, hasWhere, err := parseNaiveWhere(query)
	if err != nil {
		return err
	}

	rows, err := e.rowsForQuery(ctx, table, hasWhere, whereCol, whereOp, whereVal)
	if err != nil {
		return err
	}

	isStar := len(columns) == 0
	if isStar {
		columns = make([]string, len(table.Columns()))
		for i, c := range table.Columns() {
			columns[i] = c.Name
		}
	}

	colIndices := make([]int, len(columns))
	for i, name := range columns {
		idx := table.ColumnIndex(name)
		if idx == -1 {
			return wrapErr("select_columns", ErrColumnNotFound, map[string]interface{}{"column": name})
		}
		colIndices[i] = idx
	}

	projected := make([][]CellValue, len(rows))
	for i, row := range rows {
		values := make([]CellValue, len(colIndices))
		for j, idx := range colIndices {
			v, err := table.Value(row, idx)
			if err != nil {
				return err
			}
			values[j] = v
		}
		projected[i] = values
	}

	// SELECT * headers are dash-joined; an explicit column list is
	// pipe-joined, per spec.md §4.8 — an inherited asymmetry, not a typo.
	headerSep := "|"
	if isStar {
		headerSep = "-"
	}
	fmt.Fprintln(e.formatter, strings.Join(columns, headerSep))
	fmt.Fprintln(e.formatter, e.formatter.FormatRows(projected))
	return nil
}

// rowsForQuery resolves a SELECT's row set, using a matching single-column
// index when available and falling back to a full scan otherwise
// (spec.md §4.8 "Index use").
func (e *Engine) rowsForQuery(ctx context.Context, table *Table, hasWhere bool, column, operator, value string) ([]Row, error) {
	if !hasWhere {
		return table.Rows(ctx)
	}

	if operator == "=" {
		if idxEntry, ok := table.IndexForColumn(column); ok {
			index, ok := newIndex(e.db, idxEntry)
			if ok {
				rowIDs, err := index.RowIDsForDisplay(ctx, value)
				if err != nil {
					return nil, err
				}
				return e.fetchRowsParallel(ctx, table, rowIDs)
			}
		}
	}

	allRows, err := table.Rows(ctx)
	if err != nil {
		return nil, err
	}
	colIndex := table.ColumnIndex(column)
	if colIndex == -1 {
		return nil, wrapErr("where_filter", ErrColumnNotFound, map[string]interface{}{"column": column})
	}

	var matched []Row
	for _, row := range allRows {
		v, err := table.Value(row, colIndex)
		if err != nil {
			return nil, err
		}
		display := v.Display()
		switch operator {
		case "=":
			if display == value {
				matched = append(matched, row)
			}
		case "!=":
			if display != value {
				matched = append(matched, row)
			}
		}
	}
	return matched, nil
}

// fetchRowsParallel fetches table rows by rowid concurrently, bounded by
// the engine's configured worker count, per spec.md §4.8's index-assisted
// path.
func (e *Engine) fetchRowsParallel(ctx context.Context, table *Table, rowIDs []int64) ([]Row, error) {
	maxWorkers := e.config.MaxConcurrency
	if maxWorkers <= 0 || maxWorkers > len(rowIDs) {
		maxWorkers = len(rowIDs)
	}
	if maxWorkers == 0 {
		return nil, nil
	}

	rows := make([]Row, len(rowIDs))
	errs := make([]error, len(rowIDs))
	work := make(chan int, len(rowIDs))

	var wg sync.WaitGroup
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				row, found, err := table.RowByRowID(ctx, rowIDs[i])
				if err != nil {
					errs[i] = err
					continue
				}
				if found {
					rows[i] = row
				} else {
					errs[i] = wrapErr("fetch_row", ErrSchemaNotFound, map[string]interface{}{"rowid": rowIDs[i]})
				}
			}
		}()
	}
	for i := range rowIDs {
		work <- i
	}
	close(work)
	wg.Wait()

	results := make([]Row, 0, len(rows))
	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		results = append(results, rows[i])
	}
	return results, nil
}

func tableNameFromSelect(stmt *sqlparser.Select) (string, error) {
	if len(stmt.From) == 0 {
		return "", wrapErr("extract_table_name", ErrUnsupportedSQL, nil)
	}
	aliased, ok := stmt.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", wrapErr("extract_table_name", ErrUnsupportedSQL, nil)
	}
	tableName, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", wrapErr("extract_table_name", ErrUnsupportedSQL, nil)
	}
	return tableName.Name.String(), nil
}

// projectionFromSelect reports whether the statement is COUNT(*) and,
// otherwise, the explicitly projected column names (nil for SELECT *).
func projectionFromSelect(stmt *sqlparser.Select) (isCount bool, columns []string, err error) {
	for _, expr := range stmt.SelectExprs {
		switch e := expr.(type) {
		case *sqlparser.StarExpr:
			continue
		case *sqlparser.AliasedExpr:
			switch inner := e.Expr.(type) {
			case *sqlparser.FuncExpr:
				if strings.ToLower(inner.Name.String()) != "count" {
					return false, nil, wrapErr("parse_select", ErrUnsupportedSQL, map[string]interface{}{
						"function": inner.Name.String(),
					})
				}
				isCount = true
			case *sqlparser.ColName:
				columns = append(columns, inner.Name.String())
			default:
				return false, nil, wrapErr("parse_select", ErrUnsupportedSQL, nil)
			}
		default:
			return false, nil, wrapErr("parse_select", ErrUnsupportedSQL, nil)
		}
	}
	return isCount, columns, nil
}

// parseNaiveWhere locates a WHERE clause by literal substring search on the
// raw query text rather than the parsed AST, per spec.md §4.8: it finds
// " = " or " != " verbatim and takes the rest of the clause as the
// right-hand side, with one pair of surrounding quotes stripped.
func parseNaiveWhere(query string) (column, operator, value string, has bool, err error) {
	lower := strings.ToLower(query)
	whereIdx := strings.Index(lower, " where ")
	if whereIdx == -1 {
		return "", "", "", false, nil
	}
	clause := strings.TrimSpace(query[whereIdx+len(" where "):])

	if idx := strings.Index(clause, " != "); idx != -1 {
		return strings.TrimSpace(clause[:idx]), "!=", stripQuotes(strings.TrimSpace(clause[idx+len(" != "):])), true, nil
	}
	if idx := strings.Index(clause, " = "); idx != -1 {
		return strings.TrimSpace(clause[:idx]), "=", stripQuotes(strings.TrimSpace(clause[idx+len(" = "):])), true, nil
	}
	return "", "", "", false, wrapErr("parse_where", ErrUnsupportedWhere, map[string]interface{}{"clause": clause})
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
