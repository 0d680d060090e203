package executor

import (
	"fmt"
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// executeDelete removes every row whose WHERE column equals the given value,
// one primary key at a time through the row store.
func executeDelete(stmt *ast.DeleteStatement, ctx *ExecutionContext) (*Result, error) {
	table, err := ctx.Registry.Open(stmt.Table, nil)
	if err != nil {
		return nil, err
	}

	keys := matchingKeys(table, stmt.Where)
	if len(keys) == 0 {
		return nil, notFound(table, stmt.Where)
	}

	deleted := 0
	for _, key := range keys {
		ok, err := table.Delete(key)
		if err != nil {
			return nil, err
		}
		if ok {
			deleted++
		}
	}

	slog.Debug("rows deleted",
		slog.String("table", stmt.Table),
		slog.String("where", stmt.Where.String()),
		slog.Int("rows_affected", deleted),
		slog.String("tx_id", ctx.txID()),
	)

	if deleted == 1 {
		return &Result{Message: fmt.Sprintf("Deleted row with PK=%s from '%s'.", keys[0], stmt.Table)}, nil
	}
	return &Result{
		Message: fmt.Sprintf("Deleted %d rows from '%s' where %s=%s.", deleted, stmt.Table, stmt.Where.Column, stmt.Where.Value),
	}, nil
}
