package executor

import (
	"fmt"
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// executeInsert builds one row from the column/value lists and inserts it
func executeInsert(stmt *ast.InsertStatement, ctx *ExecutionContext) (*Result, error) {
	if len(stmt.Columns) != len(stmt.Values) {
		return nil, &errors.ArityMismatchError{Columns: len(stmt.Columns), Values: len(stmt.Values)}
	}

	table, err := ctx.Registry.Open(stmt.Table, nil)
	if err != nil {
		return nil, err
	}

	row := data.NewRow()
	for i, col := range stmt.Columns {
		row.Set(col, stmt.Values[i])
	}

	if err := table.Insert(row); err != nil {
		return nil, err
	}
	slog.Debug("insert executed", slog.String("table", stmt.Table), slog.String("tx_id", ctx.txID()))

	return &Result{
		Message: fmt.Sprintf("Inserted 1 row into '%s'.", stmt.Table),
	}, nil
}
