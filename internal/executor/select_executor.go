package executor

import (
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

func executeSelect(stmt *ast.SelectStatement, ctx *ExecutionContext) (*Result, error) {
	table, err := ctx.Registry.Open(stmt.Table, nil)
	if err != nil {
		return nil, err
	}

	rows, err := table.LoadRows()
	if err != nil {
		return nil, err
	}

	slog.Debug("rows selected",
		slog.String("table", stmt.Table),
		slog.Int("rows", len(rows)),
		slog.String("tx_id", ctx.txID()),
	)

	return &Result{
		Columns: ColumnsOf(rows),
		Rows:    rows,
	}, nil
}
