package executor

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/query/operations"
)

// ExecuteJoin inner-joins two tables on a shared column name.
// Neither table is created if missing.
func ExecuteJoin(ctx *ExecutionContext, left, right, on string) (*Result, error) {
	if ctx == nil || ctx.Registry == nil {
		return nil, fmt.Errorf("execution context has no registry")
	}

	names, err := ctx.Registry.List()
	if err != nil {
		return nil, err
	}
	for _, name := range []string{left, right} {
		if !slices.Contains(names, name) {
			return nil, fmt.Errorf("table not found: %s", name)
		}
	}

	leftTable, err := ctx.Registry.Open(left, nil)
	if err != nil {
		return nil, err
	}
	rightTable, err := ctx.Registry.Open(right, nil)
	if err != nil {
		return nil, err
	}

	rows, err := operations.JoinTables(leftTable, rightTable, on)
	if err != nil {
		return nil, err
	}

	slog.Debug("tables joined",
		slog.String("left", left),
		slog.String("right", right),
		slog.String("on", on),
		slog.Int("rows", len(rows)),
		slog.String("tx_id", ctx.txID()),
	)

	return &Result{
		Columns: ColumnsOf(rows),
		Rows:    rows,
	}, nil
}
