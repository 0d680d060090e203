package executor

import (
	"fmt"
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// executeCreate opens the table with the declared schema. A table that
// already has recorded metadata keeps it.
func executeCreate(stmt *ast.CreateTableStatement, ctx *ExecutionContext) (*Result, error) {
	sch := schema.New(stmt.Columns...)

	table, err := ctx.Registry.Open(stmt.Table, sch)
	if err != nil {
		return nil, err
	}
	kept := table.Schema()
	if kept != nil && kept != sch {
		slog.Info("table already has a schema, keeping it",
			slog.String("table", stmt.Table),
			slog.String("primary_key", table.PrimaryKeyColumn()),
			slog.String("tx_id", ctx.txID()),
		)
		return &Result{
			Message: fmt.Sprintf("Table '%s' already exists with columns: %v (Schema: %v)",
				stmt.Table, kept.ColumnNames(), kept.Types()),
		}, nil
	}

	return &Result{
		Message: fmt.Sprintf("Table '%s' created with columns: %v (Schema: %v)",
			stmt.Table, sch.ColumnNames(), sch.Types()),
	}, nil
}
