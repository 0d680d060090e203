package executor

import (
	"fmt"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/transaction"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

// Result is what a statement produces: a status message, or rows for SELECT
type Result struct {
	Message string
	Columns []string
	Rows    []data.Row
}

// HasRows reports whether the result is a row sequence rather than a status
func (r *Result) HasRows() bool {
	return r.Columns != nil || r.Rows != nil
}

// ExecutionContext provides resources for execution
type ExecutionContext struct {
	Registry    *manager.Registry
	Transaction *transaction.Transaction
}

// txID is the id of the running transaction, for correlating executor log
// lines with engine lifecycle events
func (c *ExecutionContext) txID() string {
	if c.Transaction == nil {
		return ""
	}
	return c.Transaction.ID
}

// Execute runs stmt. Every statement opens fresh table handles from the registry.
func Execute(stmt ast.Statement, ctx *ExecutionContext) (*Result, error) {
	if ctx == nil || ctx.Registry == nil {
		return nil, fmt.Errorf("execution context has no registry")
	}

	switch s := stmt.(type) {
	case *ast.CreateTableStatement:
		return executeCreate(s, ctx)
	case *ast.InsertStatement:
		return executeInsert(s, ctx)
	case *ast.SelectStatement:
		return executeSelect(s, ctx)
	case *ast.DeleteStatement:
		return executeDelete(s, ctx)
	case *ast.UpdateStatement:
		return executeUpdate(s, ctx)
	default:
		return nil, fmt.Errorf("unsupported statement type: %T", stmt)
	}
}

// ColumnsOf infers result columns from rows: every column in order of
// first appearance, scanning rows in order.
func ColumnsOf(rows []data.Row) []string {
	columns := []string{}
	seen := make(map[string]struct{})
	for _, row := range rows {
		for _, col := range row.Columns() {
			if _, ok := seen[col]; ok {
				continue
			}
			seen[col] = struct{}{}
			columns = append(columns, col)
		}
	}
	return columns
}
