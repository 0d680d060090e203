package executor

import (
	"fmt"
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// executeUpdate applies the SET list to a copy of every matching row and
// writes each back through the row store under its current key.
func executeUpdate(stmt *ast.UpdateStatement, ctx *ExecutionContext) (*Result, error) {
	table, err := ctx.Registry.Open(stmt.Table, nil)
	if err != nil {
		return nil, err
	}

	keys, rows := matchingRows(table, stmt.Where)
	if len(keys) == 0 {
		return nil, notFound(table, stmt.Where)
	}

	newRows := make([]data.Row, len(rows))
	for i, row := range rows {
		newRow := row.Copy()
		for _, a := range stmt.Assignments {
			newRow.Set(a.Column, a.Value)
		}
		newRows[i] = newRow
	}
	if err := checkNewKeys(table, keys, newRows); err != nil {
		return nil, err
	}

	updated := 0
	for i, key := range keys {
		ok, err := table.Update(key, newRows[i])
		if err != nil {
			return nil, err
		}
		if ok {
			updated++
		}
	}

	slog.Debug("rows updated",
		slog.String("table", stmt.Table),
		slog.String("where", stmt.Where.String()),
		slog.Int("rows_affected", updated),
		slog.String("tx_id", ctx.txID()),
	)

	if updated == 1 {
		return &Result{Message: fmt.Sprintf("Updated row PK=%s in '%s'.", keys[0], stmt.Table)}, nil
	}
	return &Result{
		Message: fmt.Sprintf("Updated %d rows in '%s' where %s=%s.", updated, stmt.Table, stmt.Where.Column, stmt.Where.Value),
	}, nil
}

// checkNewKeys rejects the statement before anything is written when the
// rewritten rows would collide: two rows taking the same key, or a row moving
// onto a key that some other row holds. Rows are written one at a time, so a
// key held by another matched row counts as taken too.
func checkNewKeys(table *schema.Table, keys []string, newRows []data.Row) error {
	claimed := make(map[string]struct{}, len(newRows))
	for i, row := range newRows {
		newKey, _ := table.KeyOf(row)
		if _, dup := claimed[newKey]; dup {
			return &errors.DuplicateKeyError{Table: table.Name, Key: newKey}
		}
		claimed[newKey] = struct{}{}
		if newKey != keys[i] && table.HasKey(newKey) {
			return &errors.DuplicateKeyError{Table: table.Name, Key: newKey}
		}
	}
	return nil
}
