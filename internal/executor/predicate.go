package executor

import (
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// PredicateFunc reports whether a row satisfies a WHERE clause
type PredicateFunc func(row data.Row) bool

// buildPredicate turns `col = value` into a text-equality test.
// Rows without the column never match.
func buildPredicate(where ast.Condition) PredicateFunc {
	return func(row data.Row) bool {
		val, ok := row.Get(where.Column)
		return ok && val == where.Value
	}
}

// matchingRows returns the indexed rows satisfying where, at most one per
// primary key, in table order
func matchingRows(table *schema.Table, where ast.Condition) ([]string, []data.Row) {
	pred := buildPredicate(where)
	seen := make(map[string]struct{})

	var keys []string
	var rows []data.Row
	for _, row := range table.Rows() {
		if !pred(row) {
			continue
		}
		key, ok := table.KeyOf(row)
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
		rows = append(rows, row)
	}
	return keys, rows
}

func matchingKeys(table *schema.Table, where ast.Condition) []string {
	keys, _ := matchingRows(table, where)
	return keys
}

// notFound reports a WHERE clause that matched nothing. A lookup on the
// primary-key column is reported as a key lookup.
func notFound(table *schema.Table, where ast.Condition) error {
	if where.Column == table.PrimaryKeyColumn() {
		return &errors.RowNotFoundError{Table: table.Name, Value: where.Value}
	}
	return &errors.RowNotFoundError{Table: table.Name, Column: where.Column, Value: where.Value}
}
