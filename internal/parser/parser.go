package parser

import (
	"regexp"
	"strings"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

// grammar pairs a statement pattern with the builder for its capture groups
type grammar struct {
	name    string
	pattern *regexp.Regexp
	build   func(input string, m []string) (ast.Statement, error)
}

// Tried in this order; the first match wins.
var grammars = []grammar{
	{"CREATE", regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(\w+)\s*\((.+)\)$`), buildCreate},
	{"INSERT", regexp.MustCompile(`(?i)^INSERT\s+INTO\s+(\w+)\s*\((.+)\)\s*VALUES\s*\((.+)\)$`), buildInsert},
	{"SELECT", regexp.MustCompile(`(?i)^SELECT\s+\*\s+FROM\s+(\w+)$`), buildSelect},
	{"DELETE", regexp.MustCompile(`(?i)^DELETE\s+FROM\s+(\w+)\s+WHERE\s+(\w+)\s*=\s*(.+)$`), buildDelete},
	{"UPDATE", regexp.MustCompile(`(?i)^UPDATE\s+(\w+)\s+SET\s+(.+)\s+WHERE\s+(\w+)\s*=\s*(.+)$`), buildUpdate},
}

// Keywords lists the statement keywords, used for shell completion
func Keywords() []string {
	return []string{"CREATE TABLE", "INSERT INTO", "SELECT * FROM", "DELETE FROM", "UPDATE", "VALUES", "WHERE", "SET"}
}

// Parse matches one command against the grammars and returns its statement.
// Input is trimmed first. Commands that match nothing yield a SyntaxError.
func Parse(input string) (ast.Statement, error) {
	query := strings.TrimSpace(input)

	for _, g := range grammars {
		m := g.pattern.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		return g.build(query, m)
	}
	return nil, &errors.SyntaxError{Input: query}
}

func buildCreate(input string, m []string) (ast.Statement, error) {
	stmt := &ast.CreateTableStatement{Table: m[1]}

	for _, def := range strings.Split(m[2], ",") {
		parts := strings.Fields(def)
		if len(parts) == 0 {
			return nil, &errors.SyntaxError{Input: input, Reason: "empty column definition"}
		}
		col := schema.Column{Name: parts[0]}
		if len(parts) > 1 {
			col.Type = parts[1]
		}
		stmt.Columns = append(stmt.Columns, col)
	}
	return stmt, nil
}

func buildInsert(input string, m []string) (ast.Statement, error) {
	stmt := &ast.InsertStatement{Table: m[1]}

	for _, c := range strings.Split(m[2], ",") {
		col := strings.TrimSpace(c)
		if col == "" {
			return nil, &errors.SyntaxError{Input: input, Reason: "empty column name"}
		}
		stmt.Columns = append(stmt.Columns, col)
	}
	for _, v := range strings.Split(m[3], ",") {
		stmt.Values = append(stmt.Values, Unquote(v))
	}

	if len(stmt.Columns) != len(stmt.Values) {
		return nil, &errors.ArityMismatchError{Columns: len(stmt.Columns), Values: len(stmt.Values)}
	}
	return stmt, nil
}

func buildSelect(_ string, m []string) (ast.Statement, error) {
	return &ast.SelectStatement{Table: m[1]}, nil
}

func buildDelete(_ string, m []string) (ast.Statement, error) {
	return &ast.DeleteStatement{
		Table: m[1],
		Where: ast.Condition{Column: m[2], Value: Unquote(m[3])},
	}, nil
}

func buildUpdate(input string, m []string) (ast.Statement, error) {
	stmt := &ast.UpdateStatement{
		Table: m[1],
		Where: ast.Condition{Column: m[3], Value: Unquote(m[4])},
	}

	for _, a := range strings.Split(m[2], ",") {
		col, val, ok := strings.Cut(a, "=")
		if !ok {
			return nil, &errors.SyntaxError{Input: input, Reason: "assignment '" + strings.TrimSpace(a) + "' has no '='"}
		}
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, &errors.SyntaxError{Input: input, Reason: "assignment has no column name"}
		}
		stmt.Assignments = append(stmt.Assignments, ast.Assignment{Column: col, Value: Unquote(val)})
	}
	return stmt, nil
}

// Unquote trims v and removes one layer of matching single or double quotes
func Unquote(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if q := v[0]; (q == '\'' || q == '"') && v[len(v)-1] == q {
			return v[1 : len(v)-1]
		}
	}
	return v
}
