package parser

import (
	"errors"
	"testing"

	domainErrors "github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser/ast"
)

func TestParseCreate(t *testing.T) {
	stmt, err := Parse("  create table t (id INT, val STRING, note)  ")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	create, ok := stmt.(*ast.CreateTableStatement)
	if !ok {
		t.Fatalf("Expected CreateTableStatement, got %T", stmt)
	}
	if create.Table != "t" {
		t.Errorf("Expected table t, got %s", create.Table)
	}
	if len(create.Columns) != 3 {
		t.Fatalf("Expected 3 columns, got %d", len(create.Columns))
	}
	if create.Columns[0].Name != "id" || create.Columns[0].Type != "INT" {
		t.Errorf("Expected id INT, got %+v", create.Columns[0])
	}
	if create.Columns[2].Name != "note" || create.Columns[2].Type != "" {
		t.Errorf("Expected untyped note, got %+v", create.Columns[2])
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO users (id, name, city) VALUES (1, 'Alice', "Nairobi")`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	ins, ok := stmt.(*ast.InsertStatement)
	if !ok {
		t.Fatalf("Expected InsertStatement, got %T", stmt)
	}
	if ins.Table != "users" {
		t.Errorf("Expected table users, got %s", ins.Table)
	}

	wantCols := []string{"id", "name", "city"}
	wantVals := []string{"1", "Alice", "Nairobi"}
	for i := range wantCols {
		if ins.Columns[i] != wantCols[i] {
			t.Errorf("column %d: expected %s, got %s", i, wantCols[i], ins.Columns[i])
		}
		if ins.Values[i] != wantVals[i] {
			t.Errorf("value %d: expected %s, got %s", i, wantVals[i], ins.Values[i])
		}
	}
}

func TestParseInsert_ArityMismatch(t *testing.T) {
	_, err := Parse("INSERT INTO t (id, val) VALUES (1)")
	if !errors.Is(err, domainErrors.ErrArityMismatch) {
		t.Fatalf("Expected ArityMismatch, got %v", err)
	}

	var arity *domainErrors.ArityMismatchError
	if !errors.As(err, &arity) {
		t.Fatalf("Expected *ArityMismatchError, got %T", err)
	}
	if arity.Columns != 2 || arity.Values != 1 {
		t.Errorf("Expected 2 columns / 1 value, got %d / %d", arity.Columns, arity.Values)
	}
}

func TestParseSelect(t *testing.T) {
	stmt, err := Parse("select * from users")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	sel, ok := stmt.(*ast.SelectStatement)
	if !ok {
		t.Fatalf("Expected SelectStatement, got %T", stmt)
	}
	if sel.Table != "users" {
		t.Errorf("Expected table users, got %s", sel.Table)
	}
}

func TestParseDelete(t *testing.T) {
	stmt, err := Parse("DELETE FROM users WHERE name = 'Bob'")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	del, ok := stmt.(*ast.DeleteStatement)
	if !ok {
		t.Fatalf("Expected DeleteStatement, got %T", stmt)
	}
	if del.Where.Column != "name" || del.Where.Value != "Bob" {
		t.Errorf("Expected name = Bob, got %+v", del.Where)
	}
}

func TestParseUpdate(t *testing.T) {
	stmt, err := Parse("UPDATE t SET val='bye', extra = 2 WHERE id=1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	upd, ok := stmt.(*ast.UpdateStatement)
	if !ok {
		t.Fatalf("Expected UpdateStatement, got %T", stmt)
	}
	if upd.Table != "t" {
		t.Errorf("Expected table t, got %s", upd.Table)
	}
	if len(upd.Assignments) != 2 {
		t.Fatalf("Expected 2 assignments, got %d", len(upd.Assignments))
	}
	if upd.Assignments[0] != (ast.Assignment{Column: "val", Value: "bye"}) {
		t.Errorf("Unexpected first assignment %+v", upd.Assignments[0])
	}
	if upd.Assignments[1] != (ast.Assignment{Column: "extra", Value: "2"}) {
		t.Errorf("Unexpected second assignment %+v", upd.Assignments[1])
	}
	if upd.Where.Column != "id" || upd.Where.Value != "1" {
		t.Errorf("Expected id = 1, got %+v", upd.Where)
	}
}

func TestParseUpdate_AssignmentWithoutEquals(t *testing.T) {
	_, err := Parse("UPDATE t SET val WHERE id=1")
	if !errors.Is(err, domainErrors.ErrSyntax) {
		t.Fatalf("Expected SyntaxError, got %v", err)
	}
}

func TestParse_Unrecognized(t *testing.T) {
	inputs := []string{
		"",
		"DROP TABLE t",
		"SELECT id FROM t",
		"SELECT * FROM t WHERE id = 1",
		"DELETE FROM t",
		"CREATE TABLE t ()",
	}
	for _, input := range inputs {
		_, err := Parse(input)
		if !errors.Is(err, domainErrors.ErrSyntax) {
			t.Errorf("%q: expected SyntaxError, got %v", input, err)
		}
	}
}

func TestUnquote(t *testing.T) {
	cases := map[string]string{
		" 'Alice' ":   "Alice",
		`"Bob"`:       "Bob",
		"''nested''":  "'nested'",
		"'unbalanced": "'unbalanced",
		`'mixed"`:     `'mixed"`,
		"'":           "'",
		"plain":       "plain",
		"''":          "",
	}
	for in, want := range cases {
		if got := Unquote(in); got != want {
			t.Errorf("Unquote(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatementString(t *testing.T) {
	stmt, err := Parse("UPDATE t SET val='bye' WHERE id=1")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got, want := stmt.String(), "UPDATE t SET val = 'bye' WHERE id = '1'"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
