package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
)

// Statement represents a standalone command (CREATE, INSERT, SELECT, DELETE, UPDATE)
type Statement interface {
	TokenLiteral() string
	TableName() string
	String() string
	statementNode()
}

// Assignment is one `col = value` pair of an UPDATE SET list
type Assignment struct {
	Column string
	Value  string
}

// Condition is the single-equality WHERE clause: Column = Value
type Condition struct {
	Column string
	Value  string
}

func (c Condition) String() string { return fmt.Sprintf("%s = '%s'", c.Column, c.Value) }

// CreateTableStatement: CREATE TABLE table (col1 TYPE, col2, ...)
type CreateTableStatement struct {
	Table   string
	Columns []schema.Column
}

func (s *CreateTableStatement) statementNode()       {}
func (s *CreateTableStatement) TokenLiteral() string { return "CREATE" }
func (s *CreateTableStatement) TableName() string    { return s.Table }
func (s *CreateTableStatement) String() string {
	defs := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs[i] = strings.TrimSpace(c.Name + " " + c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", s.Table, strings.Join(defs, ", "))
}

// InsertStatement: INSERT INTO table (col1, col2) VALUES (val1, val2)
// Values are already trimmed and unquoted.
type InsertStatement struct {
	Table   string
	Columns []string
	Values  []string
}

func (s *InsertStatement) statementNode()       {}
func (s *InsertStatement) TokenLiteral() string { return "INSERT" }
func (s *InsertStatement) TableName() string    { return s.Table }
func (s *InsertStatement) String() string {
	var out bytes.Buffer
	out.WriteString("INSERT INTO ")
	out.WriteString(s.Table)
	out.WriteString(" (")
	out.WriteString(strings.Join(s.Columns, ", "))
	out.WriteString(") VALUES (")
	for i, v := range s.Values {
		out.WriteString("'" + v + "'")
		if i < len(s.Values)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(")")
	return out.String()
}

// SelectStatement: SELECT * FROM table
type SelectStatement struct {
	Table string
}

func (s *SelectStatement) statementNode()       {}
func (s *SelectStatement) TokenLiteral() string { return "SELECT" }
func (s *SelectStatement) TableName() string    { return s.Table }
func (s *SelectStatement) String() string       { return "SELECT * FROM " + s.Table }

// DeleteStatement: DELETE FROM table WHERE col = value
type DeleteStatement struct {
	Table string
	Where Condition
}

func (s *DeleteStatement) statementNode()       {}
func (s *DeleteStatement) TokenLiteral() string { return "DELETE" }
func (s *DeleteStatement) TableName() string    { return s.Table }
func (s *DeleteStatement) String() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s", s.Table, s.Where)
}

// UpdateStatement: UPDATE table SET col1 = v1, col2 = v2 WHERE col = value
type UpdateStatement struct {
	Table       string
	Assignments []Assignment // in SET order
	Where       Condition
}

func (s *UpdateStatement) statementNode()       {}
func (s *UpdateStatement) TokenLiteral() string { return "UPDATE" }
func (s *UpdateStatement) TableName() string    { return s.Table }
func (s *UpdateStatement) String() string {
	var out bytes.Buffer
	out.WriteString("UPDATE ")
	out.WriteString(s.Table)
	out.WriteString(" SET ")
	for i, a := range s.Assignments {
		out.WriteString(fmt.Sprintf("%s = '%s'", a.Column, a.Value))
		if i < len(s.Assignments)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(" WHERE ")
	out.WriteString(s.Where.String())
	return out.String()
}
