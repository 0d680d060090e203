package schema

import "github.com/benweru/pesapal-jdev26-rdbms/internal/storage"

// Column is one declared column. Type is descriptive only and never enforced.
type Column struct {
	Name string
	Type string
}

// Schema is the metadata recorded when a table is created
type Schema struct {
	Columns    []Column
	PrimaryKey string // defaults to the first declared column
}

// New builds a schema whose primary key is the first declared column
func New(columns ...Column) *Schema {
	s := &Schema{Columns: columns}
	if len(columns) > 0 {
		s.PrimaryKey = columns[0].Name
	}
	return s
}

// ColumnNames returns the declared column names in order
func (s *Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Types returns name → declared type for the columns that declared one
func (s *Schema) Types() map[string]string {
	types := make(map[string]string)
	for _, c := range s.Columns {
		if c.Type != "" {
			types[c.Name] = c.Type
		}
	}
	return types
}

func (s *Schema) toMeta(table string) storage.TableMeta {
	meta := storage.TableMeta{
		Name:       table,
		PrimaryKey: s.PrimaryKey,
		Columns:    make([]storage.ColumnMeta, len(s.Columns)),
	}
	for i, c := range s.Columns {
		meta.Columns[i] = storage.ColumnMeta{Name: c.Name, Type: c.Type}
	}
	return meta
}

func fromMeta(meta *storage.TableMeta) *Schema {
	s := &Schema{
		PrimaryKey: meta.PrimaryKey,
		Columns:    make([]Column, len(meta.Columns)),
	}
	for i, c := range meta.Columns {
		s.Columns[i] = Column{Name: c.Name, Type: c.Type}
	}
	return s
}
