package schema

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
)

// Table is the row store for one table: the persisted row sequence plus an
// in-memory primary-key index rebuilt on open.
//
// Every mutation persists the new sequence first and only then swaps the
// in-memory rows and index, so a failed write leaves both untouched.
// Writes that bypass Table leave the index stale until the table is reopened.
type Table struct {
	Name    string
	store   storage.Store
	schema  *Schema
	rows    []data.Row
	keys    map[string]struct{}
	corrupt error // content that failed to decode; cleared by the next write

	metaCorrupt error // metadata that failed to decode
}

// Open ensures the table's container exists, records sch as the table's
// metadata if none was recorded yet, loads all rows and rebuilds the index.
// Undecodable content is treated as an empty table and undecodable metadata
// as no metadata; see Corrupt.
func Open(store storage.Store, name string, sch *Schema) (*Table, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	if err := store.Ensure(name); err != nil {
		return nil, err
	}

	t := &Table{
		Name:  name,
		store: store,
	}

	meta, err := store.LoadMeta(name)
	var corrupt *errors.CorruptStoreError
	switch {
	case stderrors.As(err, &corrupt):
		slog.Warn("table metadata unreadable, using positional keys",
			slog.String("table", name),
			slog.Any("error", corrupt.Err),
		)
		t.metaCorrupt = corrupt
		meta = nil
	case err != nil:
		return nil, err
	}

	switch {
	case meta != nil:
		t.schema = fromMeta(meta)
	case sch != nil:
		if err := store.SaveMeta(sch.toMeta(name)); err != nil {
			return nil, err
		}
		t.schema = sch
		t.metaCorrupt = nil
	}

	if err := t.load(); err != nil {
		return nil, err
	}
	t.buildIndex()

	slog.Debug("table opened",
		slog.String("table", name),
		slog.Int("rows", len(t.rows)),
		slog.String("primary_key", t.PrimaryKeyColumn()),
	)
	return t, nil
}

func (t *Table) load() error {
	rows, err := t.LoadRows()
	if err != nil {
		return err
	}
	t.rows = rows
	return nil
}

func (t *Table) buildIndex() {
	t.keys = make(map[string]struct{}, len(t.rows))
	for _, row := range t.rows {
		if key, ok := t.KeyOf(row); ok {
			t.keys[key] = struct{}{}
		}
	}
}

// LoadRows returns the row sequence as currently persisted.
// Absent, empty or undecodable content yields an empty sequence.
func (t *Table) LoadRows() ([]data.Row, error) {
	content, err := t.store.Load(t.Name)
	if err != nil {
		return nil, err
	}

	rows, err := data.DecodeRows(content)
	if err != nil {
		t.corrupt = &errors.CorruptStoreError{Table: t.Name, Err: err}
		slog.Warn("table content unreadable, treating as empty",
			slog.String("table", t.Name),
			slog.Any("error", err),
		)
		return []data.Row{}, nil
	}
	return rows, nil
}

// Corrupt returns the CorruptStoreError seen while loading the rows or,
// failing that, the metadata. Nil when both were readable.
func (t *Table) Corrupt() error {
	if t.corrupt != nil {
		return t.corrupt
	}
	return t.metaCorrupt
}

// Schema returns the recorded schema, or nil if none was recorded
func (t *Table) Schema() *Schema {
	return t.schema
}

// PrimaryKeyColumn returns the recorded primary-key column, or "" when the
// table falls back to positional keys
func (t *Table) PrimaryKeyColumn() string {
	if t.schema == nil {
		return ""
	}
	return t.schema.PrimaryKey
}

// KeyOf returns the primary key of row: the value of the recorded
// primary-key column when the row has it, else the row's first value.
func (t *Table) KeyOf(row data.Row) (string, bool) {
	if pk := t.PrimaryKeyColumn(); pk != "" {
		if val, ok := row.Get(pk); ok {
			return val, true
		}
	}
	_, val, ok := row.First()
	return val, ok
}

// Rows returns a copy of the rows the index was built from
func (t *Table) Rows() []data.Row {
	return data.CopyRows(t.rows)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// HasKey reports whether pk is indexed
func (t *Table) HasKey(pk string) bool {
	_, ok := t.keys[pk]
	return ok
}

// Keys returns the indexed primary keys, sorted
func (t *Table) Keys() []string {
	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Insert appends row. An empty row is a no-op.
func (t *Table) Insert(row data.Row) error {
	if row.IsEmpty() {
		return nil
	}

	key, _ := t.KeyOf(row)
	if t.HasKey(key) {
		return &errors.DuplicateKeyError{Table: t.Name, Key: key}
	}

	next := make([]data.Row, 0, len(t.rows)+1)
	next = append(next, t.rows...)
	next = append(next, row.Copy())

	if err := t.persist(next); err != nil {
		return err
	}
	t.rows = next
	t.keys[key] = struct{}{}

	slog.Debug("row inserted", slog.String("table", t.Name), slog.String("pk", key))
	return nil
}

// Update replaces the row keyed pk with newRow in its entirety.
// It reports false if pk is not indexed. If newRow carries a different key,
// that key must not already be indexed and the index is re-keyed.
func (t *Table) Update(pk string, newRow data.Row) (bool, error) {
	if newRow.IsEmpty() {
		return false, errors.ErrEmptyRow
	}
	if !t.HasKey(pk) {
		return false, nil
	}

	newKey, _ := t.KeyOf(newRow)
	if newKey != pk && t.HasKey(newKey) {
		return false, &errors.DuplicateKeyError{Table: t.Name, Key: newKey}
	}

	next := make([]data.Row, len(t.rows))
	for i, row := range t.rows {
		if key, ok := t.KeyOf(row); ok && key == pk {
			next[i] = newRow.Copy()
		} else {
			next[i] = row
		}
	}

	if err := t.persist(next); err != nil {
		return false, err
	}
	t.rows = next
	if newKey != pk {
		delete(t.keys, pk)
		t.keys[newKey] = struct{}{}
	}

	slog.Debug("row updated",
		slog.String("table", t.Name),
		slog.String("pk", pk),
		slog.String("new_pk", newKey),
	)
	return true, nil
}

// Delete removes the row keyed pk. It reports false if pk is not indexed.
func (t *Table) Delete(pk string) (bool, error) {
	if !t.HasKey(pk) {
		return false, nil
	}

	next := make([]data.Row, 0, len(t.rows))
	for _, row := range t.rows {
		if key, ok := t.KeyOf(row); ok && key == pk {
			continue
		}
		next = append(next, row)
	}

	if err := t.persist(next); err != nil {
		return false, err
	}
	t.rows = next
	delete(t.keys, pk)

	slog.Debug("row deleted", slog.String("table", t.Name), slog.String("pk", pk))
	return true, nil
}

func (t *Table) persist(rows []data.Row) error {
	content, err := data.EncodeRows(rows)
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", t.Name, err)
	}
	if err := t.store.Save(t.Name, content); err != nil {
		return fmt.Errorf("failed to save table %s: %w", t.Name, err)
	}
	t.corrupt = nil
	return nil
}
