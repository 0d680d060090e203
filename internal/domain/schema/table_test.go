package schema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/data"
	domainerrors "github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/jsonfile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *jsonfile.Store {
	t.Helper()
	s, err := jsonfile.New(t.TempDir())
	require.NoError(t, err)
	return s
}

func openTable(t *testing.T, store storage.Store, name string, sch *Schema) *Table {
	t.Helper()
	tbl, err := Open(store, name, sch)
	require.NoError(t, err)
	return tbl
}

func readFile(t *testing.T, store *jsonfile.Store, name string) []byte {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(store.Dir(), name+".json"))
	require.NoError(t, err)
	return content
}

// failingStore wraps a store and fails every Save once armed
type failingStore struct {
	storage.Store
	fail bool
}

func (f *failingStore) Save(table string, content []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(table, content)
}

func TestOpen_CreatesEmptyContainer(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "users", nil)

	assert.Equal(t, 0, tbl.Len())
	assert.Empty(t, tbl.Keys())
	assert.Nil(t, tbl.Corrupt())
	assert.Equal(t, "[]\n", string(readFile(t, store, "users")))

	rows, err := tbl.LoadRows()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpen_RejectsInvalidName(t *testing.T) {
	_, err := Open(newStore(t), "../x", nil)
	assert.Error(t, err)
}

func TestInsert_DistinctKeysKeepOrder(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)

	for _, id := range []string{"3", "1", "2"} {
		require.NoError(t, tbl.Insert(data.RowOf("id", id, "val", "v"+id)))
	}

	rows, err := tbl.LoadRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i, id := range []string{"3", "1", "2"} {
		got, _ := rows[i].Get("id")
		assert.Equal(t, id, got)
	}
	assert.Equal(t, []string{"1", "2", "3"}, tbl.Keys())
}

func TestInsert_DuplicateKeyLeavesStorageUntouched(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1", "val", "hi")))
	before := readFile(t, store, "t")

	err := tbl.Insert(data.RowOf("id", "1", "val", "other"))

	var dup *domainerrors.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "1", dup.Key)
	assert.Equal(t, before, readFile(t, store, "t"))
	assert.Equal(t, 1, tbl.Len())
}

func TestInsert_EmptyRowIsNoop(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)

	require.NoError(t, tbl.Insert(data.NewRow()))
	assert.Equal(t, 0, tbl.Len())
}

func TestInsert_NumericKeysCompareAsText(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save("t", []byte(`[{"id": 1, "val": "x"}]`)))
	tbl := openTable(t, store, "t", nil)

	err := tbl.Insert(data.RowOf("id", "1"))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateKey)
}

func TestDelete_Twice(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1")))
	require.NoError(t, tbl.Insert(data.RowOf("id", "2")))

	ok, err := tbl.Delete("1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, tbl.Len())
	after := readFile(t, store, "t")

	ok, err = tbl.Delete("1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, after, readFile(t, store, "t"))
	assert.Equal(t, []string{"2"}, tbl.Keys())
}

func TestUpdate_ReplacesOnlyTarget(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1", "val", "a")))
	require.NoError(t, tbl.Insert(data.RowOf("id", "2", "val", "b", "extra", "x")))
	require.NoError(t, tbl.Insert(data.RowOf("id", "3", "val", "c")))

	ok, err := tbl.Update("2", data.RowOf("id", "2", "val", "B"))
	require.NoError(t, err)
	assert.True(t, ok)

	rows, err := tbl.LoadRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.True(t, rows[0].Equal(data.RowOf("id", "1", "val", "a")))
	assert.True(t, rows[1].Equal(data.RowOf("id", "2", "val", "B")), "full replacement drops extra")
	assert.True(t, rows[2].Equal(data.RowOf("id", "3", "val", "c")))
}

func TestUpdate_NotFound(t *testing.T) {
	tbl := openTable(t, newStore(t), "t", nil)

	ok, err := tbl.Update("9", data.RowOf("id", "9"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdate_EmptyRowRejected(t *testing.T) {
	tbl := openTable(t, newStore(t), "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1")))

	_, err := tbl.Update("1", data.NewRow())
	assert.ErrorIs(t, err, domainerrors.ErrEmptyRow)
}

func TestUpdate_RekeysIndex(t *testing.T) {
	tbl := openTable(t, newStore(t), "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1", "val", "a")))
	require.NoError(t, tbl.Insert(data.RowOf("id", "2", "val", "b")))

	ok, err := tbl.Update("1", data.RowOf("id", "10", "val", "a"))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"10", "2"}, tbl.Keys())

	// the old key is free again
	require.NoError(t, tbl.Insert(data.RowOf("id", "1")))

	_, err = tbl.Update("10", data.RowOf("id", "2"))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateKey)
	assert.Equal(t, []string{"1", "10", "2"}, tbl.Keys())
}

func TestReopen_RoundTrip(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", nil)
	want := []data.Row{
		data.RowOf("id", "1", "name", "A"),
		data.RowOf("id", "2", "name", "B"),
		data.RowOf("id", "3", "name", "C"),
	}
	for _, r := range want {
		require.NoError(t, tbl.Insert(r))
	}

	reopened := openTable(t, store, "t", nil)

	assert.Len(t, reopened.Keys(), len(want))
	got := reopened.Rows()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "row %d", i)
	}
}

func TestOpen_CorruptContentDegradesToEmpty(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Save("t", []byte("{not json")))

	tbl := openTable(t, store, "t", nil)

	assert.Equal(t, 0, tbl.Len())
	assert.ErrorIs(t, tbl.Corrupt(), domainerrors.ErrCorruptStore)

	require.NoError(t, tbl.Insert(data.RowOf("id", "1")))
	assert.Nil(t, tbl.Corrupt())

	reopened := openTable(t, store, "t", nil)
	assert.Equal(t, 1, reopened.Len())
}

func TestOpen_CorruptMetadataFallsBackToPositionalKeys(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "m", New(Column{Name: "id"}, Column{Name: "val"}))
	require.NoError(t, tbl.Insert(data.RowOf("val", "a", "id", "1")))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "m.meta.json"), []byte("{garbage"), 0644))

	reopened := openTable(t, store, "m", nil)
	assert.Equal(t, "", reopened.PrimaryKeyColumn())
	assert.Equal(t, 1, reopened.Len())
	assert.Equal(t, []string{"a"}, reopened.Keys())
	assert.ErrorIs(t, reopened.Corrupt(), domainerrors.ErrCorruptStore)
	assert.ErrorContains(t, reopened.Corrupt(), "metadata")

	// the table stays usable
	require.NoError(t, reopened.Insert(data.RowOf("val", "b", "id", "2")))
	ok, err := reopened.Delete("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, reopened.Corrupt(), domainerrors.ErrCorruptStore)

	// a CREATE records fresh metadata over the unreadable one
	repaired := openTable(t, store, "m", New(Column{Name: "id"}, Column{Name: "val"}))
	assert.Nil(t, repaired.Corrupt())
	assert.Equal(t, "id", repaired.PrimaryKeyColumn())
	assert.Equal(t, []string{"2"}, repaired.Keys())
}

func TestSchema_RecordedPrimaryKeyWinsOverPosition(t *testing.T) {
	store := newStore(t)
	tbl := openTable(t, store, "t", New(Column{Name: "id", Type: "INT"}, Column{Name: "val"}))
	assert.Equal(t, "id", tbl.PrimaryKeyColumn())

	require.NoError(t, tbl.Insert(data.RowOf("val", "x", "id", "1")))
	assert.Equal(t, []string{"1"}, tbl.Keys())

	err := tbl.Insert(data.RowOf("val", "y", "id", "1"))
	assert.ErrorIs(t, err, domainerrors.ErrDuplicateKey)

	// rows without the recorded column fall back to their first value
	require.NoError(t, tbl.Insert(data.RowOf("other", "z")))
	assert.Equal(t, []string{"1", "z"}, tbl.Keys())
}

func TestSchema_FirstCreateWins(t *testing.T) {
	store := newStore(t)
	openTable(t, store, "t", New(Column{Name: "id"}, Column{Name: "val"}))

	tbl := openTable(t, store, "t", New(Column{Name: "val"}))

	assert.Equal(t, "id", tbl.PrimaryKeyColumn())
	assert.Equal(t, []string{"id", "val"}, tbl.Schema().ColumnNames())

	// later opens without a schema read the recorded one
	assert.Equal(t, "id", openTable(t, store, "t", nil).PrimaryKeyColumn())
}

func TestFailedPersistLeavesIndexUnchanged(t *testing.T) {
	fs := &failingStore{Store: newStore(t)}
	tbl := openTable(t, fs, "t", nil)
	require.NoError(t, tbl.Insert(data.RowOf("id", "1", "val", "a")))

	fs.fail = true

	assert.Error(t, tbl.Insert(data.RowOf("id", "2")))
	_, err := tbl.Update("1", data.RowOf("id", "5"))
	assert.Error(t, err)
	_, err = tbl.Delete("1")
	assert.Error(t, err)

	assert.Equal(t, []string{"1"}, tbl.Keys())
	require.Len(t, tbl.Rows(), 1)
	assert.True(t, tbl.Rows()[0].Equal(data.RowOf("id", "1", "val", "a")))
}
