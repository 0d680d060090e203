package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func TestStore_EnsureCreatesEmptyContainer(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Ensure("users"))

	content, err := os.ReadFile(filepath.Join(s.Dir(), "users.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(content))
}

func TestStore_EnsureKeepsExistingContent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("users", []byte(`[{"id":"1"}]`)))

	require.NoError(t, s.Ensure("users"))

	content, err := s.Load("users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(content))
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	content, err := s.Load("ghost")
	require.NoError(t, err)
	assert.Nil(t, content)

	meta, err := s.LoadMeta("ghost")
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save("t", []byte("[]")))

	_, err := os.Stat(filepath.Join(s.Dir(), "t.json.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestStore_MetaRoundTrip(t *testing.T) {
	s := newTestStore(t)
	meta := storage.TableMeta{
		Name:       "t",
		PrimaryKey: "id",
		Columns:    []storage.ColumnMeta{{Name: "id", Type: "INT"}, {Name: "val"}},
	}

	require.NoError(t, s.SaveMeta(meta))

	got, err := s.LoadMeta("t")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, meta, *got)
}

func TestStore_ListIgnoresSidecarsAndStrays(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ensure("users"))
	require.NoError(t, s.Ensure("orders"))
	require.NoError(t, s.SaveMeta(storage.TableMeta{Name: "users", PrimaryKey: "id"}))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad-name.json"), []byte("[]"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(s.Dir(), "sub.json"), 0755))

	tables, err := s.List()
	require.NoError(t, err)

	require.Len(t, tables, 2)
	assert.Equal(t, "orders", tables[0].Name)
	assert.Equal(t, "users", tables[1].Name)
	assert.Equal(t, int64(3), tables[1].Size)
}

func TestStore_RejectsInvalidNames(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.Ensure("../escape"))
	assert.Error(t, s.Save("a b", []byte("[]")))
	_, err := s.Load("")
	assert.Error(t, err)
}
