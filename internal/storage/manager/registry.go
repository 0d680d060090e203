package manager

import (
	"log/slog"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/schema"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
)

// Registry hands out table handles over one storage backend.
// It caches nothing: every Open reads the container afresh.
type Registry struct {
	store storage.Store
}

// TableStats summarizes one table for listings
type TableStats struct {
	Name       string
	Rows       int
	PrimaryKey string // "" when keys are positional
	Size       int64
	Corrupt    bool
}

// NewRegistry creates a registry over store
func NewRegistry(store storage.Store) *Registry {
	return &Registry{store: store}
}

// Open opens (creating if absent) the named table
func (r *Registry) Open(name string, sch *schema.Schema) (*schema.Table, error) {
	return schema.Open(r.store, name, sch)
}

// List returns the table names, sorted
func (r *Registry) List() ([]string, error) {
	infos, err := r.store.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// Stats opens every table and reports its size and row count
func (r *Registry) Stats() ([]TableStats, error) {
	infos, err := r.store.List()
	if err != nil {
		return nil, err
	}

	stats := make([]TableStats, 0, len(infos))
	for _, info := range infos {
		tbl, err := r.Open(info.Name, nil)
		if err != nil {
			slog.Error("failed to open table for stats", slog.String("table", info.Name), slog.Any("error", err))
			continue
		}
		stats = append(stats, TableStats{
			Name:       info.Name,
			Rows:       tbl.Len(),
			PrimaryKey: tbl.PrimaryKeyColumn(),
			Size:       info.Size,
			Corrupt:    tbl.Corrupt() != nil,
		})
	}
	return stats, nil
}

// Close releases the storage backend
func (r *Registry) Close() error {
	return r.store.Close()
}
