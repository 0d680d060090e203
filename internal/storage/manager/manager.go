package manager

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/jsonfile"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/sqlite"
)

// Supported storage backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Options selects and locates a storage backend
type Options struct {
	Backend    string
	DataDir    string
	SQLitePath string // defaults to <DataDir>/bendb.sqlite
}

// OpenStore creates the storage backend described by opts
func OpenStore(opts Options) (storage.Store, error) {
	switch opts.Backend {
	case "", BackendJSON:
		store, err := jsonfile.New(opts.DataDir)
		if err != nil {
			return nil, err
		}
		slog.Debug("storage opened", slog.String("backend", BackendJSON), slog.String("path", opts.DataDir))
		return store, nil

	case BackendSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = filepath.Join(opts.DataDir, "bendb.sqlite")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		slog.Debug("storage opened", slog.String("backend", BackendSQLite), slog.String("path", path))
		return store, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q (want %q or %q)", opts.Backend, BackendJSON, BackendSQLite)
	}
}
