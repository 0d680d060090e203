// Package jsonfile stores each table as <dir>/<table>.json with an optional
// <dir>/<table>.meta.json sidecar.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	dberrors "github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
)

const (
	dataExt = ".json"
	metaExt = ".meta.json"
)

// Store is a directory of JSON files
type Store struct {
	dir string
}

var _ storage.Store = (*Store)(nil)

// New creates the directory if needed and returns a store rooted at it
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) dataPath(table string) string {
	return filepath.Join(s.dir, table+dataExt)
}

func (s *Store) metaPath(table string) string {
	return filepath.Join(s.dir, table+metaExt)
}

// Ensure writes an empty row sequence if the table file does not exist
func (s *Store) Ensure(table string) error {
	if err := storage.ValidateName(table); err != nil {
		return err
	}
	if _, err := os.Stat(s.dataPath(table)); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat table %s: %w", table, err)
	}

	slog.Debug("creating table file", slog.String("table", table), slog.String("path", s.dataPath(table)))
	return s.Save(table, []byte("[]\n"))
}

// Load reads the table file. A missing file yields nil content.
func (s *Store) Load(table string) ([]byte, error) {
	if err := storage.ValidateName(table); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(s.dataPath(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	return content, nil
}

// Save replaces the table file using temp + rename. Nothing is fsynced.
func (s *Store) Save(table string, content []byte) error {
	if err := storage.ValidateName(table); err != nil {
		return err
	}
	return writeReplace(s.dataPath(table), content)
}

// LoadMeta reads the metadata sidecar, returning nil if there is none.
// An unparsable sidecar is reported as a CorruptStoreError.
func (s *Store) LoadMeta(table string) (*storage.TableMeta, error) {
	if err := storage.ValidateName(table); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(s.metaPath(table))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table meta for %s: %w", table, err)
	}

	var meta storage.TableMeta
	if err := json.Unmarshal(content, &meta); err != nil {
		return nil, &dberrors.CorruptStoreError{Table: table, Err: fmt.Errorf("metadata: %w", err)}
	}
	return &meta, nil
}

// SaveMeta writes the metadata sidecar
func (s *Store) SaveMeta(meta storage.TableMeta) error {
	if err := storage.ValidateName(meta.Name); err != nil {
		return err
	}
	content, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table meta for %s: %w", meta.Name, err)
	}
	return writeReplace(s.metaPath(meta.Name), append(content, '\n'))
}

// List scans the directory for table files
func (s *Store) List() ([]storage.TableInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []storage.TableInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	tables := make([]storage.TableInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, dataExt) || strings.HasSuffix(name, metaExt) {
			continue
		}
		table := strings.TrimSuffix(name, dataExt)
		if storage.ValidateName(table) != nil {
			continue
		}

		info := storage.TableInfo{Name: table}
		if fi, err := entry.Info(); err == nil {
			info.Size = fi.Size()
		}
		tables = append(tables, info)
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })
	return tables, nil
}

// Close is a no-op; files are not held open
func (s *Store) Close() error {
	return nil
}

func writeReplace(path string, content []byte) error {
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write temp file %s: %w", filepath.Base(tmpPath), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp → %s: %w", filepath.Base(path), err)
	}
	return nil
}
