// Package sqlite keeps every table container in a single SQLite file.
// Each table is one row of the containers table holding the same JSON
// document the file backend writes.
package sqlite

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"

	dberrors "github.com/benweru/pesapal-jdev26-rdbms/internal/domain/errors"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage"
	"github.com/pressly/goose/v3"

	// sqlite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is a storage.Store backed by database/sql
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens (creating if needed) the SQLite file at path and migrates it
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps ":memory:" databases coherent across calls.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated connection
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate runs all pending migrations
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ensure inserts an empty container unless one exists
func (s *Store) Ensure(table string) error {
	if err := storage.ValidateName(table); err != nil {
		return err
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO containers (name, content) VALUES (?, ?)`, table, "[]"); err != nil {
		return fmt.Errorf("failed to create container for %s: %w", table, err)
	}
	return nil
}

// Load returns the container content or nil if absent
func (s *Store) Load(table string) ([]byte, error) {
	if err := storage.ValidateName(table); err != nil {
		return nil, err
	}
	var content string
	err := s.db.QueryRow(`SELECT content FROM containers WHERE name = ?`, table).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	return []byte(content), nil
}

// Save upserts the container content
func (s *Store) Save(table string, content []byte) error {
	if err := storage.ValidateName(table); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO containers (name, content) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content`, table, string(content))
	if err != nil {
		return fmt.Errorf("failed to write table %s: %w", table, err)
	}
	return nil
}

// LoadMeta returns the recorded metadata or nil.
// An unparsable record is reported as a CorruptStoreError.
func (s *Store) LoadMeta(table string) (*storage.TableMeta, error) {
	if err := storage.ValidateName(table); err != nil {
		return nil, err
	}
	var raw string
	err := s.db.QueryRow(`SELECT meta FROM table_meta WHERE name = ?`, table).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read table meta for %s: %w", table, err)
	}

	var meta storage.TableMeta
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, &dberrors.CorruptStoreError{Table: table, Err: fmt.Errorf("metadata: %w", err)}
	}
	return &meta, nil
}

// SaveMeta upserts the metadata record
func (s *Store) SaveMeta(meta storage.TableMeta) error {
	if err := storage.ValidateName(meta.Name); err != nil {
		return err
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal table meta for %s: %w", meta.Name, err)
	}
	_, err = s.db.Exec(`INSERT INTO table_meta (name, meta) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET meta = excluded.meta`, meta.Name, string(raw))
	if err != nil {
		return fmt.Errorf("failed to write table meta for %s: %w", meta.Name, err)
	}
	return nil
}

// List reports every container ordered by name
func (s *Store) List() ([]storage.TableInfo, error) {
	rows, err := s.db.Query(`SELECT name, length(content) FROM containers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]storage.TableInfo, 0)
	for rows.Next() {
		var info storage.TableInfo
		if err := rows.Scan(&info.Name, &info.Size); err != nil {
			return nil, fmt.Errorf("failed to scan table row: %w", err)
		}
		tables = append(tables, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

// Close closes the underlying connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
