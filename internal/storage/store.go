package storage

import (
	"fmt"
	"regexp"
)

// Store owns the persisted containers, one per table.
// A container holds the table's full row sequence as encoded JSON; every
// mutation replaces it wholesale.
type Store interface {
	// Ensure creates an empty container for table if none exists
	Ensure(table string) error
	// Load returns the raw container content, or nil if the container is absent
	Load(table string) ([]byte, error)
	// Save replaces the container content
	Save(table string, content []byte) error
	// LoadMeta returns the recorded metadata, or nil if none was recorded
	LoadMeta(table string) (*TableMeta, error)
	// SaveMeta records metadata for meta.Name
	SaveMeta(meta TableMeta) error
	// List reports every table container, sorted by name
	List() ([]TableInfo, error)
	Close() error
}

var tableNamePattern = regexp.MustCompile(`^\w+$`)

// ValidateName rejects names that the command grammar could never produce
func ValidateName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}
