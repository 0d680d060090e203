package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching against the typed errors below
var (
	ErrSyntax        = errors.New("syntax error")
	ErrArityMismatch = errors.New("arity mismatch")
	ErrDuplicateKey  = errors.New("duplicate primary key")
	ErrRowNotFound   = errors.New("row not found")
	ErrCorruptStore  = errors.New("corrupt store")
	ErrEmptyRow      = errors.New("row has no entries")
)

// SyntaxError is returned when a command matches no grammar
// or carries a malformed assignment list
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("syntax error: %s", e.Reason)
	}
	return "unknown command or syntax error"
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// ArityMismatchError is returned when an INSERT names a different number
// of columns than values
type ArityMismatchError struct {
	Columns int
	Values  int
}

func (e *ArityMismatchError) Error() string {
	return fmt.Sprintf("column count (%d) does not match value count (%d)", e.Columns, e.Values)
}

func (e *ArityMismatchError) Is(target error) bool { return target == ErrArityMismatch }

// DuplicateKeyError is returned when a primary key is already indexed
type DuplicateKeyError struct {
	Table string
	Key   string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate primary key '%s' in table '%s'", e.Key, e.Table)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

// RowNotFoundError is returned when an UPDATE or DELETE target is absent
type RowNotFoundError struct {
	Table  string
	Column string // empty when looked up by primary key
	Value  string
}

func (e *RowNotFoundError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row with PK=%s not found in '%s'", e.Value, e.Table)
	}
	return fmt.Sprintf("no row with %s=%s found in '%s'", e.Column, e.Value, e.Table)
}

func (e *RowNotFoundError) Is(target error) bool { return target == ErrRowNotFound }

// CorruptStoreError describes a container whose content could not be decoded.
// The row store degrades to an empty table instead of returning it.
type CorruptStoreError struct {
	Table string
	Err   error
}

func (e *CorruptStoreError) Error() string {
	return fmt.Sprintf("table '%s' has unreadable content: %v", e.Table, e.Err)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }
