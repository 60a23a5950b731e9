// Package syncerror holds the typed errors that can abort a sync run.
package syncerror

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned when no export file can be located.
var ErrSourceNotFound = errors.New("no source export found")

// StoreError represents a row-store read or write failure
type StoreError struct {
	Backend string
	Table   string
	Op      string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: failed to %s table '%s': %v", e.Backend, e.Op, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ImportError represents a source export that could not be read at all.
// Malformed individual values never produce one; they resolve to defaults.
type ImportError struct {
	Source string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import of '%s' failed: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("import of '%s' failed: %s", e.Source, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// RowError represents a persisted row that does not fit its table's shape.
type RowError struct {
	Table  string
	Row    int
	Column string
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("table '%s' row %d column '%s': %s", e.Table, e.Row, e.Column, e.Reason)
}
