// Package rowstore defines the table-of-records storage the sync reads from
// and writes to. Backends live in the sub-packages.
package rowstore

import (
	"context"
	"fmt"
)

// Row is a flat record keyed by column name.
type Row map[string]string

// Store reads and replaces whole tables. Implementations are opened once per
// run and closed when the run ends.
type Store interface {
	// FetchRows returns every row of table. A table that does not exist yet
	// yields no rows and no error.
	FetchRows(ctx context.Context, table string) ([]Row, error)
	// ReplaceRows overwrites table with rows, writing columns in header order.
	ReplaceRows(ctx context.Context, table string, header []string, rows []Row) error
	// Backend names the implementation for logs and errors.
	Backend() string
	Close() error
}

// Values returns the cells of row in header order; missing columns are empty.
func Values(header []string, row Row) []string {
	out := make([]string, len(header))
	for i, col := range header {
		out[i] = row[col]
	}
	return out
}

// FromValues builds a row from a header and positional cells. Short records
// leave trailing columns empty; extra cells are dropped.
func FromValues(header []string, cells []string) Row {
	row := make(Row, len(header))
	for i, col := range header {
		if col == "" {
			continue
		}
		if i < len(cells) {
			row[col] = cells[i]
		} else {
			row[col] = ""
		}
	}
	return row
}

// ValidateHeader rejects empty or duplicate column names.
func ValidateHeader(header []string) error {
	if len(header) == 0 {
		return fmt.Errorf("header must not be empty")
	}
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		if col == "" {
			return fmt.Errorf("header contains an empty column name")
		}
		if seen[col] {
			return fmt.Errorf("header contains duplicate column %q", col)
		}
		seen[col] = true
	}
	return nil
}
