// Package memstore is an in-memory row store for tests and dry runs.
package memstore

import (
	"context"
	"sync"

	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/syncerror"
)

// Backend is the name reported by the store.
const Backend = "memory"

type table struct {
	header []string
	rows   []rowstore.Row
}

// Store keeps tables in memory. FetchErr and ReplaceErr inject failures per
// table name.
type Store struct {
	mu         sync.RWMutex
	tables     map[string]*table
	FetchErr   map[string]error
	ReplaceErr map[string]error
	closed     bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		tables:     make(map[string]*table),
		FetchErr:   make(map[string]error),
		ReplaceErr: make(map[string]error),
	}
}

// Seed sets a table's contents directly.
func (s *Store) Seed(name string, header []string, rows []rowstore.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = &table{header: append([]string(nil), header...), rows: copyRows(rows)}
}

// FetchRows implements rowstore.Store.
func (s *Store) FetchRows(_ context.Context, name string) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.FetchErr[name]; err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: name, Op: "fetch", Err: err}
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, nil
	}
	return copyRows(t.rows), nil
}

// ReplaceRows implements rowstore.Store.
func (s *Store) ReplaceRows(_ context.Context, name string, header []string, rows []rowstore.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ReplaceErr[name]; err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: name, Op: "replace", Err: err}
	}
	if err := rowstore.ValidateHeader(header); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: name, Op: "replace", Err: err}
	}
	kept := make([]rowstore.Row, len(rows))
	for i, r := range rows {
		kept[i] = rowstore.FromValues(header, rowstore.Values(header, r))
	}
	s.tables[name] = &table{header: append([]string(nil), header...), rows: kept}
	return nil
}

// Header returns the last header written to a table.
func (s *Store) Header(name string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.tables[name]; ok {
		return append([]string(nil), t.header...)
	}
	return nil
}

// Backend implements rowstore.Store.
func (s *Store) Backend() string { return Backend }

// Close implements rowstore.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func copyRows(rows []rowstore.Row) []rowstore.Row {
	if rows == nil {
		return nil
	}
	out := make([]rowstore.Row, len(rows))
	for i, r := range rows {
		c := make(rowstore.Row, len(r))
		for k, v := range r {
			c[k] = v
		}
		out[i] = c
	}
	return out
}
