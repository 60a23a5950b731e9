// Package pgstore keeps tables in PostgreSQL, one jsonb document per row.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/syncerror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the name reported by the store.
const Backend = "postgres"

const schema = `
CREATE TABLE IF NOT EXISTS ledger_tables (
	table_name TEXT PRIMARY KEY,
	header     JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS ledger_rows (
	table_name TEXT NOT NULL,
	row_index  INTEGER NOT NULL,
	data       JSONB NOT NULL,
	PRIMARY KEY (table_name, row_index)
);`

// Store is a pgx-backed row store.
type Store struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// New opens a pool on databaseURL, verifies it and creates the schema.
func New(ctx context.Context, databaseURL string, logger logging.Logger) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL cannot be empty")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: "*", Op: "open", Err: err}
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &syncerror.StoreError{Backend: Backend, Table: "*", Op: "open", Err: err}
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, &syncerror.StoreError{Backend: Backend, Table: "*", Op: "migrate", Err: err}
	}

	logger.Debug("Connected to PostgreSQL row store")
	return &Store{pool: pool, logger: logger}, nil
}

// FetchRows implements rowstore.Store.
func (s *Store) FetchRows(ctx context.Context, table string) ([]rowstore.Row, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM ledger_rows WHERE table_name = $1 ORDER BY row_index`, table)
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}
	defer rows.Close()

	var out []rowstore.Row
	for rows.Next() {
		var data map[string]string
		if err := rows.Scan(&data); err != nil {
			return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
		}
		out = append(out, rowstore.Row(data))
	}
	if err := rows.Err(); err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}
	return out, nil
}

// Header returns the header last written to table, or nil.
func (s *Store) Header(ctx context.Context, table string) ([]string, error) {
	var header []string
	err := s.pool.QueryRow(ctx, `SELECT header FROM ledger_tables WHERE table_name = $1`, table).Scan(&header)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}
	return header, nil
}

// ReplaceRows deletes and re-inserts the table inside one transaction, so a
// failed write leaves the previous contents in place.
func (s *Store) ReplaceRows(ctx context.Context, table string, header []string, rows []rowstore.Row) error {
	if err := rowstore.ValidateHeader(header); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.WithError(rbErr).Warn("Failed to roll back row store transaction",
				logging.Field{Key: logging.FieldTable, Value: table})
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM ledger_rows WHERE table_name = $1`, table); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO ledger_tables (table_name, header, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (table_name) DO UPDATE SET header = EXCLUDED.header, updated_at = now()`,
		table, header)
	for i, r := range rows {
		data := make(map[string]string, len(header))
		for _, col := range header {
			data[col] = r[col]
		}
		batch.Queue(`INSERT INTO ledger_rows (table_name, row_index, data) VALUES ($1, $2, $3)`, table, i, data)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	if err := tx.Commit(ctx); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "commit", Err: err}
	}
	s.logger.Debug("Replaced table",
		logging.Field{Key: logging.FieldTable, Value: table},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

// Backend implements rowstore.Store.
func (s *Store) Backend() string { return Backend }

// Close releases the pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
