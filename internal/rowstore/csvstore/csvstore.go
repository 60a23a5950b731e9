// Package csvstore keeps each table as a CSV file in a directory.
package csvstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/syncerror"

	"github.com/gocarina/gocsv"
)

// Backend is the name reported by the store.
const Backend = "csv"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store reads and writes <dir>/<table>.csv.
type Store struct {
	dir       string
	delimiter rune
	logger    logging.Logger
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string, logger logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: dir, Op: "open", Err: err}
	}
	return &Store{dir: dir, delimiter: ',', logger: logger}, nil
}

// Path returns the file backing table.
func (s *Store) Path(table string) string {
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(table)
	return filepath.Join(s.dir, name+".csv")
}

// FetchRows implements rowstore.Store.
func (s *Store) FetchRows(_ context.Context, table string) ([]rowstore.Row, error) {
	path := s.Path(table)
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the configured directory
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("Table file not found, treating as empty",
			logging.Field{Key: logging.FieldTable, Value: table})
		return nil, nil
	}
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}

	maps, err := gocsv.CSVToMaps(bufio.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))))
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}
	rows := make([]rowstore.Row, 0, len(maps))
	for _, m := range maps {
		rows = append(rows, rowstore.Row(m))
	}
	s.logger.Debug("Read table",
		logging.Field{Key: logging.FieldTable, Value: table},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReplaceRows writes to a temporary file and renames it over the table file,
// so readers never see a half-written table.
func (s *Store) ReplaceRows(_ context.Context, table string, header []string, rows []rowstore.Row) error {
	if err := rowstore.ValidateHeader(header); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.csv")
	if err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			if rmErr := os.Remove(tmpName); rmErr != nil {
				s.logger.WithError(rmErr).Warn("Failed to remove temporary file")
			}
		}
	}()

	if err := s.write(tmp, header, rows); err != nil {
		_ = tmp.Close()
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}
	if err := os.Rename(tmpName, s.Path(table)); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	s.logger.Debug("Wrote table",
		logging.Field{Key: logging.FieldTable, Value: table},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

func (s *Store) write(w io.Writer, header []string, rows []rowstore.Row) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = s.delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	if err := safe.Write(header); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for i, r := range rows {
		if err := safe.Write(rowstore.Values(header, r)); err != nil {
			return fmt.Errorf("error writing row %d: %w", i, err)
		}
	}
	safe.Flush()
	return safe.Error()
}

// Backend implements rowstore.Store.
func (s *Store) Backend() string { return Backend }

// Close implements rowstore.Store.
func (s *Store) Close() error { return nil }
