// Package sheets stores each table as a tab of a Google spreadsheet. The first
// row of a tab is its header.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/syncerror"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Backend is the name reported by the store.
const Backend = "sheets"

// valueInputOption stores cells exactly as sent. Parsed input would turn
// hex IDs such as 001234567890 or 12345678e012 into numbers.
const valueInputOption = "RAW"

// valuesAPI is the slice of the Sheets values API the store uses.
type valuesAPI interface {
	get(ctx context.Context, rng string) ([][]interface{}, error)
	clear(ctx context.Context, rng string) error
	update(ctx context.Context, rng, inputOption string, values [][]interface{}) error
}

type serviceValues struct {
	svc           *gsheets.Service
	spreadsheetID string
}

func (v *serviceValues) get(ctx context.Context, rng string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(v.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) clear(ctx context.Context, rng string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(v.spreadsheetID, rng, &gsheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (v *serviceValues) update(ctx context.Context, rng, inputOption string, values [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Update(v.spreadsheetID, rng, &gsheets.ValueRange{Values: values}).
		ValueInputOption(inputOption).Context(ctx).Do()
	return err
}

// Store is a spreadsheet-backed row store.
type Store struct {
	values valuesAPI
	logger logging.Logger
}

// New connects to spreadsheetID. Credentials come from opts, typically
// option.WithCredentialsFile.
func New(ctx context.Context, spreadsheetID string, logger logging.Logger, opts ...option.ClientOption) (*Store, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id cannot be empty")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	opts = append([]option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}, opts...)
	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, &syncerror.StoreError{Backend: Backend, Table: spreadsheetID, Op: "open", Err: err}
	}
	return &Store{values: &serviceValues{svc: svc, spreadsheetID: spreadsheetID}, logger: logger}, nil
}

func newWithValues(values valuesAPI, logger logging.Logger) *Store {
	return &Store{values: values, logger: logger}
}

// FetchRows implements rowstore.Store. A tab that does not exist yields no rows.
func (s *Store) FetchRows(ctx context.Context, table string) ([]rowstore.Row, error) {
	values, err := s.values.get(ctx, table)
	if err != nil {
		if isMissingTab(err) {
			s.logger.Debug("Sheet tab not found, treating as empty",
				logging.Field{Key: logging.FieldTable, Value: table})
			return nil, nil
		}
		return nil, &syncerror.StoreError{Backend: Backend, Table: table, Op: "fetch", Err: err}
	}
	if len(values) == 0 {
		return nil, nil
	}

	header := cells(values[0])
	rows := make([]rowstore.Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		rows = append(rows, rowstore.FromValues(header, cells(raw)))
	}
	s.logger.Debug("Read sheet",
		logging.Field{Key: logging.FieldTable, Value: table},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReplaceRows clears the tab and writes header plus rows from A1.
func (s *Store) ReplaceRows(ctx context.Context, table string, header []string, rows []rowstore.Row) error {
	if err := rowstore.ValidateHeader(header); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaces(header))
	for _, r := range rows {
		values = append(values, toInterfaces(rowstore.Values(header, r)))
	}

	if err := s.values.clear(ctx, table); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "clear", Err: err}
	}
	if err := s.values.update(ctx, table+"!A1", valueInputOption, values); err != nil {
		return &syncerror.StoreError{Backend: Backend, Table: table, Op: "replace", Err: err}
	}
	s.logger.Debug("Wrote sheet",
		logging.Field{Key: logging.FieldTable, Value: table},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

// Backend implements rowstore.Store.
func (s *Store) Backend() string { return Backend }

// Close implements rowstore.Store. The HTTP client needs no teardown.
func (s *Store) Close() error { return nil }

func cells(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		if v == nil {
			continue
		}
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// isMissingTab recognizes the API's answer for a range naming an unknown tab.
func isMissingTab(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range")
}
