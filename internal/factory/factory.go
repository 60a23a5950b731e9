// Package factory opens the configured row-store backend, export source and
// triage suggester.
package factory

import (
	"context"
	"fmt"
	"time"

	"fjacquet/moze-ledger/internal/config"
	"fjacquet/moze-ledger/internal/gdrive"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/pipeline"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/rowstore/csvstore"
	"fjacquet/moze-ledger/internal/rowstore/memstore"
	"fjacquet/moze-ledger/internal/rowstore/pgstore"
	"fjacquet/moze-ledger/internal/rowstore/sheets"
	"fjacquet/moze-ledger/internal/triage"

	"google.golang.org/api/option"
)

// GoogleOptions returns the client options for Google APIs. Without a
// credentials file the application default credentials are used.
func GoogleOptions(cfg *config.Config) []option.ClientOption {
	if cfg.Google.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.Google.CredentialsFile)}
}

// OpenStore opens the row store selected by store.backend.
func OpenStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (rowstore.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	var (
		store rowstore.Store
		err   error
	)
	switch cfg.Store.Backend {
	case config.BackendSheets:
		store, err = sheets.New(ctx, cfg.Google.SpreadsheetID, logger, GoogleOptions(cfg)...)
	case config.BackendCSV:
		store, err = csvstore.New(cfg.Store.CSVDir, logger)
	case config.BackendPostgres:
		store, err = pgstore.New(ctx, cfg.Store.PostgresURL, logger)
	case config.BackendMemory:
		store = memstore.New()
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
	if err != nil {
		return nil, err
	}
	logger.Debug("Opened row store", logging.Field{Key: logging.FieldBackend, Value: store.Backend()})
	return store, nil
}

// OpenSource returns a local file source when input is set, otherwise the
// newest export in Drive.
func OpenSource(ctx context.Context, cfg *config.Config, input string, logger logging.Logger) (pipeline.Source, error) {
	if input != "" {
		return pipeline.FileSource{Path: input}, nil
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	fetcher, err := gdrive.NewFetcher(ctx, cfg.Google.DriveQuery, logger, GoogleOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	return fetcher, nil
}

// NewSuggester returns the Gemini suggester when AI triage is enabled and
// nil otherwise.
func NewSuggester(ctx context.Context, cfg *config.Config) (*triage.GeminiSuggester, error) {
	if cfg == nil || !cfg.AI.Enabled {
		return nil, nil
	}
	return triage.NewGeminiSuggester(ctx, cfg.AI.APIKey, cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
}
