// Package gdrive locates and downloads the newest bookkeeping export from
// Google Drive.
package gdrive

import (
	"context"
	"fmt"
	"io"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/syncerror"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DefaultQuery matches exported CSVs that are not in the trash.
const DefaultQuery = "name contains 'MOZE' and name contains '.csv' and trashed = false"

// File is a located export.
type File struct {
	ID          string
	Name        string
	CreatedTime string
}

// filesAPI is the part of the Drive files API the fetcher uses.
type filesAPI interface {
	newest(ctx context.Context, query string) (*File, error)
	download(ctx context.Context, id string) (io.ReadCloser, error)
}

type serviceFiles struct {
	svc *drive.Service
}

func (s *serviceFiles) newest(ctx context.Context, query string) (*File, error) {
	resp, err := s.svc.Files.List().
		Q(query).
		OrderBy("createdTime desc").
		PageSize(1).
		Fields("files(id, name, createdTime)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Files) == 0 {
		return nil, nil
	}
	f := resp.Files[0]
	return &File{ID: f.Id, Name: f.Name, CreatedTime: f.CreatedTime}, nil
}

func (s *serviceFiles) download(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.svc.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Fetcher finds the newest export matching a query.
type Fetcher struct {
	files  filesAPI
	query  string
	logger logging.Logger
}

// NewFetcher connects to Drive with read-only scope.
func NewFetcher(ctx context.Context, query string, logger logging.Logger, opts ...option.ClientOption) (*Fetcher, error) {
	opts = append([]option.ClientOption{option.WithScopes(drive.DriveReadonlyScope)}, opts...)
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return newFetcher(&serviceFiles{svc: svc}, query, logger), nil
}

func newFetcher(files filesAPI, query string, logger logging.Logger) *Fetcher {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if query == "" {
		query = DefaultQuery
	}
	return &Fetcher{files: files, query: query, logger: logger}
}

// Open returns the newest matching export. It returns
// syncerror.ErrSourceNotFound when nothing matches.
func (f *Fetcher) Open(ctx context.Context) (string, io.ReadCloser, error) {
	f.logger.Debug("Searching Drive for the latest export", logging.Field{Key: "query", Value: f.query})
	file, err := f.files.newest(ctx, f.query)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list drive files: %w", err)
	}
	if file == nil || file.ID == "" {
		f.logger.Warn("No export found in Drive", logging.Field{Key: "query", Value: f.query})
		return "", nil, syncerror.ErrSourceNotFound
	}

	body, err := f.files.download(ctx, file.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to download %s: %w", file.Name, err)
	}
	f.logger.Info("Found latest export",
		logging.Field{Key: logging.FieldInputFile, Value: file.Name},
		logging.Field{Key: "file_id", Value: file.ID},
		logging.Field{Key: "created", Value: file.CreatedTime})
	return file.Name, body, nil
}
