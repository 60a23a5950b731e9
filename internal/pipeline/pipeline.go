// Package pipeline runs one reconciliation: import the latest export,
// classify, resolve exchange rates, net receivables, persist the
// transactions and rebuild the ledger.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fjacquet/moze-ledger/internal/classifier"
	"fjacquet/moze-ledger/internal/fxresolver"
	"fjacquet/moze-ledger/internal/importer"
	"fjacquet/moze-ledger/internal/ledger"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/netting"
	"fjacquet/moze-ledger/internal/repository"
	"fjacquet/moze-ledger/internal/syncerror"
	"fjacquet/moze-ledger/internal/triage"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// MessageNoSource is reported when the source has no export to import.
const MessageNoSource = "No MOZE CSV found in Drive."

// Source yields the export to import. Implementations return
// syncerror.ErrSourceNotFound when there is nothing to import.
type Source interface {
	Open(ctx context.Context) (name string, body io.ReadCloser, err error)
}

// FileSource reads an export from the local filesystem.
type FileSource struct {
	Path string
}

// Open implements Source.
func (f FileSource) Open(context.Context) (string, io.ReadCloser, error) {
	file, err := os.Open(filepath.Clean(f.Path))
	if err != nil {
		return "", nil, fmt.Errorf("failed to open input file: %w", err)
	}
	return filepath.Base(f.Path), file, nil
}

// Stages are the processing steps of a sync. BaseCurrency configures the
// stages left nil.
type Stages struct {
	BaseCurrency string

	Importer   *importer.Importer
	Classifier *classifier.Classifier
	Triager    *triage.Triager
	Resolver   *fxresolver.Resolver
	Netter     *netting.Netter
	Aggregator *ledger.Aggregator
}

// Result is the outcome of a sync. Message is always set.
type Result struct {
	Success       bool
	Message       string
	RunID         string
	Transactions  int
	LedgerEntries int
	Synthetic     int
	Suggestions   int
	Stats         *models.ClassificationStats
	Rates         *models.RateTable
}

// Syncer runs syncs against one repository.
type Syncer struct {
	repo   *repository.Repository
	stages Stages
	logger logging.Logger
}

// NewSyncer creates a syncer. Nil stages get defaults for stages.BaseCurrency.
func NewSyncer(repo *repository.Repository, stages Stages, logger logging.Logger) *Syncer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	base := stages.BaseCurrency
	if base == "" {
		base = models.DefaultBaseCurrency
	}
	if stages.Importer == nil {
		stages.Importer = importer.NewImporter(base, logger)
	}
	if stages.Classifier == nil {
		stages.Classifier = classifier.NewClassifier(nil, classifier.DefaultOptions(), logger)
	}
	if stages.Triager == nil {
		stages.Triager = triage.NewTriager(nil, logger)
	}
	if stages.Resolver == nil {
		stages.Resolver = fxresolver.NewResolver(base, logger)
	}
	if stages.Netter == nil {
		stages.Netter = netting.NewNetter(base, logger)
	}
	if stages.Aggregator == nil {
		stages.Aggregator = ledger.NewAggregator(base, ledger.DefaultNoteMaxLength, logger)
	}
	return &Syncer{repo: repo, stages: stages, logger: logger}
}

// reference is the persisted state a sync starts from.
type reference struct {
	prior     []*models.Transaction
	recurring []models.RecurringDefinition
	events    []models.OneOffEvent
}

// Sync imports the export from source. Failures are reported in the Result
// rather than returned.
func (s *Syncer) Sync(ctx context.Context, source Source) Result {
	runID := uuid.NewString()
	logger := s.logger.WithFields(logging.Field{Key: logging.FieldRunID, Value: runID})
	start := time.Now()

	res, err := s.run(ctx, source, logger)
	res.RunID = runID
	if err != nil {
		if errors.Is(err, syncerror.ErrSourceNotFound) {
			logger.Warn(MessageNoSource)
			res.Message = MessageNoSource
			return res
		}
		logger.WithError(err).Error("Sync failed")
		res.Message = "Sync failed: " + err.Error()
		return res
	}

	res.Success = true
	res.Message = fmt.Sprintf("Synced %d tx. History: %d items.", res.Transactions, res.LedgerEntries)
	logger.Info(res.Message, logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return res
}

func (s *Syncer) run(ctx context.Context, source Source, logger logging.Logger) (Result, error) {
	var res Result

	name, body, err := source.Open(ctx)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := body.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close source")
		}
	}()

	ref, err := s.loadReference(ctx, logger)
	if err != nil {
		return res, err
	}

	txs, err := s.stages.Importer.Import(name, body, repository.ManualActions(ref.prior))
	if err != nil {
		return res, err
	}
	res.Transactions = len(txs)

	res.Stats = s.stages.Classifier.ClassifyAll(txs, classifier.NewReference(ref.recurring, ref.events))
	res.Suggestions = s.stages.Triager.Annotate(ctx, txs, ref.recurring)

	fx := s.stages.Resolver.Resolve(txs)
	res.Rates = fx.Rates

	synthetic := s.stages.Netter.Net(txs, fx.Rates)
	res.Synthetic = len(synthetic)

	if err := s.repo.SaveTransactions(ctx, txs, importer.TouchedMonths(txs)); err != nil {
		return res, fmt.Errorf("failed to save transactions: %w", err)
	}

	entries := s.stages.Aggregator.Aggregate(txs, synthetic, fx.Rates)
	if err := s.repo.SaveLedger(ctx, entries); err != nil {
		return res, fmt.Errorf("failed to save ledger: %w", err)
	}
	res.LedgerEntries = len(entries)
	return res, nil
}

// loadReference reads prior transactions, recurring items and one-off events
// concurrently. Only the prior transactions are required; the reference
// tables degrade to empty.
func (s *Syncer) loadReference(ctx context.Context, logger logging.Logger) (reference, error) {
	var ref reference
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		prior, err := s.repo.LoadTransactions(gctx)
		if err != nil {
			return fmt.Errorf("failed to read prior transactions: %w", err)
		}
		ref.prior = prior
		return nil
	})
	g.Go(func() error {
		recurring, err := s.repo.LoadRecurring(gctx)
		if err != nil {
			logger.WithError(err).Warn("Recurring items unavailable, continuing without them")
			return nil
		}
		ref.recurring = recurring
		return nil
	})
	g.Go(func() error {
		events, err := s.repo.LoadOneOffs(gctx)
		if err != nil {
			logger.WithError(err).Warn("One-off events unavailable, continuing without them")
			return nil
		}
		ref.events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return reference{}, err
	}
	logger.Info("Loaded reference data",
		logging.Field{Key: "prior_transactions", Value: len(ref.prior)},
		logging.Field{Key: "recurring_items", Value: len(ref.recurring)},
		logging.Field{Key: "one_off_events", Value: len(ref.events)})
	return ref, nil
}
