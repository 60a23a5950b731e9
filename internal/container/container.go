// Package container provides dependency injection for the moze-ledger
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"time"

	"fjacquet/moze-ledger/internal/classifier"
	"fjacquet/moze-ledger/internal/config"
	"fjacquet/moze-ledger/internal/factory"
	"fjacquet/moze-ledger/internal/fxresolver"
	"fjacquet/moze-ledger/internal/importer"
	"fjacquet/moze-ledger/internal/ledger"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/netting"
	"fjacquet/moze-ledger/internal/networth"
	"fjacquet/moze-ledger/internal/pipeline"
	"fjacquet/moze-ledger/internal/projector"
	"fjacquet/moze-ledger/internal/quotes"
	"fjacquet/moze-ledger/internal/repository"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/store"
	"fjacquet/moze-ledger/internal/triage"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation: all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	rowStore   rowstore.Store
	repo       *repository.Repository
	ruleStore  *store.RuleStore
	classifier *classifier.Classifier
	suggester  *triage.GeminiSuggester
	syncer     *pipeline.Syncer
	projector  *projector.Projector
	rates      *quotes.RatesClient
	prices     quotes.PriceLookup
}

// NewContainer creates and wires all application dependencies, opening the
// configured row store.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	logger := config.NewLoggerFromConfig(cfg)

	rs, err := factory.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}

	suggester, err := factory.NewSuggester(ctx, cfg)
	if err != nil {
		_ = rs.Close()
		return nil, err
	}
	return build(cfg, rs, suggester, logger), nil
}

// NewContainerWithStore wires dependencies around an already opened store.
// AI triage is disabled.
func NewContainerWithStore(cfg *config.Config, rs rowstore.Store, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if rs == nil {
		return nil, fmt.Errorf("row store cannot be nil")
	}
	if logger == nil {
		logger = config.NewLoggerFromConfig(cfg)
	}
	return build(cfg, rs, nil, logger), nil
}

func build(cfg *config.Config, rs rowstore.Store, suggester *triage.GeminiSuggester, logger logging.Logger) *Container {
	base := cfg.Pipeline.BaseCurrency

	repo := repository.New(rs, TablesFromConfig(cfg), logger, repository.WithBaseCurrency(base))
	ruleStore := store.NewRuleStore(cfg.Pipeline.RulesFile, logger)
	cls := classifier.NewClassifierFromLoader(ruleStore, classifier.Options{
		TechFeeKeyword:   cfg.Pipeline.TechFee.Keyword,
		TechFeeMonth:     cfg.Pipeline.TechFee.Month,
		TechFeeThreshold: cfg.TechFeeThreshold(),
	}, logger)

	var s triage.Suggester
	if suggester != nil {
		s = suggester
		logger.Info("AI triage enabled", logging.Field{Key: "model", Value: cfg.AI.Model})
	} else {
		logger.Debug("AI triage disabled")
	}

	syncer := pipeline.NewSyncer(repo, pipeline.Stages{
		BaseCurrency: base,
		Importer:     importer.NewImporter(base, logger),
		Classifier:   cls,
		Triager:      triage.NewTriager(s, logger),
		Resolver:     fxresolver.NewResolver(base, logger),
		Netter:       netting.NewNetter(base, logger),
		Aggregator:   ledger.NewAggregator(base, cfg.Pipeline.NoteMaxLength, logger),
	}, logger)

	rates := quotes.NewRatesClient(cfg.Quotes.RatesURL, base,
		time.Duration(cfg.Quotes.TimeoutSeconds)*time.Second,
		quotes.RatesFromConfig(cfg.Quotes.FallbackRates), logger)

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldBackend, Value: rs.Backend()},
		logging.Field{Key: "ai_enabled", Value: suggester != nil})

	return &Container{
		logger:     logger,
		config:     cfg,
		rowStore:   rs,
		repo:       repo,
		ruleStore:  ruleStore,
		classifier: cls,
		suggester:  suggester,
		syncer:     syncer,
		projector:  projector.NewProjector(ProjectorOptions(cfg), logger),
		rates:      rates,
		prices:     quotes.Chain{quotes.FromConfig(cfg.Quotes.FallbackPrices), quotes.DefaultFallbackPrices()},
	}
}

// TablesFromConfig maps the store.tables section.
func TablesFromConfig(cfg *config.Config) repository.Tables {
	t := cfg.Store.Tables
	return repository.Tables{
		Transactions:    t.Transactions,
		Ledger:          t.Ledger,
		Recurring:       t.Recurring,
		OneOff:          t.OneOff,
		Assets:          t.Assets,
		AssetHistory:    t.AssetHistory,
		InsurancePrefix: t.InsurancePrefix,
		DebtPrefix:      t.DebtPrefix,
	}
}

// ProjectorOptions maps the projection section.
func ProjectorOptions(cfg *config.Config) projector.Options {
	modes := make(map[string]projector.SplitMode, len(cfg.Projection.Insurance))
	for _, p := range cfg.Projection.Insurance {
		modes[p.ID] = projector.SplitMode(p.Mode)
	}
	return projector.Options{
		Insurance:         modes,
		HouseCategory:     cfg.Projection.HouseCategory,
		SavingsCategories: cfg.Projection.SavingsCategories,
		SavingsKeywords:   cfg.Projection.SavingsKeywords,
	}
}

// Policies lists the insurance policies whose cash value is a fixed asset.
func (c *Container) Policies() []networth.Policy {
	out := make([]networth.Policy, 0, len(c.config.Projection.Insurance))
	for _, p := range c.config.Projection.Insurance {
		out = append(out, networth.Policy{ID: p.ID, Currency: p.Currency})
	}
	return out
}

// PolicyIDs lists the designated insurance policy IDs.
func (c *Container) PolicyIDs() []string {
	ids := make([]string, 0, len(c.config.Projection.Insurance))
	for _, p := range c.config.Projection.Insurance {
		ids = append(ids, p.ID)
	}
	return ids
}

// DebtIDs lists the loans whose schedules are tracked.
func (c *Container) DebtIDs() []string {
	return append([]string(nil), c.config.Projection.DebtIDs...)
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the opened row store.
func (c *Container) GetStore() rowstore.Store { return c.rowStore }

// GetRepository returns the table repository.
func (c *Container) GetRepository() *repository.Repository { return c.repo }

// GetRuleStore returns the classification rule store.
func (c *Container) GetRuleStore() *store.RuleStore { return c.ruleStore }

// GetClassifier returns the classifier.
func (c *Container) GetClassifier() *classifier.Classifier { return c.classifier }

// GetSyncer returns the reconciliation pipeline.
func (c *Container) GetSyncer() *pipeline.Syncer { return c.syncer }

// GetProjector returns the projector.
func (c *Container) GetProjector() *projector.Projector { return c.projector }

// GetRatesClient returns the exchange-rate client.
func (c *Container) GetRatesClient() *quotes.RatesClient { return c.rates }

// GetPrices returns the fallback price lookup. Inventory unit prices are
// consulted first by callers that have loaded the inventory.
func (c *Container) GetPrices() quotes.PriceLookup { return c.prices }

// Close releases the row store and the AI client.
func (c *Container) Close() error {
	var firstErr error
	if c.suggester != nil {
		if err := c.suggester.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.rowStore.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	c.logger.Debug("Container closed")
	return firstErr
}
