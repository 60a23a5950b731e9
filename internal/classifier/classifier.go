// Package classifier assigns every imported transaction to a budget item (or
// to an ignore/netting bucket) by running an ordered cascade of rules.
// The first rule that matches wins; transactions no rule claims are left as
// unmatched for manual follow-up.
package classifier

import (
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// Options configures the technician-fee rule.
type Options struct {
	TechFeeKeyword   string
	TechFeeMonth     int
	TechFeeThreshold decimal.Decimal
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{
		TechFeeKeyword:   "技師牌費",
		TechFeeMonth:     7,
		TechFeeThreshold: decimal.NewFromInt(400000),
	}
}

// Classifier runs the rule cascade.
type Classifier struct {
	rules  []Rule
	logger logging.Logger
}

// NewClassifier builds the standard cascade from a rule set.
func NewClassifier(rules *store.RuleSet, opts Options, logger logging.Logger) *Classifier {
	if rules == nil {
		rules = store.DefaultRuleSet()
	}
	return NewClassifierWithRules(logger,
		NewTagRule(rules.TagPrefix),
		NewProjectKeywordRule(rules.ProjectKeywords),
		ProjectEventRule{},
		&TechFeeRule{Keyword: opts.TechFeeKeyword, Month: opts.TechFeeMonth, Threshold: opts.TechFeeThreshold},
		TransferRule{},
		ReceivableRule{},
		IncomeRule{},
	)
}

// NewClassifierFromLoader loads rules through loader, falling back to the
// built-in rules when loading fails.
func NewClassifierFromLoader(loader store.RuleLoader, opts Options, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	var rules *store.RuleSet
	if loader != nil {
		loaded, err := loader.LoadRules()
		if err != nil {
			logger.WithError(err).Warn("Failed to load classification rules, using built-in rules")
		} else {
			rules = loaded
		}
	}
	return NewClassifier(rules, opts, logger)
}

// NewClassifierWithRules builds a classifier from an explicit rule order.
func NewClassifierWithRules(logger logging.Logger, rules ...Rule) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{rules: rules, logger: logger}
}

// RuleNames lists the cascade in evaluation order.
func (c *Classifier) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name()
	}
	return names
}

// Classify sets tx.Classification and tx.MatchStatus and returns the classification.
func (c *Classifier) Classify(tx *models.Transaction, ref *Reference) models.Classification {
	outcome := fallbackOutcome(tx)
	rule := "Fallback"
	for _, r := range c.rules {
		if o, ok := r.Apply(tx, ref); ok {
			outcome = o
			rule = r.Name()
			break
		}
	}

	status := outcome.Status
	if status == "" {
		status = "Matched: " + outcome.Classification.TargetID
	}
	tx.Classification = outcome.Classification
	tx.MatchStatus = status

	c.logger.Debug("Classified transaction",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: "rule", Value: rule},
		logging.Field{Key: logging.FieldMatchType, Value: string(outcome.Classification.Type)},
		logging.Field{Key: logging.FieldRecurringID, Value: outcome.Classification.TargetID})
	return outcome.Classification
}

// ClassifyAll classifies every transaction in place and logs a summary.
func (c *Classifier) ClassifyAll(txs []*models.Transaction, ref *Reference) *models.ClassificationStats {
	stats := models.NewClassificationStats()
	for _, tx := range txs {
		stats.Record(c.Classify(tx, ref))
	}
	stats.LogSummary(c.logger)
	return stats
}
