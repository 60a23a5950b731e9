// Package ledger folds classified transactions and synthetic netting entries
// into monthly per-budget-item totals.
package ledger

import (
	"sort"
	"strings"

	"fjacquet/moze-ledger/internal/grouping"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// UnmatchedID is the item ID under which unmatched transactions are booked,
// one line per distinct transaction name.
const UnmatchedID = "UNMATCHED"

// DefaultNoteMaxLength caps the joined note of a ledger line, in characters.
const DefaultNoteMaxLength = 500

// Aggregator builds the ledger.
type Aggregator struct {
	baseCurrency  string
	noteMaxLength int
	logger        logging.Logger
}

// NewAggregator creates an aggregator. A non-positive noteMaxLength uses the default.
func NewAggregator(baseCurrency string, noteMaxLength int, logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if baseCurrency == "" {
		baseCurrency = models.DefaultBaseCurrency
	}
	if noteMaxLength <= 0 {
		noteMaxLength = DefaultNoteMaxLength
	}
	return &Aggregator{baseCurrency: baseCurrency, noteMaxLength: noteMaxLength, logger: logger}
}

type entryKey struct {
	month string
	id    string
	name  string
}

// contribution is one signed amount destined for a ledger line.
type contribution struct {
	key    entryKey
	amount decimal.Decimal
	note   string
}

type accumulator struct {
	total decimal.Decimal
	notes []string
	seen  map[string]bool
}

// Aggregate returns the ledger sorted by month descending, then item ID
// ascending with ID-less lines last.
func (a *Aggregator) Aggregate(txs []*models.Transaction, synthetic []models.SyntheticEntry, rates *models.RateTable) []models.LedgerEntry {
	contributions := make([]contribution, 0, len(txs)+len(synthetic))
	skipped := 0
	for _, tx := range txs {
		c, ok := a.contributionFor(tx, rates)
		if !ok {
			skipped++
			continue
		}
		contributions = append(contributions, c)
	}
	for _, s := range synthetic {
		contributions = append(contributions, contribution{
			key:    entryKey{month: s.YearMonth, id: s.ID, name: s.Name},
			amount: s.Amount,
			note:   s.Note,
		})
	}

	order, acc := grouping.Fold(contributions,
		func(c contribution) (entryKey, bool) { return c.key, true },
		func(entryKey) *accumulator { return &accumulator{seen: make(map[string]bool)} },
		func(acc *accumulator, c contribution) *accumulator {
			acc.total = acc.total.Add(c.amount)
			if c.note != "" && !acc.seen[c.note] {
				acc.seen[c.note] = true
				acc.notes = append(acc.notes, c.note)
			}
			return acc
		})

	entries := make([]models.LedgerEntry, 0, len(order))
	for _, key := range order {
		entries = append(entries, models.LedgerEntry{
			YearMonth:    key.month,
			ID:           key.id,
			Name:         key.name,
			ActualAmount: acc[key].total,
			Note:         truncate(strings.Join(acc[key].notes, "; "), a.noteMaxLength),
		})
	}
	SortEntries(entries)

	a.logger.Info("Aggregated ledger",
		logging.Field{Key: "transactions", Value: len(txs)},
		logging.Field{Key: "skipped", Value: skipped},
		logging.Field{Key: "synthetic", Value: len(synthetic)},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return entries
}

func (a *Aggregator) contributionFor(tx *models.Transaction, rates *models.RateTable) (contribution, bool) {
	cls := tx.Classification
	if cls.Type == models.MatchNone || cls.IsIgnored() || tx.SubCategory == models.SubCategoryExchange {
		return contribution{}, false
	}

	if cls.Type == models.MatchTechFeeIncome {
		return contribution{
			key:    entryKey{month: tx.YearMonth, id: cls.TargetID, name: cls.TargetName},
			amount: tx.Amount.Abs(),
		}, true
	}

	amount := tx.Gross()
	if tx.Currency != a.baseCurrency {
		if rate, ok := rates.Lookup(tx.Project, tx.YearMonth, tx.Currency); ok {
			amount = amount.Mul(rate)
		} else {
			a.logger.Debug("No rate for foreign transaction, booking unconverted",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
				logging.Field{Key: logging.FieldCurrency, Value: tx.Currency})
		}
	}

	key := entryKey{month: tx.YearMonth, id: cls.TargetID, name: cls.TargetName}
	if cls.Type == models.MatchUnmatched {
		key = entryKey{month: tx.YearMonth, id: UnmatchedID, name: tx.Name}
	}
	return contribution{key: key, amount: amount, note: cls.DebugNote}, true
}

// SortEntries orders a ledger by month descending, then ID ascending with
// empty IDs last, then name.
func SortEntries(entries []models.LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.YearMonth != b.YearMonth {
			return a.YearMonth > b.YearMonth
		}
		if (a.ID == "") != (b.ID == "") {
			return b.ID == ""
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Name < b.Name
	})
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
