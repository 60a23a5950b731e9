// Package fxresolver finds currency-exchange transfer pairs among imported
// transactions, attributes untagged exchanges to a project where that is
// unambiguous, and derives effective exchange rates from what was actually
// paid.
package fxresolver

import (
	"sort"

	"fjacquet/moze-ledger/internal/grouping"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Resolver derives the rate table for one batch.
type Resolver struct {
	baseCurrency string
	logger       logging.Logger
}

// Result summarizes a resolution pass.
type Result struct {
	Rates    *models.RateTable
	Pairs    int
	Inferred int
}

// NewResolver creates a resolver for the given base currency.
func NewResolver(baseCurrency string, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if baseCurrency == "" {
		baseCurrency = models.DefaultBaseCurrency
	}
	return &Resolver{baseCurrency: baseCurrency, logger: logger}
}

// pair is a validated exchange: exactly one base leg and one foreign leg
// booked at the same timestamp.
type pair struct {
	legs    []*models.Transaction
	base    *models.Transaction
	foreign *models.Transaction
}

type sums struct {
	base    decimal.Decimal
	foreign decimal.Decimal
}

func (s sums) add(p pair) sums {
	return sums{
		base:    s.base.Add(p.base.LegValue()),
		foreign: s.foreign.Add(p.foreign.LegValue()),
	}
}

// Resolve mutates the legs of inferable exchanges (project, status and
// classification) and returns the derived rates.
func (r *Resolver) Resolve(txs []*models.Transaction) *Result {
	index := r.projectIndex(txs)
	pairs := r.exchangePairs(txs)

	inferred := 0
	for _, p := range pairs {
		if r.inferProject(p, index) {
			inferred++
		}
	}

	rates := r.deriveRates(pairs)

	r.logger.Info("Resolved exchange rates",
		logging.Field{Key: "pairs", Value: len(pairs)},
		logging.Field{Key: "inferred", Value: inferred},
		logging.Field{Key: "global_rates", Value: len(rates.Global)})
	return &Result{Rates: rates, Pairs: len(pairs), Inferred: inferred}
}

// projectIndex maps each foreign currency to the projects it was spent under,
// considering only transactions some rule recognized.
func (r *Resolver) projectIndex(txs []*models.Transaction) map[string][]string {
	seen := make(map[string]map[string]bool)
	index := make(map[string][]string)
	for _, tx := range txs {
		if tx.Project == "" || tx.Currency == r.baseCurrency || !tx.Classification.IsRecognized() {
			continue
		}
		if seen[tx.Currency] == nil {
			seen[tx.Currency] = make(map[string]bool)
		}
		if !seen[tx.Currency][tx.Project] {
			seen[tx.Currency][tx.Project] = true
			index[tx.Currency] = append(index[tx.Currency], tx.Project)
		}
	}
	return index
}

func (r *Resolver) exchangePairs(txs []*models.Transaction) []pair {
	groups := grouping.By(txs, func(tx *models.Transaction) (string, bool) {
		return tx.Timestamp(), tx.IsTransfer() && !tx.IsCreditCard()
	})

	return grouping.Reduce(groups, func(_ string, legs []*models.Transaction) (pair, bool) {
		if len(legs) != 2 {
			return pair{}, false
		}
		p := pair{legs: legs}
		for _, leg := range legs {
			if leg.Currency == r.baseCurrency {
				p.base = leg
			} else {
				p.foreign = leg
			}
		}
		return p, p.base != nil && p.foreign != nil
	})
}

func (r *Resolver) inferProject(p pair, index map[string][]string) bool {
	project := ""
	for _, leg := range p.legs {
		if leg.Project != "" {
			project = leg.Project
			break
		}
	}
	if project == "" {
		candidates := index[p.foreign.Currency]
		if len(candidates) != 1 {
			return false
		}
		project = candidates[0]
	}

	for _, leg := range p.legs {
		leg.Project = project
		leg.MatchStatus = "Inferred: " + project
		leg.Classification.Type = models.MatchInferredExchange
	}
	r.logger.Debug("Attributed exchange to project",
		logging.Field{Key: logging.FieldProject, Value: project},
		logging.Field{Key: logging.FieldCurrency, Value: p.foreign.Currency},
		logging.Field{Key: logging.FieldTransactionID, Value: p.foreign.ID})
	return true
}

func (r *Resolver) deriveRates(pairs []pair) *models.RateTable {
	global := make(map[string]sums)
	monthly := make(map[string]map[string]sums)
	project := make(map[string]map[string]sums)

	for _, p := range pairs {
		cur := p.foreign.Currency
		global[cur] = global[cur].add(p)
		addScoped(monthly, p.foreign.YearMonth, cur, p)
		if label := p.legs[0].Project; label != "" {
			addScoped(project, label, cur, p)
		}
	}

	rt := models.NewRateTable()
	for cur, s := range global {
		if rate, ok := s.rate(); ok {
			rt.Global[cur] = rate
		}
	}
	fillScoped(rt.Month, monthly)
	fillScoped(rt.Project, project)
	return rt
}

func addScoped(m map[string]map[string]sums, scope, cur string, p pair) {
	if m[scope] == nil {
		m[scope] = make(map[string]sums)
	}
	m[scope][cur] = m[scope][cur].add(p)
}

func fillScoped(dst map[string]map[string]decimal.Decimal, src map[string]map[string]sums) {
	for scope, byCur := range src {
		for cur, s := range byCur {
			rate, ok := s.rate()
			if !ok {
				continue
			}
			if dst[scope] == nil {
				dst[scope] = make(map[string]decimal.Decimal)
			}
			dst[scope][cur] = rate
		}
	}
}

func (s sums) rate() (decimal.Decimal, bool) {
	if !s.foreign.IsPositive() {
		return decimal.Zero, false
	}
	return s.base.Div(s.foreign), true
}

// Currencies lists the currencies with a global rate, sorted.
func (res *Result) Currencies() []string {
	out := make([]string, 0, len(res.Rates.Global))
	for cur := range res.Rates.Global {
		out = append(out, cur)
	}
	sort.Strings(out)
	return out
}
