package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one aggregated line: the actual amount booked against a
// budget item (or an unmatched merchant) in a month.
type LedgerEntry struct {
	YearMonth    string
	ID           string
	Name         string
	ActualAmount decimal.Decimal
	Note         string
}

// SyntheticEntry is a derived ledger contribution produced by netting.
type SyntheticEntry struct {
	YearMonth string
	ID        string
	Name      string
	Amount    decimal.Decimal
	Note      string
}

// RateTable holds derived exchange rates (base units per foreign unit) at
// three scopes. Lookup prefers the narrowest scope that has a rate.
type RateTable struct {
	Project map[string]map[string]decimal.Decimal
	Month   map[string]map[string]decimal.Decimal
	Global  map[string]decimal.Decimal
}

// NewRateTable returns an empty table.
func NewRateTable() *RateTable {
	return &RateTable{
		Project: make(map[string]map[string]decimal.Decimal),
		Month:   make(map[string]map[string]decimal.Decimal),
		Global:  make(map[string]decimal.Decimal),
	}
}

// Lookup resolves a rate for currency, trying project, then month, then global.
func (rt *RateTable) Lookup(project, month, currency string) (decimal.Decimal, bool) {
	if rt == nil {
		return decimal.Zero, false
	}
	if project != "" {
		if r, ok := rt.Project[project][currency]; ok {
			return r, true
		}
	}
	if month != "" {
		if r, ok := rt.Month[month][currency]; ok {
			return r, true
		}
	}
	r, ok := rt.Global[currency]
	return r, ok
}

// Rates are caller-supplied conversion factors into the base currency, used
// by projection and valuation. Missing currencies convert at 1.
type Rates map[string]decimal.Decimal

// Rate returns the factor for currency, or 1 when unknown.
func (r Rates) Rate(currency string) decimal.Decimal {
	if rate, ok := r[strings.ToUpper(strings.TrimSpace(currency))]; ok && rate.IsPositive() {
		return rate
	}
	return decimal.NewFromInt(1)
}
