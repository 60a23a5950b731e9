// Package quotes resolves unit prices for held instruments and the exchange
// rates used to value them in the base currency.
package quotes

import (
	"strings"

	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// PriceLookup returns the current unit price of an instrument, or false when
// no price is available.
type PriceLookup interface {
	Price(name string) (decimal.Decimal, bool)
}

// TickerAliases maps inventory names to market tickers, so a price recorded
// under either name is found under both.
var TickerAliases = map[string]string{
	"006208":    "006208.TW",
	"TW-006208": "006208.TW",
	"00694B":    "00694B.TWO",
	"TW-00694B": "00694B.TWO",
	"2330":      "2330.TW",
	"TW-2330":   "2330.TW",
	"BTC":       "BTC-USD",
	"ETH":       "ETH-USD",
	"SOL":       "SOL-USD",
	"USDT":      "USDT-USD",
	"USDC":      "USDC-USD",
}

// TablePrices is an exact-name price table.
type TablePrices map[string]decimal.Decimal

// NewTablePrices collects the unit prices recorded on inventory rows. Rows
// without a unit price are skipped.
func NewTablePrices(assets []models.Asset) TablePrices {
	t := make(TablePrices)
	for _, a := range assets {
		if a.UnitPrice.IsZero() {
			continue
		}
		t[a.Name] = a.UnitPrice
		if ticker, ok := TickerAliases[a.Name]; ok {
			t[ticker] = a.UnitPrice
		}
		if ticker, ok := TickerAliases[strings.ToUpper(a.Name)]; ok {
			t[ticker] = a.UnitPrice
		}
	}
	return t
}

// Price looks the name up as given, then upper-cased.
func (t TablePrices) Price(name string) (decimal.Decimal, bool) {
	if p, ok := t[name]; ok && !p.IsZero() {
		return p, true
	}
	if p, ok := t[strings.ToUpper(name)]; ok && !p.IsZero() {
		return p, true
	}
	return decimal.Zero, false
}

// FragmentPrice prices any instrument whose upper-cased name contains Fragment.
type FragmentPrice struct {
	Fragment string
	Price    decimal.Decimal
}

// FragmentPrices is an ordered offline price list; the first matching
// fragment wins.
type FragmentPrices []FragmentPrice

// Price implements PriceLookup.
func (f FragmentPrices) Price(name string) (decimal.Decimal, bool) {
	upper := strings.ToUpper(name)
	for _, fp := range f {
		if fp.Fragment != "" && strings.Contains(upper, strings.ToUpper(fp.Fragment)) {
			return fp.Price, true
		}
	}
	return decimal.Zero, false
}

// DefaultFallbackPrices is the offline backup used when neither the inventory
// nor the configuration has a price.
func DefaultFallbackPrices() FragmentPrices {
	p := func(fragment, price string) FragmentPrice {
		return FragmentPrice{Fragment: fragment, Price: decimal.RequireFromString(price)}
	}
	return FragmentPrices{
		p("006208", "115"),
		p("00694B", "15.2"),
		p("2330", "1085"),
		p("VOO", "632.6"),
		p("BND", "74.3"),
		p("QQQ", "510"),
		p("AAPL", "273"),
		p("TSLA", "460"),
		p("NVDA", "188"),
		p("MSFT", "487"),
		p("GOOGL", "311"),
		p("BTC", "87300"),
		p("ETH", "2970"),
		p("SOL", "124"),
		p("USDT", "1"),
		p("USDC", "1"),
	}
}

// FromConfig turns a configured name-to-price map into exact-name prices.
func FromConfig(prices map[string]float64) TablePrices {
	t := make(TablePrices, len(prices))
	for name, price := range prices {
		t[strings.ToUpper(name)] = decimal.NewFromFloat(price)
	}
	return t
}

// Chain tries each lookup in order.
type Chain []PriceLookup

// Price implements PriceLookup.
func (c Chain) Price(name string) (decimal.Decimal, bool) {
	for _, l := range c {
		if l == nil {
			continue
		}
		if p, ok := l.Price(name); ok {
			return p, true
		}
	}
	return decimal.Zero, false
}

// UnitPrice returns the price from lookup, or 1 when unavailable so that
// cash-like holdings are valued at their quantity.
func UnitPrice(lookup PriceLookup, name string) decimal.Decimal {
	if lookup != nil {
		if p, ok := lookup.Price(name); ok {
			return p
		}
	}
	return decimal.NewFromInt(1)
}
