// Package currencyutils holds the amount parsing, rounding and display helpers
// shared by the pipeline and the CLI.
package currencyutils

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// ParseAmount reads an exported amount such as "-1,234.5". Thousands separators
// and surrounding whitespace are ignored; anything unparsable yields zero.
func ParseAmount(amountStr string) decimal.Decimal {
	clean := strings.ReplaceAll(strings.TrimSpace(amountStr), ",", "")
	if clean == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

// RoundHalfUp rounds to the nearest integer with halves going toward positive
// infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// Display formats an amount for terminal output, e.g. "NT$1,234.00".
// Unknown currency codes fall back to "<amount> <code>".
func Display(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	c := money.GetCurrency(code)
	if c == nil {
		return amount.StringFixed(2) + " " + code
	}
	return money.NewFromFloat(amount.InexactFloat64(), code).Display()
}
