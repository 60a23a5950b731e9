// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"time"

	"fjacquet/moze-ledger/internal/container"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/networth"
	"fjacquet/moze-ledger/internal/quotes"
	"fjacquet/moze-ledger/internal/report"

	"github.com/shopspring/decimal"
)

// Valuation is the reference data and derived values the project and
// networth commands share.
type Valuation struct {
	Rates     quotes.RatesResult
	Prices    quotes.PriceLookup
	Assets    []models.Asset
	Events    []models.OneOffEvent
	Recurring []models.RecurringDefinition
	Insurance map[string][]models.InsuranceYearRecord

	Fixed        networth.Fixed
	Liquid       networth.Liquid
	Liquidity    networth.Liquidity
	Allocation   []networth.Slice
	InitialTotal decimal.Decimal
}

// LoadValuation reads the reference tables and values them as of today.
// Unreadable tables are logged and treated as empty.
func LoadValuation(ctx context.Context, c *container.Container, today time.Time) *Valuation {
	repo := c.GetRepository()
	logger := c.GetLogger()
	cfg := c.GetConfig()

	v := &Valuation{Rates: c.GetRatesClient().Fetch(ctx)}

	assets, err := repo.LoadAssets(ctx)
	if err != nil {
		logger.WithError(err).Warn("Asset inventory unavailable")
	}
	events, err := repo.LoadOneOffs(ctx)
	if err != nil {
		logger.WithError(err).Warn("One-off events unavailable")
	}
	recurring, err := repo.LoadRecurring(ctx)
	if err != nil {
		logger.WithError(err).Warn("Recurring items unavailable")
	}
	v.Assets, v.Events, v.Recurring = assets, events, recurring
	v.Insurance = repo.LoadInsurance(ctx, c.PolicyIDs())

	v.Prices = quotes.Chain{quotes.NewTablePrices(assets), c.GetPrices()}
	rates := v.Rates.Rates
	v.Fixed = networth.FixedAssets(events, cfg.Projection.HouseCategory, c.Policies(), v.Insurance, rates, today)
	v.Liquid = networth.LiquidBreakdown(assets, rates, v.Prices)
	v.Liquidity = networth.CheckLiquidity(assets, events, rates, v.Prices, today)
	v.Allocation = networth.Allocation(assets, rates, v.Prices)
	v.InitialTotal = networth.InitialTotal(assets, rates, v.Prices, v.Fixed)

	logger.Info("Valued net worth",
		logging.Field{Key: "live_rates", Value: v.Rates.Live},
		logging.Field{Key: "assets", Value: len(assets)},
		logging.Field{Key: "initial_total", Value: v.InitialTotal.String()})
	return v
}

// Report converts the valuation to its report view.
func (v *Valuation) Report(currency string) report.NetWorth {
	return report.NetWorth{
		Currency:     currency,
		LiveRates:    v.Rates.Live,
		Rates:        v.Rates.Rates,
		Liquid:       v.Liquid,
		Fixed:        v.Fixed,
		InitialTotal: v.InitialTotal,
		Liquidity:    v.Liquidity,
		Allocation:   v.Allocation,
	}
}
