package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fjacquet/moze-ledger/internal/config"
	"fjacquet/moze-ledger/internal/container"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/rowstore"
	"fjacquet/moze-ledger/internal/rowstore/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed() *memstore.Store {
	s := memstore.New()
	s.Seed("Assets_Inventory",
		[]string{models.ColRefName, models.ColRefCategory, models.ColRefQuantity, models.ColRefCurrency, models.ColRefUnitPrice},
		[]rowstore.Row{
			{models.ColRefName: "Bank deposit", models.ColRefCategory: "Cash", models.ColRefQuantity: "1000", models.ColRefCurrency: "TWD"},
			{models.ColRefName: "AAPL", models.ColRefCategory: "Stock", models.ColRefQuantity: "2", models.ColRefCurrency: "USD", models.ColRefUnitPrice: "100"},
		})
	s.Seed("One_Off_Events",
		[]string{models.ColRefName, models.ColRefType, models.ColRefCategory, models.ColRefAmount, models.ColRefDate},
		[]rowstore.Row{
			{models.ColRefName: "Down payment", models.ColRefType: "Expense", models.ColRefCategory: "House", models.ColRefAmount: "500000", models.ColRefDate: "2026-01-10"},
			{models.ColRefName: "Tuition", models.ColRefType: "Expense", models.ColRefAmount: "5000", models.ColRefDate: "2026-12-01"},
		})
	s.Seed("Insurance_R09",
		[]string{models.ColInsPaymentDate, models.ColInsActualYearEnd},
		[]rowstore.Row{{models.ColInsPaymentDate: "2025/03/01", models.ColInsActualYearEnd: "1000"}})
	return s
}

func TestLoadValuation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"TWD":30,"JPY":150}}`))
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Quotes.RatesURL = server.URL
	c, err := container.NewContainerWithStore(cfg, seed(), logging.NewMockLogger())
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	today := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	v := LoadValuation(context.Background(), c, today)

	assert.True(t, v.Rates.Live)
	assert.Equal(t, "30", v.Rates.Rates["USD"].String())
	assert.Equal(t, "1000", v.Liquid.Cash.String())
	assert.Equal(t, "6000", v.Liquid.Stock.String())
	assert.Equal(t, "500000", v.Fixed.House.String())
	assert.Equal(t, "30000", v.Fixed.Insurance.String())
	assert.Equal(t, "537000", v.InitialTotal.String())

	require.NotNil(t, v.Liquidity.NextEvent)
	assert.Equal(t, "Tuition", v.Liquidity.NextEvent.Name)
	assert.True(t, v.Liquidity.HasCrisis)
	assert.Equal(t, "4000", v.Liquidity.Shortfall.String())

	nw := v.Report("TWD")
	assert.Equal(t, v.InitialTotal, nw.InitialTotal)
	assert.True(t, nw.LiveRates)
}

func TestLoadValuation_DegradesWithoutTables(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	s := memstore.New()
	s.FetchErr["Assets_Inventory"] = assert.AnError
	cfg := config.Default()
	cfg.Quotes.RatesURL = server.URL
	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithStore(cfg, s, logger)
	require.NoError(t, err)

	v := LoadValuation(context.Background(), c, time.Now())

	assert.False(t, v.Rates.Live)
	assert.Equal(t, "32.5", v.Rates.Rates["USD"].String())
	assert.True(t, v.InitialTotal.IsZero())
	assert.True(t, logger.HasEntry("WARN", "Asset inventory unavailable"))
}
