package networth

import (
	"testing"
	"time"

	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/quotes"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var today = time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

func rates() models.Rates { return models.Rates{"USD": d("30"), "TWD": d("1")} }

func TestFixedAssets(t *testing.T) {
	events := []models.OneOffEvent{
		{Name: "Deposit", Category: "House", Amount: d("1000000"), Date: "2025/10/01"},
		{Name: "Final", Category: "House", Amount: d("2000000"), Date: "2027/01/01"},
		{Name: "Trip", Category: "Travel", Amount: d("50000"), Date: "2025/01/01"},
	}
	insurance := map[string][]models.InsuranceYearRecord{
		"R09": {
			{PaymentDate: "2026/03/01", ActualYearEnd: d("1200")},
			{PaymentDate: "2025/03/01", ExpectedYearEnd: d("1000")},
			{PaymentDate: "2027/03/01", ExpectedYearEnd: d("1500")},
		},
		"R10": {
			{PaymentDate: "2026/06/01", ExpectedYearEnd: d("90000")},
		},
	}
	policies := []Policy{{ID: "R09", Currency: "USD"}, {ID: "R10", Currency: "TWD"}}

	fixed := FixedAssets(events, "", policies, insurance, rates(), today)

	assert.Equal(t, "1000000", fixed.House.String())
	assert.Equal(t, "36000", fixed.ByPolicy["R09"].String())
	assert.Equal(t, "0", fixed.ByPolicy["R10"].String())
	assert.Equal(t, "36000", fixed.Insurance.String())
	assert.Equal(t, "1036000", fixed.Total.String())
}

func inventory() []models.Asset {
	return []models.Asset{
		{ID: "3", Type: "Fiat", Category: "Cash", Name: "Bank", Quantity: d("100000"), Currency: "TWD"},
		{ID: "1", Type: "Fiat", Category: "Deposit", Name: "USD account", Quantity: d("1000"), Currency: "USD"},
		{ID: "2", Type: "Stock", Category: "ETF", Name: "VOO", Quantity: d("10"), Currency: "USD"},
		{ID: "4", Type: "Crypto", Category: "Crypto", Name: "BTC", Quantity: d("0.1"), Currency: "USD"},
		{ID: "5", Type: "Other", Category: "", Name: "Watch", Quantity: d("1"), Currency: "TWD", UnitPrice: d("20000")},
	}
}

func prices() quotes.PriceLookup {
	return quotes.Chain{
		quotes.NewTablePrices(inventory()),
		quotes.TablePrices{"VOO": d("600"), "BTC": d("80000")},
	}
}

func TestLiquidBreakdown(t *testing.T) {
	l := LiquidBreakdown(inventory(), rates(), prices())

	assert.Equal(t, "130000", l.Cash.String())
	assert.Equal(t, "180000", l.Stock.String())
	assert.Equal(t, "240000", l.Crypto.String())
	assert.Equal(t, "20000", l.Other.String())
	assert.Equal(t, "570000", l.Total.String())
}

func TestCheckLiquidity(t *testing.T) {
	tests := []struct {
		name          string
		events        []models.OneOffEvent
		wantCrisis    bool
		wantShortfall string
		wantNext      string
	}{
		{
			name: "next expense exceeds cash",
			events: []models.OneOffEvent{
				{Name: "Later", Type: "Expense", Amount: d("10"), Date: "2026/12/01"},
				{Name: "Tuition", Type: "Expense", Amount: d("150000"), Date: "2026/04/01"},
				{Name: "Past", Type: "Expense", Amount: d("999999"), Date: "2026/01/01"},
				{Name: "Bonus", Type: "Income", Amount: d("5"), Date: "2026/03/20"},
			},
			wantCrisis:    true,
			wantShortfall: "20000",
			wantNext:      "Tuition",
		},
		{
			name:          "covered",
			events:        []models.OneOffEvent{{Name: "Phone", Type: "Expense", Amount: d("30000"), Date: "2026/05/01"}},
			wantShortfall: "0",
			wantNext:      "Phone",
		},
		{
			name:          "nothing upcoming",
			wantShortfall: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckLiquidity(inventory(), tt.events, rates(), prices(), today)
			assert.Equal(t, "130000", got.LiquidCash.String())
			assert.Equal(t, tt.wantCrisis, got.HasCrisis)
			assert.Equal(t, tt.wantShortfall, got.Shortfall.String())
			if tt.wantNext == "" {
				assert.Nil(t, got.NextEvent)
				return
			}
			require.NotNil(t, got.NextEvent)
			assert.Equal(t, tt.wantNext, got.NextEvent.Name)
		})
	}
}

func TestAllocation(t *testing.T) {
	slices := Allocation(inventory(), rates(), prices())

	require.Len(t, slices, 5)
	assert.Equal(t, "現金", slices[0].Category)
	assert.Equal(t, "Deposit", slices[1].Category)
	assert.Equal(t, "ETF", slices[2].Category)
	assert.Equal(t, "180000", slices[2].Value.String())
	assert.True(t, slices[2].Holdings[0].IsConverted)
	assert.Equal(t, "其他", slices[4].Category)
}

func TestInitialTotal(t *testing.T) {
	fixed := Fixed{Total: d("1000")}
	assert.Equal(t, "571000", InitialTotal(inventory(), rates(), prices(), fixed).String())
}
