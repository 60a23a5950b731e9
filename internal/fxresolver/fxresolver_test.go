package fxresolver

import (
	"testing"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func leg(id, date, tm, currency, amount string) *models.Transaction {
	return &models.Transaction{
		ID:             id,
		Date:           date,
		Time:           tm,
		YearMonth:      date[:4] + "-" + date[5:7],
		Currency:       currency,
		Type:           models.TypeTransfer,
		Amount:         d(amount),
		MatchStatus:    models.StatusTransferIgnored,
		Classification: models.Classification{Type: models.MatchIgnoreTransfer},
	}
}

func spend(project, currency string) *models.Transaction {
	return &models.Transaction{
		Project:        project,
		Currency:       currency,
		Type:           "Expense",
		Classification: models.Classification{Type: models.MatchProjectEvent, TargetID: "E01"},
	}
}

func TestResolve_SinglePairGlobalAndMonthRate(t *testing.T) {
	txs := []*models.Transaction{
		leg("a", "2025/07/01", "10:00", "TWD", "-1000"),
		leg("b", "2025/07/01", "10:00", "USD", "30"),
	}

	res := NewResolver("TWD", logging.NewMockLogger()).Resolve(txs)

	require.Equal(t, 1, res.Pairs)
	assert.Equal(t, 0, res.Inferred)
	assert.Equal(t, "33.33", res.Rates.Global["USD"].Round(2).String())
	assert.Equal(t, "33.33", res.Rates.Month["2025-07"]["USD"].Round(2).String())
	assert.Empty(t, res.Rates.Project)
	assert.Equal(t, []string{"USD"}, res.Currencies())

	// Unattributed legs keep their classification.
	assert.Equal(t, models.MatchIgnoreTransfer, txs[0].Classification.Type)
	assert.Equal(t, models.StatusTransferIgnored, txs[1].MatchStatus)
}

func TestResolve_FeesAndDiscountsInLegValue(t *testing.T) {
	base := leg("a", "2025/07/01", "10:00", "TWD", "-3000")
	base.Fee = d("-30")
	base.Discount = d("30")
	txs := []*models.Transaction{base, leg("b", "2025/07/01", "10:00", "USD", "100")}

	res := NewResolver("TWD", nil).Resolve(txs)

	// |-3000 + -30 - 30| = 3060
	assert.Equal(t, "30.6", res.Rates.Global["USD"].String())
}

func TestResolve_InvalidGroups(t *testing.T) {
	tests := []struct {
		name string
		txs  []*models.Transaction
	}{
		{
			name: "three legs at same timestamp",
			txs: []*models.Transaction{
				leg("a", "2025/07/01", "10:00", "TWD", "-1000"),
				leg("b", "2025/07/01", "10:00", "USD", "30"),
				leg("c", "2025/07/01", "10:00", "USD", "1"),
			},
		},
		{
			name: "both legs in base currency",
			txs: []*models.Transaction{
				leg("a", "2025/07/01", "10:00", "TWD", "-1000"),
				leg("b", "2025/07/01", "10:00", "TWD", "1000"),
			},
		},
		{
			name: "different timestamps",
			txs: []*models.Transaction{
				leg("a", "2025/07/01", "10:00", "TWD", "-1000"),
				leg("b", "2025/07/01", "10:01", "USD", "30"),
			},
		},
		{
			name: "credit card legs never pair",
			txs: func() []*models.Transaction {
				a := leg("a", "2025/07/01", "10:00", "TWD", "-1000")
				b := leg("b", "2025/07/01", "10:00", "USD", "30")
				a.Category, b.Category = "信用卡", "信用卡"
				return []*models.Transaction{a, b}
			}(),
		},
		{
			name: "zero foreign value yields no rate",
			txs: []*models.Transaction{
				leg("a", "2025/07/01", "10:00", "TWD", "-1000"),
				leg("b", "2025/07/01", "10:00", "USD", "0"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolver("TWD", logging.NewMockLogger()).Resolve(tt.txs)
			assert.Empty(t, res.Rates.Global)
			_, ok := res.Rates.Lookup("", "2025-07", "USD")
			assert.False(t, ok)
		})
	}
}

func TestResolve_InferFromExistingLegProject(t *testing.T) {
	base := leg("a", "2025/07/01", "10:00", "TWD", "-1000")
	fx := leg("b", "2025/07/01", "10:00", "JPY", "4500")
	fx.Project = "Japan Trip"
	txs := []*models.Transaction{base, fx}

	res := NewResolver("TWD", logging.NewMockLogger()).Resolve(txs)

	assert.Equal(t, 1, res.Inferred)
	for _, tx := range txs {
		assert.Equal(t, "Japan Trip", tx.Project)
		assert.Equal(t, "Inferred: Japan Trip", tx.MatchStatus)
		assert.Equal(t, models.MatchInferredExchange, tx.Classification.Type)
	}
	rate, ok := res.Rates.Lookup("Japan Trip", "", "JPY")
	require.True(t, ok)
	assert.Equal(t, "0.2222", rate.Round(4).String())
}

func TestResolve_InferFromSingleProjectForCurrency(t *testing.T) {
	txs := []*models.Transaction{
		spend("Japan Trip", "JPY"),
		spend("Japan Trip", "JPY"),
		leg("a", "2025/07/01", "10:00", "TWD", "-2000"),
		leg("b", "2025/07/01", "10:00", "JPY", "10000"),
	}

	res := NewResolver("TWD", logging.NewMockLogger()).Resolve(txs)

	assert.Equal(t, 1, res.Inferred)
	assert.Equal(t, "Japan Trip", txs[2].Project)
	assert.Equal(t, "0.2", res.Rates.Project["Japan Trip"]["JPY"].String())
}

func TestResolve_AmbiguousCurrencyIsNotInferred(t *testing.T) {
	unmatched := spend("Ignored Project", "USD")
	unmatched.Classification.Type = models.MatchUnmatched
	txs := []*models.Transaction{
		spend("NYC", "USD"),
		spend("Boston", "USD"),
		unmatched,
		spend("Tokyo", "TWD"),
		leg("a", "2025/07/01", "10:00", "TWD", "-3000"),
		leg("b", "2025/07/01", "10:00", "USD", "100"),
	}

	res := NewResolver("TWD", logging.NewMockLogger()).Resolve(txs)

	assert.Equal(t, 0, res.Inferred)
	assert.Equal(t, "", txs[4].Project)
	assert.Equal(t, models.MatchIgnoreTransfer, txs[5].Classification.Type)
	assert.Equal(t, "30", res.Rates.Global["USD"].String())
}

func TestResolve_AccumulatesAcrossPairs(t *testing.T) {
	txs := []*models.Transaction{
		leg("a", "2025/07/01", "10:00", "TWD", "-3000"),
		leg("b", "2025/07/01", "10:00", "USD", "100"),
		leg("c", "2025/08/01", "09:00", "TWD", "-3300"),
		leg("d", "2025/08/01", "09:00", "USD", "100"),
	}

	res := NewResolver("TWD", logging.NewMockLogger()).Resolve(txs)

	assert.Equal(t, 2, res.Pairs)
	assert.Equal(t, "31.5", res.Rates.Global["USD"].String())
	assert.Equal(t, "30", res.Rates.Month["2025-07"]["USD"].String())
	assert.Equal(t, "33", res.Rates.Month["2025-08"]["USD"].String())

	rate, _ := res.Rates.Lookup("", "2025-09", "USD")
	assert.Equal(t, "31.5", rate.String())
}
