package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/networth"
	"fjacquet/moze-ledger/internal/projector"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entries() []models.LedgerEntry {
	return []models.LedgerEntry{
		{YearMonth: "2025-07", ID: "R35", Name: "Food", ActualAmount: decimal.NewFromInt(-150), Note: "Matched Tag: #R35"},
		{YearMonth: "2025-07", ID: "UNMATCHED", Name: "Taxi", ActualAmount: decimal.NewFromInt(-80)},
		{YearMonth: "2025-06", ID: "R35", Name: "Food", ActualAmount: decimal.NewFromInt(-20)},
	}
}

func TestLedger_Formats(t *testing.T) {
	g := NewGenerator("TWD", logging.NewMockLogger())

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Ledger(&buf, entries(), FormatText))
		out := buf.String()
		assert.Contains(t, out, "MONTH")
		assert.Contains(t, out, "Taxi")
		assert.Contains(t, out, "2025-07 total")
		assert.Contains(t, out, "2025-06 total")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Ledger(&buf, entries(), FormatJSON))
		var decoded []models.LedgerEntry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 3)
		assert.Equal(t, "-150", decoded[0].ActualAmount.String())
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, g.Ledger(&buf, entries(), FormatCSV))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 4)
		assert.Equal(t, "YearMonth,Recurring_Item_ID,Name_Category,Actual_Amount,Note", lines[0])
		assert.Equal(t, "2025-07,UNMATCHED,Taxi,-80.00,", lines[2])
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.EqualError(t, g.Ledger(&bytes.Buffer{}, entries(), "xml"), "unsupported report format: xml")
	})
}

func TestProjection(t *testing.T) {
	g := NewGenerator("TWD", nil)
	months := []projector.Month{{
		Label: "Jan 2026", Income: decimal.NewFromInt(3000), Net: decimal.NewFromInt(300),
		ExpenseItems: []projector.LineItem{{Name: "Food", Amount: decimal.NewFromInt(1500), IsConverted: true}},
	}}

	var buf bytes.Buffer
	require.NoError(t, g.Projection(&buf, months, FormatText, true))
	assert.Contains(t, buf.String(), "Jan 2026")
	assert.Contains(t, buf.String(), "expense")
	assert.Contains(t, buf.String(), "Food")

	assert.Error(t, g.Projection(&buf, months, FormatCSV, false))
}

func TestNetWorth_CrisisWarning(t *testing.T) {
	g := NewGenerator("TWD", nil)
	nw := NetWorth{
		Currency:     "TWD",
		InitialTotal: decimal.NewFromInt(1000),
		Liquidity: networth.Liquidity{
			LiquidCash: decimal.NewFromInt(100),
			NextEvent:  &models.OneOffEvent{Name: "Tuition", Date: "2026-09-01", Amount: decimal.NewFromInt(500)},
			HasCrisis:  true,
			Shortfall:  decimal.NewFromInt(400),
		},
		Allocation: []networth.Slice{{Category: "現金", Value: decimal.NewFromInt(100)}},
	}

	var buf bytes.Buffer
	require.NoError(t, g.NetWorth(&buf, nw, FormatText))
	out := buf.String()
	assert.Contains(t, out, "Rates")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "Next expense: Tuition")
	assert.Contains(t, out, "WARNING: cash falls short")
	assert.Contains(t, out, "現金")
}

func TestShorten(t *testing.T) {
	assert.Equal(t, "abc", shorten("abc", 5))
	assert.Equal(t, "ab…", shorten("abcdef", 3))
	assert.Equal(t, "a b", shorten("a\nb", 5))
}

func TestDebts(t *testing.T) {
	g := NewGenerator("TWD", nil)
	debts := []networth.Debt{
		{
			ID: "R33", HasData: true, Balance: decimal.NewFromInt(290000), Payment: decimal.NewFromInt(10000),
			TotalLoan: decimal.NewFromInt(300000), PaidPercent: decimal.RequireFromString("3.3"),
			NextPayment: &models.DebtScheduleEntry{PaymentDate: "2026/03/27", Payment: decimal.NewFromInt(10500)},
		},
		{ID: "R34"},
	}

	var buf bytes.Buffer
	require.NoError(t, g.Debts(&buf, debts, FormatText))
	out := buf.String()
	assert.Contains(t, out, "R33")
	assert.Contains(t, out, "3.3%")
	assert.Contains(t, out, "2026/03/27")
	assert.Contains(t, out, "no schedule")

	buf.Reset()
	require.NoError(t, g.Debts(&buf, debts, FormatJSON))
	assert.Contains(t, buf.String(), `"ID": "R33"`)

	assert.Error(t, g.Debts(&buf, debts, FormatCSV))
}
