package projector

import (
	"testing"
	"time"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newProjector() *Projector {
	return NewProjector(DefaultOptions(), logging.NewMockLogger())
}

func expense(id, name, amount string) models.RecurringDefinition {
	return models.RecurringDefinition{
		ID: id, Name: name, Type: "Expense", Category: "Food",
		AmountBase: d(amount), Currency: "TWD", Frequency: "12",
	}
}

func TestProject_AlwaysTwelveMonths(t *testing.T) {
	months := newProjector().Project(Input{Year: 2026})

	require.Len(t, months, 12)
	assert.Equal(t, "Jan 2026", months[0].Label)
	assert.Equal(t, "Dec 2026", months[11].Label)
	assert.Equal(t, time.June, months[5].Month)
	for _, m := range months {
		assert.True(t, m.Net.IsZero())
	}
}

func TestProject_StartDateBoundary(t *testing.T) {
	item := expense("R40", "Gym", "1000")
	item.StartDate = "2026/06/15"

	months := newProjector().Project(Input{Year: 2026, Recurring: []models.RecurringDefinition{item}})

	for i, m := range months {
		if i < 5 {
			assert.True(t, m.Expense.IsZero(), "month %d", i+1)
			assert.Empty(t, m.ExpenseItems)
			continue
		}
		assert.Equal(t, "1000", m.Expense.String(), "month %d", i+1)
		require.Len(t, m.ExpenseItems, 1)
		assert.Equal(t, 40, m.ExpenseItems[0].IDNum)
	}
}

func TestProject_EndDateBoundary(t *testing.T) {
	item := expense("R41", "Lease", "500")
	item.EndDate = "2026-03-01"

	months := newProjector().Project(Input{Year: 2026, Recurring: []models.RecurringDefinition{item}})

	assert.Equal(t, "500", months[2].Expense.String())
	assert.True(t, months[3].Expense.IsZero())
}

func TestAppliesInMonth(t *testing.T) {
	tests := []struct {
		name     string
		freq     string
		specific string
		want     []int
	}{
		{"monthly number", "12", "", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"monthly word", "Monthly", "", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"empty means monthly", "", "", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}},
		{"quarterly", "4", "", []int{1, 4, 7, 10}},
		{"yearly default january", "1", "", []int{1}},
		{"yearly designated month", "yearly", "9", []int{9}},
		{"list in specific month", "1", "3;6", []int{3, 6}},
		{"list in frequency", "2;11", "", []int{2, 11}},
		{"specific list wins", "1;2", "5; 8", []int{5, 8}},
		{"weekly unsupported", "52", "", nil},
		{"other number unsupported", "6", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			for m := 1; m <= 12; m++ {
				if appliesInMonth(tt.freq, tt.specific, m) {
					got = append(got, m)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProject_ConvertsAndClassifies(t *testing.T) {
	salary := models.RecurringDefinition{ID: "R01", Name: "Salary", Type: "Income", AmountBase: d("100"), Currency: "USD", Frequency: "12"}
	saving := models.RecurringDefinition{ID: "R20", Name: "ETF plan", Type: "Expense", Category: "Invest", AmountBase: d("1000"), Currency: "TWD", Frequency: "12"}
	piggy := models.RecurringDefinition{ID: "R21", Name: "每月存錢", Type: "Expense", Category: "Other", AmountBase: d("200"), Currency: "TWD", Frequency: "12"}
	food := expense("R35", "Food", "1500")

	months := newProjector().Project(Input{
		Year:         2026,
		InitialTotal: d("1000"),
		Recurring:    []models.RecurringDefinition{salary, saving, piggy, food},
		Rates:        models.Rates{"USD": d("30")},
	})

	jan := months[0]
	assert.Equal(t, "3000", jan.Income.String())
	assert.Equal(t, "1500", jan.Expense.String())
	assert.Equal(t, "1200", jan.Savings.String())
	require.Len(t, jan.IncomeItems, 1)
	assert.True(t, jan.IncomeItems[0].IsConverted)
	assert.Equal(t, 1, jan.IncomeItems[0].IDNum)
	require.Len(t, jan.SavingsItems, 2)
	assert.False(t, jan.SavingsItems[0].IsConverted)

	// net = 3000 - 1500 - 1200 = 300; net worth grows by net + savings.
	assert.Equal(t, "300", jan.Net.String())
	assert.Equal(t, "2500", jan.ProjectedNetWorth.String())
	assert.Equal(t, "19000", months[11].ProjectedNetWorth.String())
}

func TestProject_InsurancePrecomputed(t *testing.T) {
	policy := models.RecurringDefinition{
		ID: "R09", Name: "Global Life", Type: "Expense", AmountBase: d("3000"),
		Currency: "USD", Frequency: "1", SpecificMonth: "3",
	}
	records := []models.InsuranceYearRecord{
		{PaymentDate: "2025/03/01", CalculationEXP: d("900"), CalculationSAV: d("1400")},
		{PaymentDate: "2026/03/01", CalculationEXP: d("1000"), CalculationSAV: d("1500"), CalculationWIN: d("500")},
	}

	months := newProjector().Project(Input{
		Year:      2026,
		Recurring: []models.RecurringDefinition{policy},
		Insurance: map[string][]models.InsuranceYearRecord{"R09": records},
		Rates:     models.Rates{"USD": d("30")},
	})

	mar := months[2]
	assert.Equal(t, "30000", mar.Expense.String())
	assert.Equal(t, "60000", mar.Savings.String())
	require.Len(t, mar.SavingsItems, 2)
	assert.Equal(t, "Global Life (CV/Inv)", mar.SavingsItems[0].Name)
	assert.Equal(t, "45000", mar.SavingsItems[0].Amount.String())
	assert.Equal(t, "Global Life (Win)", mar.SavingsItems[1].Name)
	assert.Equal(t, "15000", mar.SavingsItems[1].Amount.String())
	require.Len(t, mar.ExpenseItems, 1)
	assert.Equal(t, "Global Life (Cost)", mar.ExpenseItems[0].Name)
	assert.True(t, mar.ExpenseItems[0].IsConverted)

	// The gain is not subtracted from cash: net = -30000 - (60000 - 15000).
	assert.Equal(t, "-75000", mar.Net.String())
	assert.Equal(t, "-15000", mar.ProjectedNetWorth.String())
	assert.True(t, months[3].Expense.IsZero())
}

func TestProject_InsuranceCostMode(t *testing.T) {
	policy := models.RecurringDefinition{
		ID: " R10 ", Name: "Chubb", Type: "Expense", AmountBase: d("50000"),
		Currency: "TWD", Frequency: "1", SpecificMonth: "5",
	}

	tests := []struct {
		name        string
		records     []models.InsuranceYearRecord
		wantExpense string
		wantSavings string
	}{
		{
			name:        "cost and remainder",
			records:     []models.InsuranceYearRecord{{PaymentDate: "2026-05-10", InsuranceCost: d("20000")}},
			wantExpense: "20000",
			wantSavings: "30000",
		},
		{
			name:        "cost above premium clamps savings",
			records:     []models.InsuranceYearRecord{{PaymentDate: "2026-05-10", InsuranceCost: d("60000")}},
			wantExpense: "60000",
			wantSavings: "0",
		},
		{
			name:        "negative cost clamps expense and caps savings",
			records:     []models.InsuranceYearRecord{{PaymentDate: "2026-05-10", InsuranceCost: d("-100")}},
			wantExpense: "0",
			wantSavings: "50000",
		},
		{
			name:        "year column when payment date is missing",
			records:     []models.InsuranceYearRecord{{Year: "2026", InsuranceCost: d("10000")}},
			wantExpense: "10000",
			wantSavings: "40000",
		},
		{
			name:        "no record for the year books the premium as expense",
			records:     []models.InsuranceYearRecord{{PaymentDate: "2024-05-10", InsuranceCost: d("20000")}},
			wantExpense: "50000",
			wantSavings: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := newProjector().Project(Input{
				Year:      2026,
				Recurring: []models.RecurringDefinition{policy},
				Insurance: map[string][]models.InsuranceYearRecord{"R10": tt.records},
			})
			may := months[4]
			assert.Equal(t, tt.wantExpense, may.Expense.String())
			assert.Equal(t, tt.wantSavings, may.Savings.String())
		})
	}
}

func TestProject_OneOffEvents(t *testing.T) {
	events := []models.OneOffEvent{
		{ID: "E1", Name: "Bonus", Type: "Income", Amount: d("20000"), Date: "2026/04/20"},
		{ID: "E2", Name: "Down payment", Type: "Expense", Category: "House", Amount: d("500000"), Date: "2026-04-01"},
		{ID: "E3", Name: "Trip", Type: "Expense", Amount: d("30000"), Date: "2026-4-5"},
		{ID: "E4", Name: "Nothing", Type: "Expense", Amount: d("0"), Date: "2026-04-02"},
		{ID: "E5", Name: "Last year", Type: "Expense", Amount: d("1000"), Date: "2025-04-02"},
	}

	months := newProjector().Project(Input{Year: 2026, OneOffs: events})

	apr := months[3]
	assert.Equal(t, "20000", apr.Income.String())
	assert.Equal(t, "30000", apr.Expense.String())
	assert.Equal(t, "500000", apr.Savings.String())

	require.Len(t, apr.SavingsItems, 1)
	assert.Equal(t, "Down payment (Event) (Equity)", apr.SavingsItems[0].Name)
	assert.Equal(t, 9999+3, apr.SavingsItems[0].IDNum)
	require.Len(t, apr.ExpenseItems, 1)
	assert.Equal(t, "Trip (Event)", apr.ExpenseItems[0].Name)

	// Equity is retained: net worth only drops by the trip and rises by the bonus.
	assert.Equal(t, "-510000", apr.Net.String())
	assert.Equal(t, "-10000", apr.ProjectedNetWorth.String())
}

func TestIDNumber(t *testing.T) {
	assert.Equal(t, 9, idNumber("R09"))
	assert.Equal(t, 123, idNumber("A1B23"))
	assert.Equal(t, 0, idNumber("none"))
}
