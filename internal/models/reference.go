package models

import "github.com/shopspring/decimal"

// RecurringDefinition is a budget line from the recurring-items table.
type RecurringDefinition struct {
	ID            string
	Name          string
	Type          string
	Category      string
	CategoryName  string
	AmountBase    decimal.Decimal
	Currency      string
	Frequency     string
	SpecificMonth string
	PaymentDay    string
	StartDate     string
	EndDate       string
	Note          string
}

// IsIncome reports income lines.
func (r RecurringDefinition) IsIncome() bool {
	return r.Type == TypeIncomeEN || r.Type == TypeIncome
}

// OneOffEvent is a dated single occurrence: a trip, a purchase, a windfall.
type OneOffEvent struct {
	ID       string
	Name     string
	Type     string
	Amount   decimal.Decimal
	Date     string
	Category string
	Status   string
	Note     string
}

// IsIncome reports income events.
func (e OneOffEvent) IsIncome() bool {
	return e.Type == TypeIncomeEN || e.Type == TypeIncome
}

// InsuranceYearRecord is one row of a policy's per-year detail table.
// CalculationEXP/SAV/WIN are the precomputed cost, cash-value and bonus parts.
type InsuranceYearRecord struct {
	PaymentDate     string
	PremiumTotal    decimal.Decimal
	ActualYearEnd   decimal.Decimal
	ExpectedYearEnd decimal.Decimal
	AccuSavings     decimal.Decimal
	InsuranceCost   decimal.Decimal
	Year            string
	EndDate         string
	CalculationEXP  decimal.Decimal
	CalculationSAV  decimal.Decimal
	CalculationWIN  decimal.Decimal
}

// CashValue returns the actual year-end value when known, else the expected one.
func (r InsuranceYearRecord) CashValue() decimal.Decimal {
	if !r.ActualYearEnd.IsZero() {
		return r.ActualYearEnd
	}
	return r.ExpectedYearEnd
}

// Asset is a holding from the assets inventory.
type Asset struct {
	ID        string
	Type      string
	Category  string
	Name      string
	Quantity  decimal.Decimal
	Currency  string
	Location  string
	Note      string
	UnitPrice decimal.Decimal
}

// DebtScheduleEntry is one installment of a loan's amortization table.
// Balance is the principal remaining after the installment.
type DebtScheduleEntry struct {
	PaymentDate string
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	Balance     decimal.Decimal
	Payment     decimal.Decimal
	TotalLoan   decimal.Decimal
}

// AssetUpdate sets the quantity of one inventory holding.
type AssetUpdate struct {
	ID       string
	Quantity decimal.Decimal
}

// Asset history entry types.
const (
	HistoryBalanceUpdate = "Balance_Update"
	HistoryHoldingUpdate = "Holding_Update"
)

// AssetHistoryRecord logs one inventory change.
type AssetHistoryRecord struct {
	Date      string
	AssetID   string
	Name      string
	Category  string
	Type      string
	Value     decimal.Decimal
	Unit      string
	UnitPrice decimal.Decimal
	LoggedAt  string
}
