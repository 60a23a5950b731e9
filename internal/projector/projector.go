// Package projector builds the twelve-month cash-flow projection for a calendar
// year from recurring budget lines, insurance detail tables and one-off events.
package projector

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// SplitMode selects how an insurance premium is divided into cost and savings.
type SplitMode string

const (
	// SplitPrecomputed uses the detail table's EXP/SAV/WIN columns.
	SplitPrecomputed SplitMode = "precomputed"
	// SplitCost books the insurance cost as expense and the rest of the premium as savings.
	SplitCost SplitMode = "cost"
)

// eventIDBase numbers one-off line items after every real budget item.
const eventIDBase = 9999

// Options configures the savings heuristics and the designated insurance items.
type Options struct {
	Insurance         map[string]SplitMode
	HouseCategory     string
	SavingsCategories []string
	SavingsKeywords   []string
}

// DefaultOptions mirrors the default configuration.
func DefaultOptions() Options {
	return Options{
		Insurance:         map[string]SplitMode{"R09": SplitPrecomputed, "R10": SplitCost},
		HouseCategory:     models.CategoryHouse,
		SavingsCategories: []string{"Savings", "Invest", "Startups"},
		SavingsKeywords:   []string{"儲蓄", "存錢"},
	}
}

// Input is everything a projection depends on.
type Input struct {
	Year         int
	InitialTotal decimal.Decimal
	Recurring    []models.RecurringDefinition
	OneOffs      []models.OneOffEvent
	// Insurance maps a designated item ID to its per-year records.
	Insurance map[string][]models.InsuranceYearRecord
	Rates     models.Rates
}

// LineItem is one contributing line of a month, for drill-down.
type LineItem struct {
	Name        string
	Amount      decimal.Decimal
	IDNum       int
	IsConverted bool
}

// Month is one entry of the projection. Totals are rounded; ProjectedNetWorth
// carries forward from the previous month.
type Month struct {
	Year              int
	Month             time.Month
	Label             string
	Income            decimal.Decimal
	Expense           decimal.Decimal
	Savings           decimal.Decimal
	Net               decimal.Decimal
	ProjectedNetWorth decimal.Decimal
	IncomeItems       []LineItem
	ExpenseItems      []LineItem
	SavingsItems      []LineItem
}

// Projector computes projections. It holds no mutable state and is safe for
// concurrent use.
type Projector struct {
	opts   Options
	logger logging.Logger
}

// NewProjector creates a projector.
func NewProjector(opts Options, logger logging.Logger) *Projector {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if opts.HouseCategory == "" {
		opts.HouseCategory = models.CategoryHouse
	}
	return &Projector{opts: opts, logger: logger}
}

// monthState accumulates unrounded totals while a month is being built.
type monthState struct {
	out      Month
	income   decimal.Decimal
	expense  decimal.Decimal
	savings  decimal.Decimal
	winGain  decimal.Decimal
	monthIdx int
}

func (s *monthState) addIncome(name string, amount decimal.Decimal, id int, converted bool) {
	s.income = s.income.Add(amount)
	s.out.IncomeItems = append(s.out.IncomeItems, lineItem(name, amount, id, converted))
}

func (s *monthState) addExpense(name string, amount decimal.Decimal, id int, converted bool) {
	s.expense = s.expense.Add(amount)
	s.out.ExpenseItems = append(s.out.ExpenseItems, lineItem(name, amount, id, converted))
}

// addSavings adds to the savings total; the line item is recorded separately
// because insurance splits one total into several lines.
func (s *monthState) addSavings(amount decimal.Decimal) {
	s.savings = s.savings.Add(amount)
}

func (s *monthState) savingsLine(name string, amount decimal.Decimal, id int, converted bool) {
	s.out.SavingsItems = append(s.out.SavingsItems, lineItem(name, amount, id, converted))
}

func lineItem(name string, amount decimal.Decimal, id int, converted bool) LineItem {
	return LineItem{Name: name, Amount: currencyutils.RoundHalfUp(amount), IDNum: id, IsConverted: converted}
}

// Project returns exactly twelve months, January through December of in.Year.
func (p *Projector) Project(in Input) []Month {
	months := make([]Month, 0, 12)
	netWorth := in.InitialTotal

	for m := time.January; m <= time.December; m++ {
		st := &monthState{
			out: Month{
				Year:  in.Year,
				Month: m,
				Label: dateutils.FormatMonthLabel(in.Year, m),
			},
			monthIdx: len(months),
		}

		for _, item := range in.Recurring {
			p.applyRecurring(st, item, in)
		}
		for _, ev := range in.OneOffs {
			p.applyEvent(st, ev)
		}

		net := currencyutils.RoundHalfUp(st.income.Sub(st.expense).Sub(st.savings.Sub(st.winGain)))
		netWorth = netWorth.Add(currencyutils.RoundHalfUp(net.Add(st.savings)))

		st.out.Income = currencyutils.RoundHalfUp(st.income)
		st.out.Expense = currencyutils.RoundHalfUp(st.expense)
		st.out.Savings = currencyutils.RoundHalfUp(st.savings)
		st.out.Net = net
		st.out.ProjectedNetWorth = netWorth
		months = append(months, st.out)
	}

	p.logger.WithFields(
		logging.Field{Key: "year", Value: in.Year},
		logging.Field{Key: logging.FieldCount, Value: len(in.Recurring)},
		logging.Field{Key: "projected_net_worth", Value: netWorth.String()},
	).Debug("Projection computed")
	return months
}

func (p *Projector) applyRecurring(st *monthState, item models.RecurringDefinition, in Input) {
	if !withinBounds(item, in.Year, st.out.Month) {
		return
	}
	if !appliesInMonth(item.Frequency, item.SpecificMonth, int(st.out.Month)) {
		return
	}

	rate := in.Rates.Rate(item.Currency)
	converted := !rate.Equal(decimal.NewFromInt(1))
	amount := item.AmountBase.Mul(rate)
	idNum := idNumber(item.ID)

	if item.IsIncome() {
		st.addIncome(item.Name, amount, idNum, converted)
		return
	}

	id := strings.TrimSpace(item.ID)
	if mode, ok := p.opts.Insurance[id]; ok {
		p.splitInsurance(st, item, mode, amount, rate, idNum, converted, in.Insurance[id])
		return
	}

	if p.isSavings(item) {
		st.addSavings(amount)
		st.savingsLine(item.Name, amount, idNum, converted)
		return
	}
	st.addExpense(item.Name, amount, idNum, converted)
}

func (p *Projector) splitInsurance(st *monthState, item models.RecurringDefinition, mode SplitMode,
	amount, rate decimal.Decimal, idNum int, converted bool, records []models.InsuranceYearRecord) {
	expensePart := amount
	savingsPart := decimal.Zero
	winPart := decimal.Zero

	if rec, ok := recordForYear(records, st.out.Year); ok {
		switch mode {
		case SplitPrecomputed:
			winPart = rec.CalculationWIN.Mul(rate)
			savingsPart = rec.CalculationSAV.Mul(rate).Add(winPart)
			expensePart = rec.CalculationEXP.Mul(rate)
		case SplitCost:
			expensePart = rec.InsuranceCost.Mul(rate)
			savingsPart = amount.Sub(expensePart)
		}
	}

	if expensePart.IsNegative() {
		expensePart = decimal.Zero
	}
	if savingsPart.IsNegative() {
		savingsPart = decimal.Zero
	}
	if mode == SplitCost && savingsPart.GreaterThan(amount) {
		savingsPart = amount
	}

	if savingsPart.IsPositive() {
		st.addSavings(savingsPart)
		if mode == SplitPrecomputed && winPart.IsPositive() {
			if base := savingsPart.Sub(winPart); base.IsPositive() {
				st.savingsLine(item.Name+" (CV/Inv)", base, idNum, converted)
			}
			st.savingsLine(item.Name+" (Win)", winPart, idNum, converted)
		} else {
			st.savingsLine(item.Name+" (CV/Inv)", savingsPart, idNum, converted)
		}
	}
	if expensePart.IsPositive() {
		st.addExpense(item.Name+" (Cost)", expensePart, idNum, converted)
	}
	if winPart.IsPositive() {
		st.winGain = st.winGain.Add(winPart)
	}
}

func (p *Projector) applyEvent(st *monthState, ev models.OneOffEvent) {
	year, month, ok := eventMonth(ev.Date)
	if !ok || year != st.out.Year || month != st.out.Month {
		return
	}
	if ev.Amount.IsZero() {
		return
	}

	name := ev.Name + " (Event)"
	id := eventIDBase + st.monthIdx
	switch {
	case ev.IsIncome():
		st.addIncome(name, ev.Amount, id, false)
	case ev.Category == p.opts.HouseCategory:
		st.addSavings(ev.Amount)
		st.savingsLine(name+" (Equity)", ev.Amount, id, false)
	default:
		st.addExpense(name, ev.Amount, id, false)
	}
}

func (p *Projector) isSavings(item models.RecurringDefinition) bool {
	for _, c := range p.opts.SavingsCategories {
		if item.Category == c {
			return true
		}
	}
	for _, kw := range p.opts.SavingsKeywords {
		if kw != "" && strings.Contains(item.Name, kw) {
			return true
		}
	}
	return false
}

// withinBounds compares at month granularity. Unparsable bounds are ignored.
func withinBounds(item models.RecurringDefinition, year int, month time.Month) bool {
	target := monthOrdinal(year, month)
	if strings.TrimSpace(item.StartDate) != "" {
		if start, err := dateutils.ParseDate(item.StartDate); err == nil && target < monthOrdinal(start.Year(), start.Month()) {
			return false
		}
	}
	if strings.TrimSpace(item.EndDate) != "" {
		if end, err := dateutils.ParseDate(item.EndDate); err == nil && target > monthOrdinal(end.Year(), end.Month()) {
			return false
		}
	}
	return true
}

func monthOrdinal(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

var leadingIntRe = regexp.MustCompile(`^[+-]?\d+`)

// leadingInt parses the integer prefix of s, the way spreadsheet cells such
// as "12 " or "4x" are read.
func leadingInt(s string) (int, bool) {
	m := leadingIntRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// timesPerYear reads a frequency cell. An empty or unreadable cell means monthly.
func timesPerYear(freq string) int {
	switch strings.ToLower(strings.TrimSpace(freq)) {
	case "year", "yearly", "1":
		return 1
	case "month", "monthly", "12":
		return 12
	case "quarter", "quarterly", "4":
		return 4
	case "week", "weekly", "52":
		return 52
	}
	if n, ok := leadingInt(freq); ok {
		return n
	}
	return 12
}

// appliesInMonth decides whether a recurring line is due in month (1-12).
// A semicolon list in either cell names the months explicitly, the
// specific-month cell taking precedence. Frequencies other than 1, 4 and 12
// never apply.
func appliesInMonth(freq, specificMonth string, month int) bool {
	freq = strings.TrimSpace(freq)
	specificMonth = strings.TrimSpace(specificMonth)

	if strings.Contains(specificMonth, ";") || strings.Contains(freq, ";") {
		list := freq
		if strings.Contains(specificMonth, ";") {
			list = specificMonth
		}
		for _, part := range strings.Split(list, ";") {
			if n, ok := leadingInt(part); ok && n == month {
				return true
			}
		}
		return false
	}

	switch timesPerYear(freq) {
	case 12:
		return true
	case 4:
		return (month-1)%3 == 0
	case 1:
		target := 1
		if n, ok := leadingInt(specificMonth); ok {
			target = n
		}
		return month == target
	default:
		return false
	}
}

var digitsRe = regexp.MustCompile(`\D`)

// idNumber keeps the digits of an item ID ("R09" -> 9) for drill-down sorting.
func idNumber(id string) int {
	n, err := strconv.Atoi(digitsRe.ReplaceAllString(id, ""))
	if err != nil {
		return 0
	}
	return n
}

// recordForYear returns the first record paid in year. Records without a
// parsable payment date fall back to their Year column.
func recordForYear(records []models.InsuranceYearRecord, year int) (models.InsuranceYearRecord, bool) {
	for _, r := range records {
		if t, err := dateutils.ParseDate(r.PaymentDate); err == nil {
			if t.Year() == year {
				return r, true
			}
			continue
		}
		if y, ok := leadingInt(r.Year); ok && y == year {
			return r, true
		}
	}
	return models.InsuranceYearRecord{}, false
}

// eventMonth reads the year and month of a one-off event date.
func eventMonth(date string) (int, time.Month, bool) {
	if y, m, ok := dateutils.ParseYearMonth(date); ok {
		return y, m, true
	}
	t, err := dateutils.ParseDate(date)
	if err != nil {
		return 0, 0, false
	}
	return t.Year(), t.Month(), true
}
