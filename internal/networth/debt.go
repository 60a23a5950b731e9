package networth

import (
	"sort"
	"time"

	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Debt summarizes a loan's amortization schedule as of a date.
type Debt struct {
	ID          string
	Balance     decimal.Decimal
	Payment     decimal.Decimal
	TotalLoan   decimal.Decimal
	PaidPercent decimal.Decimal
	// NextPayment is nil once every installment is in the past.
	NextPayment *models.DebtScheduleEntry
	HasData     bool
}

// DebtStatus reads the schedule as of today. The current entry is the last
// installment on or before today, or the first one when the loan has not
// started. The paid share is measured against the loan amount, or against the
// largest balance when no amount is recorded. Entries with unparsable dates
// are ignored.
func DebtStatus(id string, schedule []models.DebtScheduleEntry, today time.Time) Debt {
	type dated struct {
		at    time.Time
		entry models.DebtScheduleEntry
	}
	sorted := make([]dated, 0, len(schedule))
	for _, e := range schedule {
		t, err := dateutils.ParseDate(e.PaymentDate)
		if err != nil {
			continue
		}
		sorted = append(sorted, dated{at: t, entry: e})
	}
	out := Debt{ID: id}
	if len(sorted) == 0 {
		return out
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })

	current := sorted[0].entry
	for _, d := range sorted {
		if d.at.After(today) {
			next := d.entry
			out.NextPayment = &next
			break
		}
		current = d.entry
	}

	total := current.TotalLoan
	if !total.IsPositive() {
		total = sorted[0].entry.TotalLoan
	}
	if !total.IsPositive() {
		total = decimal.Zero
		for _, d := range sorted {
			total = decimal.Max(total, d.entry.Balance)
		}
	}

	out.HasData = true
	out.Balance = current.Balance
	out.Payment = current.Payment
	out.TotalLoan = total
	out.PaidPercent = decimal.Zero
	if total.IsPositive() {
		out.PaidPercent = total.Sub(current.Balance).Div(total).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return out
}
