package networth

import (
	"testing"
	"time"

	"fjacquet/moze-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func installment(date, balance, payment, total string) models.DebtScheduleEntry {
	return models.DebtScheduleEntry{PaymentDate: date, Balance: d(balance), Payment: d(payment), TotalLoan: d(total)}
}

func TestDebtStatus(t *testing.T) {
	schedule := []models.DebtScheduleEntry{
		installment("2026/03/27", "280000", "10500", "300000"),
		installment("2026/01/27", "300000", "10000", "300000"),
		installment("2026/02/27", "290000", "10000", "300000"),
		installment("not a date", "1", "1", "1"),
	}

	tests := []struct {
		name        string
		today       time.Time
		wantBalance string
		wantPayment string
		wantPaid    string
		wantNext    string
	}{
		{"before the first installment", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "300000", "10000", "0", "2026/01/27"},
		{"mid schedule", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), "290000", "10000", "3.3", "2026/03/27"},
		{"on a payment date", time.Date(2026, 3, 27, 0, 0, 0, 0, time.UTC), "280000", "10500", "6.7", ""},
		{"after the last installment", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), "280000", "10500", "6.7", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DebtStatus("R33", schedule, tt.today)

			require.True(t, got.HasData)
			assert.Equal(t, "R33", got.ID)
			assert.Equal(t, tt.wantBalance, got.Balance.String())
			assert.Equal(t, tt.wantPayment, got.Payment.String())
			assert.Equal(t, tt.wantPaid, got.PaidPercent.String())
			assert.Equal(t, "300000", got.TotalLoan.String())
			if tt.wantNext == "" {
				assert.Nil(t, got.NextPayment)
				return
			}
			require.NotNil(t, got.NextPayment)
			assert.Equal(t, tt.wantNext, got.NextPayment.PaymentDate)
		})
	}
}

func TestDebtStatus_TotalFallsBackToLargestBalance(t *testing.T) {
	schedule := []models.DebtScheduleEntry{
		installment("2026-01-27", "200000", "5000", "0"),
		installment("2026-02-27", "150000", "5000", "0"),
	}

	got := DebtStatus("R34", schedule, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "200000", got.TotalLoan.String())
	assert.Equal(t, "25", got.PaidPercent.String())
}

func TestDebtStatus_Empty(t *testing.T) {
	got := DebtStatus("R33", nil, time.Now())
	assert.False(t, got.HasData)
	assert.True(t, got.Balance.IsZero())
	assert.Nil(t, got.NextPayment)
}
