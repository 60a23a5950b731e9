package ledger

import (
	"testing"

	"fjacquet/moze-ledger/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFilterMonth(t *testing.T) {
	entries := []models.LedgerEntry{
		{YearMonth: "2025-07", ID: "R35"},
		{YearMonth: "2025-06", ID: "R35"},
		{YearMonth: "2025-07", ID: "UNMATCHED"},
	}

	assert.Len(t, FilterMonth(entries, ""), 3)
	got := FilterMonth(entries, " 2025-07 ")
	assert.Len(t, got, 2)
	assert.Empty(t, FilterMonth(entries, "2024-01"))
}

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "ledger", Cmd.Use)
	assert.NotNil(t, Cmd.Flags().Lookup("month"))
}
