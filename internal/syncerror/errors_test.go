package syncerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StoreError
		expected string
	}{
		{
			name:     "write failure",
			err:      &StoreError{Backend: "sheets", Table: "Expense_History", Op: "replace", Err: errors.New("quota exceeded")},
			expected: "sheets: failed to replace table 'Expense_History': quota exceeded",
		},
		{
			name:     "read failure",
			err:      &StoreError{Backend: "csv", Table: "Raw_Transactions", Op: "fetch", Err: errors.New("permission denied")},
			expected: "csv: failed to fetch table 'Raw_Transactions': permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestStoreError_Unwrap(t *testing.T) {
	original := errors.New("connection reset")
	wrapped := fmt.Errorf("sync aborted: %w", &StoreError{Backend: "postgres", Table: "t", Op: "fetch", Err: original})

	assert.True(t, errors.Is(wrapped, original))

	var storeErr *StoreError
	assert.True(t, errors.As(wrapped, &storeErr))
	assert.Equal(t, "postgres", storeErr.Backend)
}

func TestImportError(t *testing.T) {
	withCause := &ImportError{Source: "MOZE_2025.csv", Reason: "unreadable CSV", Err: ErrSourceNotFound}
	assert.Equal(t, "import of 'MOZE_2025.csv' failed: unreadable CSV: no source export found", withCause.Error())
	assert.True(t, errors.Is(withCause, ErrSourceNotFound))

	bare := &ImportError{Source: "x.csv", Reason: "empty file"}
	assert.Equal(t, "import of 'x.csv' failed: empty file", bare.Error())
}

func TestRowError(t *testing.T) {
	err := &RowError{Table: "Recurring_Items", Row: 3, Column: "ID", Reason: "missing"}
	assert.Equal(t, "table 'Recurring_Items' row 3 column 'ID': missing", err.Error())
}
