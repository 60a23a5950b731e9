package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		want    time.Time
	}{
		{name: "slash date", input: "2025/07/03", want: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)},
		{name: "slash date without padding", input: "2025/7/3", want: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC)},
		{name: "iso date", input: " 2024-12-31 ", want: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{name: "date with time", input: "2024/01/05 13:45", want: time.Date(2024, 1, 5, 13, 45, 0, 0, time.UTC)},
		{name: "year month only", input: "2026-03", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestYearMonth(t *testing.T) {
	assert.Equal(t, "2025-07", YearMonth("2025/07/03"))
	assert.Equal(t, "2025-01", YearMonth("2025-1-9"))
	assert.Equal(t, "", YearMonth("n/a"))
	assert.Equal(t, "", YearMonth(""))
}

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		input     string
		wantYear  int
		wantMonth time.Month
		wantOK    bool
	}{
		{"2026-05-20", 2026, time.May, true},
		{"2026/11", 2026, time.November, true},
		{"due 2027/2/1", 2027, time.February, true},
		{"2026-13-01", 0, 0, false},
		{"soon", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			y, m, ok := ParseYearMonth(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantYear, y)
			assert.Equal(t, tt.wantMonth, m)
		})
	}
}

func TestMonthBounds(t *testing.T) {
	d := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), StartOfMonth(d))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), EndOfMonth(d))
}

func TestFormatMonthLabel(t *testing.T) {
	assert.Equal(t, "Jan 2026", FormatMonthLabel(2026, time.January))
	assert.Equal(t, "Dec 2025", FormatMonthLabel(2025, time.December))
}
