// Package dateutils provides the date handling shared by the import, projection
// and net-worth code: tolerant parsing of exported dates and month buckets.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayoutISO   = "2006-01-02"
	DateLayoutSlash = "2006/01/02"
	YearMonthLayout = "2006-01"
	MonthLabel      = "Jan 2006"
)

// CommonFormats are tried in order by ParseDate. Slash dates are normalized to
// dashes first, so only dash layouts need listing.
var CommonFormats = []string{
	DateLayoutISO,
	"2006-1-2",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-1-2 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01",
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	yearMonthRe  = regexp.MustCompile(`(\d{4})[-/](\d{1,2})`)
)

// CleanDateString trims and collapses whitespace and normalizes "/" to "-".
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	dateStr = whitespaceRe.ReplaceAllString(dateStr, " ")
	return strings.ReplaceAll(dateStr, "/", "-")
}

// ParseDate parses an exported date such as "2025/07/03" or "2025-07-03".
func ParseDate(dateStr string) (time.Time, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// YearMonth returns the "YYYY-MM" bucket of a date string, or "" when unparsable.
func YearMonth(dateStr string) string {
	t, err := ParseDate(dateStr)
	if err != nil {
		return ""
	}
	return t.Format(YearMonthLayout)
}

// ParseYearMonth extracts year and month from the first "YYYY-MM" or "YYYY/MM"
// occurrence in s.
func ParseYearMonth(s string) (year int, month time.Month, ok bool) {
	m := yearMonthRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	y, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	if mo < 1 || mo > 12 {
		return 0, 0, false
	}
	return y, time.Month(mo), true
}

// StartOfMonth returns the first instant of date's month.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of date's month at midnight.
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// FormatMonthLabel renders "Jan 2026".
func FormatMonthLabel(year int, month time.Month) string {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(MonthLabel)
}
