// Package dateutils provides the date parsing and calendar helpers shared by the
// dataset reader, the forecasting engine and the spending summaries.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Date layouts used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutUS        = "01/02/2006"
	DateLayoutUSShort   = "1/2/2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutYearMonth = "2006-01"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CommonFormats lists the layouts tried, in order, when parsing a dataset date.
// Bank exports are US-centric, so month-first wins over day-first when ambiguous.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutISO + "T15:04:05",
	time.RFC3339,
	DateLayoutUS,
	DateLayoutUSShort,
	"01/02/2006 15:04:05",
	"1/2/06",
	"01/02/06",
	DateLayoutEuropean,
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
}

// CleanDateString trims and collapses whitespace in a raw date.
func CleanDateString(dateStr string) string {
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDate attempts every layout of CommonFormats and returns the parsed time
// together with the layout that matched.
func ParseDate(dateStr string) (time.Time, string, error) {
	clean := CleanDateString(dateStr)
	if clean == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse empty date")
	}

	for _, layout := range CommonFormats {
		if t, err := time.Parse(layout, clean); err == nil {
			return t, layout, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// ParseDateString is ParseDate without the detected layout.
func ParseDateString(dateStr string) (time.Time, error) {
	t, _, err := ParseDate(dateStr)
	return t, err
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutISO)
}

// StartOfDay truncates a time to midnight in its own location.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EndOfDay returns the last representable instant of the day of date.
func EndOfDay(date time.Time) time.Time {
	return StartOfDay(date).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
