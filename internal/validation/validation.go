// Package validation turns raw command-line and query parameters into typed
// values. Every rejection is a *parsererror.ValidationError naming the parameter.
package validation

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fjacquet/expense-analyzer/internal/currencyutils"
	"fjacquet/expense-analyzer/internal/dateutils"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/shopspring/decimal"
)

// Output formats understood by the report generator.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

func invalid(param, value, reason string) error {
	return &parsererror.ValidationError{Param: param, Value: value, Reason: reason}
}

// MonthsLookback parses a strictly positive month count.
func MonthsLookback(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, invalid("months_lookback", raw, "must be an integer")
	}
	return PositiveMonths(n)
}

// PositiveMonths rejects month counts below one.
func PositiveMonths(n int) (int, error) {
	if n < 1 {
		return 0, invalid("months_lookback", strconv.Itoa(n), "must be at least 1")
	}
	return n, nil
}

// YearMonths parses a list of YYYY-MM tokens into a set. Blank tokens are ignored.
func YearMonths(raw []string) (map[models.YearMonth]bool, error) {
	out := make(map[models.YearMonth]bool, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		ym, err := models.ParseYearMonth(token)
		if err != nil {
			return nil, invalid("exclude_months", token, "expected YYYY-MM")
		}
		out[ym] = true
	}
	return out, nil
}

// Category parses a category label of the closed vocabulary.
func Category(raw string) (models.Category, error) {
	c, err := models.ParseCategory(raw)
	if err != nil {
		return "", invalid("category", raw, "unknown category, expected one of "+categoryList())
	}
	return c, nil
}

func categoryList() string {
	all := models.AllCategories()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

// Categories parses a list of category labels into a set.
func Categories(raw []string) (map[models.Category]bool, error) {
	out := make(map[models.Category]bool, len(raw))
	for _, label := range raw {
		if strings.TrimSpace(label) == "" {
			continue
		}
		c, err := Category(label)
		if err != nil {
			return nil, err
		}
		out[c] = true
	}
	return out, nil
}

// Date parses an optional YYYY-MM-DD bound. An empty value yields the zero time.
func Date(param, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateutils.DateLayoutISO, raw)
	if err != nil {
		return time.Time{}, invalid(param, raw, "expected YYYY-MM-DD")
	}
	return t, nil
}

// DateRange parses start and end bounds and rejects an inverted range.
func DateRange(start, end string) (time.Time, time.Time, error) {
	from, err := Date("start_date", start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := Date("end_date", end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, invalid("end_date", end, fmt.Sprintf("must not be before start_date %s", start))
	}
	return from, to, nil
}

// Amount parses an optional non-negative amount bound. An empty value yields nil.
func Amount(param, raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := currencyutils.ParseAmount(raw)
	if err != nil {
		return nil, invalid(param, raw, "must be a decimal number")
	}
	if d.IsNegative() {
		return nil, invalid(param, raw, "must not be negative")
	}
	return &d, nil
}

// OutputFormat checks if the given format is supported. An empty value means text.
func OutputFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", invalid("format", format, "supported formats are 'text', 'json', 'yaml'")
	}
}

// IsValidFilePermissions checks that a file holding rule tables is not readable
// by others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0640", mode.String())
	}
	return nil
}
