// Package currencyutils parses the amount notations found in bank exports.
package currencyutils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrEmptyAmount is returned when there is nothing left to parse.
var ErrEmptyAmount = errors.New("empty amount")

var currencyMarks = regexp.MustCompile(`(?i)\b(CHF|USD|EUR|GBP|CAD)\b|[€$£¥₹\s]`)

// ParseAmount parses an amount such as "-12.50", "$1,234.56", "1.234,56",
// "CHF 1'234.56" or the accounting form "(12.50)" for a negative value.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" || standardized == "-" {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, ErrEmptyAmount)
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount rewrites amountStr into the plain form decimal.NewFromString
// accepts: no currency marks, no thousands separators, '.' as decimal point.
func StandardizeAmount(amountStr string) string {
	s := currencyMarks.ReplaceAllString(strings.TrimSpace(amountStr), "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(s, "+")
	s = strings.ReplaceAll(s, "'", "")

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && dot < comma:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case comma >= 0 && dot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	if negative && s != "" && !strings.HasPrefix(s, "-") {
		s = "-" + s
	}
	return s
}
