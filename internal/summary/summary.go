// Package summary computes the read-side views over a categorized dataset:
// filtered listings, income/spend totals, category breakdowns, daily spend,
// merchant samples, sources and the covered date range.
package summary

import (
	"sort"
	"strings"
	"time"

	"fjacquet/expense-analyzer/internal/dateutils"
	"fjacquet/expense-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// MerchantSampleSize is the number of latest transactions kept per merchant.
const MerchantSampleSize = 3

// Filter selects transactions. Zero values disable the corresponding criterion.
type Filter struct {
	Start time.Time
	// End is inclusive: every transaction on that calendar day matches.
	End            time.Time
	Source         string
	Category       string
	MerchantSearch string
	MinSpend       *decimal.Decimal
	MaxSpend       *decimal.Decimal
	// ExcludeTransfers drops EXCLUDE transactions before any other criterion.
	ExcludeTransfers bool
}

// Totals is the overview of a filtered dataset.
type Totals struct {
	TotalIncome       float64 `json:"total_income" yaml:"total_income"`
	TotalSpend        float64 `json:"total_spend" yaml:"total_spend"`
	NetBalance        float64 `json:"net_balance" yaml:"net_balance"`
	TotalTransactions int     `json:"total_transactions" yaml:"total_transactions"`
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category   models.Category `json:"category" yaml:"category"`
	Amount     float64         `json:"amount" yaml:"amount"`
	Percentage float64         `json:"percentage" yaml:"percentage"`
	Count      int             `json:"count" yaml:"count"`
}

// DailyTotal is the spend of one calendar day.
type DailyTotal struct {
	Date   string  `json:"date" yaml:"date"`
	Amount float64 `json:"amount" yaml:"amount"`
}

// Sample is a short view of one merchant transaction.
type Sample struct {
	Date        string  `json:"date" yaml:"date"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description" yaml:"description"`
}

// MerchantInfo describes a merchant and how its latest transaction is categorized.
type MerchantInfo struct {
	Name            string          `json:"name" yaml:"name"`
	CurrentCategory models.Category `json:"current_category" yaml:"current_category"`
	Samples         []Sample        `json:"sample_transactions" yaml:"sample_transactions"`
}

// Range is the first and last valid transaction date.
type Range struct {
	Min string `json:"min_date" yaml:"min_date"`
	Max string `json:"max_date" yaml:"max_date"`
}

// Apply returns the transactions matching f, preserving input order.
// A date bound excludes transactions whose date could not be parsed.
func Apply(txns []models.Transaction, f Filter) []models.Transaction {
	var end time.Time
	if !f.End.IsZero() {
		end = dateutils.EndOfDay(f.End)
	}
	search := strings.ToLower(strings.TrimSpace(f.MerchantSearch))

	out := make([]models.Transaction, 0, len(txns))
	for _, tx := range txns {
		if f.ExcludeTransfers && tx.Category == models.CategoryExclude {
			continue
		}
		if !f.Start.IsZero() && (!tx.Date.Valid || tx.Date.Time.Before(f.Start)) {
			continue
		}
		if !end.IsZero() && (!tx.Date.Valid || tx.Date.Time.After(end)) {
			continue
		}
		if f.Source != "" && f.Source != models.SourceAll && tx.Source != f.Source {
			continue
		}
		if !matchesCategory(tx.Category, f.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(tx.Merchant), search) {
			continue
		}
		if f.MinSpend != nil && tx.AmountSpend.LessThan(*f.MinSpend) {
			continue
		}
		if f.MaxSpend != nil && tx.AmountSpend.GreaterThan(*f.MaxSpend) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

func matchesCategory(c models.Category, want string) bool {
	switch want {
	case "":
		return true
	case models.CategoryAllExpenses:
		return c.IsSpend()
	default:
		return string(c) == want
	}
}

// Summarize totals income and spend. EXCLUDE transactions count towards neither.
func Summarize(txns []models.Transaction) Totals {
	income := decimal.Zero
	spend := decimal.Zero
	count := 0
	for _, tx := range txns {
		switch tx.Category {
		case models.CategoryExclude:
			continue
		case models.CategoryIncome:
			income = income.Add(tx.AmountSigned)
		default:
			spend = spend.Add(tx.AmountSpend)
			count++
		}
	}
	return Totals{
		TotalIncome:       income.InexactFloat64(),
		TotalSpend:        spend.InexactFloat64(),
		NetBalance:        income.Sub(spend).InexactFloat64(),
		TotalTransactions: count,
	}
}

// Categories breaks spend down per category, largest first. Percentages are
// shares of the total spend rounded to one decimal.
func Categories(txns []models.Transaction) []CategoryTotal {
	sums := make(map[models.Category]decimal.Decimal)
	counts := make(map[models.Category]int)
	total := decimal.Zero
	for _, tx := range txns {
		if !tx.IsSpend() {
			continue
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.AmountSpend)
		counts[tx.Category]++
		total = total.Add(tx.AmountSpend)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for category, sum := range sums {
		pct := decimal.Zero
		if total.IsPositive() {
			pct = sum.Mul(decimal.NewFromInt(100)).Div(total).Round(1)
		}
		out = append(out, CategoryTotal{
			Category:   category,
			Amount:     sum.InexactFloat64(),
			Percentage: pct.InexactFloat64(),
			Count:      counts[category],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Daily sums spend per calendar day in date order.
func Daily(txns []models.Transaction) []DailyTotal {
	sums := make(map[string]decimal.Decimal)
	for _, tx := range txns {
		if !tx.IsSpend() || !tx.Date.Valid {
			continue
		}
		day := dateutils.ToISODate(tx.Date.Time)
		sums[day] = sums[day].Add(tx.AmountSpend)
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	out := make([]DailyTotal, len(days))
	for i, day := range days {
		out[i] = DailyTotal{Date: day, Amount: sums[day].InexactFloat64()}
	}
	return out
}

// Merchants lists each merchant once, by name, with its latest transactions.
func Merchants(txns []models.Transaction) []MerchantInfo {
	byMerchant := make(map[string][]models.Transaction)
	for _, tx := range txns {
		if tx.Category == models.CategoryExclude || tx.Merchant == "" {
			continue
		}
		byMerchant[tx.Merchant] = append(byMerchant[tx.Merchant], tx)
	}

	names := make([]string, 0, len(byMerchant))
	for name := range byMerchant {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]MerchantInfo, 0, len(names))
	for _, name := range names {
		group := byMerchant[name]
		sort.SliceStable(group, func(i, j int) bool { return later(group[i].Date, group[j].Date) })
		if len(group) > MerchantSampleSize {
			group = group[:MerchantSampleSize]
		}

		samples := make([]Sample, len(group))
		for i, tx := range group {
			samples[i] = Sample{
				Date:        dateutils.ToISODate(tx.Date.Time),
				Amount:      tx.AmountSpendFloat(),
				Description: tx.Description,
			}
		}
		out = append(out, MerchantInfo{Name: name, CurrentCategory: group[0].Category, Samples: samples})
	}
	return out
}

// later orders valid dates newest first and invalid dates last.
func later(a, b models.TxnDate) bool {
	if a.Valid != b.Valid {
		return a.Valid
	}
	return a.Time.After(b.Time)
}

// Sources returns the "All" sentinel followed by every distinct source, sorted.
func Sources(txns []models.Transaction) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, tx := range txns {
		if tx.Source == "" || seen[tx.Source] {
			continue
		}
		seen[tx.Source] = true
		sources = append(sources, tx.Source)
	}
	sort.Strings(sources)
	return append([]string{models.SourceAll}, sources...)
}

// DateRange returns the earliest and latest valid dates. Without any valid date
// both ends are today.
func DateRange(txns []models.Transaction, today time.Time) Range {
	var lo, hi time.Time
	for _, tx := range txns {
		if !tx.Date.Valid {
			continue
		}
		if lo.IsZero() || tx.Date.Time.Before(lo) {
			lo = tx.Date.Time
		}
		if hi.IsZero() || tx.Date.Time.After(hi) {
			hi = tx.Date.Time
		}
	}
	if lo.IsZero() {
		lo, hi = today, today
	}
	return Range{Min: dateutils.ToISODate(lo), Max: dateutils.ToISODate(hi)}
}
