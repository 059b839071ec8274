// Package forecast projects next-month spending from complete past months.
//
// Both projections take the mean of the most recent monthly spend totals and a
// band of mean ± k·σ around it, σ being the sample standard deviation. Income
// and EXCLUDE transactions never count, and neither do transactions whose date
// could not be parsed.
package forecast

import (
	"math"
	"sort"
	"time"

	"fjacquet/expense-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// Defaults applied to zero-valued Options fields
const (
	DefaultMonthsLookback = 3
	DefaultBandMultiplier = 1.0
)

// Options controls which history feeds a projection.
type Options struct {
	// MonthsLookback is the maximum number of recent months averaged.
	MonthsLookback int
	// ExcludeMonths drops whole calendar months, e.g. an atypical holiday month.
	ExcludeMonths map[models.YearMonth]bool
	// ExcludeCategories drops categories from the history.
	ExcludeCategories map[models.Category]bool
	// BandMultiplier is k in mean ± k·σ.
	BandMultiplier float64
	// AsOf, when set, keeps only months strictly before the month containing it.
	AsOf time.Time
}

// DefaultOptions returns a 3-month lookback with a one-sigma band.
func DefaultOptions() Options {
	return Options{MonthsLookback: DefaultMonthsLookback, BandMultiplier: DefaultBandMultiplier}
}

func (o Options) withDefaults() Options {
	if o.MonthsLookback <= 0 {
		o.MonthsLookback = DefaultMonthsLookback
	}
	if o.BandMultiplier <= 0 {
		o.BandMultiplier = DefaultBandMultiplier
	}
	return o
}

// MonthlyTotal is the spend of one calendar month.
type MonthlyTotal struct {
	Month  models.YearMonth `json:"month" yaml:"month"`
	Amount float64          `json:"amount" yaml:"amount"`
}

// TotalForecast is the projection of overall monthly spend.
type TotalForecast struct {
	ProjectedAmount float64        `json:"projected_amount" yaml:"projected_amount"`
	ConfidenceLow   float64        `json:"confidence_low" yaml:"confidence_low"`
	ConfidenceHigh  float64        `json:"confidence_high" yaml:"confidence_high"`
	StdDev          float64        `json:"std_dev" yaml:"std_dev"`
	MonthsUsed      int            `json:"months_used" yaml:"months_used"`
	Months          []MonthlyTotal `json:"months" yaml:"months"`
	Insufficient    bool           `json:"insufficient_data" yaml:"insufficient_data"`
}

// CategoryForecast is the projection of one category's monthly spend.
type CategoryForecast struct {
	Category       models.Category `json:"category" yaml:"category"`
	AvgSpend       float64         `json:"avg_spend" yaml:"avg_spend"`
	StdDev         float64         `json:"std_dev" yaml:"std_dev"`
	ConfidenceLow  float64         `json:"confidence_low" yaml:"confidence_low"`
	ConfidenceHigh float64         `json:"confidence_high" yaml:"confidence_high"`
	NumMonths      int             `json:"num_months" yaml:"num_months"`
}

// Total projects overall spend. With no eligible month the result is zero-filled
// and flagged Insufficient.
func Total(txns []models.Transaction, opts Options) TotalForecast {
	opts = opts.withDefaults()

	monthly := make(map[models.YearMonth]decimal.Decimal)
	for _, tx := range eligible(txns, opts) {
		ym, _ := tx.Date.YearMonth()
		monthly[ym] = monthly[ym].Add(tx.AmountSpend)
	}

	selected := recentMonths(monthly, opts.MonthsLookback)
	if len(selected) == 0 {
		return TotalForecast{Months: []MonthlyTotal{}, Insufficient: true}
	}

	values := make([]float64, len(selected))
	for i, mt := range selected {
		values[i] = mt.Amount
	}

	mean, sd := meanStdDev(values)
	low, high := band(mean, sd, opts.BandMultiplier)
	return TotalForecast{
		ProjectedAmount: mean,
		ConfidenceLow:   low,
		ConfidenceHigh:  high,
		StdDev:          sd,
		MonthsUsed:      len(selected),
		Months:          selected,
	}
}

// ByCategory projects spend per category, each over its own most recent months
// with data. Results are ordered by AvgSpend descending, then by category name.
func ByCategory(txns []models.Transaction, opts Options) []CategoryForecast {
	opts = opts.withDefaults()

	perCategory := make(map[models.Category]map[models.YearMonth]decimal.Decimal)
	for _, tx := range eligible(txns, opts) {
		ym, _ := tx.Date.YearMonth()
		monthly, ok := perCategory[tx.Category]
		if !ok {
			monthly = make(map[models.YearMonth]decimal.Decimal)
			perCategory[tx.Category] = monthly
		}
		monthly[ym] = monthly[ym].Add(tx.AmountSpend)
	}

	out := make([]CategoryForecast, 0, len(perCategory))
	for category, monthly := range perCategory {
		selected := recentMonths(monthly, opts.MonthsLookback)
		if len(selected) == 0 {
			continue
		}
		values := make([]float64, len(selected))
		for i, mt := range selected {
			values[i] = mt.Amount
		}

		mean, sd := meanStdDev(values)
		low, high := band(mean, sd, opts.BandMultiplier)
		out = append(out, CategoryForecast{
			Category:       category,
			AvgSpend:       mean,
			StdDev:         sd,
			ConfidenceLow:  low,
			ConfidenceHigh: high,
			NumMonths:      len(selected),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSpend != out[j].AvgSpend {
			return out[i].AvgSpend > out[j].AvgSpend
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// eligible applies the exclusion rules shared by both projections.
func eligible(txns []models.Transaction, opts Options) []models.Transaction {
	var cutoff models.YearMonth
	hasCutoff := !opts.AsOf.IsZero()
	if hasCutoff {
		cutoff = models.YearMonthOf(opts.AsOf)
	}

	out := make([]models.Transaction, 0, len(txns))
	for _, tx := range txns {
		if !tx.Category.IsSpend() {
			continue
		}
		ym, ok := tx.Date.YearMonth()
		if !ok {
			continue
		}
		if hasCutoff && !ym.Before(cutoff) {
			continue
		}
		if opts.ExcludeMonths[ym] || opts.ExcludeCategories[tx.Category] {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// recentMonths returns up to n of the latest months, oldest first.
func recentMonths(monthly map[models.YearMonth]decimal.Decimal, n int) []MonthlyTotal {
	months := make([]models.YearMonth, 0, len(monthly))
	for ym := range monthly {
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	if len(months) > n {
		months = months[len(months)-n:]
	}

	out := make([]MonthlyTotal, len(months))
	for i, ym := range months {
		out[i] = MonthlyTotal{Month: ym, Amount: monthly[ym].InexactFloat64()}
	}
	return out
}

// meanStdDev returns the mean and the sample (n-1) standard deviation, the
// latter being 0 for fewer than two values.
func meanStdDev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if len(values) < 2 {
		return mean, 0
	}

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}

// band returns mean ± k·sd with the low side clamped at zero.
func band(mean, sd, k float64) (float64, float64) {
	return math.Max(0, mean-k*sd), mean + k*sd
}
