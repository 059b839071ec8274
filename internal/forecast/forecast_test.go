package forecast

import (
	"testing"
	"time"

	"fjacquet/expense-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spend(date string, category models.Category, amount string) models.Transaction {
	a := decimal.RequireFromString(amount)
	return models.Transaction{
		Date:         models.NewTxnDate(date),
		Category:     category,
		AmountSigned: a.Neg(),
		AmountSpend:  a,
	}
}

// three months of groceries: 100, 200, 300
func threeMonths() []models.Transaction {
	return []models.Transaction{
		spend("2024-01-10", models.CategoryGroceries, "60"),
		spend("2024-01-20", models.CategoryGroceries, "40"),
		spend("2024-02-10", models.CategoryGroceries, "200"),
		spend("2024-03-10", models.CategoryGroceries, "300"),
	}
}

func TestTotal_Lookback(t *testing.T) {
	tests := []struct {
		name     string
		lookback int
		mean     float64
		sd       float64
		months   int
	}{
		{name: "all three months", lookback: 3, mean: 200, sd: 100, months: 3},
		{name: "two most recent", lookback: 2, mean: 250, sd: 70.7107, months: 2},
		{name: "lookback beyond history", lookback: 12, mean: 200, sd: 100, months: 3},
		{name: "zero lookback uses default", lookback: 0, mean: 200, sd: 100, months: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.MonthsLookback = tt.lookback

			got := Total(threeMonths(), opts)
			assert.InDelta(t, tt.mean, got.ProjectedAmount, 0.0001)
			assert.InDelta(t, tt.sd, got.StdDev, 0.0001)
			assert.Equal(t, tt.months, got.MonthsUsed)
			assert.Len(t, got.Months, tt.months)
			assert.False(t, got.Insufficient)
		})
	}
}

func TestTotal_BandAndMonths(t *testing.T) {
	got := Total(threeMonths(), DefaultOptions())

	assert.InDelta(t, 100, got.ConfidenceLow, 0.0001)
	assert.InDelta(t, 300, got.ConfidenceHigh, 0.0001)
	require.Len(t, got.Months, 3)
	assert.Equal(t, "2024-01", got.Months[0].Month.String())
	assert.InDelta(t, 100, got.Months[0].Amount, 0.0001)
	assert.Equal(t, "2024-03", got.Months[2].Month.String())
}

func TestTotal_BandMultiplierAndClamp(t *testing.T) {
	opts := DefaultOptions()
	opts.BandMultiplier = 3

	got := Total(threeMonths(), opts)
	assert.Equal(t, 0.0, got.ConfidenceLow, "low side is clamped at zero")
	assert.InDelta(t, 500, got.ConfidenceHigh, 0.0001)
}

func TestTotal_Insufficient(t *testing.T) {
	got := Total(nil, DefaultOptions())
	assert.True(t, got.Insufficient)
	assert.Equal(t, 0, got.MonthsUsed)
	assert.Equal(t, 0.0, got.ProjectedAmount)
	assert.Equal(t, 0.0, got.ConfidenceLow)
	assert.Equal(t, 0.0, got.ConfidenceHigh)
	assert.NotNil(t, got.Months)
}

func TestTotal_ExcludesIncomeExcludeAndBadDates(t *testing.T) {
	txns := append(threeMonths(),
		spend("2024-03-01", models.CategoryExclude, "5000"),
		spend("2024-03-15", models.CategoryIncome, "2500"),
		spend("not a date", models.CategoryGroceries, "999"),
	)

	got := Total(txns, DefaultOptions())
	assert.InDelta(t, 200, got.ProjectedAmount, 0.0001)
	assert.Equal(t, 3, got.MonthsUsed)
}

func TestTotal_ExcludeMonthsAndCategories(t *testing.T) {
	txns := append(threeMonths(), spend("2024-03-05", models.CategoryTravel, "1000"))

	opts := DefaultOptions()
	opts.ExcludeMonths = map[models.YearMonth]bool{{Year: 2024, Month: time.February}: true}
	opts.ExcludeCategories = map[models.Category]bool{models.CategoryTravel: true}

	got := Total(txns, opts)
	assert.Equal(t, 2, got.MonthsUsed)
	assert.InDelta(t, 200, got.ProjectedAmount, 0.0001)
}

func TestTotal_AsOfDropsCurrentMonth(t *testing.T) {
	opts := DefaultOptions()
	opts.AsOf = time.Date(2024, time.March, 18, 0, 0, 0, 0, time.UTC)

	got := Total(threeMonths(), opts)
	assert.Equal(t, 2, got.MonthsUsed)
	assert.InDelta(t, 150, got.ProjectedAmount, 0.0001)

	opts.AsOf = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, Total(threeMonths(), opts).Insufficient)
}

func TestByCategory(t *testing.T) {
	txns := append(threeMonths(),
		spend("2024-03-02", models.CategoryDining, "80"),
		spend("2024-01-05", models.CategoryTravel, "400"),
		spend("2024-03-06", models.CategoryExclude, "10000"),
	)

	got := ByCategory(txns, DefaultOptions())
	require.Len(t, got, 3)

	assert.Equal(t, models.CategoryTravel, got[0].Category)
	assert.Equal(t, models.CategoryGroceries, got[1].Category)
	assert.Equal(t, models.CategoryDining, got[2].Category)

	groceries := got[1]
	assert.InDelta(t, 200, groceries.AvgSpend, 0.0001)
	assert.InDelta(t, 100, groceries.StdDev, 0.0001)
	assert.Equal(t, 3, groceries.NumMonths)

	dining := got[2]
	assert.Equal(t, 1, dining.NumMonths)
	assert.Equal(t, 0.0, dining.StdDev)
	assert.InDelta(t, 80, dining.ConfidenceLow, 0.0001)
	assert.InDelta(t, 80, dining.ConfidenceHigh, 0.0001)
}

func TestByCategory_PerCategoryWindow(t *testing.T) {
	txns := []models.Transaction{
		spend("2023-06-10", models.CategoryInsurance, "600"),
		spend("2023-12-10", models.CategoryInsurance, "600"),
		spend("2024-03-10", models.CategoryGroceries, "50"),
	}

	got := ByCategory(txns, Options{MonthsLookback: 2})
	require.Len(t, got, 2)
	assert.Equal(t, models.CategoryInsurance, got[0].Category)
	assert.Equal(t, 2, got[0].NumMonths, "window counts months with data in that category")
	assert.InDelta(t, 600, got[0].AvgSpend, 0.0001)
}

func TestByCategory_TiesOrderedByName(t *testing.T) {
	txns := []models.Transaction{
		spend("2024-01-10", models.CategoryShopping, "50"),
		spend("2024-01-10", models.CategoryDining, "50"),
	}

	got := ByCategory(txns, DefaultOptions())
	require.Len(t, got, 2)
	assert.Equal(t, models.CategoryDining, got[0].Category)
	assert.Equal(t, models.CategoryShopping, got[1].Category)
}

func TestByCategory_Empty(t *testing.T) {
	assert.Empty(t, ByCategory(nil, DefaultOptions()))
}

func TestMeanStdDev(t *testing.T) {
	mean, sd := meanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5, mean, 1e-9)
	assert.InDelta(t, 2.13809, sd, 1e-5)

	mean, sd = meanStdDev([]float64{42})
	assert.Equal(t, 42.0, mean)
	assert.Equal(t, 0.0, sd)
}
