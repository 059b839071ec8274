// Package forecast handles the spending forecast command
package forecast

import (
	"io"
	"time"

	"fjacquet/expense-analyzer/cmd/common"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	projection "fjacquet/expense-analyzer/internal/forecast"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/report"
	"fjacquet/expense-analyzer/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the raw command-line parameters of a forecast.
type Options struct {
	MonthsLookback      int
	ExcludeMonths       []string
	ExcludeCategories   []string
	IncludeCurrentMonth bool
	Format              string
}

var opts Options

// Cmd represents the forecast command
var Cmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project next month's spending from recent complete months",
	Long: `Project next month's total and per-category spending as the mean of the most recent
months with data, with a confidence band of one standard deviation. Income and transfers
never count. The current, incomplete month is left out unless --include-current-month is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		o := opts
		if !cmd.Flags().Changed("months-lookback") {
			o.MonthsLookback = c.GetConfig().Forecast.MonthsLookback
		}
		if !cmd.Flags().Changed("include-current-month") {
			o.IncludeCurrentMonth = c.GetConfig().Forecast.IncludeCurrentMonth
		}
		return Run(c, cmd.OutOrStdout(), o, time.Now())
	},
}

func init() {
	Cmd.Flags().IntVarP(&opts.MonthsLookback, "months-lookback", "m", projection.DefaultMonthsLookback, "Number of recent months averaged")
	Cmd.Flags().StringSliceVar(&opts.ExcludeMonths, "exclude-month", nil, "Month to leave out, as YYYY-MM (repeatable)")
	Cmd.Flags().StringSliceVar(&opts.ExcludeCategories, "exclude-category", nil, "Category to leave out (repeatable)")
	Cmd.Flags().BoolVar(&opts.IncludeCurrentMonth, "include-current-month", false, "Count the current, incomplete month")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")
}

// Run validates o, computes both projections as of now and renders them.
func Run(c *container.Container, w io.Writer, o Options, now time.Time) error {
	f, err := validation.OutputFormat(o.Format)
	if err != nil {
		return err
	}
	months, err := validation.PositiveMonths(o.MonthsLookback)
	if err != nil {
		return err
	}
	excludeMonths, err := validation.YearMonths(o.ExcludeMonths)
	if err != nil {
		return err
	}
	excludeCategories, err := validation.Categories(o.ExcludeCategories)
	if err != nil {
		return err
	}

	fo := projection.Options{
		MonthsLookback:    months,
		ExcludeMonths:     excludeMonths,
		ExcludeCategories: excludeCategories,
		BandMultiplier:    c.GetConfig().Forecast.BandMultiplier,
	}
	if !o.IncludeCurrentMonth {
		fo.AsOf = now
	}

	txns, err := common.LoadCategorized(c)
	if err != nil {
		return err
	}

	result := report.ForecastReport{
		Total:      projection.Total(txns, fo),
		Categories: projection.ByCategory(txns, fo),
	}
	c.GetLogger().Debug("Forecast computed",
		logging.Field{Key: logging.FieldMonths, Value: result.Total.MonthsUsed},
		logging.Field{Key: logging.FieldCount, Value: len(result.Categories)})

	return common.Render(c, w, result, f)
}
