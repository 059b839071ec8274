// Package summary handles the spending summary commands
package summary

import (
	"io"
	"time"

	"fjacquet/expense-analyzer/cmd/common"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/report"
	spending "fjacquet/expense-analyzer/internal/summary"
	"fjacquet/expense-analyzer/internal/validation"

	"github.com/spf13/cobra"
)

// View selects what a summary prints.
type View string

// Summary views
const (
	ViewOverview  View = "overview"
	ViewDaily     View = "daily"
	ViewMerchants View = "merchants"
	ViewSources   View = "sources"
	ViewRange     View = "range"
)

// Options are the raw command-line parameters of a summary.
type Options struct {
	Start  string
	End    string
	Source string
	Format string
}

var opts Options

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize income, spend and the category breakdown",
	Long: `Summarize the categorized dataset: total income, total spend, net balance and the
spend per category. Transfers marked EXCLUDE count towards neither total.`,
	Args: cobra.NoArgs,
	RunE: runView(ViewOverview),
}

func init() {
	Cmd.PersistentFlags().StringVar(&opts.Start, "start", "", "First day included, as YYYY-MM-DD")
	Cmd.PersistentFlags().StringVar(&opts.End, "end", "", "Last day included, as YYYY-MM-DD")
	Cmd.PersistentFlags().StringVar(&opts.Source, "source", models.SourceAll, "Only transactions of this source")
	Cmd.PersistentFlags().StringVarP(&opts.Format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")

	Cmd.AddCommand(
		&cobra.Command{Use: "daily", Short: "Spend per day", Args: cobra.NoArgs, RunE: runView(ViewDaily)},
		&cobra.Command{Use: "merchants", Short: "Merchants with their latest transactions", Args: cobra.NoArgs, RunE: runView(ViewMerchants)},
		&cobra.Command{Use: "sources", Short: "Data sources present in the dataset", Args: cobra.NoArgs, RunE: runView(ViewSources)},
		&cobra.Command{Use: "range", Short: "First and last transaction dates", Args: cobra.NoArgs, RunE: runView(ViewRange)},
	)
}

func runView(view View) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, cmd.OutOrStdout(), view, opts, time.Now())
	}
}

// Run renders one summary view over the filtered categorized dataset.
func Run(c *container.Container, w io.Writer, view View, o Options, today time.Time) error {
	f, err := validation.OutputFormat(o.Format)
	if err != nil {
		return err
	}
	start, end, err := validation.DateRange(o.Start, o.End)
	if err != nil {
		return err
	}

	txns, err := common.LoadCategorized(c)
	if err != nil {
		return err
	}

	switch view {
	case ViewSources:
		return common.Render(c, w, spending.Sources(txns), f)
	case ViewRange:
		return common.Render(c, w, spending.DateRange(txns, today), f)
	}

	filtered := spending.Apply(txns, spending.Filter{Start: start, End: end, Source: o.Source})

	switch view {
	case ViewDaily:
		return common.Render(c, w, spending.Daily(filtered), f)
	case ViewMerchants:
		return common.Render(c, w, spending.Merchants(filtered), f)
	default:
		return common.Render(c, w, report.Overview{
			Totals:     spending.Summarize(filtered),
			Categories: spending.Categories(filtered),
		}, f)
	}
}
