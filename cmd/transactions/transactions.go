// Package transactions handles the filtered transaction listing command
package transactions

import (
	"io"

	"fjacquet/expense-analyzer/cmd/common"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/summary"
	"fjacquet/expense-analyzer/internal/validation"

	"github.com/spf13/cobra"
)

// Options are the raw command-line filters of a listing.
type Options struct {
	Start            string
	End              string
	Source           string
	Category         string
	MerchantSearch   string
	MinAmount        string
	MaxAmount        string
	IncludeTransfers bool
	Format           string
}

var opts Options

// Cmd represents the transactions command
var Cmd = &cobra.Command{
	Use:   "transactions",
	Short: "List categorized transactions matching filters",
	Long: `List the categorized transactions matching the given filters. Transfers marked
EXCLUDE are hidden unless --include-transfers is set. --category "All Expenses" keeps
every spend category.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, cmd.OutOrStdout(), opts)
	},
}

func init() {
	Cmd.Flags().StringVar(&opts.Start, "start", "", "First day included, as YYYY-MM-DD")
	Cmd.Flags().StringVar(&opts.End, "end", "", "Last day included, as YYYY-MM-DD")
	Cmd.Flags().StringVar(&opts.Source, "source", models.SourceAll, "Only transactions of this source")
	Cmd.Flags().StringVarP(&opts.Category, "category", "c", "", `Only this category, or "All Expenses"`)
	Cmd.Flags().StringVarP(&opts.MerchantSearch, "merchant", "s", "", "Case-insensitive merchant substring")
	Cmd.Flags().StringVar(&opts.MinAmount, "min-amount", "", "Minimum spend amount")
	Cmd.Flags().StringVar(&opts.MaxAmount, "max-amount", "", "Maximum spend amount")
	Cmd.Flags().BoolVar(&opts.IncludeTransfers, "include-transfers", false, "Keep EXCLUDE transactions")
	Cmd.Flags().StringVarP(&opts.Format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")
}

// Run validates the filters and renders the matching transactions.
func Run(c *container.Container, w io.Writer, o Options) error {
	f, err := validation.OutputFormat(o.Format)
	if err != nil {
		return err
	}
	filter, err := buildFilter(o)
	if err != nil {
		return err
	}

	txns, err := common.LoadCategorized(c)
	if err != nil {
		return err
	}
	return common.Render(c, w, summary.Apply(txns, filter), f)
}

func buildFilter(o Options) (summary.Filter, error) {
	start, end, err := validation.DateRange(o.Start, o.End)
	if err != nil {
		return summary.Filter{}, err
	}
	minSpend, err := validation.Amount("min_amount", o.MinAmount)
	if err != nil {
		return summary.Filter{}, err
	}
	maxSpend, err := validation.Amount("max_amount", o.MaxAmount)
	if err != nil {
		return summary.Filter{}, err
	}

	category := o.Category
	if category != "" && category != models.CategoryAllExpenses {
		c, err := validation.Category(category)
		if err != nil {
			return summary.Filter{}, err
		}
		category = c.String()
	}

	return summary.Filter{
		Start:            start,
		End:              end,
		Source:           o.Source,
		Category:         category,
		MerchantSearch:   o.MerchantSearch,
		MinSpend:         minSpend,
		MaxSpend:         maxSpend,
		ExcludeTransfers: !o.IncludeTransfers,
	}, nil
}
