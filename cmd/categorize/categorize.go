// Package categorize handles the full recompute command
package categorize

import (
	"fmt"
	"io"

	"fjacquet/expense-analyzer/cmd/common"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/report"
	"fjacquet/expense-analyzer/internal/summary"
	"fjacquet/expense-analyzer/internal/validation"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize the cleaned dataset and write the categorized dataset",
	Long: `Categorize every transaction of the cleaned dataset, applying one-off exceptions first,
then merchant override rules, then built-in heuristics, and replace the categorized dataset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, cmd.OutOrStdout(), format)
	},
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")
}

// Run recomputes the categorized dataset and prints its overview.
func Run(c *container.Container, w io.Writer, rawFormat string) error {
	f, err := validation.OutputFormat(rawFormat)
	if err != nil {
		return err
	}

	txns, err := common.Recompute(c)
	if err != nil {
		return fmt.Errorf("categorization failed: %w", err)
	}

	return common.Render(c, w, report.Overview{
		Totals:     summary.Summarize(txns),
		Categories: summary.Categories(txns),
	}, f)
}
