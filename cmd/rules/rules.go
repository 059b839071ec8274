// Package rules handles the merchant override rule commands
package rules

import (
	"fmt"
	"io"

	"fjacquet/expense-analyzer/cmd/common"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/report"
	"fjacquet/expense-analyzer/internal/store"
	"fjacquet/expense-analyzer/internal/validation"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the rules command
var Cmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage merchant override rules",
	Long: `Manage the merchant override rules. A rule maps a normalized merchant name to a
category and applies to every transaction of that merchant without a one-off exception.
Changing a rule recomputes the categorized dataset.`,
}

func init() {
	Cmd.PersistentFlags().StringVarP(&format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")

	Cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List override rules",
			Args:  cobra.NoArgs,
			RunE:  withContainer(func(c *container.Container, w io.Writer, _ []string) error { return List(c, w, format) }),
		},
		&cobra.Command{
			Use:   "set <merchant> <category>",
			Short: "Map a merchant to a category",
			Long:  "Map a merchant to a category. The merchant is normalized the same way transaction descriptions are.",
			Args:  cobra.ExactArgs(2),
			RunE: withContainer(func(c *container.Container, w io.Writer, args []string) error {
				return Set(c, w, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete <merchant>",
			Short: "Remove the rule of a merchant",
			Args:  cobra.ExactArgs(1),
			RunE: withContainer(func(c *container.Container, w io.Writer, args []string) error {
				return Delete(c, w, args[0])
			}),
		},
		&cobra.Command{
			Use:   "normalize <description>",
			Short: "Show the merchant key derived from a description",
			Args:  cobra.ExactArgs(1),
			RunE: withContainer(func(c *container.Container, w io.Writer, args []string) error {
				_, err := fmt.Fprintln(w, c.GetEngine().Normalizer().Normalize(args[0]))
				return err
			}),
		},
	)
}

func withContainer(fn func(c *container.Container, w io.Writer, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return fn(c, cmd.OutOrStdout(), args)
	}
}

// List renders the override rule table.
func List(c *container.Container, w io.Writer, rawFormat string) error {
	f, err := validation.OutputFormat(rawFormat)
	if err != nil {
		return err
	}
	table, err := c.GetOverrides().Load()
	if err != nil {
		return err
	}
	return common.Render(c, w, report.RuleTable{KeyHeader: "MERCHANT", Rules: table}, f)
}

// Set stores merchant → category under the normalized merchant key and
// recomputes the categorized dataset.
func Set(c *container.Container, w io.Writer, merchant, rawCategory string) error {
	category, err := validation.Category(rawCategory)
	if err != nil {
		return err
	}
	key := c.GetEngine().Normalizer().Normalize(merchant)
	if key == "" {
		return fmt.Errorf("merchant '%s' normalizes to an empty name", merchant)
	}

	if err := store.Put(c.GetOverrides(), key, category); err != nil {
		return err
	}
	c.GetLogger().Info("Override rule saved",
		logging.Field{Key: logging.FieldMerchant, Value: key},
		logging.Field{Key: logging.FieldCategory, Value: category})

	if _, err := common.Recompute(c); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Updated rule for %s: %s\n", key, category)
	return err
}

// Delete removes the rule of a merchant and recomputes when one existed.
func Delete(c *container.Container, w io.Writer, merchant string) error {
	key := c.GetEngine().Normalizer().Normalize(merchant)
	found, err := store.Delete(c.GetOverrides(), key)
	if err != nil {
		return err
	}
	if !found {
		_, err = fmt.Fprintf(w, "No rule for %s\n", key)
		return err
	}

	if _, err := common.Recompute(c); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Deleted rule for %s\n", key)
	return err
}
