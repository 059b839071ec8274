// Package exceptions handles the one-off exception commands
package exceptions

import (
	"fmt"
	"io"
	"strings"

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

// Cmd represents the exceptions command
var Cmd = &cobra.Command{
	Use:   "exceptions",
	Short: "Manage one-off transaction exceptions",
	Long: `Manage one-off exceptions. An exception pins a single transaction, by id, to a
category and wins over every other rule. Changing an exception recomputes the
categorized dataset.`,
}

func init() {
	Cmd.PersistentFlags().StringVarP(&format, "format", "f", validation.FormatText, "Output format (text, json, yaml)")

	Cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List one-off exceptions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := root.GetContainer()
				if err != nil {
					return err
				}
				return List(c, cmd.OutOrStdout(), format)
			},
		},
		&cobra.Command{
			Use:   "set <txn_id> <category>",
			Short: "Pin a transaction to a category",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := root.GetContainer()
				if err != nil {
					return err
				}
				return Set(c, cmd.OutOrStdout(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "delete <txn_id>",
			Short: "Remove the exception of a transaction",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := root.GetContainer()
				if err != nil {
					return err
				}
				return Delete(c, cmd.OutOrStdout(), args[0])
			},
		},
	)
}

// List renders the one-off exception table.
func List(c *container.Container, w io.Writer, rawFormat string) error {
	f, err := validation.OutputFormat(rawFormat)
	if err != nil {
		return err
	}
	table, err := c.GetExceptions().Load()
	if err != nil {
		return err
	}
	return common.Render(c, w, report.RuleTable{KeyHeader: "TXN ID", Rules: table}, f)
}

// Set pins txnID to a category and recomputes the categorized dataset.
func Set(c *container.Container, w io.Writer, txnID, rawCategory string) error {
	category, err := validation.Category(rawCategory)
	if err != nil {
		return err
	}
	txnID = strings.TrimSpace(txnID)
	if err := store.Put(c.GetExceptions(), txnID, category); err != nil {
		return err
	}
	c.GetLogger().Info("One-off exception saved",
		logging.Field{Key: logging.FieldTransactionID, Value: txnID},
		logging.Field{Key: logging.FieldCategory, Value: category})

	if _, err := common.Recompute(c); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Updated exception for %s: %s\n", txnID, category)
	return err
}

// Delete removes the exception of txnID and recomputes when one existed.
func Delete(c *container.Container, w io.Writer, txnID string) error {
	txnID = strings.TrimSpace(txnID)
	found, err := store.Delete(c.GetExceptions(), txnID)
	if err != nil {
		return err
	}
	if !found {
		_, err = fmt.Fprintf(w, "No exception for %s\n", txnID)
		return err
	}

	if _, err := common.Recompute(c); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Deleted exception for %s\n", txnID)
	return err
}
