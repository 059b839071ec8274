package main

import (
	"fmt"
	"os"

	"fjacquet/expense-analyzer/cmd/categorize"
	"fjacquet/expense-analyzer/cmd/exceptions"
	"fjacquet/expense-analyzer/cmd/forecast"
	"fjacquet/expense-analyzer/cmd/root"
	"fjacquet/expense-analyzer/cmd/rules"
	"fjacquet/expense-analyzer/cmd/summary"
	"fjacquet/expense-analyzer/cmd/transactions"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(forecast.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(transactions.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(exceptions.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	if closeErr := root.Shutdown(); closeErr != nil {
		fmt.Fprintln(os.Stderr, closeErr)
		if err == nil {
			err = closeErr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
