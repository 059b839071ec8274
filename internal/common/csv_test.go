package common

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestReadTransactions(t *testing.T) {
	path := writeCSV(t, "checking.csv", "\xEF\xBB\xBFdate,description,amount_signed,amount_spend\n"+
		"01/15/2024,WHOLE FOODS #123,-54.20,54.20\n"+
		"2024-01-31,ACME PAYROLL,2500.00,\n"+
		"sometime,MYSTERY,-3.00,3.00\n")

	logger := logging.NewMockLogger()
	txns, err := ReadTransactions(path, ',', logger)
	require.NoError(t, err)
	require.Len(t, txns, 3)

	first := txns[0]
	assert.Equal(t, "2024-01-15", first.Date.String())
	assert.Equal(t, "WHOLE FOODS #123", first.Description)
	assert.True(t, first.AmountSigned.Equal(decimal.RequireFromString("-54.20")))
	assert.True(t, first.AmountSpend.Equal(decimal.RequireFromString("54.20")))
	assert.Equal(t, "checking", first.Source, "source defaults to the file name")
	assert.Equal(t, models.TransactionID("01/15/2024", "WHOLE FOODS #123", first.AmountSigned), first.TxnID)
	assert.Empty(t, first.Category)

	assert.True(t, txns[1].AmountSpend.IsZero(), "blank amount_spend of a credit is zero")

	assert.False(t, txns[2].Date.Valid)
	assert.Equal(t, "sometime", txns[2].Date.String())

	assert.True(t, logger.HasEntry("INFO", "Read transactions"))
}

func TestReadTransactions_OptionalColumns(t *testing.T) {
	path := writeCSV(t, "categorized.csv",
		"txn_id;date;description;amount_signed;amount_spend;category;merchant;source\n"+
			"abc;2024-02-01;NETFLIX.COM;-15.49;15.49;subscriptions;NETFLIX;amex\n"+
			"def;2024-02-02;ODD SHOP;-1.00;1.00;Hobbies;ODD SHOP;amex\n")

	txns, err := ReadTransactions(path, ';', nil)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "abc", txns[0].TxnID)
	assert.Equal(t, models.CategorySubscriptions, txns[0].Category, "known labels are canonicalized")
	assert.Equal(t, "NETFLIX", txns[0].Merchant)
	assert.Equal(t, "amex", txns[0].Source)
	assert.Equal(t, models.Category("Hobbies"), txns[1].Category, "unknown labels are kept verbatim")
}

func TestReadTransactions_DerivesSpendWithoutColumn(t *testing.T) {
	path := writeCSV(t, "clean.csv", "date,description,amount_signed\n2024-03-01,SHELL,-40\n")

	txns, err := ReadTransactions(path, ',', nil)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].AmountSpend.Equal(decimal.NewFromInt(40)))
}

func TestReadTransactions_BankAmountNotations(t *testing.T) {
	path := writeCSV(t, "export.csv", "date,description,amount_signed,amount_spend\n"+
		"2024-03-01,RENT,\"$(1,250.00)\",\n"+
		"2024-03-02,REFUND,\"+12,50\",0\n")

	txns, err := ReadTransactions(path, ',', nil)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "-1250", txns[0].AmountSigned.String())
	assert.Equal(t, "1250", txns[0].AmountSpend.String())
	assert.Equal(t, "12.5", txns[1].AmountSigned.String())
}

func TestReadTransactions_MissingOrEmptyFile(t *testing.T) {
	txns, err := ReadTransactions(filepath.Join(t.TempDir(), "nope.csv"), ',', nil)
	require.NoError(t, err)
	assert.NotNil(t, txns)
	assert.Empty(t, txns)

	txns, err = ReadTransactions(writeCSV(t, "empty.csv", "  \n"), ',', nil)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestReadTransactions_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
		source  string
	}{
		{
			name:    "missing required column",
			content: "date,description\n2024-01-01,X\n",
			field:   "header",
		},
		{
			name:    "malformed signed amount",
			content: "date,description,amount_signed,amount_spend\n2024-01-01,A,-1,1\n2024-01-02,B,abc,1\n",
			field:   "amount_signed",
			source:  ":3",
		},
		{
			name:    "malformed spend amount",
			content: "date,description,amount_signed,amount_spend\n2024-01-01,A,-1,one\n",
			field:   "amount_spend",
			source:  ":2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTransactions(writeCSV(t, "bad.csv", tt.content), ',', nil)
			require.Error(t, err)

			var pErr *parsererror.ParseError
			require.True(t, errors.As(err, &pErr))
			assert.Equal(t, tt.field, pErr.Field)
			if tt.source != "" {
				assert.True(t, strings.HasSuffix(pErr.Source, tt.source), pErr.Source)
			}
		})
	}
}

func TestWriteTransactions_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "categorized.csv")
	txns := []models.Transaction{
		{
			TxnID:        "id-1",
			Date:         models.NewTxnDate("2024-01-15"),
			Description:  "WHOLE FOODS, AUSTIN",
			AmountSigned: decimal.RequireFromString("-54.2"),
			AmountSpend:  decimal.RequireFromString("54.2"),
			Category:     models.CategoryGroceries,
			Merchant:     "WHOLE FOODS",
			Source:       "checking",
		},
		{
			TxnID:        "id-2",
			Date:         models.NewTxnDate("2024-01-16 08:30:00"),
			Description:  "ACME PAYROLL",
			AmountSigned: decimal.RequireFromString("2500"),
			AmountSpend:  decimal.Zero,
			Category:     models.CategoryIncome,
			Merchant:     "ACME PAYROLL",
			Source:       "checking",
		},
	}

	logger := logging.NewMockLogger()
	require.NoError(t, WriteTransactions(path, txns, ';', logger))
	assert.True(t, logger.HasEntry("INFO", "Wrote transactions"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "txn_id;date;description;amount_signed;amount_spend;category;merchant;source", lines[0])
	assert.Equal(t, "id-1;2024-01-15;WHOLE FOODS, AUSTIN;-54.2;54.2;Groceries;WHOLE FOODS;checking", lines[1])
	assert.Equal(t, "id-2;2024-01-16 08:30:00;ACME PAYROLL;2500;0;Income;ACME PAYROLL;checking", lines[2])

	back, err := ReadTransactions(path, ';', nil)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range txns {
		assert.Equal(t, txns[i].TxnID, back[i].TxnID)
		assert.Equal(t, txns[i].Date.String(), back[i].Date.String())
		assert.Equal(t, txns[i].Category, back[i].Category)
		assert.True(t, txns[i].AmountSigned.Equal(back[i].AmountSigned))
	}
}

func TestWriteTransactions_KeepsAmountPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categorized.csv")
	txns := []models.Transaction{{
		TxnID:        "id-1",
		Date:         models.NewTxnDate("2024-01-15"),
		Description:  "FX PURCHASE",
		AmountSigned: decimal.RequireFromString("-12.345"),
		AmountSpend:  decimal.RequireFromString("12.345"),
		Category:     models.CategoryShopping,
		Source:       "amex",
	}}
	require.NoError(t, WriteTransactions(path, txns, ',', nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), ",-12.345,12.345,")

	back, err := ReadTransactions(path, ',', nil)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "-12.345", back[0].AmountSigned.String())
	assert.Equal(t, "12.345", back[0].AmountSpend.String())
}

func TestWriteTransactions_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categorized.csv")
	require.NoError(t, WriteTransactions(path, nil, ',', nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "txn_id,date,description,amount_signed,amount_spend,category,merchant,source\n", string(raw))

	txns, err := ReadTransactions(path, ',', nil)
	require.NoError(t, err)
	assert.Empty(t, txns)
}
