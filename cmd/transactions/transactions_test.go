package transactions_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"fjacquet/expense-analyzer/cmd/transactions"
	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanCSV = `date,description,amount_signed,amount_spend,source
2024-01-05,ACME CORP PAYROLL,3000.00,0,checking
2024-01-06,WHOLE FOODS MARKET,-150.00,150.00,checking
2024-01-20,STARBUCKS STORE 99,-12.50,12.50,amex
2024-02-02,CREDIT CARD PAYMENT,-1000.00,1000.00,checking
2024-02-03,WHOLE FOODS MARKET,-50.00,50.00,amex
`

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := config.Defaults()
	cfg.Data.Directory = t.TempDir()
	require.NoError(t, os.WriteFile(cfg.CleanFilePath(), []byte(cleanCSV), 0600))
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c
}

func runJSON(t *testing.T, c *container.Container, o transactions.Options) []models.Transaction {
	t.Helper()
	o.Format = "json"
	var buf bytes.Buffer
	require.NoError(t, transactions.Run(c, &buf, o))
	var out []models.Transaction
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestRun_Filters(t *testing.T) {
	c := newTestContainer(t)

	tests := []struct {
		name    string
		opts    transactions.Options
		wantLen int
	}{
		{name: "everything but transfers", opts: transactions.Options{}, wantLen: 4},
		{name: "with transfers", opts: transactions.Options{IncludeTransfers: true}, wantLen: 5},
		{name: "all expenses", opts: transactions.Options{Category: models.CategoryAllExpenses}, wantLen: 3},
		{name: "lower case category", opts: transactions.Options{Category: "groceries"}, wantLen: 2},
		{name: "merchant search", opts: transactions.Options{MerchantSearch: "starbucks"}, wantLen: 1},
		{name: "source", opts: transactions.Options{Source: "amex"}, wantLen: 2},
		{name: "amount bounds", opts: transactions.Options{MinAmount: "20", MaxAmount: "100"}, wantLen: 1},
		{name: "date range", opts: transactions.Options{Start: "2024-01-06", End: "2024-01-20"}, wantLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, runJSON(t, c, tt.opts), tt.wantLen)
		})
	}
}

func TestRun_IncludesIdentifiers(t *testing.T) {
	c := newTestContainer(t)

	out := runJSON(t, c, transactions.Options{MerchantSearch: "starbucks"})
	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].TxnID)
	assert.Equal(t, models.CategoryDining, out[0].Category)
	assert.Equal(t, "12.5", out[0].AmountSpend.String())
}

func TestRun_TextOutput(t *testing.T) {
	c := newTestContainer(t)

	var buf bytes.Buffer
	require.NoError(t, transactions.Run(c, &buf, transactions.Options{Category: "Groceries"}))
	assert.Contains(t, buf.String(), "TXN ID")
	assert.Contains(t, buf.String(), "2024-02-03")
}

func TestRun_InvalidParameters(t *testing.T) {
	c := newTestContainer(t)

	tests := []struct {
		name      string
		opts      transactions.Options
		wantParam string
	}{
		{name: "negative min amount", opts: transactions.Options{MinAmount: "-5"}, wantParam: "min_amount"},
		{name: "non numeric max amount", opts: transactions.Options{MaxAmount: "lots"}, wantParam: "max_amount"},
		{name: "unknown category", opts: transactions.Options{Category: "Yachts"}, wantParam: "category"},
		{name: "bad start date", opts: transactions.Options{Start: "01/02/2024"}, wantParam: "start_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transactions.Run(c, &bytes.Buffer{}, tt.opts)
			var vErr *parsererror.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.wantParam, vErr.Param)
		})
	}
}
