package categorize_test

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"fjacquet/expense-analyzer/cmd/categorize"
	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanCSV = `date,description,amount_signed,amount_spend,source
2024-01-05,ACME CORP PAYROLL,2000.00,0,checking
2024-01-06,WHOLE FOODS MARKET,-75.00,75.00,checking
2024-01-07,NETFLIX.COM,-25.00,25.00,amex
`

func newTestContainer(t *testing.T) (*container.Container, *logging.MockLogger) {
	t.Helper()
	cfg := config.Defaults()
	cfg.Data.Directory = t.TempDir()
	require.NoError(t, os.WriteFile(cfg.CleanFilePath(), []byte(cleanCSV), 0600))

	logger := logging.NewMockLogger()
	c, err := container.NewContainerWithLogger(cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, logger
}

func TestRun(t *testing.T) {
	c, logger := newTestContainer(t)

	var buf bytes.Buffer
	require.NoError(t, categorize.Run(c, &buf, "json"))

	var out struct {
		Totals struct {
			TotalIncome float64 `json:"total_income"`
			TotalSpend  float64 `json:"total_spend"`
		} `json:"totals"`
		Categories []struct {
			Category   string  `json:"category"`
			Percentage float64 `json:"percentage"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2000.0, out.Totals.TotalIncome)
	assert.Equal(t, 100.0, out.Totals.TotalSpend)
	require.Len(t, out.Categories, 2)
	assert.Equal(t, "Groceries", out.Categories[0].Category)
	assert.Equal(t, 75.0, out.Categories[0].Percentage)
	assert.Equal(t, "Subscriptions", out.Categories[1].Category)

	assert.True(t, fileutils.FileExists(c.GetConfig().CategorizedFilePath()))
	assert.True(t, logger.HasEntry("INFO", "Recompute completed"))
}

func TestRun_TextOutput(t *testing.T) {
	c, _ := newTestContainer(t)

	var buf bytes.Buffer
	require.NoError(t, categorize.Run(c, &buf, ""))
	assert.Contains(t, buf.String(), "Total spend:")
	assert.Contains(t, buf.String(), "Subscriptions")
}

func TestRun_Errors(t *testing.T) {
	c, _ := newTestContainer(t)
	assert.Error(t, categorize.Run(c, &bytes.Buffer{}, "xml"))
	assert.False(t, fileutils.FileExists(c.GetConfig().CategorizedFilePath()))

	cfg := config.Defaults()
	cfg.Data.Directory = t.TempDir()
	require.NoError(t, os.WriteFile(cfg.CleanFilePath(), []byte("foo,bar\n1,2\n"), 0600))
	broken, err := container.NewContainerWithLogger(cfg, logging.NewDiscardLogger())
	require.NoError(t, err)
	defer broken.Close()

	err = categorize.Run(broken, &bytes.Buffer{}, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorization failed")
}
