// Package report renders engine results as text tables, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/expense-analyzer/internal/forecast"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/store"
	"fjacquet/expense-analyzer/internal/summary"
	"fjacquet/expense-analyzer/internal/validation"

	"gopkg.in/yaml.v3"
)

// Overview bundles the totals and the category breakdown printed by the
// summary command.
type Overview struct {
	Totals     summary.Totals          `json:"totals" yaml:"totals"`
	Categories []summary.CategoryTotal `json:"categories" yaml:"categories"`
}

// ForecastReport bundles the total projection with the per-category ones.
type ForecastReport struct {
	Total      forecast.TotalForecast      `json:"total" yaml:"total"`
	Categories []forecast.CategoryForecast `json:"categories" yaml:"categories"`
}

// RuleTable is a rule store snapshot keyed by merchant or transaction id.
type RuleTable struct {
	KeyHeader string
	Rules     map[string]models.Category
}

// MarshalJSON emits the bare key to category map.
func (t RuleTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Rules)
}

// MarshalYAML emits the bare key to category map.
func (t RuleTable) MarshalYAML() (interface{}, error) {
	return t.Rules, nil
}

// Generator renders reports in the supported output formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a new instance of Generator.
func NewGenerator(logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Generator{logger: logger.WithField("component", "report")}
}

// Render writes v to w in the given format (text, json or yaml).
func (g *Generator) Render(w io.Writer, v interface{}, format string) error {
	switch format {
	case validation.FormatJSON:
		return g.renderJSON(w, v)
	case validation.FormatYAML:
		return g.renderYAML(w, v)
	case validation.FormatText, "":
		return g.renderText(w, v)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) renderJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func (g *Generator) renderYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return enc.Close()
}

func (g *Generator) renderText(w io.Writer, v interface{}) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch r := v.(type) {
	case ForecastReport:
		writeTotalForecast(tw, r.Total)
		fmt.Fprintln(tw)
		writeCategoryForecasts(tw, r.Categories)
	case forecast.TotalForecast:
		writeTotalForecast(tw, r)
	case []forecast.CategoryForecast:
		writeCategoryForecasts(tw, r)
	case Overview:
		writeTotals(tw, r.Totals)
		fmt.Fprintln(tw)
		writeCategoryTotals(tw, r.Categories)
	case summary.Totals:
		writeTotals(tw, r)
	case []summary.CategoryTotal:
		writeCategoryTotals(tw, r)
	case []summary.DailyTotal:
		fmt.Fprintln(tw, "DATE\tAMOUNT")
		for _, d := range r {
			fmt.Fprintf(tw, "%s\t%.2f\n", d.Date, d.Amount)
		}
	case []summary.MerchantInfo:
		writeMerchants(tw, r)
	case summary.Range:
		fmt.Fprintf(tw, "From:\t%s\nTo:\t%s\n", r.Min, r.Max)
	case []string:
		for _, line := range r {
			fmt.Fprintln(tw, line)
		}
	case []models.Transaction:
		writeTransactions(tw, r)
	case RuleTable:
		writeRules(tw, r)
	default:
		return fmt.Errorf("no text layout for %T", v)
	}

	return tw.Flush()
}

func writeTotalForecast(w io.Writer, f forecast.TotalForecast) {
	if f.Insufficient {
		fmt.Fprintln(w, "Projected spend:\tinsufficient data")
		return
	}
	fmt.Fprintf(w, "Projected spend:\t%.2f\n", f.ProjectedAmount)
	fmt.Fprintf(w, "Confidence band:\t%.2f - %.2f\n", f.ConfidenceLow, f.ConfidenceHigh)
	fmt.Fprintf(w, "Std deviation:\t%.2f\n", f.StdDev)
	fmt.Fprintf(w, "Months used:\t%d\n", f.MonthsUsed)
	for _, m := range f.Months {
		fmt.Fprintf(w, "  %s\t%.2f\n", m.Month, m.Amount)
	}
}

func writeCategoryForecasts(w io.Writer, rows []forecast.CategoryForecast) {
	fmt.Fprintln(w, "CATEGORY\tAVG\tSTD DEV\tLOW\tHIGH\tMONTHS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%d\n",
			r.Category, r.AvgSpend, r.StdDev, r.ConfidenceLow, r.ConfidenceHigh, r.NumMonths)
	}
}

func writeTotals(w io.Writer, t summary.Totals) {
	fmt.Fprintf(w, "Total income:\t%.2f\n", t.TotalIncome)
	fmt.Fprintf(w, "Total spend:\t%.2f\n", t.TotalSpend)
	fmt.Fprintf(w, "Net balance:\t%.2f\n", t.NetBalance)
	fmt.Fprintf(w, "Transactions:\t%d\n", t.TotalTransactions)
}

func writeCategoryTotals(w io.Writer, rows []summary.CategoryTotal) {
	fmt.Fprintln(w, "CATEGORY\tAMOUNT\tSHARE\tCOUNT")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%.1f%%\t%d\n", r.Category, r.Amount, r.Percentage, r.Count)
	}
}

func writeMerchants(w io.Writer, rows []summary.MerchantInfo) {
	fmt.Fprintln(w, "MERCHANT\tCATEGORY\tLATEST")
	for _, m := range rows {
		latest := ""
		if len(m.Samples) > 0 {
			latest = fmt.Sprintf("%s %.2f", m.Samples[0].Date, m.Samples[0].Amount)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.CurrentCategory, latest)
	}
}

func writeTransactions(w io.Writer, txns []models.Transaction) {
	fmt.Fprintln(w, "DATE\tMERCHANT\tCATEGORY\tSPEND\tSIGNED\tSOURCE\tTXN ID")
	for _, tx := range txns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.Date, tx.Merchant, tx.Category,
			tx.AmountSpend.StringFixed(2), tx.AmountSigned.StringFixed(2), tx.Source, tx.TxnID)
	}
}

func writeRules(w io.Writer, t RuleTable) {
	header := t.KeyHeader
	if header == "" {
		header = "KEY"
	}
	fmt.Fprintf(w, "%s\tCATEGORY\n", header)
	for _, key := range store.SortedKeys(t.Rules) {
		fmt.Fprintf(w, "%s\t%s\n", key, t.Rules[key])
	}
}
