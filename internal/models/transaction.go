package models

import (
	"strings"
	"time"

	"fjacquet/expense-analyzer/internal/dateutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// txnNamespace scopes the name-based identifiers derived for transactions
// imported without a txn_id.
var txnNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("expense-analyzer/transactions"))

// Transaction is one cleaned bank or card movement.
type Transaction struct {
	TxnID        string          `csv:"txn_id" json:"txn_id" yaml:"txn_id"`
	Date         TxnDate         `csv:"date" json:"date" yaml:"date"`
	Description  string          `csv:"description" json:"description" yaml:"description"`
	AmountSigned decimal.Decimal `csv:"amount_signed" json:"amount_signed" yaml:"amount_signed"`
	AmountSpend  decimal.Decimal `csv:"amount_spend" json:"amount_spend" yaml:"amount_spend"`
	Category     Category        `csv:"category" json:"category" yaml:"category"`
	Merchant     string          `csv:"merchant" json:"merchant" yaml:"merchant"`
	Source       string          `csv:"source" json:"source" yaml:"source"`
}

// TransactionID derives the stable identifier of a transaction from its raw
// date, description and signed amount. Re-importing the same row yields the same id.
func TransactionID(rawDate, description string, amountSigned decimal.Decimal) string {
	name := strings.Join([]string{
		strings.TrimSpace(rawDate),
		strings.TrimSpace(description),
		amountSigned.StringFixed(2),
	}, "|")
	return uuid.NewSHA1(txnNamespace, []byte(name)).String()
}

// EnsureID fills TxnID when the source row did not carry one.
func (t *Transaction) EnsureID() {
	if strings.TrimSpace(t.TxnID) == "" {
		t.TxnID = TransactionID(t.Date.Raw, t.Description, t.AmountSigned)
	}
}

// IsSpend reports whether the transaction counts towards spend aggregates.
func (t Transaction) IsSpend() bool {
	return t.Category.IsSpend()
}

// AmountSpendFloat returns the spend magnitude as float64 for reporting.
func (t Transaction) AmountSpendFloat() float64 {
	f, _ := t.AmountSpend.Float64()
	return f
}

// TxnDate is a transaction timestamp that remembers its raw text. A value that
// does not parse is kept verbatim and reported invalid instead of failing the row.
type TxnDate struct {
	Raw   string
	Time  time.Time
	Valid bool
}

// NewTxnDate parses raw with the dataset date layouts.
func NewTxnDate(raw string) TxnDate {
	d := TxnDate{Raw: raw}
	if t, err := dateutils.ParseDateString(raw); err == nil {
		d.Time = t
		d.Valid = true
	}
	return d
}

// YearMonth returns the calendar month of a valid date.
func (d TxnDate) YearMonth() (YearMonth, bool) {
	if !d.Valid {
		return YearMonth{}, false
	}
	return YearMonthOf(d.Time), true
}

// String renders valid dates canonically and invalid ones verbatim.
func (d TxnDate) String() string {
	if !d.Valid {
		return d.Raw
	}
	if d.Time.Hour() == 0 && d.Time.Minute() == 0 && d.Time.Second() == 0 {
		return d.Time.Format(dateutils.DateLayoutISO)
	}
	return d.Time.Format(dateutils.DateLayoutFull)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d TxnDate) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller. It never fails.
func (d *TxnDate) UnmarshalCSV(raw string) error {
	*d = NewTxnDate(raw)
	return nil
}

// MarshalText lets json and yaml encoders render the date like the CSV does.
func (d TxnDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText mirrors UnmarshalCSV.
func (d *TxnDate) UnmarshalText(raw []byte) error {
	*d = NewTxnDate(string(raw))
	return nil
}
