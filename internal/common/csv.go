// Package common provides the dataset CSV reader and writer shared by the
// commands.
package common

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/expense-analyzer/internal/currencyutils"
	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// RequiredColumns must be present in the header of a cleaned dataset.
var RequiredColumns = []string{"date", "description", "amount_signed"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// datasetRow is the on-disk shape of a transaction. Amounts stay strings so a
// malformed cell can be reported with its line number.
type datasetRow struct {
	TxnID        string `csv:"txn_id"`
	Date         string `csv:"date"`
	Description  string `csv:"description"`
	AmountSigned string `csv:"amount_signed"`
	AmountSpend  string `csv:"amount_spend"`
	Category     string `csv:"category"`
	Merchant     string `csv:"merchant"`
	Source       string `csv:"source"`
}

// ReadTransactions reads a cleaned or categorized dataset. A missing file yields
// an empty slice. Rows without a source get the file's base name; rows without
// an id get a derived one; a blank amount_spend is derived from amount_signed.
func ReadTransactions(filePath string, delimiter rune, logger logging.Logger) ([]models.Transaction, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	log := logger.WithField(logging.FieldFile, filePath)

	data, err := fileutils.ReadFileIfExists(filePath)
	if err != nil {
		return nil, &parsererror.ParseError{Source: filePath, Field: "file", Value: filePath, Err: err}
	}
	if data == nil {
		log.Info("Dataset not found, continuing with no transactions")
		return []models.Transaction{}, nil
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return []models.Transaction{}, nil
	}

	if err := checkHeader(filePath, data, delimiter); err != nil {
		return nil, err
	}

	var rows []datasetRow
	if err := gocsv.UnmarshalCSV(newReader(bytes.NewReader(data), delimiter), &rows); err != nil {
		return nil, &parsererror.ParseError{Source: filePath, Field: "csv", Value: "", Err: err}
	}

	defaultSource := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	txns := make([]models.Transaction, 0, len(rows))
	for i, row := range rows {
		tx, err := row.toTransaction(fmt.Sprintf("%s:%d", filePath, i+2), defaultSource, log)
		if err != nil {
			return nil, err
		}
		txns = append(txns, tx)
	}

	log.Info("Read transactions", logging.Field{Key: logging.FieldCount, Value: len(txns)})
	return txns, nil
}

func checkHeader(filePath string, data []byte, delimiter rune) error {
	header, err := newReader(bytes.NewReader(data), delimiter).Read()
	if err != nil {
		return &parsererror.ParseError{Source: filePath, Field: "header", Value: "", Err: err}
	}
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	for _, col := range RequiredColumns {
		if !present[col] {
			return &parsererror.ParseError{
				Source: filePath,
				Field:  "header",
				Value:  strings.Join(header, string(delimiter)),
				Err:    fmt.Errorf("missing required column %s", col),
			}
		}
	}
	return nil
}

func newReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.TrimLeadingSpace = true
	return reader
}

func (row datasetRow) toTransaction(location, defaultSource string, log logging.Logger) (models.Transaction, error) {
	signed, err := currencyutils.ParseAmount(row.AmountSigned)
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{Source: location, Field: "amount_signed", Value: row.AmountSigned, Err: err}
	}

	var spend decimal.Decimal
	if strings.TrimSpace(row.AmountSpend) == "" {
		spend = decimal.Max(signed.Neg(), decimal.Zero)
	} else if spend, err = currencyutils.ParseAmount(row.AmountSpend); err != nil {
		return models.Transaction{}, &parsererror.ParseError{Source: location, Field: "amount_spend", Value: row.AmountSpend, Err: err}
	}

	tx := models.Transaction{
		TxnID:        strings.TrimSpace(row.TxnID),
		Date:         models.NewTxnDate(row.Date),
		Description:  row.Description,
		AmountSigned: signed,
		AmountSpend:  spend,
		Merchant:     row.Merchant,
		Source:       strings.TrimSpace(row.Source),
	}
	if !tx.Date.Valid {
		log.Debug("Unparseable date kept verbatim", logging.Field{Key: "location", Value: location})
	}
	if tx.Source == "" {
		tx.Source = defaultSource
	}
	if label := strings.TrimSpace(row.Category); label != "" {
		if c, err := models.ParseCategory(label); err == nil {
			tx.Category = c
		} else {
			tx.Category = models.Category(label)
		}
	}
	tx.EnsureID()
	return tx, nil
}

// WriteTransactions replaces filePath with the categorized dataset. The file is
// written atomically; an empty slice produces a header-only file.
func WriteTransactions(filePath string, txns []models.Transaction, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	rows := make([]datasetRow, len(txns))
	for i, tx := range txns {
		rows[i] = datasetRow{
			TxnID:        tx.TxnID,
			Date:         tx.Date.String(),
			Description:  tx.Description,
			AmountSigned: tx.AmountSigned.String(),
			AmountSpend:  tx.AmountSpend.String(),
			Category:     tx.Category.String(),
			Merchant:     tx.Merchant,
			Source:       tx.Source,
		}
	}

	err := fileutils.WriteAtomic(filePath, models.PermissionReportFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		csvWriter.Comma = delimiter
		if len(rows) == 0 {
			return writeHeaderOnly(csvWriter)
		}
		return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter))
	})
	if err != nil {
		logger.WithError(err).Error("Failed to write transactions", logging.Field{Key: logging.FieldFile, Value: filePath})
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("Wrote transactions",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(delimiter)})
	return nil
}

// writeHeaderOnly emits the column header for an empty dataset.
func writeHeaderOnly(w *csv.Writer) error {
	if err := w.Write([]string{"txn_id", "date", "description", "amount_signed", "amount_spend", "category", "merchant", "source"}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
