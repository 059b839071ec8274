package store

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"github.com/gocarina/gocsv"
)

type exceptionRow struct {
	TxnID    string `csv:"txn_id"`
	Category string `csv:"category"`
}

// ExceptionFile keeps one-off exceptions in a two-column CSV file
// (txn_id,category).
type ExceptionFile struct {
	path   string
	logger logging.Logger
}

// NewExceptionFile creates a file-backed one-off exception store.
func NewExceptionFile(path string, logger logging.Logger) *ExceptionFile {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &ExceptionFile{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *ExceptionFile) Path() string {
	return s.path
}

// Load reads the whole exception table.
func (s *ExceptionFile) Load() (map[string]models.Category, error) {
	data, err := fileutils.ReadFileIfExists(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]models.Category{}, nil
	}

	var rows []exceptionRow
	if err := gocsv.UnmarshalCSV(csv.NewReader(bytes.NewReader(data)), &rows); err != nil {
		return nil, &parsererror.TableError{Path: s.path, Reason: "unreadable CSV", Err: err}
	}

	table := make(map[string]models.Category, len(rows))
	for i, row := range rows {
		if strings.TrimSpace(row.TxnID) == "" {
			return nil, &parsererror.TableError{
				Path:   s.path,
				Key:    fmt.Sprintf("line %d", i+2),
				Reason: "empty txn_id",
			}
		}
		if err := putDecoded(table, s.path, row.TxnID, row.Category); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("Loaded one-off exceptions",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return table, nil
}

// Save replaces the whole exception table on disk, rows sorted by txn_id.
func (s *ExceptionFile) Save(table map[string]models.Category) error {
	rows := make([]exceptionRow, 0, len(table))
	for _, k := range SortedKeys(table) {
		rows = append(rows, exceptionRow{TxnID: k, Category: string(table[k])})
	}

	err := fileutils.WriteAtomic(s.path, models.PermissionConfigFile, func(w io.Writer) error {
		return gocsv.MarshalCSV(&rows, gocsv.NewSafeCSVWriter(csv.NewWriter(w)))
	})
	if err != nil {
		return fmt.Errorf("error writing one-off exceptions: %w", err)
	}

	s.logger.Debug("Saved one-off exceptions",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return nil
}
