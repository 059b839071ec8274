package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// OverrideFile keeps merchant override rules in a YAML mapping of merchant key
// to category. A path ending in .json is written as JSON instead; JSON is read
// through the YAML decoder since it is a subset of YAML.
type OverrideFile struct {
	path   string
	logger logging.Logger
}

// NewOverrideFile creates a file-backed override rule store.
func NewOverrideFile(path string, logger logging.Logger) *OverrideFile {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &OverrideFile{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *OverrideFile) Path() string {
	return s.path
}

// Load reads the whole override table.
func (s *OverrideFile) Load() (map[string]models.Category, error) {
	data, err := fileutils.ReadFileIfExists(s.path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.logger.Debug("Override rules file missing or empty",
			logging.Field{Key: logging.FieldFile, Value: s.path})
		return map[string]models.Category{}, nil
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &parsererror.TableError{
			Path:   s.path,
			Reason: "expected a mapping of merchant to category",
			Err:    err,
		}
	}

	table, err := decodeTable(s.path, raw)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Loaded override rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return table, nil
}

// Save replaces the whole override table on disk.
func (s *OverrideFile) Save(table map[string]models.Category) error {
	raw := make(map[string]string, len(table))
	for k, v := range table {
		raw[k] = string(v)
	}

	var (
		data []byte
		err  error
	)
	if s.isJSON() {
		data, err = json.MarshalIndent(raw, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(raw)
	}
	if err != nil {
		return fmt.Errorf("error marshaling override rules: %w", err)
	}

	if err := fileutils.WriteFileAtomic(s.path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing override rules: %w", err)
	}

	s.logger.Debug("Saved override rules",
		logging.Field{Key: logging.FieldFile, Value: s.path},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return nil
}

func (s *OverrideFile) isJSON() bool {
	return strings.EqualFold(filepath.Ext(s.path), ".json")
}
