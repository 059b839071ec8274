package categorizer

import (
	"bytes"
	"regexp"
	"strings"

	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"

	"gopkg.in/yaml.v3"
)

// LoadKeywordRules reads a categories file of the form
//
//	categories:
//	  - name: Groceries
//	    keywords: [MIGROS, COOP]
//
// and returns one heuristic rule per category, in file order. Keywords match as
// case-insensitive substrings. A missing or empty file yields no rules.
func LoadKeywordRules(path string, logger logging.Logger) (HeuristicTable, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if path == "" {
		return nil, nil
	}

	data, err := fileutils.ReadFileIfExists(path)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		logger.Debug("No keyword categories file", logging.Field{Key: logging.FieldFile, Value: path})
		return nil, nil
	}

	var config models.CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, &parsererror.TableError{Path: path, Reason: "expected a 'categories' list", Err: err}
	}

	table := make(HeuristicTable, 0, len(config.Categories))
	for _, entry := range config.Categories {
		category, err := models.ParseCategory(entry.Name)
		if err != nil {
			return nil, &parsererror.TableError{Path: path, Key: entry.Name, Reason: "invalid category", Err: err}
		}

		quoted := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				quoted = append(quoted, regexp.QuoteMeta(kw))
			}
		}
		if len(quoted) == 0 {
			continue
		}

		table = append(table, HeuristicRule{
			Name:     "keyword:" + string(category),
			Pattern:  regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`),
			Category: category,
		})
	}

	logger.Info("Loaded keyword categories",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return table, nil
}
