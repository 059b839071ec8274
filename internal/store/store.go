// Package store persists the two user-maintained rule tables: merchant override
// rules and one-off transaction exceptions.
//
// Both tables are small key to category mappings that are always read and written
// whole. Save replaces the entire table; there is no partial update on disk.
package store

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/parsererror"
)

// RuleStore loads and saves a complete key to category table.
//
// Load returns an empty mapping when the backing store does not exist yet and a
// *parsererror.TableError when its content is malformed.
type RuleStore interface {
	Load() (map[string]models.Category, error)
	Save(table map[string]models.Category) error
}

// Put sets one entry, last write wins, and saves the whole table.
func Put(s RuleStore, key string, category models.Category) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("rule key must not be empty")
	}
	if !category.IsValid() {
		return fmt.Errorf("unknown category '%s'", category)
	}

	table, err := s.Load()
	if err != nil {
		return fmt.Errorf("failed to load table: %w", err)
	}
	table[key] = category

	if err := s.Save(table); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

// Delete removes one entry and saves the whole table. It reports whether the key
// was present; a missing key leaves the table untouched.
func Delete(s RuleStore, key string) (bool, error) {
	table, err := s.Load()
	if err != nil {
		return false, fmt.Errorf("failed to load table: %w", err)
	}
	if _, ok := table[key]; !ok {
		return false, nil
	}
	delete(table, key)

	if err := s.Save(table); err != nil {
		return false, fmt.Errorf("failed to save table: %w", err)
	}
	return true, nil
}

// SortedKeys returns the keys of table in ascending order.
func SortedKeys(table map[string]models.Category) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// decodeTable validates raw entries read from path and maps them onto the
// category vocabulary. Any bad entry fails the whole load.
func decodeTable(path string, raw map[string]string) (map[string]models.Category, error) {
	table := make(map[string]models.Category, len(raw))
	for key, label := range raw {
		if err := putDecoded(table, path, key, label); err != nil {
			return nil, err
		}
	}
	return table, nil
}

func putDecoded(table map[string]models.Category, path, key, label string) error {
	if strings.TrimSpace(key) == "" {
		return &parsererror.TableError{Path: path, Reason: "empty key"}
	}
	category, err := models.ParseCategory(label)
	if err != nil {
		return &parsererror.TableError{Path: path, Key: key, Reason: "invalid category", Err: err}
	}
	table[key] = category
	return nil
}

func cloneTable(table map[string]models.Category) map[string]models.Category {
	out := make(map[string]models.Category, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}
