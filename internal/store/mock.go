package store

import (
	"fjacquet/expense-analyzer/internal/models"
)

// MockRuleStore is an in-memory RuleStore for tests.
type MockRuleStore struct {
	Table map[string]models.Category

	// Error flags for testing error conditions
	LoadError error
	SaveError error

	LoadCalls int
	SaveCalls int
}

// NewMockRuleStore returns a mock seeded with a copy of table.
func NewMockRuleStore(table map[string]models.Category) *MockRuleStore {
	return &MockRuleStore{Table: cloneTable(table)}
}

// Load returns a copy of the mock table.
func (m *MockRuleStore) Load() (map[string]models.Category, error) {
	m.LoadCalls++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	return cloneTable(m.Table), nil
}

// Save replaces the mock table with a copy of table.
func (m *MockRuleStore) Save(table map[string]models.Category) error {
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Table = cloneTable(table)
	return nil
}

var (
	_ RuleStore = (*MockRuleStore)(nil)
	_ RuleStore = (*OverrideFile)(nil)
	_ RuleStore = (*ExceptionFile)(nil)
)
