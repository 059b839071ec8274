package categorizer

import (
	"fjacquet/expense-analyzer/internal/models"
)

// Strategy is one layer of the categorization precedence chain.
type Strategy interface {
	// Categorize returns the category this layer assigns to tx, if any.
	// tx.Merchant is already normalized when strategies run.
	Categorize(tx models.Transaction) (models.Category, bool)

	// Name returns the name of this strategy for logging and statistics.
	Name() string
}

// Snapshot is the state of both rule tables at the start of a run.
type Snapshot struct {
	Exceptions map[string]models.Category
	Overrides  map[string]models.Category
}

// Decision records which strategy categorized a transaction.
type Decision struct {
	Strategy string
	Category models.Category
}

// Found reports whether any strategy matched.
func (d Decision) Found() bool {
	return d.Strategy != ""
}

// decide runs strategies in order; the first match wins.
func decide(tx models.Transaction, strategies []Strategy) Decision {
	for _, s := range strategies {
		if category, ok := s.Categorize(tx); ok {
			return Decision{Strategy: s.Name(), Category: category}
		}
	}
	return Decision{Category: models.CategoryUncategorized}
}

// ExceptionStrategy applies one-off exceptions keyed by transaction id.
type ExceptionStrategy struct {
	exceptions map[string]models.Category
}

// NewExceptionStrategy creates a new ExceptionStrategy instance.
func NewExceptionStrategy(exceptions map[string]models.Category) *ExceptionStrategy {
	return &ExceptionStrategy{exceptions: exceptions}
}

// Name returns the name of this strategy for logging and debugging.
func (s *ExceptionStrategy) Name() string {
	return models.StrategyException
}

// Categorize looks up tx.TxnID in the exception table.
func (s *ExceptionStrategy) Categorize(tx models.Transaction) (models.Category, bool) {
	if tx.TxnID == "" {
		return "", false
	}
	category, ok := s.exceptions[tx.TxnID]
	return category, ok
}

// OverrideStrategy applies user override rules keyed by normalized merchant.
type OverrideStrategy struct {
	overrides map[string]models.Category
}

// NewOverrideStrategy creates a new OverrideStrategy instance.
func NewOverrideStrategy(overrides map[string]models.Category) *OverrideStrategy {
	return &OverrideStrategy{overrides: overrides}
}

// Name returns the name of this strategy for logging and debugging.
func (s *OverrideStrategy) Name() string {
	return models.StrategyOverride
}

// Categorize looks up tx.Merchant in the override table.
func (s *OverrideStrategy) Categorize(tx models.Transaction) (models.Category, bool) {
	if tx.Merchant == "" {
		return "", false
	}
	category, ok := s.overrides[tx.Merchant]
	return category, ok
}

// HeuristicStrategy applies the ordered built-in pattern table.
type HeuristicStrategy struct {
	table HeuristicTable
}

// NewHeuristicStrategy creates a new HeuristicStrategy instance.
func NewHeuristicStrategy(table HeuristicTable) *HeuristicStrategy {
	return &HeuristicStrategy{table: table}
}

// Name returns the name of this strategy for logging and debugging.
func (s *HeuristicStrategy) Name() string {
	return models.StrategyHeuristic
}

// Categorize returns the category of the first rule matching the description
// or the merchant key.
func (s *HeuristicStrategy) Categorize(tx models.Transaction) (models.Category, bool) {
	rule, ok := s.table.Match(tx.Description, tx.Merchant)
	if !ok {
		return "", false
	}
	return rule.Category, true
}
