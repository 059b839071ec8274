package models

import (
	"fjacquet/expense-analyzer/internal/logging"
)

// CategorizationStats counts which rule layer decided each transaction of a run
type CategorizationStats struct {
	Total         int
	Exceptions    int
	Overrides     int
	Heuristics    int
	Uncategorized int
}

// NewCategorizationStats creates a new CategorizationStats instance
func NewCategorizationStats() *CategorizationStats {
	return &CategorizationStats{}
}

// Record accounts one transaction decided by the named layer. An empty name
// means nothing matched.
func (cs *CategorizationStats) Record(strategy string) {
	cs.Total++
	switch strategy {
	case StrategyException:
		cs.Exceptions++
	case StrategyOverride:
		cs.Overrides++
	case StrategyHeuristic:
		cs.Heuristics++
	default:
		cs.Uncategorized++
	}
}

// GetSuccessRate is the percentage of transactions that received a category
func (cs CategorizationStats) GetSuccessRate() float64 {
	if cs.Total == 0 {
		return 0.0
	}
	return float64(cs.Total-cs.Uncategorized) / float64(cs.Total) * 100.0
}

// LogSummary logs a summary of categorization statistics
func (cs CategorizationStats) LogSummary(logger logging.Logger) {
	if logger == nil {
		return
	}

	logger.Info("Categorization summary",
		logging.Field{Key: logging.FieldCount, Value: cs.Total},
		logging.Field{Key: "exceptions", Value: cs.Exceptions},
		logging.Field{Key: "overrides", Value: cs.Overrides},
		logging.Field{Key: "heuristics", Value: cs.Heuristics},
		logging.Field{Key: "uncategorized", Value: cs.Uncategorized},
		logging.Field{Key: "success_rate", Value: cs.GetSuccessRate()},
	)
}
