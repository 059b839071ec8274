package models

import (
	"testing"

	"fjacquet/expense-analyzer/internal/logging"

	"github.com/stretchr/testify/assert"
)

func TestCategorizationStats(t *testing.T) {
	stats := NewCategorizationStats()
	assert.Equal(t, 0.0, stats.GetSuccessRate())

	stats.Record(StrategyException)
	stats.Record(StrategyOverride)
	stats.Record(StrategyHeuristic)
	stats.Record("")

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Exceptions)
	assert.Equal(t, 1, stats.Overrides)
	assert.Equal(t, 1, stats.Heuristics)
	assert.Equal(t, 1, stats.Uncategorized)
	assert.InDelta(t, 75.0, stats.GetSuccessRate(), 0.001)

	logger := logging.NewMockLogger()
	stats.LogSummary(logger)
	assert.True(t, logger.HasEntry("INFO", "Categorization summary"))

	assert.NotPanics(t, func() { stats.LogSummary(nil) })
}
