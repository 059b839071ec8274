// Package categorizer assigns exactly one category to every transaction.
//
// Precedence, highest first:
//  1. one-off exception on the transaction id
//  2. override rule on the normalized merchant key
//  3. first matching heuristic rule
//  4. Uncategorized
//
// Categorize is a pure function of its inputs. Engine adds the I/O: it reads a
// snapshot of both rule tables and logs run statistics.
package categorizer

import (
	"fmt"
	"time"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/merchant"
	"fjacquet/expense-analyzer/internal/models"
	"fjacquet/expense-analyzer/internal/store"
)

var defaultNormalizer = merchant.NewNormalizer()

// Categorize returns a categorized copy of txns, same length and order, using the
// default merchant normalizer. txns itself is not modified.
func Categorize(txns []models.Transaction, snap Snapshot, heuristics HeuristicTable) ([]models.Transaction, *models.CategorizationStats) {
	return CategorizeWith(defaultNormalizer, txns, snap, heuristics)
}

// CategorizeWith is Categorize with an explicit normalizer.
func CategorizeWith(n *merchant.Normalizer, txns []models.Transaction, snap Snapshot, heuristics HeuristicTable) ([]models.Transaction, *models.CategorizationStats) {
	return categorize(n, txns, snap, heuristics, logging.NewDiscardLogger())
}

func categorize(n *merchant.Normalizer, txns []models.Transaction, snap Snapshot, heuristics HeuristicTable, logger logging.Logger) ([]models.Transaction, *models.CategorizationStats) {
	strategies := []Strategy{
		NewExceptionStrategy(snap.Exceptions),
		NewOverrideStrategy(snap.Overrides),
		NewHeuristicStrategy(heuristics),
	}

	stats := models.NewCategorizationStats()
	out := make([]models.Transaction, len(txns))
	for i, tx := range txns {
		tx.EnsureID()
		tx.Merchant = n.Normalize(tx.Description)

		d := decide(tx, strategies)
		tx.Category = d.Category
		stats.Record(d.Strategy)
		logDecision(logger, tx, d)

		out[i] = tx
	}
	return out, stats
}

func logDecision(logger logging.Logger, tx models.Transaction, d Decision) {
	if !d.Found() {
		logger.Debug("No rule matched",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.TxnID},
			logging.Field{Key: logging.FieldMerchant, Value: tx.Merchant})
		return
	}
	logger.Debug("Transaction categorized",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.TxnID},
		logging.Field{Key: logging.FieldMerchant, Value: tx.Merchant},
		logging.Field{Key: logging.FieldStrategy, Value: d.Strategy},
		logging.Field{Key: logging.FieldCategory, Value: d.Category.String()})
}

// Engine categorizes batches against the current content of the rule stores.
type Engine struct {
	overrides  store.RuleStore
	exceptions store.RuleStore
	heuristics HeuristicTable
	normalizer *merchant.Normalizer
	logger     logging.Logger
}

// NewEngine creates an Engine. A nil heuristics table means DefaultHeuristics and
// a nil normalizer means the default noise tokens.
func NewEngine(overrides, exceptions store.RuleStore, heuristics HeuristicTable, normalizer *merchant.Normalizer, logger logging.Logger) *Engine {
	if heuristics == nil {
		heuristics = DefaultHeuristics()
	}
	if normalizer == nil {
		normalizer = defaultNormalizer
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Engine{
		overrides:  overrides,
		exceptions: exceptions,
		heuristics: heuristics,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Normalizer returns the merchant normalizer used by the engine.
func (e *Engine) Normalizer() *merchant.Normalizer {
	return e.normalizer
}

// Snapshot loads both rule tables. Either failing aborts the run.
func (e *Engine) Snapshot() (Snapshot, error) {
	exceptions, err := e.exceptions.Load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load one-off exceptions: %w", err)
	}
	overrides, err := e.overrides.Load()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load override rules: %w", err)
	}
	return Snapshot{Exceptions: exceptions, Overrides: overrides}, nil
}

// Categorize runs a full categorization of txns against a fresh snapshot.
func (e *Engine) Categorize(txns []models.Transaction) ([]models.Transaction, error) {
	start := time.Now()

	snap, err := e.Snapshot()
	if err != nil {
		e.logger.WithError(err).Error("Categorization aborted")
		return nil, err
	}

	out, stats := categorize(e.normalizer, txns, snap, e.heuristics, e.logger)

	stats.LogSummary(e.logger.WithField(logging.FieldDuration, time.Since(start).Milliseconds()))
	return out, nil
}
