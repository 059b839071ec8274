// Package container provides dependency injection for the expense-analyzer
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"
	"os"

	"fjacquet/expense-analyzer/internal/categorizer"
	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/merchant"
	"fjacquet/expense-analyzer/internal/report"
	"fjacquet/expense-analyzer/internal/store"
	"fjacquet/expense-analyzer/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	overrides  store.RuleStore
	exceptions store.RuleStore
	engine     *categorizer.Engine
	reports    *report.Generator

	// db is set for the sqlite backend only
	db *store.SQLiteDB
}

// NewContainer creates and wires all application dependencies with a logger
// built from the configuration.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}

	c := &Container{logger: logger, config: cfg}

	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := store.OpenSQLite(cfg.SQLiteFilePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open rule database: %w", err)
		}
		c.db = db
		c.overrides = db.Overrides()
		c.exceptions = db.Exceptions()
	default:
		c.overrides = store.NewOverrideFile(cfg.OverridesFilePath(), logger)
		c.exceptions = store.NewExceptionFile(cfg.OneOffFilePath(), logger)
		c.warnPermissions(cfg.OverridesFilePath())
		c.warnPermissions(cfg.OneOffFilePath())
	}

	heuristics := categorizer.DefaultHeuristics()
	if keywordsPath := cfg.KeywordsFilePath(); keywordsPath != "" {
		keywordRules, err := categorizer.LoadKeywordRules(keywordsPath, logger)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to load keyword rules: %w", err)
		}
		heuristics = heuristics.Prepend(keywordRules...)
	}

	normalizer := merchant.NewNormalizer(cfg.Categorization.NoiseTokens...)
	c.engine = categorizer.NewEngine(c.overrides, c.exceptions, heuristics, normalizer, logger)
	c.reports = report.NewGenerator(logger)

	logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldStore, Value: cfg.Store.Backend},
		logging.Field{Key: "heuristic_rules", Value: len(heuristics)})

	return c, nil
}

// warnPermissions flags rule tables readable by other users.
func (c *Container) warnPermissions(path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
		c.logger.Warn(err.Error(), logging.Field{Key: logging.FieldFile, Value: path})
	}
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetOverrides returns the merchant override rule store.
func (c *Container) GetOverrides() store.RuleStore {
	return c.overrides
}

// GetExceptions returns the one-off exception store.
func (c *Container) GetExceptions() store.RuleStore {
	return c.exceptions
}

// GetEngine returns the categorization engine.
func (c *Container) GetEngine() *categorizer.Engine {
	return c.engine
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close releases the rule database when the sqlite backend is in use.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
