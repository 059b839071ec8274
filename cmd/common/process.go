// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"io"

	dataset "fjacquet/expense-analyzer/internal/common"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"
)

// Recompute reads the cleaned dataset, categorizes every transaction against
// the current rule stores and replaces the categorized dataset. A missing
// cleaned dataset produces an empty categorized file.
func Recompute(c *container.Container) ([]models.Transaction, error) {
	cfg := c.GetConfig()
	log := c.GetLogger().WithFields(
		logging.Field{Key: logging.FieldInputFile, Value: cfg.CleanFilePath()},
		logging.Field{Key: logging.FieldOutputFile, Value: cfg.CategorizedFilePath()})

	clean, err := dataset.ReadTransactions(cfg.CleanFilePath(), cfg.Delimiter(), c.GetLogger())
	if err != nil {
		return nil, fmt.Errorf("error reading cleaned dataset: %w", err)
	}

	categorized, err := c.GetEngine().Categorize(clean)
	if err != nil {
		return nil, err
	}

	if err := dataset.WriteTransactions(cfg.CategorizedFilePath(), categorized, cfg.Delimiter(), c.GetLogger()); err != nil {
		return nil, err
	}

	log.Info("Recompute completed", logging.Field{Key: logging.FieldCount, Value: len(categorized)})
	return categorized, nil
}

// LoadCategorized returns the categorized dataset. When it has not been written
// yet the cleaned dataset is categorized in memory without touching the disk.
func LoadCategorized(c *container.Container) ([]models.Transaction, error) {
	cfg := c.GetConfig()
	if fileutils.FileExists(cfg.CategorizedFilePath()) {
		txns, err := dataset.ReadTransactions(cfg.CategorizedFilePath(), cfg.Delimiter(), c.GetLogger())
		if err != nil {
			return nil, fmt.Errorf("error reading categorized dataset: %w", err)
		}
		return txns, nil
	}

	c.GetLogger().Debug("Categorized dataset missing, categorizing in memory",
		logging.Field{Key: logging.FieldFile, Value: cfg.CategorizedFilePath()})
	clean, err := dataset.ReadTransactions(cfg.CleanFilePath(), cfg.Delimiter(), c.GetLogger())
	if err != nil {
		return nil, fmt.Errorf("error reading cleaned dataset: %w", err)
	}
	return c.GetEngine().Categorize(clean)
}

// Render writes v in the requested output format.
func Render(c *container.Container, w io.Writer, v interface{}, format string) error {
	return c.GetReportGenerator().Render(w, v, format)
}
