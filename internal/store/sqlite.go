package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	"fjacquet/expense-analyzer/internal/fileutils"
	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"

	_ "modernc.org/sqlite"
)

// Tables managed by SQLiteDB
const (
	TableOverrideRules     = "override_rules"
	TableOneOffExceptions  = "one_off_exceptions"
	overrideRulesKeyColumn = "merchant"
	exceptionsKeyColumn    = "txn_id"
)

// SQLiteDB is a SQLite database holding both rule tables.
type SQLiteDB struct {
	db     *sql.DB
	path   string
	logger logging.Logger
}

// OpenSQLite opens (creating if needed) the database at dbPath and migrates it.
func OpenSQLite(dbPath string, logger logging.Logger) (*SQLiteDB, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(dbPath)); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Debug("Opened rule database", logging.Field{Key: logging.FieldFile, Value: dbPath})
	return &SQLiteDB{db: db, path: dbPath, logger: logger}, nil
}

// Close releases the database handle.
func (d *SQLiteDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// Overrides returns the override rule table as a RuleStore.
func (d *SQLiteDB) Overrides() *SQLiteStore {
	return &SQLiteStore{owner: d, table: TableOverrideRules, keyColumn: overrideRulesKeyColumn}
}

// Exceptions returns the one-off exception table as a RuleStore.
func (d *SQLiteDB) Exceptions() *SQLiteStore {
	return &SQLiteStore{owner: d, table: TableOneOffExceptions, keyColumn: exceptionsKeyColumn}
}

// SQLiteStore is one rule table inside a SQLiteDB.
type SQLiteStore struct {
	owner     *SQLiteDB
	table     string
	keyColumn string
}

// Load reads every row of the table.
func (s *SQLiteStore) Load() (map[string]models.Category, error) {
	// #nosec G201 -- table and column names are package constants
	query := fmt.Sprintf("SELECT %s, category FROM %s", s.keyColumn, s.table)
	rows, err := s.owner.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer func() { _ = rows.Close() }()

	location := s.owner.path + "#" + s.table
	table := make(map[string]models.Category)
	for rows.Next() {
		var key, label string
		if err := rows.Scan(&key, &label); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		if err := putDecoded(table, location, key, label); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", s.table, err)
	}

	return table, nil
}

// Save replaces all rows of the table in a single transaction.
func (s *SQLiteStore) Save(table map[string]models.Category) (err error) {
	tx, err := s.owner.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// #nosec G201 -- table and column names are package constants
	if _, err = tx.Exec(fmt.Sprintf("DELETE FROM %s", s.table)); err != nil {
		return fmt.Errorf("clear %s: %w", s.table, err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO %s (%s, category) VALUES (?, ?)", s.table, s.keyColumn)) // #nosec G201
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", s.table, err)
	}
	defer func() { _ = stmt.Close() }()

	for _, key := range SortedKeys(table) {
		if _, err = stmt.Exec(key, string(table[key])); err != nil {
			return fmt.Errorf("insert into %s: %w", s.table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", s.table, err)
	}

	s.owner.logger.Debug("Saved rule table",
		logging.Field{Key: logging.FieldStore, Value: s.table},
		logging.Field{Key: logging.FieldCount, Value: len(table)})
	return nil
}

var _ RuleStore = (*SQLiteStore)(nil)
