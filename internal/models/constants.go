package models

// Default dataset and table file names, relative to the data directory
const (
	DefaultCleanFile       = "transactions_clean.csv"
	DefaultCategorizedFile = "transactions_categorized.csv"
	DefaultOverridesFile   = "config/overrides.yaml"
	DefaultOneOffFile      = "config/one_off_overrides.csv"
	DefaultSQLiteFile      = "expense-analyzer.db"
)

// Filter sentinels accepted by the summaries
const (
	SourceAll           = "All"
	CategoryAllExpenses = "All Expenses"
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// Names of the categorization layers, in precedence order
const (
	StrategyException = "exception"
	StrategyOverride  = "override"
	StrategyHeuristic = "heuristic"
)
