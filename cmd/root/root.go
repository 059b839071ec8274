// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/expense-analyzer/internal/config"
	"fjacquet/expense-analyzer/internal/container"
	"fjacquet/expense-analyzer/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile   string
	LogLevel     string
	LogFormat    string
	CSVDelimiter string
	DataDir      string
	StoreBackend string
}

var (
	// Flags holds the parsed persistent flags
	Flags = GlobalFlags{}

	appContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "expense-analyzer",
		Short: "Categorize personal transactions and forecast monthly spending.",
		Long: `expense-analyzer categorizes a cleaned transaction dataset using one-off exceptions,
merchant override rules and built-in heuristics, then projects next month's spending
and summarizes where the money went.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := Bootstrap(cmd.Flags())
			if err != nil {
				return err
			}
			appContainer = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return Shutdown()
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	pf := Cmd.PersistentFlags()
	pf.StringVar(&Flags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.expense-analyzer, .expense-analyzer or .)")
	pf.StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	pf.StringVar(&Flags.LogFormat, "log-format", "", "Log format (text or json)")
	pf.StringVar(&Flags.CSVDelimiter, "csv-delimiter", "", "CSV delimiter of the datasets")
	pf.StringVar(&Flags.DataDir, "data-dir", "", "Directory holding the datasets and rule tables")
	pf.StringVar(&Flags.StoreBackend, "store-backend", "", "Rule store backend (file or sqlite)")
}

// Bootstrap loads the .env file and the configuration, applies the flags the
// user set explicitly and wires the container.
func Bootstrap(flags *pflag.FlagSet) (*container.Container, error) {
	if _, err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var (
		cfg *config.Config
		err error
	)
	if Flags.ConfigFile != "" {
		cfg, err = config.InitializeConfigFromFile(Flags.ConfigFile)
	} else {
		cfg, err = config.InitializeConfig()
	}
	if err != nil {
		return nil, err
	}

	ApplyFlagOverrides(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return c, nil
}

// ApplyFlagOverrides copies the flags that were set on the command line over
// the loaded configuration.
func ApplyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	if flags == nil {
		return
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = Flags.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = Flags.LogFormat
	}
	if flags.Changed("csv-delimiter") && Flags.CSVDelimiter != "" {
		cfg.CSV.Delimiter = Flags.CSVDelimiter
	}
	if flags.Changed("data-dir") {
		cfg.Data.Directory = Flags.DataDir
	}
	if flags.Changed("store-backend") {
		cfg.Store.Backend = Flags.StoreBackend
	}
}

// Shutdown releases the container of the last run, closing the rule database.
// Cobra skips PersistentPostRunE when RunE fails, so main calls it after
// Execute as well. It is safe to call more than once.
func Shutdown() error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetContainer returns the container wired for the running command.
func GetContainer() (*container.Container, error) {
	if appContainer == nil {
		return nil, fmt.Errorf("application is not initialized")
	}
	return appContainer, nil
}

// GetLogger returns the running command's logger, or a discarding one before
// initialization.
func GetLogger() logging.Logger {
	if appContainer == nil {
		return logging.NewDiscardLogger()
	}
	return appContainer.GetLogger()
}
