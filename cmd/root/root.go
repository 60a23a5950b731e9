// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"

	"fjacquet/moze-ledger/internal/config"
	"fjacquet/moze-ledger/internal/container"
	"fjacquet/moze-ledger/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags shared by every command.
type CommonFlags struct {
	Format   string
	LogLevel string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.GetLogger()

	// AppConfig is loaded before any sub-command runs.
	AppConfig *config.Config

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "moze-ledger",
		Short: "Reconcile MOZE bookkeeping exports into a budget ledger and project the year ahead.",
		Long: `moze-ledger imports MOZE CSV exports, classifies every transaction against
your recurring budget items, settles receivables, rebuilds the monthly ledger
and projects cash flow and net worth for a calendar year.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to moze-ledger!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv(Log)
			cfg, err := config.InitializeConfig()
			if err != nil {
				return err
			}
			if SharedFlags.LogLevel != "" {
				cfg.Log.Level = SharedFlags.LogLevel
			}
			AppConfig = cfg
			Log = config.NewLoggerFromConfig(cfg)
			logging.SetLogger(Log)
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Format, "format", "f", "text", "Output format (text, json, csv)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override the configured log level")
}

// NewContainer wires the application around the loaded configuration.
func NewContainer(ctx context.Context) (*container.Container, error) {
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return container.NewContainer(ctx, AppConfig)
}

// Context returns the command context, or a background context when the
// command was executed without one.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
