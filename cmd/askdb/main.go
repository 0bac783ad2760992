package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tordrt/askdb/internal/config"
	"github.com/tordrt/askdb/internal/logging"
)

// app carries the configuration and logger shared by all commands
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "askdb",
		Short: "Read SQL schemas and ask questions about them in plain English",
		Long: `AskDB reads CREATE TABLE statements from files, stdin, a bundled sample, or a live
PostgreSQL, MySQL, or SQLite database, shows the tables with their keys and relationships,
and translates natural-language questions into SQL against that schema.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			a.cfg = cfg

			level := cfg.LogLevel
			if cmd.Flags().Changed("log-level") {
				level = a.logLevel
			}
			a.logger = logging.NewConsole(level, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newParseCmd(a),
		newAskCmd(a),
		newSamplesCmd(),
		newServeCmd(a),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
