package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/phrazzld/uranai-api/internal/config"
	"github.com/phrazzld/uranai-api/internal/platform/logger"
)

// cliOptions are the persistent flags shared by every subcommand.
type cliOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:   "uranai",
		Short: "Divination calculators and uranai-api operations",
		Long: `uranai runs the numerology, four-pillars, sanmei, animal-fortune and
MBTI calculators from the command line and manages the uranai-api database.

Configuration is read like the server reads it: an optional config file,
then URANAI_* environment variables.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ./config.yaml when present)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newCalcCmd(opts),
		newMigrateCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

// loadConfig reads configuration from the --config file or the defaults.
func (o *cliOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logger writes JSON logs to the command's stderr.
func (o *cliOptions) logger(cmd *cobra.Command) *slog.Logger {
	level, _ := logger.ParseLevel(o.logLevel)
	return logger.New(cmd.ErrOrStderr(), level)
}
