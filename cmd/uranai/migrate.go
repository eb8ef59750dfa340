package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/uranai-api/internal/platform/postgres"
)

var errNoDatabase = errors.New("database.url is not configured (set URANAI_DATABASE_URL)")

func newMigrateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status|version}",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.Database.Enabled() {
				return errNoDatabase
			}

			log := opts.logger(cmd)
			db, err := postgres.Open(cmd.Context(), cfg.Database.URL, log)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() {
				if cerr := db.Close(); cerr != nil {
					log.Error("error closing database connection", "error", cerr)
				}
			}()

			return postgres.Migrate(cmd.Context(), db, args[0], log)
		},
	}
}
