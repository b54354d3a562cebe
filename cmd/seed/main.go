// Command seed loads the demo users and books into the configured database.
//
//	seed            # insert the dataset
//	seed --reset    # drop and recreate the tables first
//
// It reads the same BOOKSHELF_* settings as the server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sakif/bookshelf/internal/auth"
	"github.com/sakif/bookshelf/internal/config"
	"github.com/sakif/bookshelf/internal/repository/gormdb"
	"github.com/sakif/bookshelf/internal/seed"
)

func newRootCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Insert the demo users and books",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(os.Stdout)

			if cfg.Database.Driver == config.DriverSQLite && cfg.Database.DSN != ":memory:" {
				if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0o755); err != nil {
					return err
				}
			}

			db, err := gormdb.Open(cfg.Database, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			if reset {
				logger.Info("resetting tables")
				if err := db.Reset(ctx); err != nil {
					return err
				}
			}

			passwords := auth.NewEncoder(cfg.Security.HashPasswords, cfg.Security.BcryptCost)
			_, err = seed.Run(ctx, db, passwords, logger)
			return err
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop and recreate the tables before seeding")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
