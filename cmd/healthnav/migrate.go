package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/db"
	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply warehouse schema migrations",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	pool := connect(ctx, log)
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, log); err != nil {
		log.Error().Err(err).Msg("migration failed")
		pool.Close()
		os.Exit(exitcode.SeedError)
	}

	log.Info().Msg("all migrations applied successfully")
	return nil
}
