package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/cache"
	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/db"
	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
	"github.com/gyeh/healthnav/internal/options"
	"github.com/gyeh/healthnav/internal/query"
	"github.com/gyeh/healthnav/internal/views"
	"github.com/gyeh/healthnav/internal/warehouse"
)

var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "healthnav",
	Short: "Healthcare pricing analytics over a hospital charge warehouse",
	Long:  "Ranks hospitals by price consistency, compares procedure and payer prices, and looks up charges by location.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cfg.ConfigPath == "" {
			return
		}
		if err := cfg.LoadFromFile(cfg.ConfigPath); err != nil {
			log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
			log.Error().Err(err).Msg("config file rejected")
			os.Exit(exitcode.UsageError)
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("HEALTHNAV_DB_URL"), "Postgres connection string (or set HEALTHNAV_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&cfg.ConfigPath, "config", "", "Optional YAML config file")
}

// connect validates the DSN and opens a pool, exiting on failure.
func connect(ctx context.Context, log zerolog.Logger) *pgxpool.Pool {
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	pool, err := db.NewPool(ctx, cfg.DSN, cfg.StatementTimeout)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	return pool
}

// newService wires the view service over pool.
func newService(pool *pgxpool.Pool, log zerolog.Logger) *views.Service {
	b := query.NewBuilder(cfg.Tables)
	exec := warehouse.NewExecutor(warehouse.NewPG(pool), log)
	opts := options.NewProvider(b, exec, cache.New[*warehouse.Table](cfg.OptionCacheSize, cfg.OptionCacheTTL, log))
	return views.NewService(b, exec, opts, views.Settings{
		DefaultStates: cfg.DefaultStates,
		ChartLimit:    cfg.ChartLimit,
	}, log)
}
