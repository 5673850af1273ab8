package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
	"github.com/gyeh/healthnav/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a Parquet charge fixture into the warehouse",
	RunE:  runSeed,
}

func init() {
	f := seedCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to Parquet fixture (required)")
	f.BoolVar(&cfg.Force, "force", false, "Load again even if the file SHA was already seeded")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := context.Background()

	if err := cfg.ValidateSeed(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool := connect(ctx, log)
	defer pool.Close()

	summary, err := seed.Run(ctx, pool, log, &cfg)
	if err != nil {
		pool.Close()
		var pe *seed.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("seed failed")
			if pe.Phase == "preflight" {
				os.Exit(exitcode.ValidationError)
			}
			os.Exit(exitcode.SeedError)
		}
		log.Error().Err(err).Msg("seed failed")
		os.Exit(exitcode.SeedError)
	}

	fmt.Printf("Seed complete: %d rows read, %d rejected, %d charges copied, %d new hospitals (%.1fs)\n",
		summary.RowsRead, summary.RowsRejected, summary.ChargesCopied, summary.Hospitals, summary.DurationTotal.Seconds())
	return nil
}
