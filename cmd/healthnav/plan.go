package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/healthnav/internal/exitcode"
	"github.com/gyeh/healthnav/internal/logging"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/seed"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run fixture validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&cfg.FilePath, "file", "", "Path to Parquet fixture (required)")
	_ = planCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	sha, err := normalize.FileHash(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		os.Exit(exitcode.ValidationError)
	}

	stat, err := os.Stat(cfg.FilePath)
	if err != nil {
		log.Error().Err(err).Msg("failed to stat file")
		os.Exit(exitcode.ValidationError)
	}

	// Scan opens the file, which validates the schema.
	dims, err := seed.Scan(cfg.FilePath, log)
	if err != nil {
		log.Error().Err(err).Msg("fixture scan failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== healthnav plan ===")
	fmt.Printf("File:          %s\n", cfg.FilePath)
	fmt.Printf("SHA-256:       %s\n", sha)
	fmt.Printf("Size:          %d bytes\n", stat.Size())
	fmt.Printf("Rows:          %d\n", dims.RowsRead)
	fmt.Printf("Rejected:      %d\n", dims.RowsRejected)
	fmt.Printf("Hospitals:     %d\n", len(dims.Hospitals))
	fmt.Printf("Providers:     %d\n", len(dims.Providers))
	fmt.Printf("Plans:         %d\n", len(dims.Plans))
	fmt.Printf("Service codes: %d\n", len(dims.ServiceCodes))
	fmt.Println("Schema validation: OK")
	return nil
}
