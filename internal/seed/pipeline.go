package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/model"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Run loads a Parquet fixture into the warehouse tables: preflight → scan →
// dimensions → copy → finalize.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.SeedSummary, error) {
	totalStart := time.Now()

	// Phase 1: Preflight
	log.Info().Str("file", cfg.FilePath).Msg("starting preflight")
	pf, err := Preflight(ctx, pool, log, cfg.FilePath, cfg.Force)
	if err != nil {
		return nil, &PipelineError{Phase: "preflight", Err: err}
	}
	summary := &model.SeedSummary{
		FilePath:   pf.FilePath,
		FileSHA256: pf.FileSHA256,
	}
	if pf.AlreadyLoaded {
		log.Info().
			Str("sha256", pf.FileSHA256).
			Msg("file already seeded, skipping (use --force to load again)")
		summary.DurationTotal = time.Since(totalStart)
		return summary, nil
	}

	// Phase 2: Scan dimensions
	log.Info().Msg("scanning fixture")
	dims, err := Scan(pf.FilePath, log)
	if err != nil {
		return nil, &PipelineError{Phase: "scan", Err: err}
	}
	summary.RowsRead = dims.RowsRead
	summary.RowsRejected = dims.RowsRejected
	summary.DurationScan = dims.Duration

	// Phase 3: Dimension upserts
	log.Info().Msg("upserting dimensions")
	dimStart := time.Now()
	counts, err := UpsertDimensions(ctx, pool, log, cfg.Tables, dims)
	if err != nil {
		return nil, &PipelineError{Phase: "dimensions", Err: err}
	}
	summary.Hospitals = counts.Hospitals
	summary.Providers = counts.Providers
	summary.Plans = counts.Plans
	summary.ServiceCodes = counts.ServiceCodes
	summary.DurationDims = time.Since(dimStart)

	// Phase 4: COPY charges
	log.Info().Msg("copying charges")
	copied, err := CopyCharges(ctx, pool, log, pf, cfg.Tables.Master)
	if err != nil {
		return nil, &PipelineError{Phase: "copy", Err: err}
	}
	summary.ChargesCopied = copied.Rows
	summary.DurationCopy = copied.Duration

	// Phase 5: Finalize
	log.Info().Msg("finalizing")
	if err := Finalize(ctx, pool, log, cfg.Tables, pf, summary); err != nil {
		return nil, &PipelineError{Phase: "finalize", Err: err}
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Str("batch", pf.BatchID.String()).
		Int64("rows_read", summary.RowsRead).
		Int64("rows_rejected", summary.RowsRejected).
		Int64("hospitals", summary.Hospitals).
		Int64("charges", summary.ChargesCopied).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("seed pipeline complete")

	return summary, nil
}
