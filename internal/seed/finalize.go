package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/model"
)

// Finalize refreshes planner statistics on the warehouse tables and records
// the load in the seed registry.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, tables config.Tables, pf *PreflightResult, summary *model.SeedSummary) error {
	start := time.Now()

	for _, name := range []string{tables.Hospital, tables.Provider, tables.Plan, tables.ServiceCode, tables.Master} {
		if _, err := pool.Exec(ctx, "ANALYZE "+tableIdent(name).Sanitize()); err != nil {
			return fmt.Errorf("analyze %s: %w", name, err)
		}
	}
	log.Info().Msg("ANALYZE complete")

	_, err := pool.Exec(ctx, `
INSERT INTO core.seed_files (file_sha256, source_file, seed_batch_id, rows_read, charges_copied)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (file_sha256) DO UPDATE
SET source_file    = EXCLUDED.source_file,
    seed_batch_id  = EXCLUDED.seed_batch_id,
    rows_read      = EXCLUDED.rows_read,
    charges_copied = EXCLUDED.charges_copied,
    loaded_at      = now()`,
		pf.FileSHA256, filepath.Base(pf.FilePath), pf.BatchID.String(), summary.RowsRead, summary.ChargesCopied,
	)
	if err != nil {
		return fmt.Errorf("register seed file: %w", err)
	}

	log.Info().
		Str("batch", pf.BatchID.String()).
		Dur("duration", time.Since(start)).
		Msg("finalize complete")
	return nil
}
