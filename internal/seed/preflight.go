package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/parquetread"
)

// PreflightResult holds the context resolved before any row is written.
type PreflightResult struct {
	FilePath   string
	FileSHA256 string
	FileSize   int64
	// BatchID tags this load in the seed registry.
	BatchID uuid.UUID
	// NumRows is the row count from the Parquet footer.
	NumRows int64
	// AlreadyLoaded is true when the registry holds this file's digest and
	// force mode is off.
	AlreadyLoaded bool
}

// Preflight hashes the file, validates its schema and consults the seed
// registry.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, filePath string, force bool) (*PreflightResult, error) {
	start := time.Now()

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	// Open validates the schema.
	reader, err := parquetread.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	numRows := reader.NumRows()
	reader.Close()

	loaded, err := alreadySeeded(ctx, pool, sha)
	if err != nil {
		return nil, fmt.Errorf("preflight registry: %w", err)
	}

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("sha256", sha).
		Int64("rows", numRows).
		Bool("already_loaded", loaded).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	return &PreflightResult{
		FilePath:      filePath,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		BatchID:       uuid.New(),
		NumRows:       numRows,
		AlreadyLoaded: loaded && !force,
	}, nil
}

func alreadySeeded(ctx context.Context, pool *pgxpool.Pool, sha string) (bool, error) {
	var one int
	err := pool.QueryRow(ctx,
		"SELECT 1 FROM core.seed_files WHERE file_sha256 = $1", sha,
	).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
