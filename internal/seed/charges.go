package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/db"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/parquetread"
)

// CopyResult holds metrics from the charge COPY phase.
type CopyResult struct {
	Rows     int64
	Duration time.Duration
}

// CopyCharges streams charge records from the fixture and COPY-loads them
// into the master table via a channel-backed CopyFromSource.
func CopyCharges(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, master string) (*CopyResult, error) {
	start := time.Now()

	reader, err := parquetread.Open(pf.FilePath)
	if err != nil {
		return nil, fmt.Errorf("copy open: %w", err)
	}
	defer reader.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan *model.ChargeRecord, readBatchSize)
	source := db.NewChannelSource(ch)
	errCh := make(chan error, 1)

	go func() {
		errCh <- produceCharges(ctx, reader.Each, ch, source)
	}()

	copied, err := pool.CopyFrom(ctx, tableIdent(master), model.ChargeColumns(), source)
	if err != nil {
		// Unblock the producer before waiting on it.
		cancel()
		for range ch {
		}
	}

	// A producer cancelled by the failed COPY reports context.Canceled; the
	// COPY error is the cause then.
	prodErr := <-errCh
	switch {
	case prodErr != nil && !errors.Is(prodErr, context.Canceled):
		return nil, fmt.Errorf("copy producer: %w", prodErr)
	case err != nil:
		return nil, fmt.Errorf("copy charges: %w", err)
	case prodErr != nil:
		return nil, fmt.Errorf("copy producer: %w", prodErr)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_copied", copied).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(copied)/dur.Seconds()).
		Msg("charge copy complete")

	return &CopyResult{Rows: copied, Duration: dur}, nil
}

type eachFunc func(batchSize int, fn func(*model.ChargeFixtureRow) error) (int64, error)

// produceCharges splits fixture rows into charge records and sends them on
// ch. A read or split error is recorded on src before ch is closed, so the
// COPY reading from src aborts rather than committing the rows sent so far.
func produceCharges(ctx context.Context, each eachFunc, ch chan<- *model.ChargeRecord, src *db.ChannelSource[*model.ChargeRecord]) error {
	_, err := each(readBatchSize, func(row *model.ChargeFixtureRow) error {
		s, err := normalize.SplitFixtureRow(row)
		if errors.Is(err, normalize.ErrMissingKey) {
			return nil
		}
		if err != nil {
			return err
		}
		charge := s.Charge
		select {
		case ch <- &charge:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	src.Fail(err)
	close(ch)
	return err
}
