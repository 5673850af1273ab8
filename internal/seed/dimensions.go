package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/db"
	"github.com/gyeh/healthnav/internal/model"
)

// DimensionCounts reports how many new rows each dimension table received.
type DimensionCounts struct {
	Hospitals    int64
	Providers    int64
	Plans        int64
	ServiceCodes int64
}

// UpsertDimensions inserts the scanned dimensions, keeping existing rows.
// Providers are written before plans so plan references resolve.
func UpsertDimensions(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, tables config.Tables, d *Dimensions) (*DimensionCounts, error) {
	start := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var counts DimensionCounts
	steps := []struct {
		name    string
		table   string
		key     string
		columns []string
		rows    []db.CopyRow
		dst     *int64
	}{
		{"hospitals", tables.Hospital, "hospital_id", model.HospitalColumns(), copyRows(sortedValues(d.Hospitals)), &counts.Hospitals},
		{"providers", tables.Provider, "insurance_provider_id", model.ProviderColumns(), copyRows(sortedValues(d.Providers)), &counts.Providers},
		{"plans", tables.Plan, "insurance_plan_id", model.PlanColumns(), copyRows(sortedValues(d.Plans)), &counts.Plans},
		{"service_codes", tables.ServiceCode, "code", model.ServiceCodeColumns(), copyRows(sortedValues(d.ServiceCodes)), &counts.ServiceCodes},
	}
	for _, st := range steps {
		n, err := upsert(ctx, tx, st.table, st.key, st.columns, st.rows)
		if err != nil {
			return nil, fmt.Errorf("upsert %s: %w", st.name, err)
		}
		*st.dst = n
		log.Info().Int64(st.name+"_inserted", n).Int(st.name+"_seen", len(st.rows)).Msg("dimension upserted")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	log.Info().Dur("duration", time.Since(start)).Msg("dimensions complete")
	return &counts, nil
}

// upsert COPYs rows into a temp table shaped like target, then moves the
// rows whose key is new.
func upsert(ctx context.Context, tx pgx.Tx, target, key string, columns []string, rows []db.CopyRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ident := tableIdent(target)
	tmp := pgx.Identifier{"seed_" + strings.ReplaceAll(target, ".", "_")}
	cols := strings.Join(columns, ", ")

	if _, err := tx.Exec(ctx, fmt.Sprintf(
		"CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		tmp.Sanitize(), ident.Sanitize())); err != nil {
		return 0, fmt.Errorf("create temp table: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, tmp, columns, pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		return rows[i].CopyValues(), nil
	})); err != nil {
		return 0, fmt.Errorf("copy: %w", err)
	}

	tag, err := tx.Exec(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) DO NOTHING",
		ident.Sanitize(), cols, cols, tmp.Sanitize(), key))
	if err != nil {
		return 0, fmt.Errorf("insert: %w", err)
	}
	return tag.RowsAffected(), nil
}

func copyRows[T any, P interface {
	*T
	db.CopyRow
}](vals []*T) []db.CopyRow {
	out := make([]db.CopyRow, len(vals))
	for i, v := range vals {
		out[i] = P(v)
	}
	return out
}

func tableIdent(name string) pgx.Identifier {
	return pgx.Identifier(strings.Split(name, "."))
}
