// Package warehouse executes read statements against the pricing warehouse
// and normalizes results into Tables.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/query"
)

// Warehouse runs one read statement and returns its rows.
type Warehouse interface {
	Query(ctx context.Context, sql string, args ...any) (*Table, error)
}

// PG is a Warehouse backed by a pgx pool.
type PG struct {
	pool *pgxpool.Pool
}

// NewPG creates a Warehouse that queries through pool.
func NewPG(pool *pgxpool.Pool) *PG {
	return &PG{pool: pool}
}

// Query collects every row of the result. Column names come from the
// result's field descriptions.
func (w *PG) Query(ctx context.Context, sql string, args ...any) (*Table, error) {
	rows, err := w.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	cols := make([]string, len(fields))
	for i, fd := range fields {
		cols[i] = fd.Name
	}

	var data [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		data = append(data, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return NewTable(cols, data), nil
}

// QueryError reports a failed statement. The signature identifies the
// statement without exposing its bound values.
type QueryError struct {
	Signature string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Signature, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsQueryError reports whether err wraps a QueryError.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// Executor runs built statements with logging. It never returns a nil table:
// on failure the table is empty and the error is a *QueryError.
type Executor struct {
	wh  Warehouse
	log zerolog.Logger
}

// NewExecutor creates an Executor that runs statements against wh and logs
// each one to log.
func NewExecutor(wh Warehouse, log zerolog.Logger) *Executor {
	return &Executor{wh: wh, log: log}
}

// Run executes st.
func (e *Executor) Run(ctx context.Context, st query.Statement) (*Table, error) {
	start := time.Now()
	t, err := e.wh.Query(ctx, st.SQL, st.Args...)
	if err != nil {
		e.log.Error().Err(err).
			Str("statement", st.Name).
			Str("signature", st.Signature()).
			Msg("query failed")
		return Empty(), &QueryError{Signature: st.Signature(), Err: err}
	}
	if t == nil {
		t = Empty()
	}
	e.log.Debug().
		Str("statement", st.Name).
		Int("rows", t.Len()).
		Dur("duration", time.Since(start)).
		Msg("query executed")
	return t, nil
}
