// Package views implements the analytics views. Each view validates its
// request, runs its statements through the executor, derives metrics from
// the returned rows and assembles a present.Result. Query failures never
// surface as errors: they become error notices and the view continues with
// an empty table. Only rejected input returns an error.
package views

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/options"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/query"
	"github.com/gyeh/healthnav/internal/warehouse"
)

// ValidationError rejects user input before any query is issued.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Settings tunes view behavior.
type Settings struct {
	// DefaultStates is the price variation fallback when no state is chosen.
	DefaultStates []string
	// ChartLimit caps the number of bars in ranking charts.
	ChartLimit int
}

// Service runs the views against one warehouse.
type Service struct {
	builder  *query.Builder
	exec     *warehouse.Executor
	options  *options.Provider
	settings Settings
	log      zerolog.Logger
}

// NewService wires a Service. A non-positive ChartLimit falls back to 30.
func NewService(b *query.Builder, exec *warehouse.Executor, opts *options.Provider, s Settings, log zerolog.Logger) *Service {
	if s.ChartLimit <= 0 {
		s.ChartLimit = 30
	}
	return &Service{builder: b, exec: exec, options: opts, settings: s, log: log}
}

// Options exposes the dropdown provider shared by the views.
func (s *Service) Options() *options.Provider {
	return s.options
}

// run executes st and records a failure on r. The returned table is never nil.
func (s *Service) run(ctx context.Context, r *present.Result, st query.Statement) *warehouse.Table {
	t, err := s.exec.Run(ctx, st)
	if err != nil {
		var qe *warehouse.QueryError
		if errors.As(err, &qe) {
			err = qe.Err
		}
		r.Error("Query execution error: " + err.Error())
		s.log.Warn().Str("view", r.View).Str("statement", st.Name).Msg("showing empty result after query failure")
		return t
	}
	s.log.Debug().Str("view", r.View).Str("statement", st.Name).Int("rows", t.Len()).Msg("view query")
	return t
}

// joinList renders "A", "A and B" or "A, B, and C".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
