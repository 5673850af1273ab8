package metrics

import (
	"math"
	"sort"

	"github.com/jackc/pgx/v5/pgtype"
)

// Summary aggregates one group of values.
type Summary struct {
	Key   string
	Mean  float64
	Min   float64
	Max   float64
	Count int
	Sum   float64
}

// Summarize groups rows by key and aggregates value over each group.
// Groups come back sorted by key.
func Summarize[T any](rows []T, key func(T) string, value func(T) float64) []Summary {
	byKey := make(map[string]*Summary)
	for _, r := range rows {
		k := key(r)
		v := value(r)
		s, ok := byKey[k]
		if !ok {
			s = &Summary{Key: k, Min: math.Inf(1), Max: math.Inf(-1)}
			byKey[k] = s
		}
		s.Count++
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}

	out := make([]Summary, 0, len(byKey))
	for _, s := range byKey {
		s.Mean = s.Sum / float64(s.Count)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Largest returns up to n rows with the highest valid value, highest first.
// Rows with an undefined value are skipped. Ties keep input order.
func Largest[T any](rows []T, n int, value func(T) pgtype.Float8) []T {
	return extreme(rows, n, value, func(a, b float64) bool { return a > b })
}

// Smallest returns up to n rows with the lowest valid value, lowest first.
func Smallest[T any](rows []T, n int, value func(T) pgtype.Float8) []T {
	return extreme(rows, n, value, func(a, b float64) bool { return a < b })
}

func extreme[T any](rows []T, n int, value func(T) pgtype.Float8, before func(a, b float64) bool) []T {
	valid := make([]T, 0, len(rows))
	for _, r := range rows {
		if value(r).Valid {
			valid = append(valid, r)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return before(value(valid[i]).Float64, value(valid[j]).Float64)
	})
	if len(valid) > n {
		valid = valid[:n]
	}
	return valid
}
