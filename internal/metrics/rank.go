package metrics

import (
	"sort"

	"github.com/jackc/pgx/v5/pgtype"
)

// PercentileRanks converts variation scores into consistency ranks where a
// lower score earns a higher rank:
//
//	rank(v) = 100 - (averageRank(v) / n) * 100
//
// averageRank is the 1-based position of v among the valid scores, with tied
// values all receiving the mean of the positions they span. n counts valid
// scores only. Invalid scores yield invalid ranks and do not affect the rest.
func PercentileRanks(scores []pgtype.Float8) []pgtype.Float8 {
	out := make([]pgtype.Float8, len(scores))

	idx := make([]int, 0, len(scores))
	for i, s := range scores {
		if s.Valid {
			idx = append(idx, i)
		}
	}
	n := len(idx)
	if n == 0 {
		return out
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]].Float64 < scores[idx[b]].Float64
	})

	for start := 0; start < n; {
		end := start + 1
		for end < n && scores[idx[end]].Float64 == scores[idx[start]].Float64 {
			end++
		}
		// positions start+1 .. end, averaged
		avg := float64(start+1+end) / 2
		pct := avg / float64(n)
		for _, i := range idx[start:end] {
			out[i] = pgtype.Float8{Float64: 100 - pct*100, Valid: true}
		}
		start = end
	}
	return out
}
