package metrics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// VariationMetric selects the dispersion measure used to score a hospital.
type VariationMetric int

const (
	CoefficientOfVariation VariationMetric = iota
	StandardDeviation
	PriceRange
)

var variationNames = map[VariationMetric]string{
	CoefficientOfVariation: "coefficient_of_variation",
	StandardDeviation:      "standard_deviation",
	PriceRange:             "price_range",
}

var variationLabels = map[VariationMetric]string{
	CoefficientOfVariation: "Coefficient of Variation",
	StandardDeviation:      "Standard Deviation",
	PriceRange:             "Price Range",
}

// ParseVariationMetric accepts either the snake_case name or the display label.
// An empty string selects the coefficient of variation.
func ParseVariationMetric(s string) (VariationMetric, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CoefficientOfVariation, nil
	}
	for m, name := range variationNames {
		if strings.EqualFold(s, name) || strings.EqualFold(s, variationLabels[m]) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown variation metric %q", s)
}

func (m VariationMetric) String() string { return variationNames[m] }

// Label is the human-readable metric name.
func (m VariationMetric) Label() string { return variationLabels[m] }

// IsPercentage reports whether scores are percentages rather than dollars.
func (m VariationMetric) IsPercentage() bool { return m == CoefficientOfVariation }

// Explanation describes how to read the metric.
func (m VariationMetric) Explanation() string {
	switch m {
	case StandardDeviation:
		return "Standard Deviation measures the amount of dispersion in pricing. Lower values indicate less spread in prices."
	case PriceRange:
		return "Price Range is the difference between the highest and lowest prices. Lower values indicate more consistent pricing."
	default:
		return "Coefficient of Variation (CV) measures the ratio of the standard deviation to the mean, expressed as a percentage. Lower values indicate more consistent pricing."
	}
}

// Dispersion computes the metric over values. The standard deviation is the
// sample deviation (n-1), so fewer than two values leave both it and the
// coefficient of variation undefined; a zero mean leaves the coefficient
// undefined. The range is defined for any non-empty input.
func Dispersion(values []float64, m VariationMetric) pgtype.Float8 {
	n := len(values)
	if n == 0 {
		return pgtype.Float8{}
	}

	if m == PriceRange {
		lo, hi := values[0], values[0]
		for _, v := range values[1:] {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		return pgtype.Float8{Float64: hi - lo, Valid: true}
	}

	if n < 2 {
		return pgtype.Float8{}
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	sd := math.Sqrt(ss / float64(n-1))

	if m == StandardDeviation {
		return pgtype.Float8{Float64: sd, Valid: true}
	}
	if mean == 0 {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: sd / mean * 100, Valid: true}
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Observation is one charge record reduced to what scoring needs.
type Observation struct {
	Hospital string
	Code     string
	Charge   float64
}

// HospitalScore is the dispersion of one hospital's charges.
type HospitalScore struct {
	Hospital       string
	ProcedureCount int
	Score          pgtype.Float8
}

// VariationScores groups observations by hospital and scores each group.
// Production scoring runs in the warehouse query; this is the in-process
// reference that query is checked against.
// Charges <= 0 are dropped before anything is counted. Hospitals with fewer
// than minProcedures distinct codes are excluded. The result is ordered by
// score ascending with undefined scores last; ties break on hospital id.
func VariationScores(obs []Observation, m VariationMetric, minProcedures int) []HospitalScore {
	charges := make(map[string][]float64)
	codes := make(map[string]map[string]struct{})
	for _, o := range obs {
		if !(o.Charge > 0) {
			continue
		}
		charges[o.Hospital] = append(charges[o.Hospital], o.Charge)
		if codes[o.Hospital] == nil {
			codes[o.Hospital] = make(map[string]struct{})
		}
		codes[o.Hospital][o.Code] = struct{}{}
	}

	scores := make([]HospitalScore, 0, len(charges))
	for h, vals := range charges {
		if len(codes[h]) < minProcedures {
			continue
		}
		scores = append(scores, HospitalScore{
			Hospital:       h,
			ProcedureCount: len(codes[h]),
			Score:          Dispersion(vals, m),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		a, b := scores[i].Score, scores[j].Score
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && a.Float64 != b.Float64 {
			return a.Float64 < b.Float64
		}
		return scores[i].Hospital < scores[j].Hospital
	})
	return scores
}
