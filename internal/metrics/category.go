package metrics

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Consistency buckets a percentile rank.
type Consistency string

const (
	HighConsistency   Consistency = "High"
	MediumConsistency Consistency = "Medium"
	LowConsistency    Consistency = "Low"
	Unrated           Consistency = "Unrated"
)

// ConsistencyLevels lists the rated buckets from best to worst.
var ConsistencyLevels = []Consistency{HighConsistency, MediumConsistency, LowConsistency}

// ConsistencyCategory buckets a rank: >= 80 High, >= 50 Medium, otherwise Low.
func ConsistencyCategory(rank float64) Consistency {
	switch {
	case rank >= 80:
		return HighConsistency
	case rank >= 50:
		return MediumConsistency
	default:
		return LowConsistency
	}
}

// ConsistencyOf is ConsistencyCategory for a possibly undefined rank.
func ConsistencyOf(rank pgtype.Float8) Consistency {
	if !rank.Valid {
		return Unrated
	}
	return ConsistencyCategory(rank.Float64)
}

// Label is the display text, e.g. "High Consistency".
func (c Consistency) Label() string {
	if c == Unrated {
		return "Not Rated"
	}
	return string(c) + " Consistency"
}

// Color is the chart color for the bucket.
func (c Consistency) Color() string {
	switch c {
	case HighConsistency:
		return "#047857"
	case MediumConsistency:
		return "#B45309"
	case LowConsistency:
		return "#DC2626"
	default:
		return "#9CA3AF"
	}
}

// PriceCategory buckets a percent difference from the market average.
type PriceCategory string

const (
	SignificantlyLower  PriceCategory = "Significantly Lower"
	ModeratelyLower     PriceCategory = "Moderately Lower"
	Comparable          PriceCategory = "Comparable"
	ModeratelyHigher    PriceCategory = "Moderately Higher"
	SignificantlyHigher PriceCategory = "Significantly Higher"
	Uncategorized       PriceCategory = "Uncategorized"
)

// PriceCategories lists the bands from lowest to highest.
var PriceCategories = []PriceCategory{
	SignificantlyLower, ModeratelyLower, Comparable, ModeratelyHigher, SignificantlyHigher,
}

var priceCategoryColors = map[PriceCategory]string{
	SignificantlyLower:  "#059669",
	ModeratelyLower:     "#10B981",
	Comparable:          "#6B7280",
	ModeratelyHigher:    "#F59E0B",
	SignificantlyHigher: "#DC2626",
}

// PriceCategoryFor buckets pct:
//
//	pct < -20          Significantly Lower
//	-20 <= pct < -5    Moderately Lower
//	-5 <= pct <= 5     Comparable
//	5 < pct <= 20      Moderately Higher
//	pct > 20           Significantly Higher
func PriceCategoryFor(pct float64) PriceCategory {
	switch {
	case pct < -20:
		return SignificantlyLower
	case pct < -5:
		return ModeratelyLower
	case pct <= 5:
		return Comparable
	case pct <= 20:
		return ModeratelyHigher
	default:
		return SignificantlyHigher
	}
}

// PriceCategoryOf is PriceCategoryFor for a possibly undefined difference.
func PriceCategoryOf(pct pgtype.Float8) PriceCategory {
	if !pct.Valid {
		return Uncategorized
	}
	return PriceCategoryFor(pct.Float64)
}

// Color is the chart color for the band.
func (c PriceCategory) Color() string {
	if col, ok := priceCategoryColors[c]; ok {
		return col
	}
	return "#9CA3AF"
}

// PercentDiff returns (price - avg) / avg * 100, undefined when avg is zero.
func PercentDiff(price, avg float64) pgtype.Float8 {
	if avg == 0 {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: (price - avg) / avg * 100, Valid: true}
}
