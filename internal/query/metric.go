package query

import (
	"fmt"
	"strings"

	"github.com/gyeh/healthnav/internal/metrics"
)

// PriceMetric selects the per-city aggregate used by the cost explorer.
type PriceMetric int

const (
	Average PriceMetric = iota
	Median
	Minimum
	Maximum
)

var priceMetricNames = []string{"average", "median", "minimum", "maximum"}

// PriceMetrics lists the selectable aggregates in display order.
var PriceMetrics = []PriceMetric{Average, Median, Minimum, Maximum}

// ParsePriceMetric accepts the lower-case name or the display label.
// An empty string selects Average.
func ParsePriceMetric(s string) (PriceMetric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Average, nil
	}
	for i, name := range priceMetricNames {
		if s == name {
			return PriceMetric(i), nil
		}
	}
	return Average, fmt.Errorf("unknown price metric %q (want one of %s)", s, strings.Join(priceMetricNames, ", "))
}

func (m PriceMetric) String() string {
	if int(m) < 0 || int(m) >= len(priceMetricNames) {
		return fmt.Sprintf("PriceMetric(%d)", int(m))
	}
	return priceMetricNames[m]
}

// Label is the capitalized name, e.g. "Median".
func (m PriceMetric) Label() string {
	s := m.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

func (m PriceMetric) expr(col string) string {
	switch m {
	case Median:
		return "percentile_cont(0.5) WITHIN GROUP (ORDER BY " + col + ")"
	case Minimum:
		return "MIN(" + col + ")"
	case Maximum:
		return "MAX(" + col + ")"
	default:
		return "AVG(" + col + ")"
	}
}

func variationExpr(m metrics.VariationMetric, col string) string {
	switch m {
	case metrics.StandardDeviation:
		return "stddev_samp(" + col + ")"
	case metrics.PriceRange:
		return "MAX(" + col + ") - MIN(" + col + ")"
	default:
		return "stddev_samp(" + col + ") / NULLIF(AVG(" + col + "), 0) * 100"
	}
}
