package query

import (
	"strings"
	"testing"

	"github.com/gyeh/healthnav/internal/config"
	"github.com/gyeh/healthnav/internal/metrics"
)

func newTestBuilder() *Builder {
	return NewBuilder(config.DefaultTables())
}

func TestNewBuilder_QuotesTables(t *testing.T) {
	b := newTestBuilder()
	if b.master != `"core"."master_table"` {
		t.Errorf("master = %s", b.master)
	}
	if b.hospital != `"core"."hospital_data"` {
		t.Errorf("hospital = %s", b.hospital)
	}
}

func TestPriceVariation_BindsFilters(t *testing.T) {
	b := newTestBuilder()
	st := b.PriceVariation(VariationFilter{
		States:        []string{"NV", "IL"},
		City:          "Reno'; DROP TABLE x; --",
		MinProcedures: 10,
		Metric:        metrics.CoefficientOfVariation,
	})

	if strings.Contains(st.SQL, "Reno") {
		t.Fatal("user input leaked into SQL text")
	}
	if len(st.Args) != 3 {
		t.Fatalf("args = %v", st.Args)
	}
	for _, want := range []string{
		"h.state = ANY($1)",
		"h.city = $2",
		"HAVING COUNT(DISTINCT m.code) >= $3",
		"NULLIF(AVG(m.standard_charge_dollar), 0) * 100 AS price_variation",
		"ORDER BY price_variation ASC",
	} {
		if !strings.Contains(st.SQL, want) {
			t.Errorf("SQL missing %q:\n%s", want, st.SQL)
		}
	}
	if st.Args[2] != 10 {
		t.Errorf("min procedures arg = %v", st.Args[2])
	}
}

func TestPriceVariation_MetricExpressions(t *testing.T) {
	b := newTestBuilder()
	tests := []struct {
		metric metrics.VariationMetric
		want   string
	}{
		{metrics.StandardDeviation, "stddev_samp(m.standard_charge_dollar) AS price_variation"},
		{metrics.PriceRange, "MAX(m.standard_charge_dollar) - MIN(m.standard_charge_dollar) AS price_variation"},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			st := b.PriceVariation(VariationFilter{MinProcedures: 5, Metric: tt.metric})
			if !strings.Contains(st.SQL, tt.want) {
				t.Errorf("SQL missing %q", tt.want)
			}
			if len(st.Args) != 1 || !strings.Contains(st.SQL, ">= $1") {
				t.Errorf("expected a single threshold arg, got %v", st.Args)
			}
		})
	}
}

func TestCityMetrics_PriceMetric(t *testing.T) {
	b := newTestBuilder()
	tests := []struct {
		metric PriceMetric
		want   string
	}{
		{Average, "AVG(m.standard_charge_dollar) AS price_metric"},
		{Median, "percentile_cont(0.5) WITHIN GROUP (ORDER BY m.standard_charge_dollar) AS price_metric"},
		{Minimum, "MIN(m.standard_charge_dollar) AS price_metric"},
		{Maximum, "MAX(m.standard_charge_dollar) AS price_metric"},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			st := b.CityMetrics("99213", "NV", tt.metric)
			if !strings.Contains(st.SQL, tt.want) {
				t.Errorf("SQL missing %q", tt.want)
			}
			if !strings.Contains(st.SQL, "ORDER BY price_metric DESC") {
				t.Error("city metrics must sort highest first")
			}
			if len(st.Args) != 2 || st.Args[0] != "99213" || st.Args[1] != "NV" {
				t.Errorf("args = %v", st.Args)
			}
		})
	}

	st := b.CityMetrics("99213", "", Average)
	if len(st.Args) != 1 || strings.Contains(st.SQL, "h.state = $") {
		t.Errorf("no state filter expected: %v\n%s", st.Args, st.SQL)
	}
}

func TestProviderAverages_OptionalFilters(t *testing.T) {
	b := newTestBuilder()
	tests := []struct {
		state, city string
		args        int
	}{
		{"", "", 0},
		{"NV", "", 1},
		{"", "Reno", 1},
		{"NV", "Reno", 2},
	}
	for _, tt := range tests {
		st := b.ProviderAverages(tt.state, tt.city)
		if len(st.Args) != tt.args {
			t.Errorf("ProviderAverages(%q, %q) args = %v", tt.state, tt.city, st.Args)
		}
		if !strings.Contains(st.SQL, "ORDER BY avg_charge DESC") {
			t.Error("provider averages must sort highest first")
		}
	}
}

func TestNavigatorStatements(t *testing.T) {
	b := newTestBuilder()

	st := b.ChargesByZip("99213", "89101")
	if !strings.Contains(st.SQL, "s.code = $1 AND h.zipcode = $2") || len(st.Args) != 2 {
		t.Errorf("ChargesByZip: %v\n%s", st.Args, st.SQL)
	}

	st = b.ChargesByZips("99213", []string{"89101", "89102"})
	if !strings.Contains(st.SQL, "h.zipcode = ANY($2)") {
		t.Errorf("ChargesByZips:\n%s", st.SQL)
	}
	if zips, ok := st.Args[1].([]string); !ok || len(zips) != 2 {
		t.Errorf("zips arg = %#v", st.Args[1])
	}

	st = b.CheapestCharges("99213", 10)
	if !strings.HasSuffix(st.SQL, "LIMIT $2") || st.Args[1] != 10 {
		t.Errorf("CheapestCharges: %v\n%s", st.Args, st.SQL)
	}
	if !strings.Contains(st.SQL, `JOIN "core"."insurance_plans" pl`) {
		t.Errorf("listing must join the plan table:\n%s", st.SQL)
	}
}

func TestOptionStatements(t *testing.T) {
	b := newTestBuilder()
	if st := b.Cities(""); len(st.Args) != 0 {
		t.Errorf("Cities(\"\") args = %v", st.Args)
	}
	if st := b.Cities("NV"); len(st.Args) != 1 || !strings.Contains(st.SQL, "state = $1") {
		t.Errorf("Cities(NV) = %v\n%s", st.Args, st.SQL)
	}
	if st := b.ZipsByCity("LAS VEGAS"); !strings.Contains(st.SQL, "UPPER(city) = $1") {
		t.Errorf("ZipsByCity:\n%s", st.SQL)
	}
	if st := b.States(); !strings.Contains(st.SQL, `FROM "core"."hospital_data"`) {
		t.Errorf("States:\n%s", st.SQL)
	}
}

func TestSignature(t *testing.T) {
	b := newTestBuilder()
	a1 := b.Cities("NV").Signature()
	a2 := b.Cities("NV").Signature()
	c := b.Cities("IL").Signature()
	if a1 != a2 {
		t.Errorf("signature not stable: %s vs %s", a1, a2)
	}
	if a1 == c {
		t.Error("different args must produce different signatures")
	}
	if !strings.HasPrefix(a1, "cities:") {
		t.Errorf("signature should start with the statement name: %s", a1)
	}
	if strings.Contains(a1, "NV") {
		t.Errorf("signature must not expose argument values: %s", a1)
	}
}

func TestParsePriceMetric(t *testing.T) {
	for in, want := range map[string]PriceMetric{"": Average, "Median": Median, " minimum ": Minimum, "MAXIMUM": Maximum} {
		got, err := ParsePriceMetric(in)
		if err != nil || got != want {
			t.Errorf("ParsePriceMetric(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePriceMetric("mode"); err == nil {
		t.Error("expected error")
	}
	if Median.Label() != "Median" {
		t.Errorf("label = %q", Median.Label())
	}
}
