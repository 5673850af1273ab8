package views

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gyeh/healthnav/internal/metrics"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/query"
	"github.com/gyeh/healthnav/internal/warehouse"
)

const (
	DefaultMinProcedures = 10
	MinProceduresFloor   = 5
	MinProceduresCeiling = 50
	MinProceduresStep    = 5
)

// VariationRequest holds the price variation filters. Empty or "All ..."
// state and city values mean no filter.
// MinProcedures has no implicit default; callers fill in
// DefaultMinProcedures when the user leaves it unset.
type VariationRequest struct {
	State         string
	City          string
	MinProcedures int
	Metric        string
	Search        string
}

// PriceVariation ranks hospitals by how consistently they price procedures.
func (s *Service) PriceVariation(ctx context.Context, req VariationRequest) (*present.Result, error) {
	if req.MinProcedures < MinProceduresFloor || req.MinProcedures > MinProceduresCeiling || req.MinProcedures%MinProceduresStep != 0 {
		return nil, &ValidationError{
			Field:   "min_procedures",
			Message: fmt.Sprintf("must be a multiple of %d between %d and %d", MinProceduresStep, MinProceduresFloor, MinProceduresCeiling),
		}
	}
	metric, err := metrics.ParseVariationMetric(req.Metric)
	if err != nil {
		return nil, &ValidationError{Field: "metric", Message: err.Error()}
	}

	filter := query.VariationFilter{MinProcedures: req.MinProcedures, Metric: metric}
	var location string
	if normalize.IsAll(req.State) {
		filter.States = s.settings.DefaultStates
		location = joinList(s.settings.DefaultStates)
	} else {
		st := normalize.NormalizeState(req.State)
		filter.States = []string{st}
		location = st
	}
	if !normalize.IsAll(req.City) {
		filter.City = req.City
	}

	r := present.NewResult("price_variation")
	r.Title = "Hospital Price Variation Analysis"
	r.Info(fmt.Sprintf("Analyzing price variation for hospitals in %s...", location))

	t := s.run(ctx, r, s.builder.PriceVariation(filter))
	if t.IsEmpty() {
		r.Warn(fmt.Sprintf("No hospitals found with at least %d procedures in the selected area.", req.MinProcedures))
		r.Data = []model.HospitalVariation{}
		return r, nil
	}

	rows := hospitalVariations(t)
	r.Data = rows
	r.Info(metric.Explanation())

	counts := make(map[metrics.Consistency]int)
	for _, h := range rows {
		counts[h.ScoreCategory]++
	}
	best := rows[0]
	r.AddCard(present.Card{
		Label:  "Total Hospitals Analyzed",
		Value:  fmt.Sprintf("%d", len(rows)),
		Detail: fmt.Sprintf("With %d+ procedures", req.MinProcedures),
	})
	r.AddCard(present.Card{
		Label: "Hospital Price Consistency",
		Value: fmt.Sprintf("%d High", counts[metrics.HighConsistency]),
		Detail: fmt.Sprintf("%d Medium | %d Low",
			counts[metrics.MediumConsistency], counts[metrics.LowConsistency]),
		Tone: "high",
	})
	r.AddCard(present.Card{
		Label:  "Most Consistent Pricing",
		Value:  best.HospitalName,
		Detail: fmt.Sprintf("%s, %s", best.City, best.State),
	})

	limit := s.settings.ChartLimit
	chartRows := rows
	if len(chartRows) > limit {
		chartRows = chartRows[:limit]
		r.Info(fmt.Sprintf("Showing the %d hospitals with the most consistent pricing out of %d total.", limit, len(rows)))
	}
	r.AddChart(variationBarChart(chartRows, metric))
	r.AddChart(variationScatterChart(rows, metric))

	r.AddTable(variationTable("comparison", "Hospital Price Statistics", rows, metric).Filter(req.Search))
	r.AddTable(variationTable("raw", "Raw Hospital Data", rows, metric))
	return r, nil
}

func hospitalVariations(t *warehouse.Table) []model.HospitalVariation {
	rows := make([]model.HospitalVariation, t.Len())
	scores := make([]pgtype.Float8, t.Len())
	for i := range rows {
		rows[i] = model.HospitalVariation{
			HospitalID:     t.String(i, "hospital_id"),
			HospitalName:   t.String(i, "hospital_name"),
			City:           t.String(i, "city"),
			State:          t.String(i, "state"),
			ProcedureCount: t.Int(i, "procedure_count"),
			PriceVariation: t.Float(i, "price_variation"),
			AvgPrice:       t.Float(i, "avg_price"),
			MinPrice:       t.Float(i, "min_price"),
			MaxPrice:       t.Float(i, "max_price"),
			UniqueCodes:    t.Int(i, "unique_codes"),
		}
		scores[i] = rows[i].PriceVariation
	}
	for i, rank := range metrics.PercentileRanks(scores) {
		rows[i].PercentileRank = rank
		rows[i].ScoreCategory = metrics.ConsistencyOf(rank)
	}
	return rows
}

func variationFormat(m metrics.VariationMetric) (present.Format, string) {
	if m.IsPercentage() {
		return present.FormatPercentCol, ".2f"
	}
	return present.FormatCurrencyCol, "$,.2f"
}

func axisTitle(m metrics.VariationMetric) string {
	if m.IsPercentage() {
		return m.Label() + " (%)"
	}
	return m.Label() + " ($)"
}

func consistencyScale() *present.ColorScale {
	levels := append(append([]metrics.Consistency{}, metrics.ConsistencyLevels...), metrics.Unrated)
	sc := &present.ColorScale{}
	for _, c := range levels {
		sc.Domain = append(sc.Domain, c.Label())
		sc.Range = append(sc.Range, c.Color())
	}
	return sc
}

func variationDatum(h model.HospitalVariation) map[string]any {
	return map[string]any{
		"hospital_id":     h.HospitalID,
		"hospital_name":   h.HospitalName,
		"city":            h.City,
		"state":           h.State,
		"procedure_count": h.ProcedureCount,
		"price_variation": h.PriceVariation,
		"avg_price":       h.AvgPrice,
		"min_price":       h.MinPrice,
		"max_price":       h.MaxPrice,
		"percentile_rank": h.PercentileRank,
		"score_category":  h.ScoreCategory.Label(),
	}
}

func variationBarChart(rows []model.HospitalVariation, m metrics.VariationMetric) present.Chart {
	_, tf := variationFormat(m)
	color := present.Nominal("score_category", "Price Consistency")
	c := present.Chart{
		ID:         "variation_ranking",
		Title:      fmt.Sprintf("Hospitals Ranked by Price Consistency (%s)", m.Label()),
		Mark:       present.Bar,
		X:          present.Quant("price_variation", axisTitle(m), tf),
		Y:          present.Nominal("hospital_name", "Hospital"),
		Color:      &color,
		ColorScale: consistencyScale(),
		Tooltips: []present.Field{
			present.Nominal("hospital_name", "Hospital"),
			present.Nominal("city", "City"),
			present.Quant("price_variation", m.Label(), tf),
			present.Quant("procedure_count", "Procedure Count", ""),
			present.Quant("avg_price", "Average Price", "$,.2f"),
			present.Quant("percentile_rank", "Consistency Score", ".1f"),
		},
	}
	for _, h := range rows {
		c.Data = append(c.Data, variationDatum(h))
	}
	return c
}

func variationScatterChart(rows []model.HospitalVariation, m metrics.VariationMetric) present.Chart {
	_, tf := variationFormat(m)
	color := present.Nominal("score_category", "Price Consistency")
	size := present.Quant("avg_price", "Average Price", "$,.2f")
	c := present.Chart{
		ID:         "variation_vs_procedures",
		Title:      "Hospital Price Variation vs. Procedure Count",
		Mark:       present.Scatter,
		X:          present.Quant("procedure_count", "Number of Procedures", ""),
		Y:          present.Quant("price_variation", m.Label(), tf),
		Color:      &color,
		ColorScale: consistencyScale(),
		Size:       &size,
		Tooltips: []present.Field{
			present.Nominal("hospital_name", "Hospital"),
			present.Nominal("city", "City"),
			present.Quant("procedure_count", "Procedure Count", ""),
			present.Quant("price_variation", m.Label(), tf),
			present.Quant("avg_price", "Average Price", "$,.2f"),
		},
	}
	for _, h := range rows {
		c.Data = append(c.Data, variationDatum(h))
	}
	return c
}

func variationTable(id, title string, rows []model.HospitalVariation, m metrics.VariationMetric) *present.Table {
	vf, _ := variationFormat(m)
	t := present.NewTable(id, title,
		present.Column{Key: "hospital_name", Title: "Hospital", Format: present.FormatText},
		present.Column{Key: "city", Title: "City", Format: present.FormatText},
		present.Column{Key: "procedure_count", Title: "Procedure Count", Format: present.FormatInteger},
		present.Column{Key: "price_variation", Title: m.Label(), Format: vf},
		present.Column{Key: "avg_price", Title: "Average Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "min_price", Title: "Minimum Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "max_price", Title: "Maximum Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "percentile_rank", Title: "Consistency Score", Format: present.FormatScore},
		present.Column{Key: "score_category", Title: "Rating", Format: present.FormatText},
	)
	t.SearchColumn = "hospital_name"
	for _, h := range rows {
		t.Append(variationDatum(h))
	}
	return t
}
