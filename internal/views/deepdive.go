package views

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gyeh/healthnav/internal/metrics"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/warehouse"
)

// DeepDiveRequest selects one hospital. HospitalName is only used for display.
type DeepDiveRequest struct {
	HospitalID   string
	HospitalName string
}

// ProcedureDeepDive compares each of a hospital's procedure prices with the
// market average for the same code.
func (s *Service) ProcedureDeepDive(ctx context.Context, req DeepDiveRequest) (*present.Result, error) {
	id := strings.TrimSpace(req.HospitalID)
	if id == "" {
		return nil, &ValidationError{Field: "hospital_id", Message: "Please select a hospital."}
	}
	name := strings.TrimSpace(req.HospitalName)
	if name == "" {
		name = id
	}

	r := present.NewResult("procedure_deep_dive")
	r.Title = "Deep Dive: Procedure-level Price Consistency"

	t := s.run(ctx, r, s.builder.ProcedureDeepDive(id))
	if t.IsEmpty() {
		r.Warn(fmt.Sprintf("No procedure data found for %s.", name))
		r.Data = []model.ProcedurePrice{}
		return r, nil
	}

	rows := procedurePrices(t)
	r.Data = rows

	prices := make([]float64, len(rows))
	for i, p := range rows {
		prices[i] = p.Price
	}
	for _, m := range []metrics.VariationMetric{metrics.CoefficientOfVariation, metrics.StandardDeviation, metrics.PriceRange} {
		vf, _ := variationFormat(m)
		r.AddCard(present.Card{
			Label:  m.Label(),
			Value:  present.Cell(metrics.Dispersion(prices, m), vf),
			Detail: fmt.Sprintf("Across %d %s", len(rows), plural(len(rows), "procedure", "procedures")),
		})
	}

	r.AddChart(categoryChart(rows, name))

	tbl := present.NewTable("procedures", "Procedure Price Details",
		present.Column{Key: "code", Title: "CPT Code", Format: present.FormatText},
		present.Column{Key: "description", Title: "Procedure Description", Format: present.FormatText},
		present.Column{Key: "price", Title: "Hospital Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "avg_price_across_hospitals", Title: "Avg Market Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "percent_diff_from_avg", Title: "% Difference", Format: present.FormatSignedPctCol},
		present.Column{Key: "price_category", Title: "Price Category", Format: present.FormatText},
	)
	tbl.SearchColumn = "description"
	for _, p := range rows {
		tbl.Append(map[string]any{
			"code":                       p.Code,
			"description":                p.Description,
			"price":                      p.Price,
			"avg_price_across_hospitals": p.AvgPriceAcross,
			"percent_diff_from_avg":      p.PercentDiffFromAvg,
			"price_category":             string(p.PriceCategory),
		})
	}
	r.AddTable(tbl)
	return r, nil
}

// procedurePrices derives the percent difference and category per row and
// orders rows by absolute difference, largest first, undefined last.
func procedurePrices(t *warehouse.Table) []model.ProcedurePrice {
	rows := make([]model.ProcedurePrice, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		p := model.ProcedurePrice{
			Code:           t.String(i, "code"),
			Description:    t.String(i, "description"),
			Price:          t.Float(i, "price").Float64,
			AvgPriceAcross: t.Float(i, "avg_price_across_hospitals"),
		}
		if p.AvgPriceAcross.Valid {
			p.PercentDiffFromAvg = metrics.PercentDiff(p.Price, p.AvgPriceAcross.Float64)
		}
		p.PriceCategory = metrics.PriceCategoryOf(p.PercentDiffFromAvg)
		rows = append(rows, p)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].PercentDiffFromAvg, rows[j].PercentDiffFromAvg
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.Valid {
			return false
		}
		return math.Abs(a.Float64) > math.Abs(b.Float64)
	})
	return rows
}

func categoryChart(rows []model.ProcedurePrice, hospital string) present.Chart {
	counts := make(map[metrics.PriceCategory]int)
	for _, p := range rows {
		counts[p.PriceCategory]++
	}
	order := append(append([]metrics.PriceCategory{}, metrics.PriceCategories...), metrics.Uncategorized)

	c := present.Chart{
		ID:         "price_categories",
		Title:      fmt.Sprintf("Procedure Price Categories for %s", hospital),
		Mark:       present.Bar,
		X:          present.Quant("count", "Number of Procedures", ""),
		Y:          present.Nominal("category", ""),
		ColorScale: &present.ColorScale{},
		Tooltips: []present.Field{
			present.Nominal("category", "Category"),
			present.Quant("count", "Count", ""),
		},
	}
	color := present.Nominal("category", "")
	c.Color = &color
	for _, cat := range order {
		c.Sort = append(c.Sort, string(cat))
		c.ColorScale.Domain = append(c.ColorScale.Domain, string(cat))
		c.ColorScale.Range = append(c.ColorScale.Range, cat.Color())
		if n := counts[cat]; n > 0 {
			c.Data = append(c.Data, map[string]any{"category": string(cat), "count": n})
		}
	}
	return c
}
