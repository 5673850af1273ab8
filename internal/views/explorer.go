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
)

const (
	unknownProcedure   = "Unknown Procedure"
	comparisonMinCity  = 3
	comparisonTopCount = 10
)

// ExplorerRequest selects a code and aggregate for the city cost explorer.
// Code may be a bare code or a "CODE - DESCRIPTION" dropdown label.
type ExplorerRequest struct {
	Code   string
	State  string
	Metric string
	Search string
}

// ExplorerData is the typed payload of the cost explorer.
type ExplorerData struct {
	Code        string                 `json:"code"`
	Description string                 `json:"description"`
	Metric      string                 `json:"metric"`
	Cities      []model.CityMetric     `json:"cities"`
	States      []model.StateAggregate `json:"states"`
	Above       []model.CityComparison `json:"above_state_average"`
	Below       []model.CityComparison `json:"below_state_average"`
}

// CostExplorer shows how the price of one procedure varies across cities.
func (s *Service) CostExplorer(ctx context.Context, req ExplorerRequest) (*present.Result, error) {
	code := normalize.CodeFromOption(req.Code)
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: "Please select a CPT code."}
	}
	metric, err := query.ParsePriceMetric(req.Metric)
	if err != nil {
		return nil, &ValidationError{Field: "metric", Message: err.Error()}
	}
	var state string
	if !normalize.IsAll(req.State) {
		state = normalize.NormalizeState(req.State)
	}

	r := present.NewResult("cost_explorer")
	data := ExplorerData{
		Code:   code,
		Metric: metric.String(),
		Cities: []model.CityMetric{},
		States: []model.StateAggregate{},
		Above:  []model.CityComparison{},
		Below:  []model.CityComparison{},
	}
	r.Data = &data

	data.Description = unknownProcedure
	if dt := s.run(ctx, r, s.builder.CodeDescription(code)); !dt.IsEmpty() {
		data.Description = dt.String(0, "description")
	}
	r.Title = fmt.Sprintf("Analysis for: %s (CPT %s)", data.Description, code)

	r.Info(fmt.Sprintf("Calculating %s Standard Charge by city...", metric.Label()))
	t := s.run(ctx, r, s.builder.CityMetrics(code, state, metric))
	if t.IsEmpty() {
		r.Warn(fmt.Sprintf("No data found for CPT code %s in the selected area.", code))
		return r, nil
	}

	for i := 0; i < t.Len(); i++ {
		m := model.CityMetric{
			City:         t.String(i, "city"),
			State:        t.String(i, "state"),
			PriceMetric:  t.Float(i, "price_metric"),
			NumProviders: t.Int(i, "num_providers"),
		}
		m.CityState = m.City + ", " + m.State
		data.Cities = append(data.Cities, m)
	}

	valid := make([]model.CityMetric, 0, len(data.Cities))
	for _, c := range data.Cities {
		if c.PriceMetric.Valid {
			valid = append(valid, c)
		}
	}
	priceOf := func(c model.CityMetric) float64 { return c.PriceMetric.Float64 }

	if len(valid) > 0 {
		var sum float64
		for _, c := range valid {
			sum += priceOf(c)
		}
		most, least := valid[0], valid[len(valid)-1]
		r.AddCard(present.Card{
			Label:  "National " + metric.Label(),
			Value:  present.FormatCurrency(sum / float64(len(valid))),
			Detail: fmt.Sprintf("Based on %d %s", len(valid), plural(len(valid), "city", "cities")),
		})
		r.AddCard(present.Card{Label: "Most Expensive City", Value: most.CityState, Detail: present.FormatCurrency(priceOf(most))})
		r.AddCard(present.Card{Label: "Least Expensive City", Value: least.CityState, Detail: present.FormatCurrency(priceOf(least))})
	}

	data.States = stateAggregates(valid)
	if len(valid) >= comparisonMinCity {
		comps := cityComparisons(valid, data.States)
		pct := func(c model.CityComparison) pgtype.Float8 { return c.PriceDiffPct }
		data.Above = metrics.Largest(comps, comparisonTopCount, pct)
		data.Below = metrics.Smallest(comps, comparisonTopCount, pct)
	}

	limit := s.settings.ChartLimit
	top := data.Cities
	if len(top) > limit {
		top = top[:limit]
		r.Info(fmt.Sprintf("Showing top %d cities out of %d total.", limit, len(data.Cities)))
	}
	r.AddChart(cityChart(top, metric, data.Description))
	r.AddChart(stateChart(data.States, metric, data.Description))

	priceTitle := metric.Label() + " Price"
	cities := present.NewTable("cities", "Raw Data by City",
		present.Column{Key: "city_state", Title: "City", Format: present.FormatText},
		present.Column{Key: "price_metric", Title: priceTitle, Format: present.FormatCurrencyCol},
		present.Column{Key: "num_providers", Title: "Number of Providers", Format: present.FormatInteger},
	)
	cities.SearchColumn = "city_state"
	for _, c := range data.Cities {
		cities.Append(cityDatum(c))
	}
	r.AddTable(cities.Filter(req.Search))

	states := present.NewTable("states", "State Comparison",
		present.Column{Key: "state", Title: "State", Format: present.FormatText},
		present.Column{Key: "avg_price", Title: "Average " + priceTitle, Format: present.FormatCurrencyCol},
		present.Column{Key: "min_price", Title: "Minimum Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "max_price", Title: "Maximum Price", Format: present.FormatCurrencyCol},
		present.Column{Key: "total_cities", Title: "Number of Cities", Format: present.FormatInteger},
		present.Column{Key: "total_providers", Title: "Total Providers", Format: present.FormatInteger},
	)
	for _, st := range data.States {
		states.Append(stateDatum(st))
	}
	r.AddTable(states)

	if len(valid) >= comparisonMinCity {
		r.AddTable(comparisonTable("above", "Cities with Highest Prices Above State Average", "% Above Average", priceTitle, data.Above))
		r.AddTable(comparisonTable("below", "Cities with Lowest Prices Below State Average", "% Below Average", priceTitle, data.Below))
	}
	return r, nil
}

// stateAggregates rolls city metrics up per state, ordered by state.
func stateAggregates(cities []model.CityMetric) []model.StateAggregate {
	providers := make(map[string]int64)
	for _, c := range cities {
		providers[c.State] += c.NumProviders
	}
	groups := metrics.Summarize(cities,
		func(c model.CityMetric) string { return c.State },
		func(c model.CityMetric) float64 { return c.PriceMetric.Float64 })

	out := make([]model.StateAggregate, len(groups))
	for i, g := range groups {
		out[i] = model.StateAggregate{
			State:          g.Key,
			AvgPrice:       g.Mean,
			MinPrice:       g.Min,
			MaxPrice:       g.Max,
			TotalCities:    g.Count,
			TotalProviders: providers[g.Key],
		}
	}
	return out
}

// cityComparisons measures each city against its state's average metric.
func cityComparisons(cities []model.CityMetric, states []model.StateAggregate) []model.CityComparison {
	avg := make(map[string]float64, len(states))
	for _, st := range states {
		avg[st.State] = st.AvgPrice
	}
	out := make([]model.CityComparison, len(cities))
	for i, c := range cities {
		price := c.PriceMetric.Float64
		out[i] = model.CityComparison{
			CityState:    c.CityState,
			PriceMetric:  price,
			StateAvg:     avg[c.State],
			PriceDiff:    price - avg[c.State],
			PriceDiffPct: metrics.PercentDiff(price, avg[c.State]),
		}
	}
	return out
}

func cityDatum(c model.CityMetric) map[string]any {
	return map[string]any{
		"city":          c.City,
		"state":         c.State,
		"city_state":    c.CityState,
		"price_metric":  c.PriceMetric,
		"num_providers": c.NumProviders,
	}
}

func stateDatum(s model.StateAggregate) map[string]any {
	return map[string]any{
		"state":           s.State,
		"avg_price":       s.AvgPrice,
		"min_price":       s.MinPrice,
		"max_price":       s.MaxPrice,
		"total_cities":    s.TotalCities,
		"total_providers": s.TotalProviders,
	}
}

func cityChart(cities []model.CityMetric, metric query.PriceMetric, desc string) present.Chart {
	color := present.Quant("price_metric", "", "")
	c := present.Chart{
		ID:         "city_prices",
		Title:      fmt.Sprintf("Top Cities by %s Standard Charge for %s", metric.Label(), desc),
		Mark:       present.Bar,
		X:          present.Quant("price_metric", metric.Label()+" Price ($)", "$,.2f"),
		Y:          present.Nominal("city_state", "City"),
		Color:      &color,
		ColorScale: &present.ColorScale{Scheme: "blues"},
		Sort:       []string{"-x"},
		Tooltips: []present.Field{
			present.Nominal("city_state", "City"),
			present.Quant("price_metric", metric.Label()+" Price", "$,.2f"),
			present.Quant("num_providers", "Number of Providers", ""),
		},
	}
	for _, city := range cities {
		c.Data = append(c.Data, cityDatum(city))
	}
	return c
}

func stateChart(states []model.StateAggregate, metric query.PriceMetric, desc string) present.Chart {
	color := present.Nominal("state", "")
	c := present.Chart{
		ID:    "state_comparison",
		Title: fmt.Sprintf("State Comparison of %s Standard Charge for %s", metric.Label(), desc),
		Mark:  present.Bar,
		X:     present.Nominal("state", "State"),
		Y:     present.Quant("avg_price", fmt.Sprintf("Average %s Price ($)", metric.Label()), "$,.2f"),
		Color: &color,
		Tooltips: []present.Field{
			present.Nominal("state", "State"),
			present.Quant("avg_price", fmt.Sprintf("Average %s Price", metric.Label()), "$,.2f"),
			present.Quant("min_price", "Minimum Price", "$,.2f"),
			present.Quant("max_price", "Maximum Price", "$,.2f"),
			present.Quant("total_cities", "Number of Cities", ""),
			present.Quant("total_providers", "Total Providers", ""),
		},
	}
	for _, st := range states {
		c.Data = append(c.Data, stateDatum(st))
	}
	return c
}

func comparisonTable(id, title, pctTitle, priceTitle string, rows []model.CityComparison) *present.Table {
	t := present.NewTable(id, title,
		present.Column{Key: "city_state", Title: "City", Format: present.FormatText},
		present.Column{Key: "price_metric", Title: priceTitle, Format: present.FormatCurrencyCol},
		present.Column{Key: "state_avg", Title: "State Average", Format: present.FormatCurrencyCol},
		present.Column{Key: "price_diff", Title: "Price Difference", Format: present.FormatCurrencyCol},
		present.Column{Key: "price_diff_pct", Title: pctTitle, Format: present.FormatSignedPctCol},
	)
	for _, c := range rows {
		t.Append(map[string]any{
			"city_state":     c.CityState,
			"price_metric":   c.PriceMetric,
			"state_avg":      c.StateAvg,
			"price_diff":     c.PriceDiff,
			"price_diff_pct": c.PriceDiffPct,
		})
	}
	return t
}
