package views

import (
	"context"
	"math"
	"testing"

	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/warehouse"
)

var cityCols = []string{"city", "state", "price_metric", "num_providers"}

func explorerFake(cities [][]any) *warehouse.Fake {
	return (&warehouse.Fake{}).
		On("SELECT description", warehouse.NewTable([]string{"description"}, [][]any{{"Office visit"}})).
		On("AS price_metric", warehouse.NewTable(cityCols, cities))
}

func TestCostExplorer_Aggregates(t *testing.T) {
	fake := explorerFake([][]any{
		{"Las Vegas", "NV", 300.0, int64(2)},
		{"Chicago", "IL", 200.0, int64(3)},
		{"Reno", "NV", 100.0, int64(1)},
		{"Springfield", "IL", 50.0, int64(1)},
	})
	svc := newTestService(t, fake, Settings{})

	r, err := svc.CostExplorer(context.Background(), ExplorerRequest{Code: "99213 - Office visit", Metric: "median"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Title != "Analysis for: Office visit (CPT 99213)" {
		t.Errorf("title = %q", r.Title)
	}
	if fake.Calls[0].Args[0] != "99213" {
		t.Errorf("code arg = %v", fake.Calls[0].Args)
	}

	data := r.Data.(*ExplorerData)
	if data.Cities[0].CityState != "Las Vegas, NV" {
		t.Errorf("city_state = %q", data.Cities[0].CityState)
	}

	if len(r.Summary) != 3 {
		t.Fatalf("summary = %+v", r.Summary)
	}
	if r.Summary[0].Label != "National Median" || r.Summary[0].Value != "$162.50" || r.Summary[0].Detail != "Based on 4 cities" {
		t.Errorf("national card = %+v", r.Summary[0])
	}
	if r.Summary[1].Value != "Las Vegas, NV" || r.Summary[2].Value != "Springfield, IL" {
		t.Errorf("extreme cards = %+v %+v", r.Summary[1], r.Summary[2])
	}

	if len(data.States) != 2 {
		t.Fatalf("states = %+v", data.States)
	}
	il, nv := data.States[0], data.States[1]
	if il.State != "IL" || il.AvgPrice != 125 || il.MinPrice != 50 || il.MaxPrice != 200 || il.TotalCities != 2 || il.TotalProviders != 4 {
		t.Errorf("IL = %+v", il)
	}
	if nv.State != "NV" || nv.AvgPrice != 200 || nv.TotalProviders != 3 {
		t.Errorf("NV = %+v", nv)
	}

	if len(data.Above) != 4 || data.Above[0].CityState != "Chicago, IL" {
		t.Errorf("above = %+v", data.Above)
	}
	if math.Abs(data.Above[0].PriceDiffPct.Float64-60) > 1e-9 || data.Above[0].PriceDiff != 75 {
		t.Errorf("Chicago comparison = %+v", data.Above[0])
	}
	if data.Below[0].CityState != "Springfield, IL" {
		t.Errorf("below = %+v", data.Below)
	}
	if r.Table("above") == nil || r.Table("below") == nil {
		t.Error("comparison tables expected with 3+ cities")
	}
	if len(r.Charts) != 2 {
		t.Errorf("charts = %d", len(r.Charts))
	}
}

func TestCostExplorer_FewCitiesAndSearch(t *testing.T) {
	fake := explorerFake([][]any{
		{"Las Vegas", "NV", 300.0, int64(2)},
		{"Reno", "NV", 100.0, int64(1)},
	})
	svc := newTestService(t, fake, Settings{ChartLimit: 1})

	r, err := svc.CostExplorer(context.Background(), ExplorerRequest{Code: "99213", State: "nv", Search: "reno"})
	if err != nil {
		t.Fatal(err)
	}
	if r.Table("above") != nil {
		t.Error("no comparison with fewer than 3 cities")
	}
	if cities := r.Table("cities"); len(cities.Rows) != 1 || cities.Rows[0]["city_state"] != "Reno, NV" {
		t.Errorf("search result = %+v", cities.Rows)
	}
	if len(r.Charts[0].Data) != 1 || !hasNotice(r, present.Info, "Showing top 1 cities out of 2 total.") {
		t.Errorf("chart limit not applied: %+v", r.Notices)
	}
	args := fake.Calls[1].Args
	if len(args) != 2 || args[1] != "NV" {
		t.Errorf("city metrics args = %v", args)
	}
}

func TestCostExplorer_EmptyAndUnknown(t *testing.T) {
	svc := newTestService(t, &warehouse.Fake{}, Settings{})
	r, err := svc.CostExplorer(context.Background(), ExplorerRequest{Code: "00000"})
	if err != nil {
		t.Fatal(err)
	}
	data := r.Data.(*ExplorerData)
	if data.Description != "Unknown Procedure" {
		t.Errorf("description = %q", data.Description)
	}
	if !hasNotice(r, present.Warning, "No data found for CPT code 00000 in the selected area.") {
		t.Errorf("notices = %+v", r.Notices)
	}
}

func TestCostExplorer_Validation(t *testing.T) {
	svc := newTestService(t, &warehouse.Fake{}, Settings{})
	_, err := svc.CostExplorer(context.Background(), ExplorerRequest{Code: "  "})
	assertValidation(t, err, "code")
	_, err = svc.CostExplorer(context.Background(), ExplorerRequest{Code: "99213", Metric: "mode"})
	assertValidation(t, err, "metric")
}
