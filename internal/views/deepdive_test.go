package views

import (
	"context"
	"testing"

	"github.com/gyeh/healthnav/internal/metrics"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/warehouse"
)

func TestProcedureDeepDive_DerivesCategories(t *testing.T) {
	tbl := warehouse.NewTable(
		[]string{"code", "description", "price", "avg_price_across_hospitals"},
		[][]any{
			{"X", "Office visit", 115.0, 100.0},
			{"Z", "Odd code", 10.0, 0.0},
			{"Y", "Lab panel", 50.0, 100.0},
			{"W", "X-ray", 101.0, 100.0},
			{"V", "No market", 80.0, nil},
		},
	)
	fake := (&warehouse.Fake{}).On("WITH market", tbl)
	svc := newTestService(t, fake, Settings{})

	r, err := svc.ProcedureDeepDive(context.Background(), DeepDiveRequest{HospitalID: "H1", HospitalName: "Sunrise"})
	if err != nil {
		t.Fatal(err)
	}
	rows := r.Data.([]model.ProcedurePrice)

	wantOrder := []string{"Y", "X", "W", "Z", "V"}
	for i, code := range wantOrder {
		if rows[i].Code != code {
			t.Fatalf("order = %v, want %v", codes(rows), wantOrder)
		}
	}
	wantCat := map[string]metrics.PriceCategory{
		"Y": metrics.SignificantlyLower,
		"X": metrics.ModeratelyHigher,
		"W": metrics.Comparable,
		"Z": metrics.Uncategorized,
		"V": metrics.Uncategorized,
	}
	for _, p := range rows {
		if p.PriceCategory != wantCat[p.Code] {
			t.Errorf("%s category = %s, want %s", p.Code, p.PriceCategory, wantCat[p.Code])
		}
	}
	if rows[3].PercentDiffFromAvg.Valid {
		t.Error("zero market average must leave the difference undefined")
	}

	chart := r.Charts[0]
	var got []string
	for _, d := range chart.Data {
		got = append(got, d["category"].(string))
	}
	want := []string{"Significantly Lower", "Comparable", "Moderately Higher", "Uncategorized"}
	if len(got) != len(want) {
		t.Fatalf("chart categories = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chart categories = %v, want %v", got, want)
			break
		}
	}
	if chart.Title != "Procedure Price Categories for Sunrise" {
		t.Errorf("title = %q", chart.Title)
	}

	if len(r.Summary) != 3 || r.Summary[2].Label != "Price Range" || r.Summary[2].Value != "$105.00" {
		t.Errorf("dispersion cards = %+v", r.Summary)
	}
	if fake.Calls[0].Args[0] != "H1" {
		t.Errorf("args = %v", fake.Calls[0].Args)
	}
}

func codes(rows []model.ProcedurePrice) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Code
	}
	return out
}

func TestProcedureDeepDive_EmptyAndValidation(t *testing.T) {
	svc := newTestService(t, &warehouse.Fake{}, Settings{})

	r, err := svc.ProcedureDeepDive(context.Background(), DeepDiveRequest{HospitalID: "H9"})
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(r, present.Warning, "No procedure data found for H9.") {
		t.Errorf("notices = %+v", r.Notices)
	}

	_, err = svc.ProcedureDeepDive(context.Background(), DeepDiveRequest{HospitalID: "  "})
	assertValidation(t, err, "hospital_id")
}
