package views

import (
	"context"
	"reflect"
	"testing"

	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/warehouse"
)

var listingCols = []string{
	"description", "hospital_name", "city", "state", "zipcode",
	"payer_name", "plan_name", "standard_charge_dollar", "minimum_charge", "maximum_charge",
}

func listingTable(n int) *warehouse.Table {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{"Office visit", "Sunrise", "Las Vegas", "NV", "89109", "Acme", "Gold", 100.0 + float64(i), nil, 200.0}
	}
	return warehouse.NewTable(listingCols, rows)
}

func TestNavigator_RequiresCode(t *testing.T) {
	fake := &warehouse.Fake{}
	svc := newTestService(t, fake, Settings{})
	_, err := svc.Navigator(context.Background(), NavigatorRequest{Zip: "89109"})
	assertValidation(t, err, "code")
	if err.(*ValidationError).Message != "Please enter a CPT code." {
		t.Errorf("message = %q", err.(*ValidationError).Message)
	}
	if fake.CallCount() != 0 {
		t.Error("no query may be issued for invalid input")
	}
}

func TestNavigator_ByZip(t *testing.T) {
	fake := (&warehouse.Fake{}).On("h.zipcode = $2", listingTable(2))
	svc := newTestService(t, fake, Settings{})

	r, err := svc.Navigator(context.Background(), NavigatorRequest{Code: "99213", Zip: "89109-1234", City: "ignored"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fake.Calls[0].Args, []any{"99213", "89109"}) {
		t.Errorf("args = %v", fake.Calls[0].Args)
	}
	rows := r.Data.([]model.ChargeListing)
	if len(rows) != 2 || rows[0].MinimumCharge.Valid {
		t.Errorf("rows = %+v", rows)
	}
	if got := present.Cell(r.Tables[0].Rows[0]["minimum_charge"], present.FormatCurrencyCol); got != present.NotAvailable {
		t.Errorf("null charge rendered as %q", got)
	}
}

func TestNavigator_ByZipEmpty(t *testing.T) {
	svc := newTestService(t, &warehouse.Fake{}, Settings{})
	r, err := svc.Navigator(context.Background(), NavigatorRequest{Code: "99213", Zip: "10001"})
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(r, present.Warning, "No results found for ZIP 10001.") {
		t.Errorf("notices = %+v", r.Notices)
	}
}

func TestNavigator_ByCity(t *testing.T) {
	fake := (&warehouse.Fake{}).
		On("SELECT DISTINCT zipcode", warehouse.NewTable([]string{"zipcode"}, [][]any{{"89101"}, {"89109"}})).
		On("ANY($2)", listingTable(3))
	svc := newTestService(t, fake, Settings{})

	r, err := svc.Navigator(context.Background(), NavigatorRequest{Code: "99213", City: " las vegas "})
	if err != nil {
		t.Fatal(err)
	}
	if fake.Calls[0].Args[0] != "LAS VEGAS" {
		t.Errorf("city lookup arg = %v", fake.Calls[0].Args)
	}
	if !reflect.DeepEqual(fake.Calls[1].Args[1], []string{"89101", "89109"}) {
		t.Errorf("zips arg = %#v", fake.Calls[1].Args[1])
	}
	if !hasNotice(r, present.Success, "Found 3 results for city las vegas") {
		t.Errorf("notices = %+v", r.Notices)
	}
}

func TestNavigator_CityWithoutZips(t *testing.T) {
	fake := &warehouse.Fake{}
	svc := newTestService(t, fake, Settings{})
	r, err := svc.Navigator(context.Background(), NavigatorRequest{Code: "99213", City: "Atlantis"})
	if err != nil {
		t.Fatal(err)
	}
	if !hasNotice(r, present.Warning, "No ZIP codes found for city: Atlantis") {
		t.Errorf("notices = %+v", r.Notices)
	}
	if fake.CallCount() != 1 {
		t.Errorf("listing must not run without ZIP codes, calls = %d", fake.CallCount())
	}
}

func TestNavigator_Cheapest(t *testing.T) {
	fake := (&warehouse.Fake{}).On("LIMIT $2", listingTable(10))
	svc := newTestService(t, fake, Settings{})
	r, err := svc.Navigator(context.Background(), NavigatorRequest{Code: "99213"})
	if err != nil {
		t.Fatal(err)
	}
	if fake.Calls[0].Args[1] != CheapestLimit {
		t.Errorf("limit arg = %v", fake.Calls[0].Args)
	}
	if !hasNotice(r, present.Info, "No location provided. Showing top 10 cheapest charges for CPT code 99213.") {
		t.Errorf("notices = %+v", r.Notices)
	}
	if len(r.Tables[0].Rows) != 10 {
		t.Errorf("rows = %d", len(r.Tables[0].Rows))
	}
}
