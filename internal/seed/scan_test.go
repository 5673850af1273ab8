package seed

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/db"
	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/parquetread"
)

func strp(s string) *string    { return &s }
func f64p(f float64) *float64 { return &f }

func writeFixture(t *testing.T, rows []model.ChargeFixtureRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.parquet")
	if err := parquetread.Write(path, rows); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScan_CollectsDistinctDimensions(t *testing.T) {
	path := writeFixture(t, []model.ChargeFixtureRow{
		{HospitalID: "H1", HospitalName: "Sunrise  Hospital", City: strp("Las Vegas"), State: strp("nv"), Zipcode: strp("89109-1234"),
			Code: "99213", Description: "Office visit", InsuranceProviderID: strp("P1"), PayerName: strp("Acme"),
			InsurancePlanID: strp("PL1"), PlanName: strp("Gold"), StandardChargeDollar: f64p(120)},
		{HospitalID: "H1", HospitalName: "Renamed", Code: "80053", Description: "Panel", StandardChargeDollar: f64p(40)},
		{HospitalID: "H2", HospitalName: "Desert", Code: "99213", Description: "Other text", InsuranceProviderID: strp("P1"), PayerName: strp("Acme")},
		{HospitalID: "", HospitalName: "Nameless", Code: "99213", Description: "Office visit"},
		{HospitalID: "H3", HospitalName: "No code", Code: "  ", Description: "x"},
	})

	d, err := Scan(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if d.RowsRead != 5 || d.RowsRejected != 2 {
		t.Errorf("read=%d rejected=%d", d.RowsRead, d.RowsRejected)
	}
	if len(d.Hospitals) != 2 || len(d.Providers) != 1 || len(d.Plans) != 1 || len(d.ServiceCodes) != 2 {
		t.Fatalf("dimensions = %d/%d/%d/%d", len(d.Hospitals), len(d.Providers), len(d.Plans), len(d.ServiceCodes))
	}

	h1 := d.Hospitals["H1"]
	if h1.Name != "Sunrise Hospital" || *h1.State != "NV" || *h1.Zipcode != "89109" {
		t.Errorf("first occurrence should win and be normalized: %+v", h1)
	}
	if d.ServiceCodes["99213"].Description != "Office visit" {
		t.Errorf("code description = %q", d.ServiceCodes["99213"].Description)
	}
	if p := d.Plans["PL1"]; p.ProviderID == nil || *p.ProviderID != "P1" {
		t.Errorf("plan provider = %+v", p)
	}
}

func TestSortedValues(t *testing.T) {
	m := map[string]*model.ServiceCode{
		"b": {Code: "b"},
		"a": {Code: "a"},
		"c": {Code: "c"},
	}
	got := sortedValues(m)
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Code != want {
			t.Fatalf("order = %v", got)
		}
	}
}

func TestCopyRows(t *testing.T) {
	rows := copyRows([]*model.Hospital{{ID: "H1", Name: "A"}})
	vals := rows[0].CopyValues()
	if len(vals) != len(model.HospitalColumns()) || vals[0] != "H1" {
		t.Errorf("values = %v", vals)
	}
}

func TestPipelineError(t *testing.T) {
	inner := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &PipelineError{Phase: "copy", Err: inner})
	var pe *PipelineError
	if !errors.As(err, &pe) || pe.Phase != "copy" {
		t.Fatalf("errors.As failed: %v", err)
	}
	if !errors.Is(err, inner) {
		t.Error("PipelineError should unwrap")
	}
	if pe.Error() != "copy: boom" {
		t.Errorf("message = %q", pe.Error())
	}
}

func TestProduceCharges_ReadErrorFailsSource(t *testing.T) {
	readErr := errors.New("corrupt page")
	each := func(_ int, fn func(*model.ChargeFixtureRow) error) (int64, error) {
		rows := []model.ChargeFixtureRow{
			{HospitalID: "H1", HospitalName: "A", Code: "99213", Description: "Visit", StandardChargeDollar: f64p(100)},
			{HospitalID: "", HospitalName: "Nameless", Code: "99213"},
			{HospitalID: "H2", HospitalName: "B", Code: "80053", Description: "Panel", StandardChargeDollar: f64p(40)},
		}
		for i := range rows {
			if err := fn(&rows[i]); err != nil {
				return int64(i), err
			}
		}
		return int64(len(rows)), readErr
	}

	ch := make(chan *model.ChargeRecord, 8)
	src := db.NewChannelSource(ch)
	err := produceCharges(context.Background(), each, ch, src)
	if !errors.Is(err, readErr) {
		t.Fatalf("err = %v", err)
	}

	var got []string
	for src.Next() {
		vals, _ := src.Values()
		got = append(got, vals[0].(string))
	}
	if len(got) != 2 || got[0] != "H1" || got[1] != "H2" {
		t.Errorf("rows = %v", got)
	}
	if !errors.Is(src.Err(), readErr) {
		t.Errorf("source Err = %v, want read error so COPY aborts", src.Err())
	}
}

func TestProduceCharges_CleanEnd(t *testing.T) {
	each := func(_ int, fn func(*model.ChargeFixtureRow) error) (int64, error) {
		row := model.ChargeFixtureRow{HospitalID: "H1", HospitalName: "A", Code: "99213", Description: "Visit"}
		return 1, fn(&row)
	}
	ch := make(chan *model.ChargeRecord, 1)
	src := db.NewChannelSource(ch)
	if err := produceCharges(context.Background(), each, ch, src); err != nil {
		t.Fatal(err)
	}
	for src.Next() {
	}
	if src.Err() != nil {
		t.Errorf("Err = %v", src.Err())
	}
}
