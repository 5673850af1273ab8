package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/present"
	"github.com/gyeh/healthnav/internal/warehouse"
)

// CheapestLimit is the number of charges shown when no location is given.
const CheapestLimit = 10

// NavigatorRequest looks up charges for a code near a ZIP code or city.
// Zip wins over City; with neither the cheapest charges are listed.
type NavigatorRequest struct {
	Code string
	Zip  string
	City string
}

// Navigator lists individual charges for a procedure.
func (s *Service) Navigator(ctx context.Context, req NavigatorRequest) (*present.Result, error) {
	code := normalize.CodeFromOption(req.Code)
	if code == "" {
		return nil, &ValidationError{Field: "code", Message: "Please enter a CPT code."}
	}
	zip := normalize.NormalizeZip(req.Zip)
	city := strings.TrimSpace(req.City)

	r := present.NewResult("navigator")
	r.Title = "Health Cost Navigator"
	r.Data = []model.ChargeListing{}

	var t *warehouse.Table
	switch {
	case zip != "":
		r.Info(fmt.Sprintf("Searching for CPT code %s in ZIP code %s...", code, zip))
		t = s.run(ctx, r, s.builder.ChargesByZip(code, zip))
		if t.IsEmpty() {
			r.Warn(fmt.Sprintf("No results found for ZIP %s.", zip))
		}
	case city != "":
		zt := s.run(ctx, r, s.builder.ZipsByCity(normalize.NormalizeCity(city)))
		if zt.IsEmpty() {
			r.Warn("No ZIP codes found for city: " + city)
			return r, nil
		}
		r.Info(fmt.Sprintf("Searching for CPT code %s in city: %s", code, city))
		t = s.run(ctx, r, s.builder.ChargesByZips(code, zt.Strings("zipcode")))
		if t.IsEmpty() {
			r.Warn(fmt.Sprintf("No results for CPT code %s in city %s.", code, city))
		} else {
			r.Success(fmt.Sprintf("Found %d results for city %s", t.Len(), city))
		}
	default:
		r.Info(fmt.Sprintf("No location provided. Showing top %d cheapest charges for CPT code %s.", CheapestLimit, code))
		t = s.run(ctx, r, s.builder.CheapestCharges(code, CheapestLimit))
	}
	if t.IsEmpty() {
		return r, nil
	}

	rows := make([]model.ChargeListing, t.Len())
	tbl := present.NewTable("charges", "Charges",
		present.Column{Key: "description", Title: "Service Description", Format: present.FormatText},
		present.Column{Key: "hospital_name", Title: "Hospital Name", Format: present.FormatText},
		present.Column{Key: "city", Title: "City", Format: present.FormatText},
		present.Column{Key: "state", Title: "State", Format: present.FormatText},
		present.Column{Key: "zipcode", Title: "ZIP Code", Format: present.FormatText},
		present.Column{Key: "payer_name", Title: "Insurance Provider", Format: present.FormatText},
		present.Column{Key: "plan_name", Title: "Insurance Plan", Format: present.FormatText},
		present.Column{Key: "standard_charge_dollar", Title: "Standard Charge ($)", Format: present.FormatCurrencyCol},
		present.Column{Key: "minimum_charge", Title: "Minimum Charge ($)", Format: present.FormatCurrencyCol},
		present.Column{Key: "maximum_charge", Title: "Maximum Charge ($)", Format: present.FormatCurrencyCol},
	)
	tbl.SearchColumn = "hospital_name"
	for i := range rows {
		c := model.ChargeListing{
			Description:          t.String(i, "description"),
			HospitalName:         t.String(i, "hospital_name"),
			City:                 t.String(i, "city"),
			State:                t.String(i, "state"),
			Zipcode:              t.String(i, "zipcode"),
			PayerName:            t.String(i, "payer_name"),
			PlanName:             t.String(i, "plan_name"),
			StandardChargeDollar: t.Float(i, "standard_charge_dollar"),
			MinimumCharge:        t.Float(i, "minimum_charge"),
			MaximumCharge:        t.Float(i, "maximum_charge"),
		}
		rows[i] = c
		tbl.Append(map[string]any{
			"description":            c.Description,
			"hospital_name":          c.HospitalName,
			"city":                   c.City,
			"state":                  c.State,
			"zipcode":                c.Zipcode,
			"payer_name":             c.PayerName,
			"plan_name":              c.PlanName,
			"standard_charge_dollar": c.StandardChargeDollar,
			"minimum_charge":         c.MinimumCharge,
			"maximum_charge":         c.MaximumCharge,
		})
	}
	r.Data = rows
	r.AddTable(tbl)
	return r, nil
}
