package views

import (
	"context"
	"fmt"

	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/present"
)

// ProviderRequest filters the payer comparison. Either field may be "all".
type ProviderRequest struct {
	State string
	City  string
}

// ProviderComparison averages standard charges per insurance provider.
func (s *Service) ProviderComparison(ctx context.Context, req ProviderRequest) (*present.Result, error) {
	var state, city string
	if !normalize.IsAll(req.State) {
		state = normalize.NormalizeState(req.State)
	}
	if !normalize.IsAll(req.City) {
		city = req.City
	}

	r := present.NewResult("provider_comparison")
	r.Title = "Average Standard Charge by Insurance Provider"

	t := s.run(ctx, r, s.builder.ProviderAverages(state, city))
	if t.IsEmpty() {
		r.Warn("No data available for the selected filters.")
		r.Data = []model.ProviderCharge{}
		return r, nil
	}

	rows := make([]model.ProviderCharge, t.Len())
	for i := range rows {
		rows[i] = model.ProviderCharge{
			PayerName: t.String(i, "payer_name"),
			AvgCharge: t.Float(i, "avg_charge"),
		}
	}
	r.Data = rows

	if loc := locationText(state, city); loc != "" {
		r.Info("Showing data " + loc)
	}

	color := present.Quant("avg_charge", "", "")
	labels := present.Quant("avg_charge_label", "", "")
	chart := present.Chart{
		ID:         "provider_averages",
		Title:      "Average Standard Charge by Insurance Provider",
		Mark:       present.Bar,
		X:          present.Nominal("payer_name", "Insurance Provider"),
		Y:          present.Quant("avg_charge", "Average Standard Charge ($)", "$,.2f"),
		Color:      &color,
		ColorScale: &present.ColorScale{Scheme: "blues"},
		Labels:     &labels,
		Tooltips: []present.Field{
			present.Nominal("payer_name", "Insurance Provider"),
			present.Quant("avg_charge", "Average Standard Charge", "$,.2f"),
		},
	}
	tbl := present.NewTable("providers", "Insurance Providers",
		present.Column{Key: "payer_name", Title: "Insurance Provider", Format: present.FormatText},
		present.Column{Key: "avg_charge", Title: "Average Standard Charge", Format: present.FormatCurrencyCol},
	)
	tbl.SearchColumn = "payer_name"
	for _, p := range rows {
		label := present.NotAvailable
		if p.AvgCharge.Valid {
			label = present.FormatWholeCurrency(p.AvgCharge.Float64)
		}
		chart.Data = append(chart.Data, map[string]any{
			"payer_name":       p.PayerName,
			"avg_charge":       p.AvgCharge,
			"avg_charge_label": label,
		})
		tbl.Append(map[string]any{"payer_name": p.PayerName, "avg_charge": p.AvgCharge})
	}
	r.AddChart(chart)
	r.AddTable(tbl)
	return r, nil
}

// locationText renders "in City, ST", "in ST", "in City" or "".
func locationText(state, city string) string {
	switch {
	case city != "" && state != "":
		return fmt.Sprintf("in %s, %s", city, state)
	case state != "":
		return "in " + state
	case city != "":
		return "in " + city
	default:
		return ""
	}
}
