package main

import (
	"fmt"
	"math"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/gyeh/healthnav/internal/model"
)

// procedure is one catalog entry with a typical national price.
type procedure struct {
	code        string
	description string
	basePrice   float64
}

var catalog = []procedure{
	{"99213", "Office or other outpatient visit, established patient, low complexity", 130},
	{"99214", "Office or other outpatient visit, established patient, moderate complexity", 190},
	{"99203", "Office or other outpatient visit, new patient, low complexity", 170},
	{"99283", "Emergency department visit, moderate severity", 540},
	{"99285", "Emergency department visit, high severity", 1450},
	{"80053", "Comprehensive metabolic panel", 60},
	{"85025", "Complete blood count with automated differential", 35},
	{"81001", "Urinalysis, automated, with microscopy", 20},
	{"71046", "Radiologic examination, chest; 2 views", 210},
	{"73721", "MRI of lower extremity joint without contrast", 1900},
	{"74177", "CT of abdomen and pelvis with contrast", 2600},
	{"70450", "CT of head or brain without contrast", 1400},
	{"76700", "Ultrasound, abdominal, complete", 620},
	{"93000", "Electrocardiogram, routine, with interpretation and report", 90},
	{"93306", "Echocardiography, transthoracic, complete", 1600},
	{"45378", "Colonoscopy, flexible; diagnostic", 2300},
	{"43239", "Upper GI endoscopy with biopsy", 2100},
	{"29881", "Arthroscopy, knee, with meniscectomy", 6800},
	{"66984", "Cataract removal with intraocular lens insertion", 4200},
	{"59400", "Routine obstetric care including vaginal delivery", 9500},
	{"36415", "Collection of venous blood by venipuncture", 15},
	{"97110", "Therapeutic exercises, each 15 minutes", 75},
}

var planTiers = []string{"PPO", "HMO", "EPO", "Gold", "Silver"}

// options controls fixture size.
type options struct {
	States            []string
	CitiesPerState    int
	HospitalsPerCity  int
	Providers         int
	PlansPerProvider  int
	MissingChargeRate float64
}

type hospital struct {
	id, name, city, state, zip string
	// scale shifts all prices; spread controls how consistent they are.
	scale, spread float64
	codes         []procedure
}

type payer struct {
	id, name string
	plans    []payerPlan
}

type payerPlan struct {
	id, name string
}

// generate builds a fixture from f. The same seed yields the same rows.
func generate(f *gofakeit.Faker, o options) []model.ChargeFixtureRow {
	payers := make([]payer, o.Providers)
	for i := range payers {
		p := payer{id: fmt.Sprintf("P%03d", i+1), name: f.Company() + " Health"}
		for j := 0; j < o.PlansPerProvider; j++ {
			p.plans = append(p.plans, payerPlan{
				id:   fmt.Sprintf("%s-PL%02d", p.id, j+1),
				name: fmt.Sprintf("%s %s", p.name, planTiers[j%len(planTiers)]),
			})
		}
		payers[i] = p
	}

	var hospitals []hospital
	for _, state := range o.States {
		for c := 0; c < o.CitiesPerState; c++ {
			city := f.City()
			for h := 0; h < o.HospitalsPerCity; h++ {
				n := len(hospitals) + 1
				hospitals = append(hospitals, hospital{
					id:     fmt.Sprintf("H%04d", n),
					name:   fmt.Sprintf("%s %s", f.LastName(), f.RandomString([]string{"Medical Center", "Regional Hospital", "Community Hospital", "Memorial Hospital"})),
					city:   city,
					state:  state,
					zip:    f.Zip(),
					scale:  f.Float64Range(0.6, 1.8),
					spread: f.Float64Range(0.02, 0.6),
					codes:  pickCodes(f, f.IntRange(len(catalog)/2, len(catalog))),
				})
			}
		}
	}

	var rows []model.ChargeFixtureRow
	for _, h := range hospitals {
		for _, p := range h.codes {
			py := payers[f.IntRange(0, len(payers)-1)]
			pl := py.plans[f.IntRange(0, len(py.plans)-1)]

			row := model.ChargeFixtureRow{
				HospitalID:          h.id,
				HospitalName:        h.name,
				City:                ptr(h.city),
				State:               ptr(h.state),
				Zipcode:             ptr(h.zip),
				Code:                p.code,
				Description:         p.description,
				InsuranceProviderID: ptr(py.id),
				PayerName:           ptr(py.name),
				InsurancePlanID:     ptr(pl.id),
				PlanName:            ptr(pl.name),
			}
			if f.Float64Range(0, 1) >= o.MissingChargeRate {
				price := cents(p.basePrice * h.scale * (1 + f.Float64Range(-h.spread, h.spread)))
				row.StandardChargeDollar = ptr(price)
				row.MinimumCharge = ptr(cents(price * f.Float64Range(0.5, 0.9)))
				row.MaximumCharge = ptr(cents(price * f.Float64Range(1.1, 1.6)))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// pickCodes returns n distinct catalog entries in catalog order.
func pickCodes(f *gofakeit.Faker, n int) []procedure {
	idx := make([]int, len(catalog))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := f.IntRange(0, i)
		idx[i], idx[j] = idx[j], idx[i]
	}
	chosen := make([]bool, len(catalog))
	for _, i := range idx[:n] {
		chosen[i] = true
	}
	out := make([]procedure, 0, n)
	for i, p := range catalog {
		if chosen[i] {
			out = append(out, p)
		}
	}
	return out
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr[T any](v T) *T { return &v }
