// mkfixture writes a synthetic Parquet charge fixture for `healthnav seed`.
// The output is deterministic for a given --seed.
// Usage: go run ./cmd/mkfixture --out testdata/charges.parquet --seed 42
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/gyeh/healthnav/internal/parquetread"
)

func main() {
	out := flag.String("out", "testdata/charges.parquet", "output parquet")
	seed := flag.Uint64("seed", 42, "random seed")
	states := flag.String("states", "NV,IL,NC,CA,TX", "comma-separated state codes")
	cities := flag.Int("cities", 3, "cities per state")
	perCity := flag.Int("hospitals", 3, "hospitals per city")
	providers := flag.Int("providers", 6, "insurance providers")
	plans := flag.Int("plans", 2, "plans per provider")
	missing := flag.Float64("missing", 0.03, "fraction of rows without charges")
	flag.Parse()

	o := options{
		CitiesPerState:    *cities,
		HospitalsPerCity:  *perCity,
		Providers:         *providers,
		PlansPerProvider:  *plans,
		MissingChargeRate: *missing,
	}
	for _, s := range strings.Split(*states, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			o.States = append(o.States, s)
		}
	}
	if len(o.States) == 0 || o.CitiesPerState < 1 || o.HospitalsPerCity < 1 || o.Providers < 1 || o.PlansPerProvider < 1 {
		fmt.Fprintln(os.Stderr, "states, cities, hospitals, providers and plans must all be non-empty")
		os.Exit(1)
	}

	rows := generate(gofakeit.New(*seed), o)
	if err := parquetread.Write(*out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}

	hospitals := make(map[string]bool)
	var priced int
	for _, r := range rows {
		hospitals[r.HospitalID] = true
		if r.StandardChargeDollar != nil {
			priced++
		}
	}
	fmt.Printf("Wrote %d rows to %s\n", len(rows), *out)
	fmt.Printf("  %-10s %d\n", "hospitals", len(hospitals))
	fmt.Printf("  %-10s %d\n", "priced", priced)
	fmt.Printf("  %-10s %d\n", "states", len(o.States))
}
