package query

import (
	"fmt"
	"strings"

	"github.com/gyeh/healthnav/internal/metrics"
)

// VariationFilter selects the hospitals ranked by PriceVariation.
type VariationFilter struct {
	States        []string
	City          string
	MinProcedures int
	Metric        metrics.VariationMetric
}

// PriceVariation computes one dispersion score per hospital over its positive
// standard charges. Only hospitals with at least MinProcedures distinct codes
// are returned, lowest variation first.
func (b *Builder) PriceVariation(f VariationFilter) Statement {
	var a args
	conds := []string{"m.standard_charge_dollar > 0"}
	if len(f.States) > 0 {
		conds = append(conds, "h.state = ANY("+a.add(f.States)+")")
	}
	if f.City != "" {
		conds = append(conds, "h.city = "+a.add(f.City))
	}
	minProcs := a.add(f.MinProcedures)

	return Statement{
		Name: "price_variation",
		SQL: fmt.Sprintf(`
WITH hospital_procedures AS (
    SELECT
        h.hospital_id,
        h.hospital_name,
        h.city,
        h.state,
        COUNT(DISTINCT m.code) AS procedure_count
    FROM %[1]s h
    JOIN %[2]s m ON h.hospital_id = m.hospital_id
    WHERE %[3]s
    GROUP BY h.hospital_id, h.hospital_name, h.city, h.state
    HAVING COUNT(DISTINCT m.code) >= %[4]s
)
SELECT
    hp.hospital_id,
    hp.hospital_name,
    hp.city,
    hp.state,
    hp.procedure_count,
    %[5]s AS price_variation,
    AVG(m.standard_charge_dollar) AS avg_price,
    MIN(m.standard_charge_dollar) AS min_price,
    MAX(m.standard_charge_dollar) AS max_price,
    COUNT(DISTINCT m.code) AS unique_codes
FROM hospital_procedures hp
JOIN %[2]s m ON hp.hospital_id = m.hospital_id
WHERE m.standard_charge_dollar > 0
GROUP BY hp.hospital_id, hp.hospital_name, hp.city, hp.state, hp.procedure_count
ORDER BY price_variation ASC NULLS LAST, hp.hospital_id`,
			b.hospital, b.master, strings.Join(conds, "\n      AND "), minProcs,
			variationExpr(f.Metric, "m.standard_charge_dollar")),
		Args: a.vals,
	}
}

// ProcedureDeepDive lists a hospital's positive charges with the market
// average for each code across all hospitals.
func (b *Builder) ProcedureDeepDive(hospitalID string) Statement {
	return Statement{
		Name: "procedure_deep_dive",
		SQL: fmt.Sprintf(`
WITH market AS (
    SELECT code, AVG(standard_charge_dollar) AS avg_price
    FROM %[1]s
    WHERE standard_charge_dollar > 0
    GROUP BY code
)
SELECT
    s.code,
    s.description,
    m.standard_charge_dollar AS price,
    mk.avg_price AS avg_price_across_hospitals
FROM %[1]s m
JOIN %[2]s s ON m.code = s.code
LEFT JOIN market mk ON mk.code = m.code
WHERE m.hospital_id = $1
  AND m.standard_charge_dollar > 0
ORDER BY s.code`, b.master, b.serviceCode),
		Args: []any{hospitalID},
	}
}

// ProviderAverages averages positive standard charges per payer, highest
// first. Empty state or city means no filter.
func (b *Builder) ProviderAverages(state, city string) Statement {
	var a args
	conds := []string{"m.standard_charge_dollar > 0"}
	if state != "" {
		conds = append(conds, "h.state = "+a.add(state))
	}
	if city != "" {
		conds = append(conds, "h.city = "+a.add(city))
	}
	return Statement{
		Name: "provider_averages",
		SQL: fmt.Sprintf(`
SELECT
    p.payer_name,
    AVG(m.standard_charge_dollar) AS avg_charge
FROM %s m
JOIN %s h ON m.hospital_id = h.hospital_id
JOIN %s p ON m.insurance_provider_id = p.insurance_provider_id
JOIN %s s ON m.code = s.code
WHERE %s
GROUP BY p.payer_name
ORDER BY avg_charge DESC NULLS LAST, p.payer_name`,
			b.master, b.hospital, b.provider, b.serviceCode, strings.Join(conds, "\n  AND ")),
		Args: a.vals,
	}
}

// CityMetrics aggregates positive standard charges for code per city,
// highest first. Empty state means all states.
func (b *Builder) CityMetrics(code, state string, metric PriceMetric) Statement {
	var a args
	conds := []string{
		"s.code = " + a.add(code),
		"h.city IS NOT NULL",
		"h.state IS NOT NULL",
		"m.standard_charge_dollar > 0",
	}
	if state != "" {
		conds = append(conds, "h.state = "+a.add(state))
	}
	return Statement{
		Name: "city_metrics",
		SQL: fmt.Sprintf(`
SELECT
    h.city,
    h.state,
    %s AS price_metric,
    COUNT(*) AS num_providers
FROM %s m
JOIN %s h ON m.hospital_id = h.hospital_id
JOIN %s s ON m.code = s.code
WHERE %s
GROUP BY h.city, h.state
ORDER BY price_metric DESC NULLS LAST, h.state, h.city`,
			metric.expr("m.standard_charge_dollar"), b.master, b.hospital, b.serviceCode,
			strings.Join(conds, "\n  AND ")),
		Args: a.vals,
	}
}

func (b *Builder) listing(name, where string, a *args, tail string) Statement {
	return Statement{
		Name: name,
		SQL: fmt.Sprintf(`
SELECT
    s.description,
    h.hospital_name,
    h.city,
    h.state,
    h.zipcode,
    p.payer_name,
    pl.plan_name,
    m.standard_charge_dollar,
    m.minimum_charge,
    m.maximum_charge
FROM %s m
JOIN %s h ON m.hospital_id = h.hospital_id
JOIN %s p ON m.insurance_provider_id = p.insurance_provider_id
JOIN %s pl ON m.insurance_plan_id = pl.insurance_plan_id
JOIN %s s ON m.code = s.code
WHERE %s
ORDER BY m.standard_charge_dollar ASC NULLS LAST%s`,
			b.master, b.hospital, b.provider, b.plan, b.serviceCode, where, tail),
		Args: a.vals,
	}
}

// ChargesByZip lists every charge for code at hospitals in one ZIP code.
func (b *Builder) ChargesByZip(code, zip string) Statement {
	var a args
	where := "s.code = " + a.add(code) + " AND h.zipcode = " + a.add(zip)
	return b.listing("charges_by_zip", where, &a, "")
}

// ChargesByZips lists every charge for code at hospitals in any of zips.
func (b *Builder) ChargesByZips(code string, zips []string) Statement {
	var a args
	where := "s.code = " + a.add(code) + " AND h.zipcode = ANY(" + a.add(zips) + ")"
	return b.listing("charges_by_zips", where, &a, "")
}

// CheapestCharges lists the limit lowest standard charges for code.
func (b *Builder) CheapestCharges(code string, limit int) Statement {
	var a args
	where := "s.code = " + a.add(code)
	tail := "\nLIMIT " + a.add(limit)
	return b.listing("cheapest_charges", where, &a, tail)
}
