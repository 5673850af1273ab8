package model

import (
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gyeh/healthnav/internal/metrics"
)

// HospitalVariation is one hospital in the price variation ranking.
type HospitalVariation struct {
	HospitalID     string              `json:"hospital_id"`
	HospitalName   string              `json:"hospital_name"`
	City           string              `json:"city"`
	State          string              `json:"state"`
	ProcedureCount int64               `json:"procedure_count"`
	PriceVariation pgtype.Float8       `json:"price_variation"`
	AvgPrice       pgtype.Float8       `json:"avg_price"`
	MinPrice       pgtype.Float8       `json:"min_price"`
	MaxPrice       pgtype.Float8       `json:"max_price"`
	UniqueCodes    int64               `json:"unique_codes"`
	PercentileRank pgtype.Float8       `json:"percentile_rank"`
	ScoreCategory  metrics.Consistency `json:"score_category"`
}

// ProcedurePrice compares one hospital's price for a code with the market.
type ProcedurePrice struct {
	Code               string                `json:"code"`
	Description        string                `json:"description"`
	Price              float64               `json:"price"`
	AvgPriceAcross     pgtype.Float8         `json:"avg_price_across_hospitals"`
	PercentDiffFromAvg pgtype.Float8         `json:"percent_diff_from_avg"`
	PriceCategory      metrics.PriceCategory `json:"price_category"`
}

// ProviderCharge is the average standard charge billed under one payer.
type ProviderCharge struct {
	PayerName string        `json:"payer_name"`
	AvgCharge pgtype.Float8 `json:"avg_charge"`
}

// CityMetric is the chosen price aggregate for a code within one city.
type CityMetric struct {
	City         string        `json:"city"`
	State        string        `json:"state"`
	CityState    string        `json:"city_state"`
	PriceMetric  pgtype.Float8 `json:"price_metric"`
	NumProviders int64         `json:"num_providers"`
}

// StateAggregate rolls city metrics up to their state.
type StateAggregate struct {
	State          string  `json:"state"`
	AvgPrice       float64 `json:"avg_price"`
	MinPrice       float64 `json:"min_price"`
	MaxPrice       float64 `json:"max_price"`
	TotalCities    int     `json:"total_cities"`
	TotalProviders int64   `json:"total_providers"`
}

// CityComparison is a city's price metric relative to its state average.
type CityComparison struct {
	CityState    string        `json:"city_state"`
	PriceMetric  float64       `json:"price_metric"`
	StateAvg     float64       `json:"state_avg"`
	PriceDiff    float64       `json:"price_diff"`
	PriceDiffPct pgtype.Float8 `json:"price_diff_pct"`
}

// ChargeListing is a single charge line as shown by the navigator.
type ChargeListing struct {
	Description          string        `json:"description"`
	HospitalName         string        `json:"hospital_name"`
	City                 string        `json:"city"`
	State                string        `json:"state"`
	Zipcode              string        `json:"zipcode"`
	PayerName            string        `json:"payer_name"`
	PlanName             string        `json:"plan_name"`
	StandardChargeDollar pgtype.Float8 `json:"standard_charge_dollar"`
	MinimumCharge        pgtype.Float8 `json:"minimum_charge"`
	MaximumCharge        pgtype.Float8 `json:"maximum_charge"`
}

// CodeOption is one entry of the procedure code dropdown.
type CodeOption struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Label       string `json:"label"`
}
