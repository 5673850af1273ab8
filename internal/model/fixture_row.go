package model

// ChargeFixtureRow mirrors the Parquet schema of a seed fixture. Each row
// carries one charge together with the dimension attributes it references;
// the seeder splits it into the warehouse tables.
type ChargeFixtureRow struct {
	HospitalID   string  `parquet:"hospital_id"`
	HospitalName string  `parquet:"hospital_name"`
	City         *string `parquet:"city,optional"`
	State        *string `parquet:"state,optional"`
	Zipcode      *string `parquet:"zipcode,optional"`

	Code        string `parquet:"code"`
	Description string `parquet:"description"`

	InsuranceProviderID *string `parquet:"insurance_provider_id,optional"`
	PayerName           *string `parquet:"payer_name,optional"`
	InsurancePlanID     *string `parquet:"insurance_plan_id,optional"`
	PlanName            *string `parquet:"plan_name,optional"`

	StandardChargeDollar *float64 `parquet:"standard_charge_dollar,optional"`
	MinimumCharge        *float64 `parquet:"minimum_charge,optional"`
	MaximumCharge        *float64 `parquet:"maximum_charge,optional"`
}

// FixtureRequiredColumns lists the Parquet columns a seed fixture must have.
var FixtureRequiredColumns = []string{
	"hospital_id",
	"hospital_name",
	"code",
	"description",
	"standard_charge_dollar",
}
