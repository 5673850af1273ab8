package model

// Hospital is one row of the hospital dimension.
type Hospital struct {
	ID      string
	Name    string
	City    *string
	State   *string
	Zipcode *string
}

// HospitalColumns returns the ordered column names for COPY into the hospital table.
func HospitalColumns() []string {
	return []string{"hospital_id", "hospital_name", "city", "state", "zipcode"}
}

func (h *Hospital) CopyValues() []any {
	return []any{h.ID, h.Name, h.City, h.State, h.Zipcode}
}

// Provider is an insurance provider (payer).
type Provider struct {
	ID        string
	PayerName string
}

func ProviderColumns() []string {
	return []string{"insurance_provider_id", "payer_name"}
}

func (p *Provider) CopyValues() []any {
	return []any{p.ID, p.PayerName}
}

// Plan is an insurance plan offered by a provider.
type Plan struct {
	ID         string
	ProviderID *string
	PlanName   string
}

func PlanColumns() []string {
	return []string{"insurance_plan_id", "insurance_provider_id", "plan_name"}
}

func (p *Plan) CopyValues() []any {
	return []any{p.ID, p.ProviderID, p.PlanName}
}

// ServiceCode maps a billing code to its description.
type ServiceCode struct {
	Code        string
	Description string
}

func ServiceCodeColumns() []string {
	return []string{"code", "description"}
}

func (s *ServiceCode) CopyValues() []any {
	return []any{s.Code, s.Description}
}

// ChargeRecord is one row of the master charge table.
type ChargeRecord struct {
	HospitalID           string
	Code                 string
	ProviderID           *string
	PlanID               *string
	StandardChargeDollar *float64
	MinimumCharge        *float64
	MaximumCharge        *float64
}

// ChargeColumns returns the ordered column names for COPY into the master table.
func ChargeColumns() []string {
	return []string{
		"hospital_id",
		"code",
		"insurance_provider_id",
		"insurance_plan_id",
		"standard_charge_dollar",
		"minimum_charge",
		"maximum_charge",
	}
}

// CopyValues returns the row values in the same order as ChargeColumns().
func (c *ChargeRecord) CopyValues() []any {
	return []any{
		c.HospitalID,
		c.Code,
		c.ProviderID,
		c.PlanID,
		c.StandardChargeDollar,
		c.MinimumCharge,
		c.MaximumCharge,
	}
}
