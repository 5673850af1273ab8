package normalize

import (
	"errors"
	"strings"

	"github.com/gyeh/healthnav/internal/model"
)

// ErrMissingKey is returned for fixture rows without a hospital id or code.
var ErrMissingKey = errors.New("row is missing hospital_id or code")

// Split is one fixture row broken into its warehouse entities. Provider and
// Plan are nil when the row carries no payer.
type Split struct {
	Hospital model.Hospital
	Provider *model.Provider
	Plan     *model.Plan
	Code     model.ServiceCode
	Charge   model.ChargeRecord
}

// SplitFixtureRow normalizes a fixture row and splits it into entities.
func SplitFixtureRow(row *model.ChargeFixtureRow) (*Split, error) {
	hospitalID := strings.TrimSpace(row.HospitalID)
	code := NormalizeCode(row.Code)
	if hospitalID == "" || code == "" {
		return nil, ErrMissingKey
	}

	s := &Split{
		Hospital: model.Hospital{
			ID:      hospitalID,
			Name:    derefStr(NormalizeName(&row.HospitalName)),
			City:    NormalizeName(row.City),
			State:   optState(row.State),
			Zipcode: optZip(row.Zipcode),
		},
		Code: model.ServiceCode{
			Code:        code,
			Description: derefStr(NormalizeName(&row.Description)),
		},
		Charge: model.ChargeRecord{
			HospitalID:           hospitalID,
			Code:                 code,
			StandardChargeDollar: RoundCents(row.StandardChargeDollar),
			MinimumCharge:        RoundCents(row.MinimumCharge),
			MaximumCharge:        RoundCents(row.MaximumCharge),
		},
	}

	if id := optID(row.InsuranceProviderID); id != nil {
		s.Provider = &model.Provider{ID: *id, PayerName: derefStr(NormalizeName(row.PayerName))}
		s.Charge.ProviderID = id
	}
	if id := optID(row.InsurancePlanID); id != nil {
		s.Plan = &model.Plan{ID: *id, ProviderID: s.Charge.ProviderID, PlanName: derefStr(NormalizeName(row.PlanName))}
		s.Charge.PlanID = id
	}
	return s, nil
}

func optID(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}

func optState(v *string) *string {
	if v == nil {
		return nil
	}
	s := NormalizeState(*v)
	if s == "" {
		return nil
	}
	return &s
}

func optZip(v *string) *string {
	if v == nil {
		return nil
	}
	s := NormalizeZip(*v)
	if s == "" {
		return nil
	}
	return &s
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
