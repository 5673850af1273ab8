package normalize

import "math"

// RoundCents rounds a nullable dollar amount to whole cents.
// NaN and infinities become nil.
func RoundCents(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	c := math.Round(*v*100) / 100
	return &c
}
