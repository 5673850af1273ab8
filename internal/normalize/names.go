package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// NormalizeName collapses whitespace and trims the input, keeping its case.
// Returns nil if the input is nil or the result is empty.
func NormalizeName(v *string) *string {
	if v == nil {
		return nil
	}
	s := multiSpace.ReplaceAllString(strings.TrimSpace(*v), " ")
	if s == "" {
		return nil
	}
	return &s
}

// NormalizeCity returns the uppercased, whitespace-collapsed city used for
// case-insensitive matching.
func NormalizeCity(s string) string {
	return strings.ToUpper(multiSpace.ReplaceAllString(strings.TrimSpace(s), " "))
}

// NormalizeState uppercases and trims a state abbreviation.
func NormalizeState(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsAll reports whether a selector value means "no filter"
// ("", "All States", "All Cities", "all").
func IsAll(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == "all" || s == "all states" || s == "all cities"
}
