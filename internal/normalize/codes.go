package normalize

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// NormalizeCode trims whitespace, uppercases, and strips non-alphanumeric characters.
// Returns "" when nothing is left.
func NormalizeCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return nonAlphanumeric.ReplaceAllString(strings.ToUpper(s), "")
}

// CodeFromOption extracts the code from a dropdown label of the form
// "CODE - DESCRIPTION". Plain codes pass through NormalizeCode unchanged.
func CodeFromOption(label string) string {
	code, _, _ := strings.Cut(label, " - ")
	return NormalizeCode(code)
}

var zipPlus4 = regexp.MustCompile(`^(\d{5})-?\d{4}$`)

// NormalizeZip trims the input and reduces a ZIP+4 to its five digit prefix.
func NormalizeZip(s string) string {
	s = strings.TrimSpace(s)
	if m := zipPlus4.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
