package derivation

import (
	"regexp"
	"strings"

	"korx-catalog/internal/core/domain"
)

const LocationNotSpecified = "Location not specified"

// Административный "шум" в названиях: "District 5", "Nahiya 11", "district #3".
var adminNoise = regexp.MustCompile(`(?i)[\s,;:()\-]*\b(?:district|nahiya)\s*#?\s*\d+\b[\s,;:()\-]*`)

// DeriveAddress composes "<area>, <province>" from the record's own location.
// For a child, pass the parent record: the child holds no location.
func DeriveAddress(r domain.PropertyRecord) string {
	loc := r.Location

	area := stripNoise(loc.AreaName)
	if area == "" {
		area = firstSegment(stripNoise(loc.Address))
	}

	parts := make([]string, 0, 2)
	if area != "" {
		parts = append(parts, area)
	}
	if province := stripNoise(loc.ProvinceName); province != "" && !strings.EqualFold(province, area) {
		parts = append(parts, province)
	}

	if len(parts) == 0 {
		return LocationNotSpecified
	}
	return strings.Join(parts, ", ")
}

// stripNoise удаляет шум и нормализует запятые: "Karte Char (District 3)" -> "Karte Char".
func stripNoise(s string) string {
	s = adminNoise.ReplaceAllString(s, ",")
	segments := strings.Split(s, ",")
	kept := segments[:0]
	for _, seg := range segments {
		if seg = strings.TrimSpace(seg); seg != "" {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, ", ")
}

func firstSegment(s string) string {
	for _, seg := range strings.Split(s, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			return seg
		}
	}
	return ""
}
