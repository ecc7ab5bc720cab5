package derivation

import (
	"strings"

	"korx-catalog/internal/constants"
	"korx-catalog/internal/core/domain"

	"golang.org/x/text/unicode/norm"
)

// DisplayAmenities is the display-only union of a container's facilities and
// a unit's own amenities. Facilities come first; duplicates are dropped
// case-insensitively. Neither input slice is modified.
func DisplayAmenities(parentFacilities, ownAmenities []string) []domain.AmenityView {
	result := make([]domain.AmenityView, 0, len(parentFacilities)+len(ownAmenities))
	seen := make(map[string]struct{}, cap(result))

	add := func(labels []string, inherited bool) {
		for _, label := range labels {
			label = strings.TrimSpace(label)
			key := amenityKey(label)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			result = append(result, domain.AmenityView{
				Label:     label,
				Icon:      constants.AmenityIcon(label),
				Inherited: inherited,
			})
		}
	}
	add(parentFacilities, true)
	add(ownAmenities, false)
	return result
}

func amenityKey(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(norm.NFKC.String(label)), " "))
}
