package derivation

import (
	"fmt"
	"strings"

	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/hierarchy"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeriveTitle returns the user title verbatim, or synthesizes one from the
// property type and the record's place in the hierarchy.
func DeriveTitle(r domain.PropertyRecord) string {
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}

	c := hierarchy.Classify(r)
	if c.IsContainer {
		return containerLabel(r.Category)
	}

	typeLabel := titleCase(r.PropertyType)
	if typeLabel == "" {
		typeLabel = "Property"
	}

	if c.IsChild {
		switch {
		case r.UnitNumber != "" && r.Floor != "":
			return fmt.Sprintf("%s %s (Floor %s)", typeLabel, r.UnitNumber, r.Floor)
		case r.UnitNumber != "":
			return fmt.Sprintf("%s %s", typeLabel, r.UnitNumber)
		case r.ForRent && !r.ForSale:
			return typeLabel + " for Rent"
		default:
			return typeLabel + " for Sale"
		}
	}

	switch {
	case r.ForSale && r.ForRent:
		return typeLabel + " for Sale/Rent"
	case r.ForSale:
		return typeLabel + " for Sale"
	case r.ForRent:
		return typeLabel + " for Rent"
	default:
		return typeLabel
	}
}

// containerLabel - категория с заглавной буквы, либо "Building".
func containerLabel(c domain.PropertyCategory) string {
	if !c.IsContainerCategory() {
		return "Building"
	}
	return titleCase(string(c))
}

func titleCase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
