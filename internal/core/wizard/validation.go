package wizard

import (
	"strings"

	"korx-catalog/internal/core/domain"
)

const (
	msgRequired          = "is required"
	msgPositive          = "must be greater than zero"
	msgAddressOrLocation = "enter an address or pick a point on the map"
	msgContainerCategory = "choose tower, apartment, market or sharak"
	msgSaleOrRent        = "Select at least one of For Sale or For Rent"
)

// requiredFields - обязательное подмножество видимых полей шага.
func requiredFields(step Step, c domain.Classification) []domain.Field {
	var req []domain.Field
	switch step {
	case StepBasicInfo:
		if c.IsContainer {
			req = append(req, domain.FieldCategory)
		} else {
			req = append(req, domain.FieldPropertyType)
		}
	case StepPropertyDetails:
		switch {
		case c.IsContainer:
			req = append(req, domain.FieldTotalFloors)
		case c.VisibleFields.Has(domain.FieldUnitNumber):
			req = append(req, domain.FieldUnitNumber)
		case !c.IsChild:
			req = append(req, domain.FieldAreaSize)
		}
	case StepLocation:
		if !c.InheritsLocation {
			req = append(req, domain.FieldProvinceID, domain.FieldAddress)
		}
	}

	out := req[:0]
	for _, f := range req {
		if c.VisibleFields.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// validateStep checks one step. Stale values of hidden fields are ignored.
func validateStep(step Step, r domain.PropertyRecord, c domain.Classification) *ValidationError {
	verr := &ValidationError{Step: step}

	for _, f := range requiredFields(step, c) {
		if msg := checkRequired(f, r); msg != "" {
			verr.field(f, msg)
		}
	}

	if step == StepPricing && !c.IsContainer {
		if !r.ForSale && !r.ForRent {
			verr.StepError = msgSaleOrRent
		}
		if r.ForSale && r.SalePrice != nil && *r.SalePrice <= 0 {
			verr.field(domain.FieldSalePrice, msgPositive)
		}
		if r.ForRent && r.RentPrice != nil && *r.RentPrice <= 0 {
			verr.field(domain.FieldRentPrice, msgPositive)
		}
	}

	if step == StepPropertyDetails {
		checkNonNegative(verr, c, domain.FieldBedrooms, r.Bedrooms)
		checkNonNegative(verr, c, domain.FieldBathrooms, r.Bathrooms)
		checkNonNegative(verr, c, domain.FieldPlannedUnits, r.PlannedUnits)
	}

	if verr.empty() {
		return nil
	}
	return verr
}

func checkRequired(f domain.Field, r domain.PropertyRecord) string {
	switch f {
	case domain.FieldPropertyType:
		if strings.TrimSpace(r.PropertyType) == "" {
			return msgRequired
		}
	case domain.FieldCategory:
		if !r.Category.IsContainerCategory() {
			return msgContainerCategory
		}
	case domain.FieldTotalFloors:
		if r.TotalFloors == nil {
			return msgRequired
		}
		if *r.TotalFloors <= 0 {
			return msgPositive
		}
	case domain.FieldUnitNumber:
		if strings.TrimSpace(r.UnitNumber) == "" {
			return msgRequired
		}
	case domain.FieldAreaSize:
		if r.AreaSize == nil {
			return msgRequired
		}
		if *r.AreaSize <= 0 {
			return msgPositive
		}
	case domain.FieldProvinceID:
		if r.Location.ProvinceID == nil {
			return msgRequired
		}
	case domain.FieldAddress:
		if strings.TrimSpace(r.Location.Address) == "" && !r.Location.HasCoordinates() {
			return msgAddressOrLocation
		}
	}
	return ""
}

func checkNonNegative(verr *ValidationError, c domain.Classification, f domain.Field, v *int) {
	if c.VisibleFields.Has(f) && v != nil && *v < 0 {
		verr.field(f, "must not be negative")
	}
}
