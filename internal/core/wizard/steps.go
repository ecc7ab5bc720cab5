package wizard

import (
	"fmt"

	"korx-catalog/internal/core/domain"
)

// Step - шаг мастера создания/редактирования.
type Step int

const (
	StepBasicInfo Step = iota
	StepPropertyDetails
	StepLocation
	StepPricing
	StepMedia
	StepAmenities
	StepReview
	// StepSubmitted - терминальное состояние после успешной отправки.
	StepSubmitted
)

var stepNames = [...]string{
	StepBasicInfo:       "basic_info",
	StepPropertyDetails: "property_details",
	StepLocation:        "location",
	StepPricing:         "pricing",
	StepMedia:           "media",
	StepAmenities:       "amenities",
	StepReview:          "review",
	StepSubmitted:       "submitted",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep maps a step name back to a Step.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown wizard step %q", domain.ErrInvalidArgument, name)
}

// Поля, которые может показать каждый шаг. Что реально видно, решает классификатор.
var stepFields = map[Step][]domain.Field{
	StepBasicInfo: {
		domain.FieldRecordKind, domain.FieldCategory, domain.FieldPropertyType,
		domain.FieldParentID, domain.FieldTitle, domain.FieldDescription,
	},
	StepPropertyDetails: {
		domain.FieldAreaSize, domain.FieldAreaUnit,
		domain.FieldBedrooms, domain.FieldBathrooms,
		domain.FieldFloor, domain.FieldUnitNumber,
		domain.FieldTotalFloors, domain.FieldPlannedUnits,
	},
	StepLocation: {
		domain.FieldProvinceID, domain.FieldDistrictID, domain.FieldAreaID,
		domain.FieldAddress, domain.FieldLatitude, domain.FieldLongitude,
	},
	StepPricing: {
		domain.FieldForSale, domain.FieldSalePrice, domain.FieldSaleCurrency,
		domain.FieldForRent, domain.FieldRentPrice, domain.FieldRentCurrency,
	},
	StepMedia:     {domain.FieldPhotos, domain.FieldVideos},
	StepAmenities: {domain.FieldFacilities, domain.FieldAmenities},
	StepReview:    {},
}

// InheritedLocationNotice показывается вместо полей локации у дочернего юнита.
const InheritedLocationNotice = "Location is inherited from the parent property."

// StepView - что показать на шаге: видимые и обязательные поля или заглушку.
type StepView struct {
	Step      Step           `json:"-"`
	Name      string         `json:"step"`
	Inherited bool           `json:"inherited"`
	Notice    string         `json:"notice,omitempty"`
	Visible   []domain.Field `json:"visible_fields"`
	Required  []domain.Field `json:"required_fields"`
}

// Steps returns the ordered member steps for a classification.
// Containers have no Pricing step.
func Steps(c domain.Classification) []Step {
	steps := make([]Step, 0, int(StepReview)+1)
	for s := StepBasicInfo; s <= StepReview; s++ {
		if s == StepPricing && c.IsContainer {
			continue
		}
		steps = append(steps, s)
	}
	return steps
}

func isMember(steps []Step, s Step) bool {
	for _, m := range steps {
		if m == s {
			return true
		}
	}
	return false
}
