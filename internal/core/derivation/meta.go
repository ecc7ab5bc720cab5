package derivation

import (
	"strconv"

	"korx-catalog/internal/constants"
	"korx-catalog/internal/core/domain"
)

const (
	notAvailable    = "N/A"
	defaultAreaUnit = "sqm"
)

// DeriveListingMeta returns at most two metadata rows chosen by property type:
// floor/unit for shops and offices, area for land, bed/bath for the rest.
func DeriveListingMeta(r domain.PropertyRecord) []domain.MetaRow {
	switch key := r.TypeKey(); key {
	case "shop", "office":
		label := constants.PropertyTypeInfo(key).Label
		if r.Floor == "" && r.UnitNumber == "" {
			return []domain.MetaRow{
				{Icon: constants.IconSquare, Value: formatArea(r.AreaSize, r.AreaUnit)},
				{Icon: constants.PropertyTypeInfo(key).Icon, Value: label},
			}
		}
		rows := make([]domain.MetaRow, 0, 2)
		if r.Floor != "" {
			rows = append(rows, domain.MetaRow{Icon: constants.IconLayers, Value: "Floor " + r.Floor})
		}
		if r.UnitNumber != "" {
			rows = append(rows, domain.MetaRow{Icon: constants.IconDoor, Value: "Unit " + r.UnitNumber})
		}
		return rows

	case "land", "plot":
		return []domain.MetaRow{
			{Icon: constants.IconSquare, Value: formatArea(r.AreaSize, r.AreaUnit)},
			{Icon: constants.IconLand, Value: constants.PropertyTypeInfo(key).Label},
		}

	default:
		return []domain.MetaRow{
			{Icon: constants.IconBed, Value: strconv.Itoa(intOrZero(r.Bedrooms))},
			{Icon: constants.IconBath, Value: strconv.Itoa(intOrZero(r.Bathrooms))},
		}
	}
}

func formatArea(size *float64, unit string) string {
	if positive(size) == nil {
		return notAvailable
	}
	if unit == "" {
		unit = defaultAreaUnit
	}
	return strconv.FormatFloat(*size, 'f', -1, 64) + " " + unit
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// ContainerMeta replaces bed/bath rows for containers: floors and planned units.
func ContainerMeta(r domain.PropertyRecord) []domain.MetaRow {
	floors, units := notAvailable, notAvailable
	if r.TotalFloors != nil && *r.TotalFloors > 0 {
		floors = strconv.Itoa(*r.TotalFloors) + " Floors"
	}
	if r.PlannedUnits != nil && *r.PlannedUnits > 0 {
		units = strconv.Itoa(*r.PlannedUnits) + " Units"
	}
	return []domain.MetaRow{
		{Icon: constants.IconLayers, Value: floors},
		{Icon: constants.IconDoor, Value: units},
	}
}
