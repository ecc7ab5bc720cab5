// Package hierarchy decides where a record sits in the container/unit
// hierarchy and which fields apply to it. Validation and rendering both read
// the same Classification.
package hierarchy

import (
	"korx-catalog/internal/constants"
	"korx-catalog/internal/core/domain"
)

var (
	commonFields = []domain.Field{
		domain.FieldRecordKind, domain.FieldTitle, domain.FieldDescription,
		domain.FieldPhotos, domain.FieldVideos,
	}
	locationFields = []domain.Field{
		domain.FieldAddress, domain.FieldLatitude, domain.FieldLongitude,
		domain.FieldProvinceID, domain.FieldDistrictID, domain.FieldAreaID,
	}
	pricingFields = []domain.Field{
		domain.FieldForSale, domain.FieldForRent,
		domain.FieldSalePrice, domain.FieldSaleCurrency,
		domain.FieldRentPrice, domain.FieldRentCurrency,
	}
)

// Classify is pure: the same record always yields the same classification.
func Classify(r domain.PropertyRecord) domain.Classification {
	isContainer := r.RecordKind == domain.KindContainer
	// у контейнера parent_id игнорируется, вложенных контейнеров не бывает
	isChild := !isContainer && r.ParentID != nil

	c := domain.Classification{
		IsContainer:        isContainer,
		IsChild:            isChild,
		InheritsLocation:   isChild,
		InheritsFacilities: isChild,
		VisibleFields:      domain.NewFieldSet(commonFields...),
	}

	if !c.InheritsLocation {
		c.VisibleFields.Add(locationFields...)
	}

	if isContainer {
		c.VisibleFields.Add(
			domain.FieldCategory,
			domain.FieldTotalFloors, domain.FieldPlannedUnits,
			domain.FieldFacilities,
		)
		return c
	}

	unitFields := constants.PropertyTypeInfo(r.PropertyType).UnitFields
	c.VisibleFields.Add(
		domain.FieldPropertyType, domain.FieldParentID,
		domain.FieldAreaSize, domain.FieldAreaUnit,
		domain.FieldAmenities,
	)
	c.VisibleFields.Add(pricingFields...)

	if unitFields == constants.UnitFieldsRooms {
		c.VisibleFields.Add(domain.FieldBedrooms, domain.FieldBathrooms)
	}
	if isChild && placedInBuilding(r.TypeKey(), unitFields) {
		c.VisibleFields.Add(domain.FieldFloor, domain.FieldUnitNumber)
	}
	return c
}

// Квартира внутри здания тоже размещается на этаже, хотя в каталоге это тип с комнатами.
func placedInBuilding(typeKey string, unitFields constants.UnitFields) bool {
	return unitFields == constants.UnitFieldsPlacement || typeKey == "apartment"
}

// ChildrenOf returns the units of the given container, in input order.
// Records never embed their parent; the relation is this query.
func ChildrenOf(records []domain.PropertyRecord, parentID int64) []domain.PropertyRecord {
	children := make([]domain.PropertyRecord, 0)
	for _, r := range records {
		if c := Classify(r); c.IsChild && *r.ParentID == parentID {
			children = append(children, r)
		}
	}
	return children
}

// PrepareForSubmit returns a copy fit for the server: a child carries no
// location of its own and a container carries no parent.
func PrepareForSubmit(r domain.PropertyRecord) domain.PropertyRecord {
	out := r.Clone()
	c := Classify(out)
	if c.IsContainer {
		out.ParentID = nil
	}
	if c.InheritsLocation {
		out.Location = domain.Location{}
	}
	out.EnsureCollections()
	return out
}
