// Package derivation computes display values of a listing from a normalized
// record. Every function here is pure and total.
package derivation

import (
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/hierarchy"
)

// IsPubliclyAvailable reports whether the record is offered for sale or rent.
func IsPubliclyAvailable(r domain.PropertyRecord) bool {
	return r.ForSale || r.ForRent
}

// Visibility returns public for available records, otherwise the configured
// draft policy (owner_only when unset).
func Visibility(r domain.PropertyRecord, policy domain.DraftVisibility) domain.DraftVisibility {
	if IsPubliclyAvailable(r) {
		return domain.VisibilityPublic
	}
	if policy == domain.VisibilityPrivate {
		return domain.VisibilityPrivate
	}
	return domain.VisibilityOwnerOnly
}

// Options - то, что не выводится из самой записи.
type Options struct {
	IsFavorite bool
	Policy     domain.DraftVisibility
}

// DeriveListing composes every derived value. parent may be nil; for a child
// the address, geo cell and facilities are taken from it.
func DeriveListing(r domain.PropertyRecord, parent *domain.PropertyRecord, opts Options) domain.ListingView {
	c := hierarchy.Classify(r)

	locationSource := r
	var facilities []string
	switch {
	case c.IsContainer:
		facilities = r.Facilities
	case c.InheritsLocation && parent != nil:
		locationSource = *parent
		facilities = parent.Facilities
	}

	amenities := r.Amenities
	if c.IsContainer {
		amenities = nil
	}

	view := domain.ListingView{
		PropertyID:       r.PropertyID,
		RecordKind:       r.RecordKind,
		Category:         r.Category,
		PropertyType:     r.PropertyType,
		Title:            DeriveTitle(r),
		Price:            DerivePrice(r),
		Address:          DeriveAddress(locationSource),
		GeoCell:          DeriveGeoCell(locationSource),
		Available:        IsPubliclyAvailable(r),
		Visibility:       string(Visibility(r, opts.Policy)),
		Meta:             DeriveListingMeta(r),
		Amenities:        DisplayAmenities(facilities, amenities),
		Photos:           append([]string{}, r.Photos...),
		Videos:           append([]string{}, r.Videos...),
		IsFavorite:       opts.IsFavorite,
		Description:      r.Description,
		IsContainer:      c.IsContainer,
		IsChild:          c.IsChild,
		InheritsLocation: c.InheritsLocation,
		Agent:            r.Agent,
	}
	if c.IsContainer {
		view.Meta = ContainerMeta(r)
	}
	if c.IsChild {
		id := *r.ParentID
		view.ParentID = &id
	}
	if c.InheritsLocation && parent == nil {
		// родителя не загрузили: свои поля локации ребенка не источник истины
		view.Address = LocationNotSpecified
		view.GeoCell = ""
	}
	return view
}
