// Package normalizer converts loosely typed server records into the canonical
// domain.PropertyRecord. Nothing here returns an error or panics: malformed
// input degrades to empty values.
package normalizer

import (
	"strings"

	"korx-catalog/internal/core/domain"
)

// Варианты написания полей, которые встречаются в ответах сервера.
var (
	saleFlagKeys = []string{"forSale", "for_sale", "isForSale", "is_for_sale"}
	rentFlagKeys = []string{"forRent", "for_rent", "isForRent", "is_for_rent"}
)

// Normalize builds a PropertyRecord from raw input. Collections are never nil.
func Normalize(raw domain.RawPropertyInput) domain.PropertyRecord {
	if raw == nil {
		raw = domain.RawPropertyInput{}
	}
	rec := domain.NewDraftRecord()

	if v, ok := raw.Lookup("propertyId", "property_id", "id"); ok {
		if id := getIDPtr(v); id != nil {
			rec.PropertyID = *id
		}
	}

	rec.RecordKind = normalizeKind(raw)
	if rec.RecordKind == domain.KindListing {
		if v, ok := raw.Lookup("parentId", "parent_id", "parentPropertyId", "parent_property_id"); ok {
			rec.ParentID = getIDPtr(v)
		}
	}

	if v, ok := raw.Lookup("propertyCategory", "property_category", "category"); ok {
		rec.Category = domain.ParseCategory(getString(v))
	}
	if v, ok := raw.Lookup("propertyType", "property_type", "type"); ok {
		rec.PropertyType = strings.ToLower(strings.TrimSpace(getString(v)))
	}
	if v, ok := raw.Lookup("title"); ok {
		rec.Title = getString(v)
	}
	if v, ok := raw.Lookup("description"); ok {
		rec.Description = getString(v)
	}

	rec.ForSale = anyTruthy(raw, saleFlagKeys)
	rec.ForRent = anyTruthy(raw, rentFlagKeys)
	normalizeTerms(raw, &rec)
	normalizePhysical(raw, &rec)
	rec.Location = normalizeLocation(raw)

	if v, ok := raw.Lookup("photos", "images"); ok {
		rec.Photos = getMediaSlice(v)
	}
	if v, ok := raw.Lookup("videos"); ok {
		rec.Videos = getMediaSlice(v)
	}
	if v, ok := raw.Lookup("amenities"); ok {
		rec.Amenities = getLabelSlice(v)
	}
	if v, ok := raw.Lookup("facilities"); ok {
		rec.Facilities = getLabelSlice(v)
	}

	rec.Agent = normalizePerson(raw, "Agent", "agent", "agent_id", "agentId")
	rec.Creator = normalizePerson(raw, "Creator", "creator", "created_by", "createdBy")
	rec.Owner = normalizePerson(raw, "Owner", "owner", "owner_id", "ownerId")

	rec.EnsureCollections()
	return rec
}

// NormalizeMany normalizes every element, preserving order.
func NormalizeMany(raws []domain.RawPropertyInput) []domain.PropertyRecord {
	out := make([]domain.PropertyRecord, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw))
	}
	return out
}

func normalizeKind(raw domain.RawPropertyInput) domain.RecordKind {
	if v, ok := raw.Lookup("recordKind", "record_kind"); ok {
		switch strings.ToLower(strings.TrimSpace(getString(v))) {
		case "container", "parent":
			return domain.KindContainer
		case "listing", "unit", "child":
			return domain.KindListing
		}
	}
	// старые записи помечают контейнер флагом is_parent
	if v, ok := raw.Lookup("isParent", "is_parent"); ok && isTruthy(v) {
		return domain.KindContainer
	}
	return domain.KindListing
}

func anyTruthy(raw domain.RawPropertyInput, keys []string) bool {
	for _, key := range keys {
		if isTruthy(raw[key]) {
			return true
		}
	}
	return false
}

func normalizeTerms(raw domain.RawPropertyInput, rec *domain.PropertyRecord) {
	if v, ok := raw.Lookup("salePrice", "sale_price"); ok {
		rec.SalePrice = getFloat64Ptr(v)
	}
	if v, ok := raw.Lookup("rentPrice", "rent_price"); ok {
		rec.RentPrice = getFloat64Ptr(v)
	}

	common := ""
	if v, ok := raw.Lookup("currency"); ok {
		common = getString(v)
	}
	rec.SaleCurrency = domain.ParseCurrency(common)
	rec.RentCurrency = domain.ParseCurrency(common)
	if v, ok := raw.Lookup("saleCurrency", "sale_currency"); ok {
		rec.SaleCurrency = domain.ParseCurrency(getString(v))
	}
	if v, ok := raw.Lookup("rentCurrency", "rent_currency"); ok {
		rec.RentCurrency = domain.ParseCurrency(getString(v))
	}
}

func normalizePhysical(raw domain.RawPropertyInput, rec *domain.PropertyRecord) {
	if v, ok := raw.Lookup("areaSize", "area_size", "area_sqm"); ok {
		rec.AreaSize = getFloat64Ptr(v)
	}
	if v, ok := raw.Lookup("areaUnit", "area_unit"); ok {
		rec.AreaUnit = strings.TrimSpace(getString(v))
	}
	if v, ok := raw.Lookup("bedrooms"); ok {
		rec.Bedrooms = getIntPtr(v)
	}
	if v, ok := raw.Lookup("bathrooms"); ok {
		rec.Bathrooms = getIntPtr(v)
	}
	if v, ok := raw.Lookup("totalFloors", "total_floors"); ok {
		rec.TotalFloors = getIntPtr(v)
	}
	if v, ok := raw.Lookup("plannedUnits", "planned_units"); ok {
		rec.PlannedUnits = getIntPtr(v)
	}
	if v, ok := raw.Lookup("floor"); ok {
		rec.Floor = strings.TrimSpace(getString(v))
	}
	if v, ok := raw.Lookup("unitNumber", "unit_number"); ok {
		rec.UnitNumber = strings.TrimSpace(getString(v))
	}
}

func normalizeLocation(raw domain.RawPropertyInput) domain.Location {
	src := raw
	// иногда локация приходит вложенным объектом
	if nested, ok := raw["location"].(map[string]interface{}); ok {
		merged := domain.RawPropertyInput{}
		for k, v := range raw {
			merged[k] = v
		}
		for k, v := range nested {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		delete(merged, "location")
		src = merged
	}

	var loc domain.Location
	if v, ok := src.Lookup("latitude", "lat"); ok {
		loc.Latitude = getFloat64Ptr(v)
	}
	if v, ok := src.Lookup("longitude", "lng", "lon"); ok {
		loc.Longitude = getFloat64Ptr(v)
	}
	if v, ok := src.Lookup("address", "location"); ok {
		loc.Address = strings.TrimSpace(getString(v))
	}
	if v, ok := src.Lookup("areaId", "area_id"); ok {
		loc.AreaID = getIDPtr(v)
	}
	if v, ok := src.Lookup("districtId", "district_id"); ok {
		loc.DistrictID = getIDPtr(v)
	}
	if v, ok := src.Lookup("provinceId", "province_id"); ok {
		loc.ProvinceID = getIDPtr(v)
	}
	loc.AreaName = resolveName(src, []string{"Area", "area"}, []string{"areaName", "area_name"})
	loc.ProvinceName = resolveName(src, []string{"Province", "province"}, []string{"provinceName", "province_name", "city"})
	return loc
}

// resolveName: денормализованный объект, затем ссылка-строка, затем плоское поле.
func resolveName(raw domain.RawPropertyInput, refKeys, nameKeys []string) string {
	for _, key := range refKeys {
		if obj, ok := raw[key].(map[string]interface{}); ok {
			if name := firstString(obj, "name", "area_name", "province_name", "title"); name != "" {
				return name
			}
		}
	}
	for _, key := range refKeys {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	for _, key := range nameKeys {
		if s := strings.TrimSpace(getString(raw[key])); s != "" {
			return s
		}
	}
	return ""
}

func normalizePerson(raw domain.RawPropertyInput, keys ...string) *domain.PersonSnapshot {
	v, ok := raw.Lookup(keys...)
	if !ok {
		return nil
	}
	if obj, ok := v.(map[string]interface{}); ok {
		p := &domain.PersonSnapshot{
			Name:  firstString(obj, "name", "full_name", "fullName"),
			Phone: firstString(obj, "phone", "phone_number", "phoneNumber"),
			Email: firstString(obj, "email"),
		}
		if id := getIDPtr(domain.RawPropertyInput(obj).First("id", "user_id", "userId")); id != nil {
			p.ID = *id
		}
		return p
	}
	if id := getIDPtr(v); id != nil {
		return &domain.PersonSnapshot{ID: *id}
	}
	return nil
}
