package domain

import "strings"

// RecordKind отделяет самостоятельные объявления от "контейнеров" (здания, рынки),
// которые владеют дочерними юнитами.
type RecordKind string

const (
	KindListing   RecordKind = "listing"
	KindContainer RecordKind = "container"
)

// PropertyCategory - подвид контейнера, либо normal для обычного объявления.
type PropertyCategory string

const (
	CategoryNormal    PropertyCategory = "normal"
	CategoryTower     PropertyCategory = "tower"
	CategoryApartment PropertyCategory = "apartment"
	CategoryMarket    PropertyCategory = "market"
	CategorySharak    PropertyCategory = "sharak"
)

// ParseCategory returns the known category for s, or CategoryNormal.
func ParseCategory(s string) PropertyCategory {
	switch c := PropertyCategory(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryTower, CategoryApartment, CategoryMarket, CategorySharak:
		return c
	default:
		return CategoryNormal
	}
}

// IsContainerCategory reports whether c is one of the container sub-kinds.
func (c PropertyCategory) IsContainerCategory() bool {
	return c != CategoryNormal && c != ""
}

type Currency string

const (
	CurrencyAF  Currency = "AF"
	CurrencyUSD Currency = "USD"
)

// ParseCurrency maps the spellings seen in records ("usd", "$", "afn", "af")
// to a Currency. Unknown or empty values map to CurrencyAF.
func ParseCurrency(s string) Currency {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USD", "$", "US$", "DOLLAR":
		return CurrencyUSD
	default:
		return CurrencyAF
	}
}

// Location - собственный адрес объекта. Есть только у самостоятельных объявлений
// и контейнеров: дочерний юнит берет локацию у родителя.
type Location struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Address      string   `json:"address,omitempty"`
	AreaID       *int64   `json:"area_id,omitempty"`
	DistrictID   *int64   `json:"district_id,omitempty"`
	ProvinceID   *int64   `json:"province_id,omitempty"`
	AreaName     string   `json:"area_name,omitempty"`
	ProvinceName string   `json:"province_name,omitempty"`
}

// HasCoordinates reports whether both coordinates are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// IsEmpty reports whether the location carries nothing at all.
func (l Location) IsEmpty() bool {
	return !l.HasCoordinates() && l.Address == "" && l.AreaID == nil && l.DistrictID == nil &&
		l.ProvinceID == nil && l.AreaName == "" && l.ProvinceName == ""
}

// PersonSnapshot - денормализованный снимок агента/владельца, который присылает сервер.
// Клиент его не обновляет.
type PersonSnapshot struct {
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// PropertyRecord is the canonical, strictly typed shape of a property.
// Collections are never nil after normalization.
type PropertyRecord struct {
	PropertyID   int64            `json:"property_id"`
	RecordKind   RecordKind       `json:"record_kind"`
	ParentID     *int64           `json:"parent_id,omitempty"`
	Category     PropertyCategory `json:"property_category"`
	PropertyType string           `json:"property_type"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`

	ForSale      bool     `json:"for_sale"`
	ForRent      bool     `json:"for_rent"`
	SalePrice    *float64 `json:"sale_price,omitempty"`
	SaleCurrency Currency `json:"sale_currency,omitempty"`
	RentPrice    *float64 `json:"rent_price,omitempty"`
	RentCurrency Currency `json:"rent_currency,omitempty"`

	AreaSize     *float64 `json:"area_size,omitempty"`
	AreaUnit     string   `json:"area_unit,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	Floor        string   `json:"floor,omitempty"`
	UnitNumber   string   `json:"unit_number,omitempty"`
	TotalFloors  *int     `json:"total_floors,omitempty"`
	PlannedUnits *int     `json:"planned_units,omitempty"`

	Location Location `json:"location"`

	Photos     []string `json:"photos"`
	Videos     []string `json:"videos"`
	Amenities  []string `json:"amenities"`
	Facilities []string `json:"facilities"`

	Agent   *PersonSnapshot `json:"agent,omitempty"`
	Creator *PersonSnapshot `json:"creator,omitempty"`
	Owner   *PersonSnapshot `json:"owner,omitempty"`
}

// NewDraftRecord возвращает пустую запись для мастера создания.
func NewDraftRecord() PropertyRecord {
	return PropertyRecord{
		RecordKind:   KindListing,
		Category:     CategoryNormal,
		SaleCurrency: CurrencyAF,
		RentCurrency: CurrencyAF,
		Photos:       []string{},
		Videos:       []string{},
		Amenities:    []string{},
		Facilities:   []string{},
	}
}

// EnsureCollections replaces nil collections with empty ones.
func (r *PropertyRecord) EnsureCollections() {
	if r.Photos == nil {
		r.Photos = []string{}
	}
	if r.Videos == nil {
		r.Videos = []string{}
	}
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	if r.Facilities == nil {
		r.Facilities = []string{}
	}
}

// TypeKey is the lower-cased, trimmed property type used for rule lookups.
func (r PropertyRecord) TypeKey() string {
	return strings.ToLower(strings.TrimSpace(r.PropertyType))
}

// Clone returns a deep copy so callers can mutate it without touching r.
func (r PropertyRecord) Clone() PropertyRecord {
	c := r
	c.ParentID = cloneInt64(r.ParentID)
	c.SalePrice = cloneFloat(r.SalePrice)
	c.RentPrice = cloneFloat(r.RentPrice)
	c.AreaSize = cloneFloat(r.AreaSize)
	c.Bedrooms = cloneInt(r.Bedrooms)
	c.Bathrooms = cloneInt(r.Bathrooms)
	c.TotalFloors = cloneInt(r.TotalFloors)
	c.PlannedUnits = cloneInt(r.PlannedUnits)
	c.Location.Latitude = cloneFloat(r.Location.Latitude)
	c.Location.Longitude = cloneFloat(r.Location.Longitude)
	c.Location.AreaID = cloneInt64(r.Location.AreaID)
	c.Location.DistrictID = cloneInt64(r.Location.DistrictID)
	c.Location.ProvinceID = cloneInt64(r.Location.ProvinceID)
	c.Photos = append([]string{}, r.Photos...)
	c.Videos = append([]string{}, r.Videos...)
	c.Amenities = append([]string{}, r.Amenities...)
	c.Facilities = append([]string{}, r.Facilities...)
	c.Agent = clonePerson(r.Agent)
	c.Creator = clonePerson(r.Creator)
	c.Owner = clonePerson(r.Owner)
	return c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func clonePerson(p *PersonSnapshot) *PersonSnapshot {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
