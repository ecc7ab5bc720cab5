package domain

import "sort"

// Field - имя поля записи, которым оперируют классификатор и мастер.
type Field string

const (
	FieldRecordKind   Field = "record_kind"
	FieldCategory     Field = "property_category"
	FieldPropertyType Field = "property_type"
	FieldParentID     Field = "parent_id"
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"

	FieldAreaSize     Field = "area_size"
	FieldAreaUnit     Field = "area_unit"
	FieldBedrooms     Field = "bedrooms"
	FieldBathrooms    Field = "bathrooms"
	FieldFloor        Field = "floor"
	FieldUnitNumber   Field = "unit_number"
	FieldTotalFloors  Field = "total_floors"
	FieldPlannedUnits Field = "planned_units"

	FieldAddress    Field = "address"
	FieldLatitude   Field = "latitude"
	FieldLongitude  Field = "longitude"
	FieldProvinceID Field = "province_id"
	FieldDistrictID Field = "district_id"
	FieldAreaID     Field = "area_id"

	FieldForSale      Field = "for_sale"
	FieldForRent      Field = "for_rent"
	FieldSalePrice    Field = "sale_price"
	FieldSaleCurrency Field = "sale_currency"
	FieldRentPrice    Field = "rent_price"
	FieldRentCurrency Field = "rent_currency"

	FieldPhotos Field = "photos"
	FieldVideos Field = "videos"

	FieldAmenities  Field = "amenities"
	FieldFacilities Field = "facilities"
)

// FieldSet - множество видимых полей.
type FieldSet map[Field]struct{}

// NewFieldSet builds a set from the given fields.
func NewFieldSet(fields ...Field) FieldSet {
	s := make(FieldSet, len(fields))
	s.Add(fields...)
	return s
}

func (s FieldSet) Add(fields ...Field) {
	for _, f := range fields {
		s[f] = struct{}{}
	}
}

func (s FieldSet) Has(f Field) bool {
	_, ok := s[f]
	return ok
}

// Sorted returns the fields in a stable order, handy for JSON and logs.
func (s FieldSet) Sorted() []Field {
	out := make([]Field, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Classification - результат работы классификатора иерархии.
type Classification struct {
	IsContainer        bool
	IsChild            bool
	InheritsLocation   bool
	InheritsFacilities bool
	VisibleFields      FieldSet
}

// MetaRow - одна строка метаданных в карточке объявления (иконка + значение).
type MetaRow struct {
	Icon  string `json:"icon"`
	Value string `json:"value"`
}

// AmenityView - удобство для отображения, с иконкой из каталога.
type AmenityView struct {
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Inherited bool   `json:"inherited"`
}

// ListingView - все производные значения карточки/страницы объекта.
type ListingView struct {
	PropertyID   int64            `json:"property_id"`
	ParentID     *int64           `json:"parent_id,omitempty"`
	RecordKind   RecordKind       `json:"record_kind"`
	Category     PropertyCategory `json:"property_category"`
	PropertyType string           `json:"property_type"`

	Title       string        `json:"title"`
	Price       string        `json:"price"`
	Address     string        `json:"address"`
	GeoCell     string        `json:"geo_cell,omitempty"`
	Available   bool          `json:"available"`
	Visibility  string        `json:"visibility"`
	Meta        []MetaRow     `json:"meta"`
	Amenities   []AmenityView `json:"amenities"`
	Photos      []string      `json:"photos"`
	Videos      []string      `json:"videos"`
	IsFavorite  bool          `json:"is_favorite"`
	Description string        `json:"description,omitempty"`

	IsContainer      bool `json:"is_container"`
	IsChild          bool `json:"is_child"`
	InheritsLocation bool `json:"inherits_location"`

	Agent *PersonSnapshot `json:"agent,omitempty"`
}
