package catalog_api_client

import (
	"encoding/json"
	"strings"

	"korx-catalog/internal/core/derivation"
	"korx-catalog/internal/core/domain"
)

// LookupItemResponse - элемент справочника в ответе сервера.
type LookupItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SubmitResponse - ответ на создание/обновление объекта. Сервер присылает id
// либо на верхнем уровне, либо внутри "data".
type SubmitResponse struct {
	PropertyID int64 `json:"property_id"`
	ID         int64 `json:"id"`
	Data       *struct {
		PropertyID int64 `json:"property_id"`
		ID         int64 `json:"id"`
	} `json:"data"`
}

func (r SubmitResponse) propertyID() int64 {
	switch {
	case r.PropertyID > 0:
		return r.PropertyID
	case r.ID > 0:
		return r.ID
	case r.Data != nil && r.Data.PropertyID > 0:
		return r.Data.PropertyID
	case r.Data != nil:
		return r.Data.ID
	}
	return 0
}

// ErrorResponse - тело ответа при отказе: сообщение и ошибки по полям.
// Значение поля бывает строкой или массивом строк.
type ErrorResponse struct {
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func (e ErrorResponse) toDomain(status int) *domain.SubmissionError {
	msg := e.Message
	if msg == "" {
		msg = e.Error
	}
	subErr := &domain.SubmissionError{StatusCode: status, Message: msg}
	if len(e.Errors) > 0 {
		subErr.FieldErrors = make(map[string]string, len(e.Errors))
		for field, raw := range e.Errors {
			var one string
			if err := json.Unmarshal(raw, &one); err == nil {
				subErr.FieldErrors[field] = one
				continue
			}
			var many []string
			if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
				subErr.FieldErrors[field] = strings.Join(many, "; ")
			}
		}
	}
	if subErr.Message == "" {
		subErr.Message = "The server rejected the property, please review the fields"
	}
	return subErr
}

// SubmissionLocation - собственная локация; у дочернего юнита ее нет.
type SubmissionLocation struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Address    string   `json:"address,omitempty"`
	AreaID     *int64   `json:"area_id"`
	DistrictID *int64   `json:"district_id"`
	ProvinceID *int64   `json:"province_id"`
}

// SubmissionPayload - тело запроса на создание/обновление объекта.
type SubmissionPayload struct {
	PropertyID   *int64 `json:"property_id,omitempty"`
	RecordKind   string `json:"record_kind"`
	ParentID     *int64 `json:"parent_id"`
	Category     string `json:"property_category"`
	PropertyType string `json:"property_type,omitempty"`
	Title        string `json:"title,omitempty"`
	Description  string `json:"description,omitempty"`

	ForSale      bool     `json:"for_sale"`
	ForRent      bool     `json:"for_rent"`
	SalePrice    *float64 `json:"sale_price"`
	SaleCurrency string   `json:"sale_currency,omitempty"`
	RentPrice    *float64 `json:"rent_price"`
	RentCurrency string   `json:"rent_currency,omitempty"`

	AreaSize     *float64 `json:"area_size"`
	AreaUnit     string   `json:"area_unit,omitempty"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *int     `json:"bathrooms"`
	Floor        string   `json:"floor,omitempty"`
	UnitNumber   string   `json:"unit_number,omitempty"`
	TotalFloors  *int     `json:"total_floors"`
	PlannedUnits *int     `json:"planned_units"`

	Location *SubmissionLocation `json:"location"`

	Photos     []string `json:"photos"`
	Videos     []string `json:"videos"`
	Amenities  []string `json:"amenities"`
	Facilities []string `json:"facilities"`

	Visibility string `json:"visibility"`
}

// newSubmissionPayload маппит подготовленный черновик в DTO запроса.
func newSubmissionPayload(r domain.PropertyRecord, policy domain.DraftVisibility) SubmissionPayload {
	r.EnsureCollections()

	p := SubmissionPayload{
		RecordKind:   string(r.RecordKind),
		ParentID:     r.ParentID,
		Category:     string(r.Category),
		PropertyType: r.PropertyType,
		Title:        r.Title,
		Description:  r.Description,
		ForSale:      r.ForSale,
		ForRent:      r.ForRent,
		SalePrice:    r.SalePrice,
		SaleCurrency: string(r.SaleCurrency),
		RentPrice:    r.RentPrice,
		RentCurrency: string(r.RentCurrency),
		AreaSize:     r.AreaSize,
		AreaUnit:     r.AreaUnit,
		Bedrooms:     r.Bedrooms,
		Bathrooms:    r.Bathrooms,
		Floor:        r.Floor,
		UnitNumber:   r.UnitNumber,
		TotalFloors:  r.TotalFloors,
		PlannedUnits: r.PlannedUnits,
		Photos:       r.Photos,
		Videos:       r.Videos,
		Amenities:    r.Amenities,
		Facilities:   r.Facilities,
		Visibility:   string(derivation.Visibility(r, policy)),
	}
	if r.PropertyID > 0 {
		id := r.PropertyID
		p.PropertyID = &id
	}
	// цена неактивного режима серверу не нужна
	if !r.ForSale {
		p.SalePrice = nil
	}
	if !r.ForRent {
		p.RentPrice = nil
	}
	if p.Category == "" {
		p.Category = string(domain.CategoryNormal)
	}
	if r.ParentID == nil && !r.Location.IsEmpty() {
		p.Location = &SubmissionLocation{
			Latitude:   r.Location.Latitude,
			Longitude:  r.Location.Longitude,
			Address:    r.Location.Address,
			AreaID:     r.Location.AreaID,
			DistrictID: r.Location.DistrictID,
			ProvinceID: r.Location.ProvinceID,
		}
	}
	return p
}
