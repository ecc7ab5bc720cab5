package constants

import "strings"

// Иконки строк метаданных карточки
const (
	IconBed    = "bed"
	IconBath   = "bath"
	IconLayers = "layers"
	IconDoor   = "door"
	IconSquare = "square"
	IconLand   = "map"
	IconShop   = "store"
	IconOffice = "briefcase"

	// IconAmenityFallback - иконка для неизвестного удобства.
	IconAmenityFallback = "check"
)

// UnitFields - семейство полей, специфичных для типа объекта.
type UnitFields string

const (
	UnitFieldsRooms     UnitFields = "rooms"     // спальни/санузлы
	UnitFieldsPlacement UnitFields = "placement" // этаж/номер юнита
	UnitFieldsAreaOnly  UnitFields = "area_only" // только площадь
)

// TypeInfo - отображаемые метаданные типа объекта.
type TypeInfo struct {
	Label      string
	Icon       string
	UnitFields UnitFields
}

var propertyTypes = map[string]TypeInfo{
	"house":     {Label: "House", Icon: "home", UnitFields: UnitFieldsRooms},
	"villa":     {Label: "Villa", Icon: "home", UnitFields: UnitFieldsRooms},
	"apartment": {Label: "Apartment", Icon: "building", UnitFields: UnitFieldsRooms},
	"room":      {Label: "Room", Icon: "bed", UnitFields: UnitFieldsRooms},
	"shop":      {Label: "Shop", Icon: IconShop, UnitFields: UnitFieldsPlacement},
	"office":    {Label: "Office", Icon: IconOffice, UnitFields: UnitFieldsPlacement},
	"land":      {Label: "Land", Icon: IconLand, UnitFields: UnitFieldsAreaOnly},
	"plot":      {Label: "Plot", Icon: IconLand, UnitFields: UnitFieldsAreaOnly},
}

// PropertyTypeInfo returns display metadata for a property type, matched
// case-insensitively. Unknown types are residential with a generic icon.
func PropertyTypeInfo(propertyType string) TypeInfo {
	key := strings.ToLower(strings.TrimSpace(propertyType))
	if info, ok := propertyTypes[key]; ok {
		return info
	}
	return TypeInfo{Label: "Property", Icon: "home", UnitFields: UnitFieldsRooms}
}

var amenityIcons = map[string]string{
	"parking":          "car",
	"garage":           "car",
	"elevator":         "elevator",
	"lift":             "elevator",
	"generator":        "zap",
	"electricity":      "zap",
	"solar power":      "sun",
	"water":            "droplet",
	"water tank":       "droplet",
	"well":             "droplet",
	"gas":              "flame",
	"heating":          "thermometer",
	"central heating":  "thermometer",
	"air conditioning": "wind",
	"internet":         "wifi",
	"wifi":             "wifi",
	"security":         "shield",
	"guard":            "shield",
	"cctv":             "camera",
	"garden":           "tree",
	"balcony":          "sun",
	"swimming pool":    "waves",
	"pool":             "waves",
	"gym":              "dumbbell",
	"mosque":           "moon",
	"playground":       "smile",
	"furnished":        "sofa",
	"kitchen":          "utensils",
	"basement":         "archive",
	"storage":          "archive",
}

// AmenityIcon returns the icon for a known amenity label (case-insensitive),
// or IconAmenityFallback.
func AmenityIcon(label string) string {
	if icon, ok := amenityIcons[strings.ToLower(strings.TrimSpace(label))]; ok {
		return icon
	}
	return IconAmenityFallback
}
