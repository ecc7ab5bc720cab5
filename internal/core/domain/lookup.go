package domain

import "fmt"

// LookupKind - тип справочника для каскадных пикеров.
type LookupKind string

const (
	LookupProvince LookupKind = "province"
	LookupDistrict LookupKind = "district"
	LookupArea     LookupKind = "area"
	LookupAgent    LookupKind = "agent"
)

// ParseLookupKind validates a kind coming from the outside.
func ParseLookupKind(s string) (LookupKind, error) {
	switch k := LookupKind(s); k {
	case LookupProvince, LookupDistrict, LookupArea, LookupAgent:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown lookup kind %q", ErrInvalidArgument, s)
	}
}

// RequiresParent reports whether the kind is a cascade level that needs the
// id of the level above (district -> province, area -> district).
func (k LookupKind) RequiresParent() bool {
	return k == LookupDistrict || k == LookupArea
}

// LookupItem - универсальный элемент справочника.
type LookupItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
