package derivation

import (
	"korx-catalog/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// geoCellPrecision - 6 символов, ячейка примерно 1.2 x 0.6 км, для кластеров на карте.
const geoCellPrecision = 6

// DeriveGeoCell returns the geohash cell of the record's own coordinates,
// or "" when they are absent or out of range.
func DeriveGeoCell(r domain.PropertyRecord) string {
	loc := r.Location
	if !loc.HasCoordinates() {
		return ""
	}
	lat, lng := *loc.Latitude, *loc.Longitude
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 || (lat == 0 && lng == 0) {
		return ""
	}
	return geohash.EncodeWithPrecision(lat, lng, geoCellPrecision)
}
