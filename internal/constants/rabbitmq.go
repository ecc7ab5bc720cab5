package constants

// Обменник и ключи маршрутизации событий каталога
const (
	ExchangeCatalogEvents = "catalog_events"

	RoutingKeyPropertySubmitted = "catalog.property.submitted"
)

// Заголовки сообщений
const (
	EventTypePropertySubmitted = "PropertySubmitted"
	EventVersion               = "1.0"
)
