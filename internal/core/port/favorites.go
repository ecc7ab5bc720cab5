package port

// FavoritesPort - процессный набор избранного (реализация: favorites.Set).
type FavoritesPort interface {
	Toggle(id int64) bool
	Contains(id int64) bool
	IDs() []int64
}
