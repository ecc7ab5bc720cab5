package usecases_port

import "context"

type ToggleFavoriteUseCasePort interface {
	// Возвращает true, если объект теперь в избранном
	Execute(ctx context.Context, propertyID int64) (bool, error)
}

type GetFavoritesUseCasePort interface {
	Execute(ctx context.Context) ([]int64, error)
}
