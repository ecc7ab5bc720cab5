package usecase

import (
	"context"
	"fmt"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"
)

type ToggleFavoriteUseCase struct {
	favorites port.FavoritesPort
}

func NewToggleFavoriteUseCase(favorites port.FavoritesPort) *ToggleFavoriteUseCase {
	return &ToggleFavoriteUseCase{favorites: favorites}
}

func (uc *ToggleFavoriteUseCase) Execute(ctx context.Context, propertyID int64) (bool, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "ToggleFavorite",
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	if propertyID <= 0 {
		return false, fmt.Errorf("%w: property id must be positive", domain.ErrInvalidArgument)
	}

	// запись в хранилище асинхронная, здесь ошибок нет
	isFavorite := uc.favorites.Toggle(propertyID)

	ucLogger.Info("Use case finished successfully", port.Fields{"is_favorite": isFavorite})
	return isFavorite, nil
}

type GetFavoritesUseCase struct {
	favorites port.FavoritesPort
}

func NewGetFavoritesUseCase(favorites port.FavoritesPort) *GetFavoritesUseCase {
	return &GetFavoritesUseCase{favorites: favorites}
}

func (uc *GetFavoritesUseCase) Execute(ctx context.Context) ([]int64, error) {
	ids := uc.favorites.IDs()
	contextkeys.LoggerFromContext(ctx).Debug("Favorites requested", port.Fields{
		"use_case": "GetFavorites",
		"count":    len(ids),
	})
	return ids, nil
}
