package usecase

import (
	"context"
	"fmt"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/derivation"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/hierarchy"
	"korx-catalog/internal/core/normalizer"
	"korx-catalog/internal/core/port"
)

type GetChildrenUseCase struct {
	api       port.PropertyAPIPort
	favorites port.FavoritesPort
	media     port.MediaResolverPort
	policy    domain.DraftVisibility
}

func NewGetChildrenUseCase(
	api port.PropertyAPIPort,
	favorites port.FavoritesPort,
	media port.MediaResolverPort,
	policy domain.DraftVisibility,
) *GetChildrenUseCase {
	return &GetChildrenUseCase{api: api, favorites: favorites, media: media, policy: policy}
}

func (uc *GetChildrenUseCase) Execute(ctx context.Context, parentID int64) ([]domain.ListingView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":  "GetChildren",
		"parent_id": parentID,
	})
	ucLogger.Info("Use case started", nil)

	rawParent, err := uc.api.FetchPropertyByID(ctx, parentID)
	if err != nil {
		ucLogger.Error("Failed to fetch parent property", err, nil)
		return nil, fmt.Errorf("failed to fetch parent %d: %w", parentID, err)
	}
	parent := normalizer.Normalize(rawParent)
	if !hierarchy.Classify(parent).IsContainer {
		ucLogger.Info("Property is not a container, no children", nil)
		return []domain.ListingView{}, nil
	}

	rawChildren, err := uc.api.FetchChildren(ctx, parentID)
	if err != nil {
		ucLogger.Error("Failed to fetch children", err, nil)
		return nil, fmt.Errorf("failed to fetch children of %d: %w", parentID, err)
	}

	// Сервер мог вернуть лишнее, оставляем только настоящих детей
	children := hierarchy.ChildrenOf(normalizer.NormalizeMany(rawChildren), parentID)

	views := make([]domain.ListingView, 0, len(children))
	for _, child := range children {
		view := derivation.DeriveListing(child, &parent, derivation.Options{
			IsFavorite: uc.favorites.Contains(child.PropertyID),
			Policy:     uc.policy,
		})
		resolveViewMedia(&view, uc.media)
		views = append(views, view)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"received": len(rawChildren),
		"children": len(views),
	})
	return views, nil
}
