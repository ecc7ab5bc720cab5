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

type GetListingUseCase struct {
	api       port.PropertyAPIPort
	favorites port.FavoritesPort
	media     port.MediaResolverPort
	policy    domain.DraftVisibility
}

func NewGetListingUseCase(
	api port.PropertyAPIPort,
	favorites port.FavoritesPort,
	media port.MediaResolverPort,
	policy domain.DraftVisibility,
) *GetListingUseCase {
	return &GetListingUseCase{api: api, favorites: favorites, media: media, policy: policy}
}

func (uc *GetListingUseCase) Execute(ctx context.Context, propertyID int64) (domain.ListingView, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetListing",
		"property_id": propertyID,
	})
	ucLogger.Info("Use case started", nil)

	raw, err := uc.api.FetchPropertyByID(ctx, propertyID)
	if err != nil {
		ucLogger.Error("Failed to fetch property", err, nil)
		return domain.ListingView{}, fmt.Errorf("failed to fetch property %d: %w", propertyID, err)
	}
	record := normalizer.Normalize(raw)

	// Локация и удобства ребенка берутся у контейнера
	var parent *domain.PropertyRecord
	if c := hierarchy.Classify(record); c.IsChild {
		parent = uc.fetchParent(ctx, ucLogger, *record.ParentID)
	}

	view := derivation.DeriveListing(record, parent, derivation.Options{
		IsFavorite: uc.favorites.Contains(record.PropertyID),
		Policy:     uc.policy,
	})
	resolveViewMedia(&view, uc.media)

	ucLogger.Info("Use case finished successfully", port.Fields{"is_child": view.IsChild})
	return view, nil
}

// fetchParent не фатален: без родителя карточка покажет "Location not specified".
func (uc *GetListingUseCase) fetchParent(ctx context.Context, logger port.LoggerPort, parentID int64) *domain.PropertyRecord {
	raw, err := uc.api.FetchPropertyByID(ctx, parentID)
	if err != nil {
		logger.Warn("Parent container unavailable, deriving without it", port.Fields{
			"parent_id": parentID,
			"error":     err.Error(),
		})
		return nil
	}
	parent := normalizer.Normalize(raw)
	return &parent
}

// resolveViewMedia превращает сырые пути в абсолютные URL; нерезолвящиеся выкидываются.
func resolveViewMedia(view *domain.ListingView, resolver port.MediaResolverPort) {
	if resolver == nil {
		return
	}
	view.Photos = resolveAll(view.Photos, resolver)
	view.Videos = resolveAll(view.Videos, resolver)
}

func resolveAll(paths []string, resolver port.MediaResolverPort) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if url, ok := resolver.ResolveMediaURL(p); ok {
			out = append(out, url)
		}
	}
	return out
}
