package usecases_port

import (
	"context"

	"korx-catalog/internal/core/domain"
)

type GetListingUseCasePort interface {
	Execute(ctx context.Context, propertyID int64) (domain.ListingView, error)
}

type GetChildrenUseCasePort interface {
	// Дочерние юниты контейнера, уже с производными значениями
	Execute(ctx context.Context, parentID int64) ([]domain.ListingView, error)
}

type GetLookupsUseCasePort interface {
	Execute(ctx context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error)
}
