package port

import (
	"context"

	"korx-catalog/internal/core/domain"

	"github.com/google/uuid"
)

// DraftRepositoryPort - хранилище сессий мастера.
// FindByID возвращает domain.ErrNotFound, если сессии нет.
type DraftRepositoryPort interface {
	Save(ctx context.Context, draft domain.DraftSnapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.DraftSnapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
