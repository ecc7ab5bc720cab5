package usecases_port

import (
	"context"

	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/wizard"

	"github.com/google/uuid"
)

type StartDraftUseCasePort interface {
	// fromPropertyID == nil - создание, иначе редактирование существующего объекта
	Execute(ctx context.Context, fromPropertyID *int64) (wizard.State, error)
}

type GetDraftUseCasePort interface {
	Execute(ctx context.Context, draftID uuid.UUID) (wizard.State, error)
}

type UpdateDraftRecordUseCasePort interface {
	Execute(ctx context.Context, draftID uuid.UUID, record domain.PropertyRecord) (wizard.State, error)
}

// DraftMove - навигация по шагам мастера.
type DraftMove struct {
	Action string // next | back | jump
	Target wizard.Step
}

const (
	MoveNext = "next"
	MoveBack = "back"
	MoveJump = "jump"
)

type MoveDraftUseCasePort interface {
	// При ошибке валидации возвращает и актуальное состояние, и *wizard.ValidationError
	Execute(ctx context.Context, draftID uuid.UUID, move DraftMove) (wizard.State, error)
}

type AttachDraftMediaUseCasePort interface {
	Execute(ctx context.Context, draftID uuid.UUID, media domain.MediaAttachment) (wizard.State, error)
}

type DiscardDraftUseCasePort interface {
	Execute(ctx context.Context, draftID uuid.UUID) error
}

type SubmitDraftUseCasePort interface {
	Execute(ctx context.Context, draftID uuid.UUID) (wizard.State, error)
}
