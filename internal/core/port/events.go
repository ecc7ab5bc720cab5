package port

import (
	"context"

	"korx-catalog/internal/core/domain"
)

// SubmissionEventsPort публикует событие об успешной отправке объекта.
type SubmissionEventsPort interface {
	PublishSubmitted(ctx context.Context, event domain.PropertySubmittedEvent) error
}
