package port

import (
	"context"

	"korx-catalog/internal/core/domain"
)

// PropertyAPIPort - контракт клиента каталог-сервера. Сервер для нас непрозрачен:
// читаем "сырые" записи, отдаем черновики.
type PropertyAPIPort interface {
	FetchPropertyByID(ctx context.Context, id int64) (domain.RawPropertyInput, error)
	FetchChildren(ctx context.Context, parentID int64) ([]domain.RawPropertyInput, error)
	// FetchLookups возвращает элементы справочника; parentID нужен для district/area.
	FetchLookups(ctx context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error)
	// SubmitProperty возвращает присвоенный propertyId. Отказ сервера приходит
	// как *domain.SubmissionError.
	SubmitProperty(ctx context.Context, draft domain.PropertyRecord, media []domain.MediaAttachment) (int64, error)
}
