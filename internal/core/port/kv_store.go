package port

import (
	"context"
	"time"
)

// KVStorePort - простое key-value хранилище (избранное, кэш справочников).
// Get возвращает domain.ErrKeyNotFound, если ключа нет.
type KVStorePort interface {
	Get(ctx context.Context, key string) (string, error)
	// Set с ttl == 0 хранит значение без срока жизни.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete отсутствующего ключа не ошибка.
	Delete(ctx context.Context, key string) error
}
