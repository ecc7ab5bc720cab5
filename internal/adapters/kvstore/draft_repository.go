package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"

	"github.com/google/uuid"
)

const draftKeyPrefix = "drafts:"

// DefaultDraftTTL - брошенная сессия мастера живет неделю с последнего изменения.
const DefaultDraftTTL = 7 * 24 * time.Hour

// DraftRepository хранит сессии мастера в KV-хранилище, когда Postgres не настроен.
type DraftRepository struct {
	kv  port.KVStorePort
	ttl time.Duration
}

func NewDraftRepository(kv port.KVStorePort, ttl time.Duration) *DraftRepository {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &DraftRepository{kv: kv, ttl: ttl}
}

func draftKey(id uuid.UUID) string {
	return draftKeyPrefix + id.String()
}

func (r *DraftRepository) Save(ctx context.Context, draft domain.DraftSnapshot) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := r.kv.Set(ctx, draftKey(draft.ID), string(data), r.ttl); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

func (r *DraftRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.DraftSnapshot, error) {
	raw, err := r.kv.Get(ctx, draftKey(id))
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return domain.DraftSnapshot{}, domain.ErrNotFound
		}
		return domain.DraftSnapshot{}, fmt.Errorf("failed to read draft: %w", err)
	}

	var draft domain.DraftSnapshot
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		logger := contextkeys.LoggerFromContext(ctx)
		logger.Warn("Stored draft is corrupted, treating as missing", port.Fields{
			"component": "KVDraftRepository",
			"draft_id":  id,
			"error":     err.Error(),
		})
		return domain.DraftSnapshot{}, domain.ErrNotFound
	}
	draft.Record.EnsureCollections()
	return draft, nil
}

func (r *DraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.kv.Delete(ctx, draftKey(id))
}
