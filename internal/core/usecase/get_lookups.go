package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"
)

type GetLookupsUseCase struct {
	api   port.PropertyAPIPort
	cache port.KVStorePort
	ttl   time.Duration
}

func NewGetLookupsUseCase(api port.PropertyAPIPort, cache port.KVStorePort, ttl time.Duration) *GetLookupsUseCase {
	return &GetLookupsUseCase{api: api, cache: cache, ttl: ttl}
}

func (uc *GetLookupsUseCase) Execute(ctx context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "GetLookups",
		"kind":     kind,
	})
	ucLogger.Info("Use case started", nil)

	if kind.RequiresParent() && parentID == nil {
		return nil, fmt.Errorf("%w: %s lookup requires parent_id", domain.ErrInvalidArgument, kind)
	}
	if !kind.RequiresParent() {
		// провинции и агенты не каскадные
		parentID = nil
	}

	key := lookupCacheKey(kind, parentID)
	if items, ok := uc.fromCache(ctx, ucLogger, key); ok {
		ucLogger.Info("Use case finished successfully", port.Fields{"cache": "hit", "count": len(items)})
		return items, nil
	}

	items, err := uc.api.FetchLookups(ctx, kind, parentID)
	if err != nil {
		ucLogger.Error("Failed to fetch lookups", err, nil)
		return nil, fmt.Errorf("failed to fetch %s lookups: %w", kind, err)
	}
	if items == nil {
		items = []domain.LookupItem{}
	}

	if payload, err := json.Marshal(items); err == nil {
		if err := uc.cache.Set(ctx, key, string(payload), uc.ttl); err != nil {
			ucLogger.Warn("Failed to cache lookups", port.Fields{"error": err.Error()})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"cache": "miss", "count": len(items)})
	return items, nil
}

func (uc *GetLookupsUseCase) fromCache(ctx context.Context, logger port.LoggerPort, key string) ([]domain.LookupItem, bool) {
	value, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			logger.Warn("Lookup cache unavailable", port.Fields{"error": err.Error()})
		}
		return nil, false
	}
	var items []domain.LookupItem
	if err := json.Unmarshal([]byte(value), &items); err != nil {
		logger.Warn("Corrupted lookup cache entry, refetching", port.Fields{"key": key})
		return nil, false
	}
	return items, true
}

func lookupCacheKey(kind domain.LookupKind, parentID *int64) string {
	if parentID == nil {
		return fmt.Sprintf("lookups:%s", kind)
	}
	return fmt.Sprintf("lookups:%s:%d", kind, *parentID)
}
