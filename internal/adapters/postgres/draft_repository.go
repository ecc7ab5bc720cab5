package postgres_adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier - подмножество *pgxpool.Pool, которым пользуются репозитории.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDraftRepository хранит сессии мастера: снимок целиком в JSONB,
// шаг и статус отдельными колонками для выборок.
type PostgresDraftRepository struct {
	db querier
}

func NewPostgresDraftRepository(db querier) (*PostgresDraftRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &PostgresDraftRepository{db: db}, nil
}

func (r *PostgresDraftRepository) Save(ctx context.Context, draft domain.DraftSnapshot) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresDraftRepository",
		"method":    "Save",
		"draft_id":  draft.ID,
	})

	snapshot, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	var propertyID *int64
	if draft.PropertyID > 0 {
		propertyID = &draft.PropertyID
	}

	query := `
		INSERT INTO wizard_drafts (id, step, submitted, property_id, snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			step = EXCLUDED.step,
			submitted = EXCLUDED.submitted,
			property_id = EXCLUDED.property_id,
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.Exec(ctx, query, draft.ID, draft.Step, draft.Submitted, propertyID, snapshot, draft.CreatedAt, draft.UpdatedAt)
	if err != nil {
		repoLogger.Error("Failed to save draft", err, nil)
		return fmt.Errorf("failed to save draft: %w", err)
	}

	repoLogger.Debug("Draft saved", port.Fields{"step": draft.Step})
	return nil
}

func (r *PostgresDraftRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.DraftSnapshot, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresDraftRepository",
		"method":    "FindByID",
		"draft_id":  id,
	})

	var snapshot []byte
	err := r.db.QueryRow(ctx, `SELECT snapshot FROM wizard_drafts WHERE id = $1`, id).Scan(&snapshot)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DraftSnapshot{}, domain.ErrNotFound
		}
		repoLogger.Error("Failed to query draft", err, nil)
		return domain.DraftSnapshot{}, fmt.Errorf("failed to query draft: %w", err)
	}

	var draft domain.DraftSnapshot
	if err := json.Unmarshal(snapshot, &draft); err != nil {
		repoLogger.Error("Failed to decode draft snapshot", err, nil)
		return domain.DraftSnapshot{}, fmt.Errorf("failed to decode draft snapshot: %w", err)
	}
	draft.Record.EnsureCollections()
	return draft, nil
}

func (r *PostgresDraftRepository) Delete(ctx context.Context, id uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresDraftRepository",
		"method":    "Delete",
		"draft_id":  id,
	})

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM wizard_drafts WHERE id = $1`, id)
	if err != nil {
		repoLogger.Error("Failed to delete draft", err, nil)
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		repoLogger.Warn("Attempted to delete a draft that did not exist.", nil)
	}
	return nil
}
