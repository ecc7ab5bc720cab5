package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/derivation"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/normalizer"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/port/usecases_port"
	"korx-catalog/internal/core/wizard"

	"github.com/google/uuid"
)

// draftSessions - загрузка и сохранение сессий мастера, общее для всех use case черновиков.
type draftSessions struct {
	repo port.DraftRepositoryPort
}

func (s draftSessions) load(ctx context.Context, id uuid.UUID) (*wizard.Machine, error) {
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft %s: %w", id, err)
	}
	m, err := wizard.Restore(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to restore draft %s: %w", id, err)
	}
	return m, nil
}

func (s draftSessions) save(ctx context.Context, m *wizard.Machine) error {
	if err := s.repo.Save(ctx, m.Snapshot()); err != nil {
		return fmt.Errorf("failed to save draft %s: %w", m.ID(), err)
	}
	return nil
}

// StartDraftUseCase открывает новую сессию: пустую или по существующему объекту.
type StartDraftUseCase struct {
	api      port.PropertyAPIPort
	sessions draftSessions
}

func NewStartDraftUseCase(api port.PropertyAPIPort, repo port.DraftRepositoryPort) *StartDraftUseCase {
	return &StartDraftUseCase{api: api, sessions: draftSessions{repo: repo}}
}

func (uc *StartDraftUseCase) Execute(ctx context.Context, fromPropertyID *int64) (wizard.State, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "StartDraft"})
	ucLogger.Info("Use case started", nil)

	record := domain.NewDraftRecord()
	if fromPropertyID != nil {
		ucLogger = ucLogger.WithFields(port.Fields{"property_id": *fromPropertyID})
		raw, err := uc.api.FetchPropertyByID(ctx, *fromPropertyID)
		if err != nil {
			ucLogger.Error("Failed to fetch property for editing", err, nil)
			return wizard.State{}, fmt.Errorf("failed to fetch property %d: %w", *fromPropertyID, err)
		}
		record = normalizer.Normalize(raw)
	}

	m := wizard.New(record)
	if err := uc.sessions.save(ctx, m); err != nil {
		ucLogger.Error("Failed to save new draft", err, nil)
		return wizard.State{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"draft_id": m.ID()})
	return m.State(), nil
}

type GetDraftUseCase struct {
	sessions draftSessions
}

func NewGetDraftUseCase(repo port.DraftRepositoryPort) *GetDraftUseCase {
	return &GetDraftUseCase{sessions: draftSessions{repo: repo}}
}

func (uc *GetDraftUseCase) Execute(ctx context.Context, draftID uuid.UUID) (wizard.State, error) {
	m, err := uc.sessions.load(ctx, draftID)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Draft not available", port.Fields{
			"use_case": "GetDraft",
			"draft_id": draftID,
			"error":    err.Error(),
		})
		return wizard.State{}, err
	}
	return m.State(), nil
}

// DiscardDraftUseCase закрывает мастер без отправки и удаляет сессию.
type DiscardDraftUseCase struct {
	sessions draftSessions
}

func NewDiscardDraftUseCase(repo port.DraftRepositoryPort) *DiscardDraftUseCase {
	return &DiscardDraftUseCase{sessions: draftSessions{repo: repo}}
}

func (uc *DiscardDraftUseCase) Execute(ctx context.Context, draftID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "DiscardDraft",
		"draft_id": draftID,
	})
	ucLogger.Info("Use case started", nil)

	if err := uc.sessions.repo.Delete(ctx, draftID); err != nil {
		ucLogger.Error("Failed to delete draft", err, nil)
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}

// UpdateDraftRecordUseCase заменяет черновик целиком (форма присылает все поля).
type UpdateDraftRecordUseCase struct {
	sessions draftSessions
}

func NewUpdateDraftRecordUseCase(repo port.DraftRepositoryPort) *UpdateDraftRecordUseCase {
	return &UpdateDraftRecordUseCase{sessions: draftSessions{repo: repo}}
}

func (uc *UpdateDraftRecordUseCase) Execute(ctx context.Context, draftID uuid.UUID, record domain.PropertyRecord) (wizard.State, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "UpdateDraftRecord",
		"draft_id": draftID,
	})
	ucLogger.Info("Use case started", nil)

	m, err := uc.sessions.load(ctx, draftID)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return wizard.State{}, err
	}

	// id объекта и вид записи при редактировании не меняются через форму
	current := m.Record()
	record.PropertyID = current.PropertyID
	if current.PropertyID > 0 {
		record.RecordKind = current.RecordKind
	}
	if err := m.SetRecord(record); err != nil {
		return m.State(), err
	}
	if err := uc.sessions.save(ctx, m); err != nil {
		ucLogger.Error("Failed to save draft", err, nil)
		return wizard.State{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"step": m.Current().String()})
	return m.State(), nil
}

type MoveDraftUseCase struct {
	sessions draftSessions
}

func NewMoveDraftUseCase(repo port.DraftRepositoryPort) *MoveDraftUseCase {
	return &MoveDraftUseCase{sessions: draftSessions{repo: repo}}
}

func (uc *MoveDraftUseCase) Execute(ctx context.Context, draftID uuid.UUID, move usecases_port.DraftMove) (wizard.State, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "MoveDraft",
		"draft_id": draftID,
		"action":   move.Action,
	})
	ucLogger.Info("Use case started", nil)

	m, err := uc.sessions.load(ctx, draftID)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return wizard.State{}, err
	}

	from := m.Current()
	switch move.Action {
	case usecases_port.MoveNext:
		err = m.Next()
	case usecases_port.MoveBack:
		err = m.Back()
	case usecases_port.MoveJump:
		err = m.JumpTo(move.Target)
	default:
		err = fmt.Errorf("%w: unknown move %q", domain.ErrInvalidArgument, move.Action)
	}
	if err != nil {
		// ошибка валидации - обычный исход, пользователь исправит поля
		ucLogger.Info("Move rejected", port.Fields{"step": from.String(), "reason": err.Error()})
		return m.State(), err
	}

	if err := uc.sessions.save(ctx, m); err != nil {
		ucLogger.Error("Failed to save draft", err, nil)
		return wizard.State{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"from": from.String(),
		"to":   m.Current().String(),
	})
	return m.State(), nil
}

type AttachDraftMediaUseCase struct {
	sessions draftSessions
}

func NewAttachDraftMediaUseCase(repo port.DraftRepositoryPort) *AttachDraftMediaUseCase {
	return &AttachDraftMediaUseCase{sessions: draftSessions{repo: repo}}
}

func (uc *AttachDraftMediaUseCase) Execute(ctx context.Context, draftID uuid.UUID, media domain.MediaAttachment) (wizard.State, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "AttachDraftMedia",
		"draft_id": draftID,
	})

	m, err := uc.sessions.load(ctx, draftID)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return wizard.State{}, err
	}
	if err := m.AddMedia(media); err != nil {
		return m.State(), err
	}
	if err := uc.sessions.save(ctx, m); err != nil {
		ucLogger.Error("Failed to save draft", err, nil)
		return wizard.State{}, err
	}

	ucLogger.Info("Media attached", port.Fields{"kind": media.Kind})
	return m.State(), nil
}

// SubmitDraftUseCase отправляет черновик с шага Review и публикует событие.
type SubmitDraftUseCase struct {
	api      port.PropertyAPIPort
	events   port.SubmissionEventsPort
	sessions draftSessions
	policy   domain.DraftVisibility
}

func NewSubmitDraftUseCase(
	api port.PropertyAPIPort,
	repo port.DraftRepositoryPort,
	events port.SubmissionEventsPort,
	policy domain.DraftVisibility,
) *SubmitDraftUseCase {
	return &SubmitDraftUseCase{api: api, events: events, sessions: draftSessions{repo: repo}, policy: policy}
}

func (uc *SubmitDraftUseCase) Execute(ctx context.Context, draftID uuid.UUID) (wizard.State, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "SubmitDraft",
		"draft_id": draftID,
	})
	ucLogger.Info("Use case started", nil)

	m, err := uc.sessions.load(ctx, draftID)
	if err != nil {
		ucLogger.Error("Failed to load draft", err, nil)
		return wizard.State{}, err
	}

	submitErr := m.Submit(ctx, uc.api)

	// и успех, и отказ сервера меняют сессию (глобальная ошибка), сохраняем в обоих случаях
	if err := uc.sessions.save(ctx, m); err != nil {
		ucLogger.Error("Failed to save draft after submit", err, nil)
		if submitErr == nil {
			submitErr = err
		}
	}

	if submitErr != nil {
		var subErr *domain.SubmissionError
		var verr *wizard.ValidationError
		switch {
		case errors.As(submitErr, &subErr):
			ucLogger.Warn("Server rejected the draft", port.Fields{"status": subErr.StatusCode, "message": subErr.Message})
		case errors.As(submitErr, &verr):
			ucLogger.Info("Draft is not valid yet", port.Fields{"step": verr.Step.String()})
		default:
			ucLogger.Error("Submission failed", submitErr, nil)
		}
		return m.State(), submitErr
	}

	record := m.Record()
	event := domain.PropertySubmittedEvent{
		EventID:     uuid.New(),
		DraftID:     m.ID(),
		PropertyID:  m.PropertyID(),
		RecordKind:  record.RecordKind,
		ParentID:    record.ParentID,
		Title:       derivation.DeriveTitle(record),
		Visibility:  derivation.Visibility(record, uc.policy),
		SubmittedAt: time.Now().UTC(),
	}
	if uc.events != nil {
		if err := uc.events.PublishSubmitted(ctx, event); err != nil {
			// объект уже на сервере, событие не критично
			ucLogger.Error("Failed to publish submission event", err, port.Fields{"event_id": event.EventID})
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"property_id": m.PropertyID()})
	return m.State(), nil
}
