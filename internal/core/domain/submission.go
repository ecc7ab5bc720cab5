package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DraftVisibility - политика видимости для объявлений, у которых не выбраны
// ни продажа, ни аренда.
type DraftVisibility string

const (
	VisibilityPublic    DraftVisibility = "public"
	VisibilityOwnerOnly DraftVisibility = "owner_only"
	VisibilityPrivate   DraftVisibility = "private"
)

// ParseDraftVisibility maps a config value to a policy, defaulting to owner_only.
func ParseDraftVisibility(s string) DraftVisibility {
	if DraftVisibility(strings.ToLower(strings.TrimSpace(s))) == VisibilityPrivate {
		return VisibilityPrivate
	}
	return VisibilityOwnerOnly
}

// MediaAttachment - файл, выбранный пользователем для отправки вместе с черновиком.
type MediaAttachment struct {
	Kind        string `json:"kind"` // photo | video
	Path        string `json:"path"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

// SubmissionError - сервер отклонил черновик. Это не фатально: мастер остается
// на шаге Review и показывает сообщение как глобальную ошибку.
type SubmissionError struct {
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

func (e *SubmissionError) Error() string {
	if len(e.FieldErrors) == 0 {
		return fmt.Sprintf("submission rejected (status %d): %s", e.StatusCode, e.Message)
	}
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("submission rejected (status %d): %s [%s]", e.StatusCode, e.Message, strings.Join(keys, ", "))
}

// PropertySubmittedEvent публикуется после успешной отправки черновика.
type PropertySubmittedEvent struct {
	EventID     uuid.UUID
	DraftID     uuid.UUID
	PropertyID  int64
	RecordKind  RecordKind
	ParentID    *int64
	Title       string
	Visibility  DraftVisibility
	SubmittedAt time.Time
}
