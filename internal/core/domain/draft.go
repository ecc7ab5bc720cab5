package domain

import (
	"time"

	"github.com/google/uuid"
)

// DraftSnapshot - сохраненное состояние сессии мастера создания/редактирования.
// Каждая сессия владеет своим черновиком, общих данных между сессиями нет.
type DraftSnapshot struct {
	ID          uuid.UUID         `json:"id"`
	Step        string            `json:"step"`
	Record      PropertyRecord    `json:"record"`
	Media       []MediaAttachment `json:"media"`
	GlobalError string            `json:"global_error,omitempty"`
	Submitted   bool              `json:"submitted"`
	PropertyID  int64             `json:"property_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}
