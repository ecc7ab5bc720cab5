package rest

import (
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/wizard"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ListingsResponse - список производных карточек.
type ListingsResponse struct {
	Data  []domain.ListingView `json:"data"`
	Total int                  `json:"total"`
}

type LookupsResponse struct {
	Kind string              `json:"kind"`
	Data []domain.LookupItem `json:"data"`
}

type FavoritesResponse struct {
	IDs []int64 `json:"ids"`
}

type ToggleFavoriteResponse struct {
	PropertyID int64 `json:"property_id"`
	IsFavorite bool  `json:"is_favorite"`
}

// StartDraftRequest - пустое тело создает новый объект, property_id - редактирование.
type StartDraftRequest struct {
	PropertyID *int64 `json:"property_id"`
}

// ValidationErrorResponse - шаг не пройден: ошибки по полям, ошибка шага и
// актуальное состояние мастера.
type ValidationErrorResponse struct {
	Error       string            `json:"error"`
	Step        string            `json:"step"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	StepError   string            `json:"step_error,omitempty"`
	State       *wizard.State     `json:"state,omitempty"`
}

// SubmissionErrorResponse - сервер отклонил черновик, мастер остался на Review.
type SubmissionErrorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	State       *wizard.State     `json:"state,omitempty"`
}

func toValidationErrorResponse(verr *wizard.ValidationError, state *wizard.State) ValidationErrorResponse {
	resp := ValidationErrorResponse{
		Error:     "Validation failed",
		Step:      verr.Step.String(),
		StepError: verr.StepError,
		State:     state,
	}
	if len(verr.FieldErrors) > 0 {
		resp.FieldErrors = make(map[string]string, len(verr.FieldErrors))
		for f, msg := range verr.FieldErrors {
			resp.FieldErrors[string(f)] = msg
		}
	}
	return resp
}

type HealthResponse struct {
	Status string `json:"status"`
}
