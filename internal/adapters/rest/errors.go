package rest

import (
	"errors"
	"net/http"

	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/wizard"
)

// respondUseCaseError маппит ошибки ядра в HTTP-статусы. state передается,
// если use case вернул актуальное состояние мастера вместе с ошибкой.
func respondUseCaseError(w http.ResponseWriter, logger port.LoggerPort, err error, state *wizard.State) {
	var verr *wizard.ValidationError
	var subErr *domain.SubmissionError

	switch {
	case errors.As(err, &verr):
		logger.Info("Step validation failed", port.Fields{"step": verr.Step.String()})
		RespondWithJSON(w, http.StatusUnprocessableEntity, toValidationErrorResponse(verr, state))
	case errors.As(err, &subErr):
		msg := subErr.Message
		if state != nil && state.GlobalError != "" {
			msg = state.GlobalError
		}
		RespondWithJSON(w, http.StatusUnprocessableEntity, SubmissionErrorResponse{
			Error:       msg,
			FieldErrors: subErr.FieldErrors,
			State:       state,
		})
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, wizard.ErrWizardClosed),
		errors.Is(err, wizard.ErrNoPreviousStep),
		errors.Is(err, wizard.ErrUseSubmit),
		errors.Is(err, wizard.ErrNotOnReview),
		errors.Is(err, wizard.ErrStepNotAvailable):
		WriteJSONError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Use case failed", err, nil)
		if state != nil && state.GlobalError != "" {
			// отправка не удалась, но сессия сохранена и показывает ошибку
			RespondWithJSON(w, http.StatusBadGateway, SubmissionErrorResponse{Error: state.GlobalError, State: state})
			return
		}
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
