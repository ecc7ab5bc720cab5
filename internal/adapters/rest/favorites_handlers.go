package rest

import (
	"fmt"
	"net/http"
	"time"

	"korx-catalog/internal/adapters/notifier"
	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/port/usecases_port"
)

// FavoritesStream - подписка на изменения избранного для SSE.
type FavoritesStream interface {
	AddClient() notifier.ClientChannel
	RemoveClient(ch notifier.ClientChannel)
}

type FavoritesHandler struct {
	toggleUC usecases_port.ToggleFavoriteUseCasePort
	getUC    usecases_port.GetFavoritesUseCasePort
	stream   FavoritesStream

	keepAlive time.Duration
}

func NewFavoritesHandler(
	toggleUC usecases_port.ToggleFavoriteUseCasePort,
	getUC usecases_port.GetFavoritesUseCasePort,
	stream FavoritesStream,
) *FavoritesHandler {
	return &FavoritesHandler{
		toggleUC:  toggleUC,
		getUC:     getUC,
		stream:    stream,
		keepAlive: 15 * time.Second,
	}
}

// GetFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) GetFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetFavorites"})

	ids, err := h.getUC.Execute(r.Context())
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	RespondWithJSON(w, http.StatusOK, FavoritesResponse{IDs: ids})
}

// ToggleFavorite обрабатывает POST /api/v1/favorites/{id}/toggle
func (h *FavoritesHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ToggleFavorite"})

	id, ok := parseID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	isFavorite, err := h.toggleUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	RespondWithJSON(w, http.StatusOK, ToggleFavoriteResponse{PropertyID: id, IsFavorite: isFavorite})
}

// StreamFavorites обрабатывает GET /api/v1/favorites/stream (SSE).
// Первым сообщением уходит текущий список, дальше - каждое изменение.
func (h *FavoritesHandler) StreamFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "StreamFavorites"})

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	clientChan := h.stream.AddClient()
	defer h.stream.RemoveClient(clientChan)

	ids, err := h.getUC.Execute(r.Context())
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	if ids == nil {
		ids = []int64{}
	}
	initial, err := notifier.FormatEvent(notifier.EventFavoritesChanged, ids)
	if err != nil {
		logger.Error("Failed to marshal initial snapshot", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(initial); err != nil {
		return
	}
	flusher.Flush()
	logger.Info("SSE client subscribed", nil)

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				logger.Warn("Error writing to client, closing SSE connection", port.Fields{"error": err.Error()})
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// строки с двоеточия - комментарии SSE, держат соединение живым
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
