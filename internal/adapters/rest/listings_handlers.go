package rest

import (
	"net/http"
	"strconv"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// ListingsHandler - чтение карточек и справочников.
type ListingsHandler struct {
	getListingUC  usecases_port.GetListingUseCasePort
	getChildrenUC usecases_port.GetChildrenUseCasePort
	getLookupsUC  usecases_port.GetLookupsUseCasePort
}

func NewListingsHandler(
	getListingUC usecases_port.GetListingUseCasePort,
	getChildrenUC usecases_port.GetChildrenUseCasePort,
	getLookupsUC usecases_port.GetLookupsUseCasePort,
) *ListingsHandler {
	return &ListingsHandler{
		getListingUC:  getListingUC,
		getChildrenUC: getChildrenUC,
		getLookupsUC:  getLookupsUC,
	}
}

// parseID читает положительный int64 из параметра пути.
func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetListing обрабатывает GET /api/v1/listings/{id}
func (h *ListingsHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetListing"})

	id, ok := parseID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	view, err := h.getListingUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	RespondWithJSON(w, http.StatusOK, view)
}

// GetChildren обрабатывает GET /api/v1/listings/{id}/children
func (h *ListingsHandler) GetChildren(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetChildren"})

	id, ok := parseID(r, "id")
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property ID")
		return
	}

	views, err := h.getChildrenUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	if views == nil {
		views = []domain.ListingView{}
	}
	RespondWithJSON(w, http.StatusOK, ListingsResponse{Data: views, Total: len(views)})
}

// GetLookups обрабатывает GET /api/v1/lookups/{kind}?parent_id=
func (h *ListingsHandler) GetLookups(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetLookups"})

	kind, err := domain.ParseLookupKind(chi.URLParam(r, "kind"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var parentID *int64
	if raw := r.URL.Query().Get("parent_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "Invalid parent_id")
			return
		}
		parentID = &id
	}

	items, err := h.getLookupsUC.Execute(r.Context(), kind, parentID)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	RespondWithJSON(w, http.StatusOK, LookupsResponse{Kind: string(kind), Data: items})
}
