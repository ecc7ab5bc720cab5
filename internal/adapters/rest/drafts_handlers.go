package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/normalizer"
	"korx-catalog/internal/core/port"
	"korx-catalog/internal/core/port/usecases_port"
	"korx-catalog/internal/core/wizard"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxRecordBodyBytes = 1 << 20
	maxUploadBytes     = 64 << 20
)

// DraftsHandler - мастер создания/редактирования объекта.
type DraftsHandler struct {
	startUC   usecases_port.StartDraftUseCasePort
	getUC     usecases_port.GetDraftUseCasePort
	updateUC  usecases_port.UpdateDraftRecordUseCasePort
	moveUC    usecases_port.MoveDraftUseCasePort
	attachUC  usecases_port.AttachDraftMediaUseCasePort
	submitUC  usecases_port.SubmitDraftUseCasePort
	discardUC usecases_port.DiscardDraftUseCasePort

	// uploadDir - куда складываются загруженные файлы до отправки черновика
	uploadDir string
}

func NewDraftsHandler(
	startUC usecases_port.StartDraftUseCasePort,
	getUC usecases_port.GetDraftUseCasePort,
	updateUC usecases_port.UpdateDraftRecordUseCasePort,
	moveUC usecases_port.MoveDraftUseCasePort,
	attachUC usecases_port.AttachDraftMediaUseCasePort,
	submitUC usecases_port.SubmitDraftUseCasePort,
	discardUC usecases_port.DiscardDraftUseCasePort,
	uploadDir string,
) *DraftsHandler {
	return &DraftsHandler{
		startUC:   startUC,
		getUC:     getUC,
		updateUC:  updateUC,
		moveUC:    moveUC,
		attachUC:  attachUC,
		submitUC:  submitUC,
		discardUC: discardUC,
		uploadDir: uploadDir,
	}
}

func parseDraftID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "draftID"))
	return id, err == nil
}

// statePtr - nil, если use case не смог загрузить сессию.
func statePtr(st wizard.State) *wizard.State {
	if st.ID == "" {
		return nil
	}
	return &st
}

// StartDraft обрабатывает POST /api/v1/drafts
func (h *DraftsHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "StartDraft"})

	var req StartDraftRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRecordBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.PropertyID != nil && *req.PropertyID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "Invalid property_id")
		return
	}

	st, err := h.startUC.Execute(r.Context(), req.PropertyID)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	RespondWithJSON(w, http.StatusCreated, st)
}

// GetDraft обрабатывает GET /api/v1/drafts/{draftID}
func (h *DraftsHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "GetDraft"})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}
	st, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}

// UpdateRecord обрабатывает PUT /api/v1/drafts/{draftID}/record.
// Тело проходит через нормализатор, поэтому принимаются те же написания
// полей, что и в ответах каталог-сервера.
func (h *DraftsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateRecord"})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRecordBodyBytes))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}

	record := normalizer.Normalize(domain.ParseRawPropertyInput(body))
	st, err := h.updateUC.Execute(r.Context(), id, record)
	if err != nil {
		respondUseCaseError(w, logger, err, statePtr(st))
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}

func (h *DraftsHandler) move(w http.ResponseWriter, r *http.Request, handler string, move usecases_port.DraftMove) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": handler})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}
	st, err := h.moveUC.Execute(r.Context(), id, move)
	if err != nil {
		respondUseCaseError(w, logger, err, statePtr(st))
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}

// NextStep обрабатывает POST /api/v1/drafts/{draftID}/next
func (h *DraftsHandler) NextStep(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "NextStep", usecases_port.DraftMove{Action: usecases_port.MoveNext})
}

// PreviousStep обрабатывает POST /api/v1/drafts/{draftID}/back
func (h *DraftsHandler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, "PreviousStep", usecases_port.DraftMove{Action: usecases_port.MoveBack})
}

// JumpToStep обрабатывает POST /api/v1/drafts/{draftID}/jump/{step}
func (h *DraftsHandler) JumpToStep(w http.ResponseWriter, r *http.Request) {
	step, err := wizard.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.move(w, r, "JumpToStep", usecases_port.DraftMove{Action: usecases_port.MoveJump, Target: step})
}

// AttachMedia обрабатывает POST /api/v1/drafts/{draftID}/media (multipart: file, kind).
func (h *DraftsHandler) AttachMedia(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AttachMedia"})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Field 'file' is required")
		return
	}
	defer file.Close()

	kind := strings.ToLower(strings.TrimSpace(r.FormValue("kind")))
	contentType := header.Header.Get("Content-Type")
	if kind == "" && strings.HasPrefix(contentType, "video/") {
		kind = "video"
	}
	if kind != "" && kind != "photo" && kind != "video" {
		WriteJSONError(w, http.StatusBadRequest, "Field 'kind' must be photo or video")
		return
	}

	path, err := h.storeUpload(id, header.Filename, contentType, file)
	if err != nil {
		logger.Error("Failed to store upload", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	st, err := h.attachUC.Execute(r.Context(), id, domain.MediaAttachment{
		Kind:        kind,
		Path:        path,
		FileName:    filepath.Base(header.Filename),
		ContentType: contentType,
	})
	if err != nil {
		_ = os.Remove(path)
		respondUseCaseError(w, logger, err, statePtr(st))
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}

// storeUpload сохраняет файл в <uploadDir>/<draftID>/<uuid><ext>.
func (h *DraftsHandler) storeUpload(draftID uuid.UUID, fileName, contentType string, src io.Reader) (string, error) {
	dir := filepath.Join(h.uploadDir, draftID.String())
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	path := filepath.Join(dir, uuid.NewString()+ext)

	dst, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to close upload: %w", err)
	}
	return path, nil
}

// SubmitDraft обрабатывает POST /api/v1/drafts/{draftID}/submit
func (h *DraftsHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SubmitDraft"})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}
	st, err := h.submitUC.Execute(r.Context(), id)
	if err != nil {
		respondUseCaseError(w, logger, err, statePtr(st))
		return
	}
	RespondWithJSON(w, http.StatusOK, st)
}

// DiscardDraft обрабатывает DELETE /api/v1/drafts/{draftID}. Загруженные
// файлы сессии удаляются вместе с ней.
func (h *DraftsHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "DiscardDraft"})

	id, ok := parseDraftID(r)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Invalid draft ID")
		return
	}
	if err := h.discardUC.Execute(r.Context(), id); err != nil {
		respondUseCaseError(w, logger, err, nil)
		return
	}
	if err := os.RemoveAll(filepath.Join(h.uploadDir, id.String())); err != nil {
		logger.Warn("Failed to remove draft uploads", port.Fields{"error": err.Error()})
	}
	w.WriteHeader(http.StatusNoContent)
}
