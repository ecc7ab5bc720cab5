package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/wizard"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router  http.Handler
	lookups *fakeGetLookups
	drafts  *fakeDrafts
	uploads string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		lookups: &fakeGetLookups{items: []domain.LookupItem{{ID: 1, Name: "Phnom Penh"}}},
		drafts:  newFakeDrafts(),
		uploads: t.TempDir(),
	}
	favs := &fakeFavorites{}

	listings := NewListingsHandler(
		&fakeGetListing{view: domain.ListingView{Title: "House for Sale"}},
		&fakeGetChildren{},
		env.lookups,
	)
	favorites := NewFavoritesHandler(
		toggleFunc(favs.toggle),
		getFavoritesFunc(func(context.Context) ([]int64, error) { return []int64{}, nil }),
		fakeStream{},
	)
	env.router = NewRouter([]string{"*"}, listings, favorites, env.drafts.handler(env.uploads), contextkeys.NoopLogger())
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (e *testEnv) startDraft(t *testing.T) wizard.State {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/v1/drafts", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[wizard.State](t, rec)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[HealthResponse](t, rec).Status)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestTraceIDIsEchoed(t *testing.T) {
	env := newTestEnv(t)
	traceID := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Trace-ID", traceID)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, traceID, rec.Header().Get("X-Trace-ID"))
}

func TestGetListing(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/42", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[domain.ListingView](t, rec)
	assert.Equal(t, int64(42), view.PropertyID)
	assert.Equal(t, "House for Sale", view.Title)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/listings/0", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetListing_NotFound(t *testing.T) {
	listings := NewListingsHandler(&fakeGetListing{err: domain.ErrNotFound}, &fakeGetChildren{}, &fakeGetLookups{})
	router := NewRouter(nil, listings, nil, nil, contextkeys.NoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetChildren_EmptyListIsNotNull(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/listings/5/children", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"total":0}`, rec.Body.String())
}

func TestGetLookups(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/lookups/district?parent_id=12", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.LookupDistrict, env.lookups.gotKind)
	require.NotNil(t, env.lookups.gotParent)
	assert.Equal(t, int64(12), *env.lookups.gotParent)
	assert.Equal(t, "district", decode[LookupsResponse](t, rec).Kind)

	rec = env.do(t, http.MethodGet, "/api/v1/lookups/planet", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/lookups/area?parent_id=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFavorite(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/favorites/9/toggle", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ToggleFavoriteResponse{PropertyID: 9, IsFavorite: true}, decode[ToggleFavoriteResponse](t, rec))

	rec = env.do(t, http.MethodPost, "/api/v1/favorites/9/toggle", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[ToggleFavoriteResponse](t, rec).IsFavorite)
}

func TestGetFavorites_EmptyList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/favorites", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ids":[]}`, rec.Body.String())
}

func TestDrafts_StartAndGet(t *testing.T) {
	env := newTestEnv(t)

	st := env.startDraft(t)
	assert.Equal(t, "basic_info", st.Step)
	assert.False(t, st.Submitted)

	rec := env.do(t, http.MethodGet, "/api/v1/drafts/"+st.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, st.ID, decode[wizard.State](t, rec).ID)

	rec = env.do(t, http.MethodGet, "/api/v1/drafts/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/drafts/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrafts_StartForEdit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/drafts", []byte(`{"property_id": 31}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(31), decode[wizard.State](t, rec).Record.PropertyID)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts", []byte(`{"property_id": -3}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts", []byte(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrafts_NextWithMissingFieldsReturnsValidationErrors(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	rec := env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/next", nil, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[ValidationErrorResponse](t, rec)
	assert.Equal(t, "basic_info", resp.Step)
	assert.Contains(t, resp.FieldErrors, "property_type")
	require.NotNil(t, resp.State)
	assert.Equal(t, "basic_info", resp.State.Step)
}

func TestDrafts_UpdateRecordThenNext(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	body := []byte(`{"propertyType": "House", "title": "Villa"}`)
	rec := env.do(t, http.MethodPut, "/api/v1/drafts/"+st.ID+"/record", body, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[wizard.State](t, rec)
	assert.Equal(t, "house", updated.Record.PropertyType)
	assert.Equal(t, "Villa", updated.Record.Title)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/next", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "property_details", decode[wizard.State](t, rec).Step)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/back", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "basic_info", decode[wizard.State](t, rec).Step)
}

func TestDrafts_UpdateRecordRejectsNonObject(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	rec := env.do(t, http.MethodPut, "/api/v1/drafts/"+st.ID+"/record", []byte(`[1,2]`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/drafts/"+st.ID+"/record", []byte(`not json`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrafts_NavigationConflicts(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	rec := env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/back", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/jump/location", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/jump/nowhere", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/submit", nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDrafts_SubmissionRejected(t *testing.T) {
	env := newTestEnv(t)
	env.drafts.submitFn = func(*wizard.Machine) error {
		return &domain.SubmissionError{
			StatusCode:  422,
			Message:     "Title already used",
			FieldErrors: map[string]string{"title": "already used"},
		}
	}
	st := env.startDraft(t)

	rec := env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/submit", nil, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[SubmissionErrorResponse](t, rec)
	assert.Equal(t, "Title already used", resp.Error)
	assert.Equal(t, "already used", resp.FieldErrors["title"])
	require.NotNil(t, resp.State)
	assert.Equal(t, st.ID, resp.State.ID)
}

func TestDrafts_AttachMedia(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("kind", "photo"))
	part, err := mw.CreateFormFile("file", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/media", buf.Bytes(), mw.FormDataContentType())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decode[wizard.State](t, rec)
	require.Len(t, state.Media, 1)
	assert.Equal(t, "photo", state.Media[0].Kind)
	assert.Equal(t, "front.jpg", state.Media[0].FileName)

	saved := state.Media[0].Path
	assert.True(t, strings.HasPrefix(saved, filepath.Join(env.uploads, st.ID)))
	assert.Equal(t, ".jpg", filepath.Ext(saved))
	content, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))
}

func TestDrafts_AttachMediaValidation(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("kind", "audio"))
	part, err := mw.CreateFormFile("file", "song.mp3")
	require.NoError(t, err)
	_, _ = part.Write([]byte("x"))
	require.NoError(t, mw.Close())

	rec := env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/media", buf.Bytes(), mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/drafts/"+st.ID+"/media", []byte("plain"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDrafts_Discard(t *testing.T) {
	env := newTestEnv(t)
	st := env.startDraft(t)
	dir := filepath.Join(env.uploads, st.ID)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	rec := env.do(t, http.MethodDelete, "/api/v1/drafts/"+st.ID, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoDirExists(t, dir)

	rec = env.do(t, http.MethodGet, "/api/v1/drafts/"+st.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/drafts/"+st.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
