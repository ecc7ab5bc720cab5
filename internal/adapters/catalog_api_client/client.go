package catalog_api_client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/contracts"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"

	"github.com/go-resty/resty/v2"
)

// Config - параметры клиента каталог-сервера.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
	Policy  domain.DraftVisibility
}

// Client - адаптер PropertyAPIPort поверх REST API каталог-сервера.
type Client struct {
	httpClient *resty.Client
	policy     domain.DraftVisibility
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(300 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(retryIdempotent)

	// trace_id из контекста уходит дальше по цепочке
	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if traceID := contextkeys.TraceIDFromContext(r.Context()); traceID != "" {
			r.SetHeader("X-Trace-ID", traceID)
		}
		return nil
	})

	return &Client{
		httpClient: client,
		policy:     cfg.Policy,
	}
}

// retryIdempotent повторяет только GET: повтор POST мог бы создать объект дважды.
func retryIdempotent(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || r.StatusCode() >= http.StatusInternalServerError
}

func (c *Client) FetchPropertyByID(ctx context.Context, id int64) (domain.RawPropertyInput, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component":   "CatalogApiClient",
		"method":      "FetchPropertyByID",
		"property_id": id,
	})
	clientLogger.Debug("Sending request to catalog server", nil)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Get("/api/properties/{id}")
	if err := checkResponse(resp, err); err != nil {
		clientLogger.Error("Failed to fetch property", err, nil)
		return nil, err
	}

	raw := domain.ParseRawPropertyInput(resp.Body())
	if inner, ok := raw["data"].(map[string]interface{}); ok {
		raw = domain.RawPropertyInput(inner)
	}
	clientLogger.Debug("Property received", port.Fields{"keys": len(raw)})
	return raw, nil
}

func (c *Client) FetchChildren(ctx context.Context, parentID int64) ([]domain.RawPropertyInput, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "CatalogApiClient",
		"method":    "FetchChildren",
		"parent_id": parentID,
	})
	clientLogger.Debug("Sending request to catalog server", nil)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", strconv.FormatInt(parentID, 10)).
		Get("/api/properties/{id}/children")
	if err := checkResponse(resp, err); err != nil {
		clientLogger.Error("Failed to fetch children", err, nil)
		return nil, err
	}

	children := domain.ParseRawPropertyList(resp.Body())
	clientLogger.Info("Children received", port.Fields{"children_count": len(children)})
	return children, nil
}

// пути справочников и имя параметра родителя для каскада
var lookupRoutes = map[domain.LookupKind]struct {
	path        string
	parentParam string
}{
	domain.LookupProvince: {path: "/api/lookups/provinces"},
	domain.LookupDistrict: {path: "/api/lookups/districts", parentParam: "province_id"},
	domain.LookupArea:     {path: "/api/lookups/areas", parentParam: "district_id"},
	domain.LookupAgent:    {path: "/api/lookups/agents"},
}

func (c *Client) FetchLookups(ctx context.Context, kind domain.LookupKind, parentID *int64) ([]domain.LookupItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component": "CatalogApiClient",
		"method":    "FetchLookups",
		"kind":      string(kind),
	})

	route, ok := lookupRoutes[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown lookup kind %q", domain.ErrInvalidArgument, kind)
	}

	req := c.httpClient.R().SetContext(ctx)
	if route.parentParam != "" && parentID != nil {
		req.SetQueryParam(route.parentParam, strconv.FormatInt(*parentID, 10))
	}
	clientLogger.Debug("Sending request to catalog server", port.Fields{"path": route.path})

	resp, err := req.Get(route.path)
	if err := checkResponse(resp, err); err != nil {
		clientLogger.Error("Failed to fetch lookups", err, nil)
		return nil, err
	}

	items, err := decodeLookups(resp.Body())
	if err != nil {
		clientLogger.Error("Failed to decode lookups", err, nil)
		return nil, err
	}
	clientLogger.Info("Lookups received", port.Fields{"items_count": len(items)})
	return items, nil
}

func decodeLookups(body []byte) ([]domain.LookupItem, error) {
	var dtos []LookupItemResponse
	if err := json.Unmarshal(body, &dtos); err != nil {
		var wrapped struct {
			Data []LookupItemResponse `json:"data"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("failed to decode lookups response: %w", err)
		}
		dtos = wrapped.Data
	}

	items := make([]domain.LookupItem, 0, len(dtos))
	for _, dto := range dtos {
		if dto.ID <= 0 {
			continue
		}
		items = append(items, domain.LookupItem{ID: dto.ID, Name: dto.Name})
	}
	return items, nil
}

// SubmitProperty отправляет черновик: новый объект через POST, существующий через PUT.
// Медиа уходят multipart-частями рядом с JSON-полем "payload".
func (c *Client) SubmitProperty(ctx context.Context, draft domain.PropertyRecord, media []domain.MediaAttachment) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	clientLogger := logger.WithFields(port.Fields{
		"component":   "CatalogApiClient",
		"method":      "SubmitProperty",
		"record_kind": string(draft.RecordKind),
		"media_count": len(media),
	})

	body, err := json.Marshal(newSubmissionPayload(draft, c.policy))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal submission payload: %w", err)
	}
	if err := contracts.Validate(contracts.PropertySubmissionV1, body); err != nil {
		clientLogger.Warn("Draft does not match the submission contract", port.Fields{"error": err.Error()})
		return 0, &domain.SubmissionError{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    "The draft is incomplete or inconsistent, please review it",
		}
	}

	req := c.httpClient.R().SetContext(ctx)
	if len(media) == 0 {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	} else {
		files, err := attachMedia(req, media)
		defer closeAll(files)
		if err != nil {
			clientLogger.Error("Failed to open media attachment", err, nil)
			return 0, err
		}
		req.SetMultipartFormData(map[string]string{"payload": string(body)})
	}

	var resp *resty.Response
	if draft.PropertyID > 0 {
		resp, err = req.SetPathParam("id", strconv.FormatInt(draft.PropertyID, 10)).Put("/api/properties/{id}")
	} else {
		resp, err = req.Post("/api/properties")
	}
	if err != nil {
		clientLogger.Error("Failed to perform submit request", err, nil)
		return 0, fmt.Errorf("failed to submit property: %w", err)
	}

	if status := resp.StatusCode(); status >= 400 && status < 500 {
		var errResp ErrorResponse
		_ = json.Unmarshal(resp.Body(), &errResp)
		subErr := errResp.toDomain(status)
		clientLogger.Warn("Catalog server rejected the property", port.Fields{"status_code": status, "message": subErr.Message})
		return 0, subErr
	}
	if err := checkResponse(resp, nil); err != nil {
		clientLogger.Error("Received error response from catalog server", err, nil)
		return 0, err
	}

	var submitResp SubmitResponse
	if err := json.Unmarshal(resp.Body(), &submitResp); err != nil {
		clientLogger.Error("Failed to decode submit response", err, nil)
		return 0, fmt.Errorf("failed to decode submit response: %w", err)
	}
	id := submitResp.propertyID()
	if id <= 0 {
		id = draft.PropertyID
	}
	if id <= 0 {
		return 0, errors.New("catalog server did not return a property id")
	}

	clientLogger.Info("Property submitted", port.Fields{"property_id": id})
	return id, nil
}

func attachMedia(req *resty.Request, media []domain.MediaAttachment) ([]*os.File, error) {
	files := make([]*os.File, 0, len(media))
	for _, m := range media {
		f, err := os.Open(m.Path)
		if err != nil {
			return files, fmt.Errorf("failed to open media %s: %w", m.Path, err)
		}
		files = append(files, f)

		param := "photos"
		if m.Kind == "video" {
			param = "videos"
		}
		name := m.FileName
		if name == "" {
			name = filepath.Base(m.Path)
		}
		contentType := m.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField(param, name, contentType, f)
	}
	return files, nil
}

func closeAll(files []*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}

// checkResponse превращает транспортную ошибку и не-2xx ответ в error.
func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("failed to perform request to catalog server: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("catalog server: %w", domain.ErrNotFound)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return fmt.Errorf("catalog server returned non-success status code %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
