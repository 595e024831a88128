// internal/services/catalog_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/catalog-admin/internal/config"
	"github.com/javajoker/catalog-admin/internal/models"
	"github.com/javajoker/catalog-admin/internal/utils"
)

// maxErrorBody caps how much of a failed response is kept as the error message.
const maxErrorBody = 4096

// CatalogClient talks to the catalog backend. It never retries; a failed call is
// returned to the caller and the draft stays as it was.
type CatalogClient struct {
	httpClient *http.Client
	config     *config.Config
}

func NewCatalogClient(cfg *config.Config, httpClient *http.Client) *CatalogClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Backend.Timeout}
	}
	return &CatalogClient{httpClient: httpClient, config: cfg}
}

// FetchItem loads the record an edit session starts from.
func (c *CatalogClient) FetchItem(ctx context.Context, id string) (*models.ServerRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrHydrationNotFound
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ErrHydrationNotFound
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, body)
	}

	record, err := DecodeItemResponse(body)
	if err != nil {
		if errors.Is(err, ErrHydrationNotFound) {
			return nil, err
		}
		return nil, &TransportError{Kind: TransportServer, StatusCode: status, Message: "malformed item response", Err: err}
	}
	return record, nil
}

// Submit sends the payload as multipart/form-data: POST for create, PUT for edit.
// The returned record is nil when the backend answers without an item body.
func (c *CatalogClient) Submit(ctx context.Context, payload *Payload) (*models.ServerRecord, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := payload.WriteMultipart(writer); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	method, target := http.MethodPost, c.config.Backend.BaseURL+"/items"
	if payload.Mode == EncodeModeEdit {
		if payload.ItemID == "" {
			return nil, &ValidationError{Message: "item id is required to update an item"}
		}
		method, target = http.MethodPut, c.itemURL(payload.ItemID)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, statusError(status, body)
	}

	record, err := DecodeItemResponse(body)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"method": method,
			"status": status,
		}).WithError(err).Debug("Submit response carried no item")
		return nil, nil
	}
	return record, nil
}

func (c *CatalogClient) itemURL(id string) string {
	return c.config.Backend.BaseURL + "/items/" + url.PathEscape(id)
}

func (c *CatalogClient) do(req *http.Request) ([]byte, int, error) {
	if secret := c.config.Backend.SigningSecret; secret != "" {
		token, err := utils.GenerateServiceToken(secret, c.config.Backend.Issuer, utils.ScopeCatalogWrite, c.config.Backend.TokenTTL)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to sign service token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &TransportError{Kind: TransportNetwork, Message: "backend request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &TransportError{Kind: TransportNetwork, StatusCode: resp.StatusCode, Message: "failed to read backend response", Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
		"status": resp.StatusCode,
	}).Debug("Backend call")

	return body, resp.StatusCode, nil
}

// statusError classifies a non-2xx response.
func statusError(status int, body []byte) *TransportError {
	kind := TransportServer
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		kind = TransportValidation
	}
	return &TransportError{Kind: kind, StatusCode: status, Message: errorMessage(status, body)}
}

// errorMessage prefers the backend's own message field and falls back to the raw body.
func errorMessage(status int, body []byte) string {
	var parsed struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		var s string
		if err := json.Unmarshal(parsed.Error, &s); err == nil && s != "" {
			return s
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(parsed.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		return http.StatusText(status)
	}
	return text
}
