// Package api implements port.BillStore against the Billed backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/garyjia/billed/internal/application/port"
	"github.com/garyjia/billed/internal/auth"
	"github.com/garyjia/billed/internal/domain/entity"
	"go.uber.org/zap"
)

// Config holds backend API configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Error is returned for any non-2xx answer from the backend.
// Its message is what the bills page shows to the employee.
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("Erreur %d", e.StatusCode)
}

// Client implements port.BillStore over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new backend API client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return NewClientWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewClientWithHTTPClient creates a client using the given http.Client
func NewClientWithHTTPClient(cfg Config, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// request describes one call to the backend
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	headers     port.RequestHeaders
}

// List implements port.BillStore
func (c *Client) List(ctx context.Context) ([]entity.Bill, error) {
	var bills []entity.Bill
	if err := c.do(ctx, request{method: http.MethodGet, path: "/bills"}, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// Create implements port.BillStore
func (c *Client) Create(ctx context.Context, req port.CreateRequest) (*entity.UploadResult, error) {
	if req.Data == nil {
		return nil, fmt.Errorf("create request has no payload")
	}

	body, contentType, err := req.Data.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}

	var result entity.UploadResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/bills",
		body:        body,
		contentType: contentType,
		headers:     req.Headers,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Update implements port.BillStore.
// It returns a nil bill when the backend does not echo the stored record.
func (c *Client) Update(ctx context.Context, req port.UpdateRequest) (*entity.Bill, error) {
	if req.Selector == "" {
		return nil, fmt.Errorf("update request has no selector")
	}

	payload, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bill: %w", err)
	}

	// stays nil when the backend answers without a body
	var bill *entity.Bill
	err = c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/bills/" + url.PathEscape(req.Selector),
		body:   bytes.NewReader(payload),
	}, &bill)
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	// Without NoContentType the backend expects JSON
	if !r.headers.NoContentType {
		httpReq.Header.Set("Content-Type", "application/json")
	} else if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if session, ok := auth.SessionFromContext(ctx); ok && session.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+session.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Backend request failed",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("Backend request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("Backend returned failure",
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Int("status", resp.StatusCode))
		return &Error{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.BillStore = (*Client)(nil)
