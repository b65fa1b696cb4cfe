// Package api is the REST client for the webhook-capture backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/hooklens/internal/core"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Error is an application error reported by the backend in a non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// ServerMessage returns the backend's error text if err carries one.
func ServerMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// Client talks to the webhook backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// NewClient creates a new backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.Logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PublicURL returns the URL third parties send requests to for endpoint.
func (c *Client) PublicURL(endpoint string) string {
	return core.PublicURL(c.baseURL, endpoint)
}

// ListWebhooks fetches every webhook.
func (c *Client) ListWebhooks(ctx context.Context) ([]core.Webhook, error) {
	var webhooks []core.Webhook
	if err := c.do(ctx, http.MethodGet, "/webhooks", nil, &webhooks); err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	if webhooks == nil {
		webhooks = []core.Webhook{}
	}
	return webhooks, nil
}

// CreateWebhook validates input and creates a webhook.
func (c *Client) CreateWebhook(ctx context.Context, input core.CreateWebhookInput) (core.Webhook, error) {
	if err := input.Validate(); err != nil {
		return core.Webhook{}, err
	}

	var created core.Webhook
	if err := c.do(ctx, http.MethodPost, "/webhooks", input, &created); err != nil {
		return core.Webhook{}, fmt.Errorf("create webhook: %w", err)
	}
	return created, nil
}

// DeleteWebhook removes the webhook with the given id.
func (c *Client) DeleteWebhook(ctx context.Context, id int64) error {
	path := "/webhooks/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete webhook %d: %w", id, err)
	}
	return nil
}

// ListRequests fetches the captured requests of the webhook at endpoint.
func (c *Client) ListRequests(ctx context.Context, endpoint string) ([]core.CapturedRequest, error) {
	var requests []core.CapturedRequest
	path := "/webhooks/" + url.PathEscape(endpoint) + "/requests"
	if err := c.do(ctx, http.MethodGet, path, nil, &requests); err != nil {
		return nil, fmt.Errorf("list requests for %s: %w", endpoint, err)
	}
	if requests == nil {
		requests = []core.CapturedRequest{}
	}
	return requests, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("backend request failed")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Message = payload.Error
		}
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).Str("error", apiErr.Message).Msg("backend returned error")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
