// Package api talks to the LibaasAI backend over its REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/libaas/internal/logger"
	liberrors "github.com/alexisbeaulieu97/libaas/pkg/errors"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Client issues requests against one backend base URL. It never retries.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
	newID   func() string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			clone := *c.http
			clone.Timeout = d
			c.http = &clone
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log.Component("api")
	}
}

// New returns a client for baseURL (trailing slashes are ignored).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root endpoints are joined to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type payload struct {
	body        io.Reader
	contentType string
}

func jsonPayload(v any) (payload, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return payload{}, fmt.Errorf("failed to encode request: %w", err)
	}
	return payload{body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// do sends one request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in *payload, out any) error {
	var body io.Reader
	if in != nil {
		body = in.body
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return liberrors.NewTransportError(method, path, err)
	}
	if in != nil && in.contentType != "" {
		req.Header.Set("Content-Type", in.contentType)
	}
	req.Header.Set("Accept", "application/json")
	requestID := c.newID()
	req.Header.Set(RequestIDHeader, requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithFields(map[string]any{"method": method, "path": path, "request_id": requestID}).Warn("request failed: " + err.Error())
		return liberrors.NewTransportError(method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return liberrors.NewTransportError(method, path, err)
	}

	c.log.WithFields(map[string]any{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(started).Milliseconds(),
		"request_id":  requestID,
	}).Debug("request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return liberrors.NewAPIError(method, path, resp.StatusCode, extractDetail(data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return liberrors.NewTransportError(method, path, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// extractDetail pulls a human-readable message out of an error body. FastAPI
// style bodies carry "detail" as either a string or a list of objects with
// "msg".
func extractDetail(data []byte) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "message", "error"} {
		raw, ok := body[key]
		if !ok {
			continue
		}

		var text string
		if json.Unmarshal(raw, &text) == nil && text != "" {
			return text
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(raw, &items) == nil {
			var msgs []string
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return ""
}
