package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/auth"
)

// Response is the subset of the suggest response the checks read.
type Response struct {
	Policy     string          `json:"policy"`
	Reply      string          `json:"reply"`
	Flags      map[string]bool `json:"flags"`
	NeedsHuman *bool           `json:"needs_human"`
}

// Client submits one case input.
type Client interface {
	Suggest(ctx context.Context, payload json.RawMessage) (*Response, error)
}

// HTTPClient posts to a suggest endpoint.
type HTTPClient struct {
	url     string
	apiKey  string
	timeout time.Duration
}

// NewHTTPClient builds a client. A non-positive timeout defaults to 60s.
func NewHTTPClient(url, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{url: url, apiKey: apiKey, timeout: timeout}
}

// Suggest posts payload and decodes the response.
func (c *HTTPClient) Suggest(ctx context.Context, payload json.RawMessage) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	agent := fiber.Post(c.url)
	agent.ContentType(fiber.MIMEApplicationJSON)
	agent.Body(payload)
	if c.apiKey != "" {
		agent.Set(auth.APIKeyHeader, c.apiKey)
	}
	agent.Timeout(c.timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if status >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d", status)
	}
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
