// Package coreapi talks to the order/voucher backend over HTTP.
package coreapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/provider"
)

const (
	orderPath   = "/core/v1/order"
	voucherPath = "/core/v1/voucher"
)

// Client implements provider.Provider against the backend's read API.
type Client struct {
	baseURL string
	timeout time.Duration
}

// New builds a client. A non-positive timeout defaults to five seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// GetOrder fetches an order by id, falling back to buyer email. The backend
// answers unknown orders with an empty object.
func (c *Client) GetOrder(ctx context.Context, query provider.OrderQuery) (*domain.OrderSnapshot, error) {
	if query.Empty() {
		return nil, provider.ErrNotFound
	}
	params := url.Values{}
	if query.OrderID != "" {
		params.Set("order_id", query.OrderID)
	}
	if query.Email != "" {
		params.Set("email", query.Email)
	}

	var rec provider.OrderRecord
	if err := c.getJSON(ctx, orderPath, params, &rec); err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if rec.OrderID == "" {
		return nil, provider.ErrNotFound
	}
	return rec.Snapshot(), nil
}

// GetVoucher fetches a voucher by code; the PIN is optional.
func (c *Client) GetVoucher(ctx context.Context, code, pin string) (*domain.VoucherSnapshot, error) {
	if strings.TrimSpace(code) == "" {
		return nil, provider.ErrNotFound
	}
	params := url.Values{"code": {code}}
	if pin != "" {
		params.Set("pin", pin)
	}

	var rec provider.VoucherRecord
	if err := c.getJSON(ctx, voucherPath, params, &rec); err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	if rec.VoucherCode == "" {
		return nil, provider.ErrNotFound
	}
	return rec.Snapshot(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(c.baseURL + path + "?" + params.Encode())
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.Timeout(timeout)

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	switch {
	case status == http.StatusNotFound:
		return provider.ErrNotFound
	case status >= http.StatusBadRequest:
		return fmt.Errorf("unexpected status %d", status)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
