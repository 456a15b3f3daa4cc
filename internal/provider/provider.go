// Package provider defines the read-only order/voucher lookup used to enrich
// tickets before a decision, plus the wire records shared by its backends.
package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/support-agent/internal/domain"
)

// ErrNotFound is returned when the backend has no matching record.
var ErrNotFound = errors.New("record not found")

// OrderQuery locates an order by id or, failing that, by buyer email.
type OrderQuery struct {
	OrderID string
	Email   string
}

// Empty reports whether the query has nothing to look up.
func (q OrderQuery) Empty() bool {
	return strings.TrimSpace(q.OrderID) == "" && strings.TrimSpace(q.Email) == ""
}

// Provider fetches order and voucher snapshots.
type Provider interface {
	GetOrder(ctx context.Context, query OrderQuery) (*domain.OrderSnapshot, error)
	GetVoucher(ctx context.Context, code, pin string) (*domain.VoucherSnapshot, error)
}

// Noop is a provider without backend; every lookup reports ErrNotFound.
type Noop struct{}

func (Noop) GetOrder(context.Context, OrderQuery) (*domain.OrderSnapshot, error) {
	return nil, ErrNotFound
}

func (Noop) GetVoucher(context.Context, string, string) (*domain.VoucherSnapshot, error) {
	return nil, ErrNotFound
}
