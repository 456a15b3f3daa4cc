// Package pgstore reads orders and vouchers straight from the backend's
// Postgres replica.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/provider"
)

// Querier is the subset of pgxpool.Pool the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements provider.Provider on Postgres.
type Store struct {
	db Querier
}

// New wraps a pool or connection.
func New(db Querier) *Store {
	return &Store{db: db}
}

const orderColumns = `order_id, buyer_email, created_at, total_amount::float8, currency, payment_status, refund_status`

// GetOrder looks the order up by id first, then by most recent order of the
// buyer email.
func (s *Store) GetOrder(ctx context.Context, query provider.OrderQuery) (*domain.OrderSnapshot, error) {
	if s.db == nil || query.Empty() {
		return nil, provider.ErrNotFound
	}
	if id := strings.TrimSpace(query.OrderID); id != "" {
		order, err := s.scanOrder(s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_id=$1`, id))
		if err == nil || !errors.Is(err, provider.ErrNotFound) {
			return order, err
		}
	}
	email := strings.TrimSpace(query.Email)
	if email == "" {
		return nil, provider.ErrNotFound
	}
	return s.scanOrder(s.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE LOWER(buyer_email)=LOWER($1) ORDER BY created_at DESC LIMIT 1`, email))
}

func (s *Store) scanOrder(row pgx.Row) (*domain.OrderSnapshot, error) {
	var (
		rec       provider.OrderRecord
		email     *string
		createdAt *time.Time
		currency  *string
		payment   *string
		refund    *string
	)
	if err := row.Scan(&rec.OrderID, &email, &createdAt, &rec.TotalAmount, &currency, &payment, &refund); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, provider.ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	rec.BuyerEmail = deref(email)
	rec.Currency = deref(currency)
	rec.PaymentStatus = deref(payment)
	rec.RefundStatus = deref(refund)
	if createdAt != nil {
		rec.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	}
	return rec.Snapshot(), nil
}

// GetVoucher matches the code and, when given, the PIN.
func (s *Store) GetVoucher(ctx context.Context, code, pin string) (*domain.VoucherSnapshot, error) {
	code = strings.TrimSpace(code)
	if s.db == nil || code == "" {
		return nil, provider.ErrNotFound
	}
	const query = `
        SELECT voucher_code, type, issue_date, valid_until, status, remaining_value::float8, bound_restaurant_id, redeemed_at
        FROM vouchers WHERE voucher_code=$1 AND ($2 = '' OR pin=$2)
        ORDER BY issue_date DESC LIMIT 1`

	var (
		rec        provider.VoucherRecord
		kind       *string
		issueDate  *time.Time
		validUntil *time.Time
		status     *string
		redeemedAt *time.Time
	)
	err := s.db.QueryRow(ctx, query, code, strings.TrimSpace(pin)).Scan(
		&rec.VoucherCode,
		&kind,
		&issueDate,
		&validUntil,
		&status,
		&rec.RemainingValue,
		&rec.BoundRestaurantID,
		&redeemedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, provider.ErrNotFound
		}
		return nil, fmt.Errorf("scan voucher: %w", err)
	}
	rec.Type = deref(kind)
	rec.Status = deref(status)
	rec.IssueDate = formatDate(issueDate)
	rec.ValidUntil = formatDate(validUntil)
	if redeemedAt != nil {
		formatted := formatDate(redeemedAt)
		rec.RedeemedAt = &formatted
	}
	return rec.Snapshot(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
