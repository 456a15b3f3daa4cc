// Package cache puts a Redis read-through cache in front of a provider.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/provider"
)

const keyPrefix = "support-agent:core:"

// Provider caches successful lookups of the wrapped provider. Redis errors
// are logged and bypass the cache; they never fail a lookup.
type Provider struct {
	next   provider.Provider
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// New wraps next. A nil client or non-positive TTL returns next unchanged.
func New(next provider.Provider, client redis.Cmdable, ttl time.Duration, logger *zap.Logger) provider.Provider {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{next: next, client: client, ttl: ttl, logger: logger}
}

func (p *Provider) GetOrder(ctx context.Context, query provider.OrderQuery) (*domain.OrderSnapshot, error) {
	key := keyPrefix + "order:" + digest(strings.TrimSpace(query.OrderID), strings.ToLower(strings.TrimSpace(query.Email)))

	var rec provider.OrderRecord
	if p.load(ctx, key, &rec) {
		return rec.Snapshot(), nil
	}
	order, err := p.next.GetOrder(ctx, query)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, provider.OrderRecordFrom(order))
	return order, nil
}

func (p *Provider) GetVoucher(ctx context.Context, code, pin string) (*domain.VoucherSnapshot, error) {
	key := keyPrefix + "voucher:" + digest(strings.TrimSpace(code), strings.TrimSpace(pin))

	var rec provider.VoucherRecord
	if p.load(ctx, key, &rec) {
		return rec.Snapshot(), nil
	}
	voucher, err := p.next.GetVoucher(ctx, code, pin)
	if err != nil {
		return nil, err
	}
	p.store(ctx, key, provider.VoucherRecordFrom(voucher))
	return voucher, nil
}

func (p *Provider) load(ctx context.Context, key string, out any) bool {
	raw, err := p.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		p.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (p *Provider) store(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := p.client.Set(ctx, key, raw, p.ttl).Err(); err != nil {
		p.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// digest keeps PINs and emails out of Redis key names.
func digest(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:16])
}
