package policy

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Engine binds the rule table to a configuration and a clock.
type Engine struct {
	cfg Config
	now Clock
}

// NewEngine builds an engine. A nil clock uses time.Now.
func NewEngine(cfg Config, now Clock) *Engine {
	if now == nil {
		now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{cfg: cfg, now: now}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Decide evaluates with the engine's clock. A positive override replaces the
// configured refund window for this call only.
func (e *Engine) Decide(intent domain.Intent, voucher *domain.VoucherSnapshot, order *domain.OrderSnapshot, refundWindowOverride int) domain.PolicyDecision {
	cfg := e.cfg
	if refundWindowOverride > 0 {
		cfg.RefundWindowDays = refundWindowOverride
	}
	return Decide(intent, voucher, order, cfg, e.now())
}
