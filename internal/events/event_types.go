package events

import (
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSuggestionCreated EventType = "suggestion_created"
	EventSuggestionFlagged EventType = "suggestion_flagged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string    `json:"id"`
	Type         EventType `json:"type"`
	SuggestionID string    `json:"suggestion_id"`
	Timestamp    time.Time `json:"timestamp"`
	Payload      any       `json:"payload"`
}

// SuggestionPayload summarizes a suggestion without customer text or PII.
type SuggestionPayload struct {
	Intent      domain.Intent         `json:"intent"`
	Policy      domain.PolicyCode     `json:"policy"`
	Flags       domain.GuardrailFlags `json:"flags"`
	NeedsHuman  bool                  `json:"needs_human"`
	Polished    bool                  `json:"polished"`
	ReplyWords  int                   `json:"reply_words"`
	OrderID     string                `json:"order_id,omitempty"`
	VoucherCode string                `json:"voucher_code,omitempty"`
}
