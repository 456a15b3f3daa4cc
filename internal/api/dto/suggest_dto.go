package dto

import (
	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/service"
)

// SuggestRequest payload.
type SuggestRequest struct {
	Ticket  *TicketPayload  `json:"ticket"`
	Voucher *VoucherPayload `json:"voucher"`
	Context *ContextPayload `json:"context"`
	Config  *ConfigPayload  `json:"config"`
}

// TicketPayload is the customer message. Body must be present, may be empty.
type TicketPayload struct {
	Subject *string `json:"subject"`
	Body    *string `json:"body"`
	Anrede  *string `json:"anrede"`
	Lang    *string `json:"lang"`
}

// VoucherPayload carries caller-known voucher facts.
type VoucherPayload struct {
	Code      *string `json:"code"`
	Status    *string `json:"status"`
	IssueDate *string `json:"issue_date"`
}

// ContextPayload identifies backend records.
type ContextPayload struct {
	RoleGuess   *string `json:"role_guess"`
	OrderID     *string `json:"order_id"`
	EmailFrom   *string `json:"email_from"`
	VoucherCode *string `json:"voucher_code"`
	PIN         *string `json:"pin"`
}

// ConfigPayload holds per-request overrides.
type ConfigPayload struct {
	RefundWindowDays *int `json:"refund_window_days"`
}

// SuggestResponse is returned by POST /suggest.
type SuggestResponse struct {
	ID          string                `json:"id"`
	Intent      domain.Intent         `json:"intent"`
	Policy      domain.PolicyCode     `json:"policy"`
	TemplateKey domain.TemplateKey    `json:"template_key"`
	Meta        map[string]any        `json:"meta"`
	Reply       string                `json:"reply"`
	Polished    bool                  `json:"polished"`
	Flags       domain.GuardrailFlags `json:"flags"`
	NeedsHuman  bool                  `json:"needs_human"`
	Insights    service.Insights      `json:"insights"`
}

// ToInput maps the payload to a service input. The caller checks Ticket and
// Ticket.Body first.
func (r SuggestRequest) ToInput() service.SuggestInput {
	in := service.SuggestInput{
		Ticket: domain.Ticket{
			Subject:    str(r.Ticket.Subject),
			Body:       str(r.Ticket.Body),
			Salutation: str(r.Ticket.Anrede),
			Locale:     str(r.Ticket.Lang),
		},
	}
	if in.Ticket.Locale == "" {
		in.Ticket.Locale = domain.DefaultLocale
	}
	if v := r.Voucher; v != nil {
		in.Voucher = service.VoucherInput{Code: str(v.Code), Status: str(v.Status), IssueDate: str(v.IssueDate)}
	}
	if c := r.Context; c != nil {
		in.Context = service.LookupContext{
			RoleGuess:   str(c.RoleGuess),
			OrderID:     str(c.OrderID),
			Email:       str(c.EmailFrom),
			VoucherCode: str(c.VoucherCode),
			PIN:         str(c.PIN),
		}
	}
	if r.Config != nil && r.Config.RefundWindowDays != nil {
		in.RefundWindowDays = *r.Config.RefundWindowDays
	}
	return in
}

// SuggestResponseFrom renders a suggestion.
func SuggestResponseFrom(s *service.Suggestion) SuggestResponse {
	return SuggestResponse{
		ID:          s.ID,
		Intent:      s.Decision.Intent,
		Policy:      s.Decision.Code,
		TemplateKey: s.Decision.TemplateKey,
		Meta:        s.Decision.Meta,
		Reply:       s.Reply,
		Polished:    s.Polished,
		Flags:       s.Flags,
		NeedsHuman:  s.NeedsHuman,
		Insights:    s.Insights,
	}
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
