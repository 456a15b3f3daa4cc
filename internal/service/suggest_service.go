package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/guardrail"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/policy"
	"github.com/spec-kit/support-agent/internal/polish"
	"github.com/spec-kit/support-agent/internal/provider"
	"github.com/spec-kit/support-agent/internal/templates"
)

// SuggestService turns a ticket into a policy-bound reply suggestion.
type SuggestService struct {
	engine     *policy.Engine
	renderer   *templates.Renderer
	provider   provider.Provider
	polisher   polish.Polisher
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	maxWords   int
	newID      func() string
}

// SuggestDependencies bundles collaborators for the suggest service.
// Provider, Polisher, Dispatcher and Metrics are optional.
type SuggestDependencies struct {
	Engine     *policy.Engine
	Renderer   *templates.Renderer
	Provider   provider.Provider
	Polisher   polish.Polisher
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	MaxWords   int
}

// VoucherInput is voucher data supplied by the caller. It only fills fields
// the backend record leaves empty.
type VoucherInput struct {
	Code      string
	Status    string
	IssueDate string
}

// LookupContext identifies records to fetch from the backend.
type LookupContext struct {
	RoleGuess   string
	OrderID     string
	Email       string
	VoucherCode string
	PIN         string
}

// SuggestInput describes one suggest request.
type SuggestInput struct {
	Ticket           domain.Ticket
	Voucher          VoucherInput
	Context          LookupContext
	RefundWindowDays int
}

// Insights is the PII-poor view of what the decision was based on.
type Insights struct {
	Order      map[string]any `json:"order"`
	Voucher    map[string]any `json:"voucher"`
	UsedInputs map[string]any `json:"used_inputs"`
}

// Suggestion is the result of one suggest call.
type Suggestion struct {
	ID         string
	Decision   domain.PolicyDecision
	Reply      string
	Polished   bool
	Flags      domain.GuardrailFlags
	NeedsHuman bool
	Insights   Insights
}

// NewSuggestService wires the service.
func NewSuggestService(deps SuggestDependencies) *SuggestService {
	if deps.Engine == nil {
		deps.Engine = policy.NewEngine(policy.Config{}, nil)
	}
	if deps.Renderer == nil {
		deps.Renderer = templates.NewRenderer(nil)
	}
	if deps.Provider == nil {
		deps.Provider = provider.Noop{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.MaxWords <= 0 {
		deps.MaxWords = guardrail.DefaultWordLimit
	}
	return &SuggestService{
		engine:     deps.Engine,
		renderer:   deps.Renderer,
		provider:   deps.Provider,
		polisher:   deps.Polisher,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		maxWords:   deps.MaxWords,
		newID:      uuid.NewString,
	}
}

// PolishEnabled reports whether drafts are sent through the language model.
func (s *SuggestService) PolishEnabled() bool {
	return s.polisher != nil
}

// Suggest enriches, decides, renders, optionally polishes and checks a reply.
// Collaborator failures degrade the result; Suggest only fails when ctx does.
func (s *SuggestService) Suggest(ctx context.Context, in SuggestInput) (*Suggestion, error) {
	order, voucherRecord := s.lookup(ctx, in)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	voucher := mergeVoucher(voucherRecord, in.Voucher, voucherCode(in))
	hints := policy.IntentHints{HasVoucherCode: voucher != nil && voucher.Code != ""}
	intent := policy.Classify(in.Ticket.Subject, in.Ticket.Body, hints)
	decision := s.engine.Decide(intent, voucher, order, in.RefundWindowDays)

	draft := s.renderer.Render(decision.TemplateKey, in.Ticket.Salutation)
	reply, polished := s.polish(ctx, decision, draft, in.Ticket.Text())

	flags := guardrail.Evaluate(reply, decision.Code, s.maxWords)
	result := &Suggestion{
		ID:         s.newID(),
		Decision:   decision,
		Reply:      reply,
		Polished:   polished,
		Flags:      flags,
		NeedsHuman: flags.NeedsHuman(),
		Insights:   buildInsights(order, voucherRecord, voucher),
	}

	s.metrics.RecordDecision(string(decision.Code), string(decision.Intent), flags.Forbidden, flags.TooLong, result.NeedsHuman)
	s.logger.Info("suggestion created",
		zap.String("suggestion_id", result.ID),
		zap.String("intent", string(decision.Intent)),
		zap.String("policy", string(decision.Code)),
		zap.Bool("polished", polished),
		zap.Bool("needs_human", result.NeedsHuman))

	s.publish(ctx, result, in)
	return result, nil
}

// lookup fetches order and voucher concurrently. Failures yield nil snapshots.
func (s *SuggestService) lookup(ctx context.Context, in SuggestInput) (*domain.OrderSnapshot, *domain.VoucherSnapshot) {
	var (
		order   *domain.OrderSnapshot
		voucher *domain.VoucherSnapshot
	)
	g, gctx := errgroup.WithContext(ctx)

	query := provider.OrderQuery{OrderID: strings.TrimSpace(in.Context.OrderID), Email: strings.TrimSpace(in.Context.Email)}
	if !query.Empty() {
		g.Go(func() error {
			start := time.Now()
			rec, err := s.provider.GetOrder(gctx, query)
			s.metrics.ObserveLookup("order", lookupOutcome(err), time.Since(start))
			if err != nil {
				s.logLookupFailure("order", err)
				return nil
			}
			order = rec
			return nil
		})
	}

	if code := voucherCode(in); code != "" {
		pin := strings.TrimSpace(in.Context.PIN)
		g.Go(func() error {
			start := time.Now()
			rec, err := s.provider.GetVoucher(gctx, code, pin)
			s.metrics.ObserveLookup("voucher", lookupOutcome(err), time.Since(start))
			if err != nil {
				s.logLookupFailure("voucher", err)
				return nil
			}
			voucher = rec
			return nil
		})
	}

	_ = g.Wait()
	return order, voucher
}

func (s *SuggestService) logLookupFailure(resource string, err error) {
	if errors.Is(err, provider.ErrNotFound) {
		s.logger.Debug("core record not found", zap.String("resource", resource))
		return
	}
	s.logger.Warn("core lookup failed", zap.String("resource", resource), zap.Error(err))
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return "hit"
	case errors.Is(err, provider.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// polish returns the polished reply, or the draft when polishing is off or fails.
func (s *SuggestService) polish(ctx context.Context, decision domain.PolicyDecision, draft, message string) (string, bool) {
	if s.polisher == nil {
		return draft, false
	}
	start := time.Now()
	out, err := s.polisher.Polish(ctx, decision.BindingText(), draft, message)
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		s.metrics.ObservePolish("fallback", time.Since(start))
		s.logger.Warn("polish failed; using draft", zap.String("policy", string(decision.Code)), zap.Error(err))
		return draft, false
	}
	s.metrics.ObservePolish("ok", time.Since(start))
	return out, true
}

func (s *SuggestService) publish(ctx context.Context, result *Suggestion, in SuggestInput) {
	if s.dispatcher == nil {
		return
	}
	eventType := events.EventSuggestionCreated
	if result.NeedsHuman {
		eventType = events.EventSuggestionFlagged
	}
	orderID := strings.TrimSpace(in.Context.OrderID)
	if v, ok := result.Insights.Order["order_id"].(string); ok && v != "" {
		orderID = v
	}
	code, _ := result.Insights.Voucher["voucher_code"].(string)

	event := events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SuggestionID: result.ID,
		Timestamp:    time.Now().UTC(),
		Payload: events.SuggestionPayload{
			Intent:      result.Decision.Intent,
			Policy:      result.Decision.Code,
			Flags:       result.Flags,
			NeedsHuman:  result.NeedsHuman,
			Polished:    result.Polished,
			ReplyWords:  guardrail.WordCount(result.Reply),
			OrderID:     orderID,
			VoucherCode: code,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// voucherCode prefers the lookup context over the voucher block.
func voucherCode(in SuggestInput) string {
	if code := strings.TrimSpace(in.Context.VoucherCode); code != "" {
		return code
	}
	return strings.TrimSpace(in.Voucher.Code)
}

// mergeVoucher fills status and issue date the backend record lacks from the
// caller's input. Backend values are authoritative. It returns nil when
// neither side knows anything about a voucher.
func mergeVoucher(record *domain.VoucherSnapshot, in VoucherInput, code string) *domain.VoucherSnapshot {
	status := strings.TrimSpace(in.Status)
	issueDate := strings.TrimSpace(in.IssueDate)
	if record == nil && status == "" && issueDate == "" && code == "" {
		return nil
	}

	merged := domain.VoucherSnapshot{}
	if record != nil {
		merged = *record
	}
	if merged.Code == "" {
		merged.Code = code
	}
	if merged.Status == domain.VoucherStatusUnknown && status != "" {
		merged.Status = domain.ParseVoucherStatus(status)
	}
	if strings.TrimSpace(merged.IssueDate) == "" && issueDate != "" {
		merged.IssueDate = issueDate
	}
	return &merged
}

func buildInsights(order *domain.OrderSnapshot, record, used *domain.VoucherSnapshot) Insights {
	ins := Insights{
		Order:      map[string]any{},
		Voucher:    map[string]any{},
		UsedInputs: map[string]any{"status": nil, "issue_date": nil},
	}
	if order != nil {
		ins.Order["order_id"] = order.OrderID
		ins.Order["payment_status"] = string(order.PaymentStatus)
		ins.Order["refund_status"] = order.RefundStatus
	}
	if record != nil {
		ins.Voucher["voucher_code"] = record.Code
		ins.Voucher["status"] = string(record.Status)
		ins.Voucher["valid_until"] = record.ValidUntil
	}
	if used != nil {
		if used.Status != domain.VoucherStatusUnknown {
			ins.UsedInputs["status"] = string(used.Status)
		}
		if used.IssueDate != "" {
			ins.UsedInputs["issue_date"] = used.IssueDate
		}
	}
	return ins
}
