package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/events"
	"github.com/spec-kit/support-agent/internal/observability"
	"github.com/spec-kit/support-agent/internal/policy"
	"github.com/spec-kit/support-agent/internal/provider"
)

var fixedNow = time.Date(2025, 9, 3, 12, 0, 0, 0, time.UTC)

type stubProvider struct {
	mu         sync.Mutex
	orders     map[string]*domain.OrderSnapshot
	vouchers   map[string]*domain.VoucherSnapshot
	orderErr   error
	voucherErr error
	pins       []string
}

func (p *stubProvider) GetOrder(_ context.Context, q provider.OrderQuery) (*domain.OrderSnapshot, error) {
	if p.orderErr != nil {
		return nil, p.orderErr
	}
	if o, ok := p.orders[q.OrderID]; ok {
		return o, nil
	}
	return nil, provider.ErrNotFound
}

func (p *stubProvider) GetVoucher(_ context.Context, code, pin string) (*domain.VoucherSnapshot, error) {
	p.mu.Lock()
	p.pins = append(p.pins, pin)
	p.mu.Unlock()
	if p.voucherErr != nil {
		return nil, p.voucherErr
	}
	if v, ok := p.vouchers[code]; ok {
		return v, nil
	}
	return nil, provider.ErrNotFound
}

type stubPolisher struct {
	out      string
	err      error
	decision string
}

func (p *stubPolisher) Polish(_ context.Context, decisionText, draft, _ string) (string, error) {
	p.decision = decisionText
	if p.err != nil {
		return "", p.err
	}
	if p.out == "" {
		return draft, nil
	}
	return p.out, nil
}

type recordingDispatcher struct {
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	d.events = append(d.events, e)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func fixtures() *stubProvider {
	return &stubProvider{
		orders: map[string]*domain.OrderSnapshot{
			"4711": {OrderID: "4711", BuyerEmail: "kunde@example.com", CreatedAt: "2025-08-20", PaymentStatus: domain.PaymentStatusPaid, RefundStatus: "NONE"},
			"9001": {OrderID: "9001", CreatedAt: "2025-08-01", PaymentStatus: domain.PaymentStatusPaid, RefundStatus: "NONE"},
			"7777": {OrderID: "7777", CreatedAt: "2025-08-25", PaymentStatus: domain.PaymentStatusPending, RefundStatus: "NONE"},
		},
		vouchers: map[string]*domain.VoucherSnapshot{
			"ABC123": {Code: "ABC123", Status: domain.VoucherStatusNotRedeemed, Type: "universal", IssueDate: "2024-01-02", ValidUntil: "2027-12-31"},
			"XYZ789": {Code: "XYZ789", Status: domain.VoucherStatusRedeemed, Type: "restaurant", IssueDate: "2023-09-01", ValidUntil: "2026-12-31"},
		},
	}
}

func newTestService(p provider.Provider, pol *stubPolisher, d events.Dispatcher, m *observability.Metrics) *SuggestService {
	deps := SuggestDependencies{
		Engine:     policy.NewEngine(policy.Config{RefundWindowDays: 14, Location: time.UTC}, func() time.Time { return fixedNow }),
		Provider:   p,
		Dispatcher: d,
		Metrics:    m,
	}
	if pol != nil {
		deps.Polisher = pol
	}
	svc := NewSuggestService(deps)
	svc.newID = func() string { return "sugg-1" }
	return svc
}

func TestSuggest_Decisions(t *testing.T) {
	tests := []struct {
		name   string
		input  SuggestInput
		intent domain.Intent
		code   domain.PolicyCode
	}{
		{
			name:   "refund within window",
			input:  SuggestInput{Ticket: domain.Ticket{Subject: "Storno", Body: "Bitte stornieren"}, Context: LookupContext{OrderID: "4711"}},
			intent: domain.IntentCancel,
			code:   domain.PolicyRefundAllowed14D,
		},
		{
			name:   "refund window elapsed",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Ich möchte vom Kauf Rücktritt"}, Context: LookupContext{OrderID: "9001"}},
			intent: domain.IntentCancel,
			code:   domain.PolicyRefundDeniedTimeout,
		},
		{
			name:   "unpaid order",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Widerruf"}, Context: LookupContext{OrderID: "7777"}},
			intent: domain.IntentCancel,
			code:   domain.PolicyCancelNoPayment,
		},
		{
			name:   "redeemed voucher blocks refund",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Storno bitte"}, Context: LookupContext{OrderID: "4711", VoucherCode: "XYZ789", PIN: "1111"}},
			intent: domain.IntentCancel,
			code:   domain.PolicyRefundDeniedRedeemed,
		},
		{
			name:   "voucher code hint selects redeem help",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Hallo, wie geht das?"}, Context: LookupContext{VoucherCode: "ABC123", PIN: "9999"}},
			intent: domain.IntentRedeemHelp,
			code:   domain.PolicyInstructRedeemOnline,
		},
		{
			name:   "restaurant voucher",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Wie kann ich einlösen?"}, Voucher: VoucherInput{Code: "XYZ789"}},
			intent: domain.IntentRedeemHelp,
			code:   domain.PolicyInstructRedeemRestaurant,
		},
		{
			name:   "caller status without backend record",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Frage zum Gutschein"}, Voucher: VoucherInput{Status: "expired"}},
			intent: domain.IntentGeneral,
			code:   domain.PolicyExpiredNotRedeemable,
		},
		{
			name:   "nothing known",
			input:  SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}},
			intent: domain.IntentGeneral,
			code:   domain.PolicyInfoGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(fixtures(), nil, nil, nil)
			got, err := svc.Suggest(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.intent, got.Decision.Intent)
			assert.Equal(t, tt.code, got.Decision.Code)
			assert.False(t, got.Polished)
			assert.False(t, got.NeedsHuman)
			assert.Equal(t, "sugg-1", got.ID)
		})
	}
}

func TestSuggest_PassesPinToProvider(t *testing.T) {
	p := fixtures()
	svc := newTestService(p, nil, nil, nil)
	_, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:  domain.Ticket{Body: "PIN?"},
		Context: LookupContext{VoucherCode: " ABC123 ", PIN: "9999"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"9999"}, p.pins)
}

func TestSuggest_RefundWindowOverride(t *testing.T) {
	svc := newTestService(fixtures(), nil, nil, nil)
	got, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:           domain.Ticket{Body: "Storno"},
		Context:          LookupContext{OrderID: "9001"},
		RefundWindowDays: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyRefundAllowed14D, got.Decision.Code)
	assert.Equal(t, 33, got.Decision.Meta["days_since_purchase"])
}

func TestSuggest_LookupFailureDegrades(t *testing.T) {
	p := fixtures()
	p.orderErr = errors.New("connection refused")
	p.voucherErr = errors.New("connection refused")
	svc := newTestService(p, nil, nil, nil)

	got, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:  domain.Ticket{Body: "Storno"},
		Context: LookupContext{OrderID: "4711", VoucherCode: "ABC123"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyCancelNoPayment, got.Decision.Code)
	assert.Equal(t, "UNKNOWN", got.Decision.Meta["payment_status"])
	assert.Empty(t, got.Insights.Order)
	assert.Empty(t, got.Insights.Voucher)
}

func TestSuggest_Salutation(t *testing.T) {
	svc := newTestService(fixtures(), nil, nil, nil)

	got, err := svc.Suggest(context.Background(), SuggestInput{Ticket: domain.Ticket{Body: "Hallo", Salutation: "Hallo Frau Meier"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Reply, "Hallo Frau Meier"))

	got, err = svc.Suggest(context.Background(), SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.Reply, "Guten Tag"))
}

func TestSuggest_Polish(t *testing.T) {
	pol := &stubPolisher{out: "  Guten Tag, wir helfen Ihnen gern. Sie erhalten bald Nachricht.  "}
	svc := newTestService(fixtures(), pol, nil, nil)

	got, err := svc.Suggest(context.Background(), SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}})
	require.NoError(t, err)
	assert.True(t, got.Polished)
	assert.Equal(t, "Guten Tag, wir helfen Ihnen gern. Sie erhalten bald Nachricht.", got.Reply)
	assert.Equal(t, "INFO_GENERIC: info_generic", pol.decision)
	assert.True(t, got.Flags.RequiresFormalAddress)
}

func TestSuggest_PolishFailureFallsBackToDraft(t *testing.T) {
	m := observability.NewMetrics()
	pol := &stubPolisher{err: errors.New("ollama down")}
	svc := newTestService(fixtures(), pol, nil, m)
	draftSvc := newTestService(fixtures(), nil, nil, nil)

	in := SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}}
	got, err := svc.Suggest(context.Background(), in)
	require.NoError(t, err)
	want, err := draftSvc.Suggest(context.Background(), in)
	require.NoError(t, err)

	assert.False(t, got.Polished)
	assert.Equal(t, want.Reply, got.Reply)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "support_agent_polish_duration_seconds"))
}

func TestSuggest_FlaggedReplyPublishesReviewEvent(t *testing.T) {
	m := observability.NewMetrics()
	d := &recordingDispatcher{}
	pol := &stubPolisher{out: "Guten Tag, Sie erhalten eine Erstattung."}
	svc := newTestService(fixtures(), pol, d, m)

	got, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:  domain.Ticket{Body: "Storno"},
		Context: LookupContext{OrderID: "4711"},
	})
	require.NoError(t, err)
	assert.True(t, got.Flags.Forbidden)
	assert.True(t, got.NeedsHuman)

	require.Len(t, d.events, 1)
	assert.Equal(t, events.EventSuggestionFlagged, d.events[0].Type)
	assert.Equal(t, "sugg-1", d.events[0].SuggestionID)
	payload, ok := d.events[0].Payload.(events.SuggestionPayload)
	require.True(t, ok)
	assert.Equal(t, domain.PolicyRefundAllowed14D, payload.Policy)
	assert.Equal(t, "4711", payload.OrderID)
	assert.Equal(t, 6, payload.ReplyWords)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "support_agent_guardrail_flags_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "support_agent_policy_decisions_total"))
}

func TestSuggest_UnflaggedReplyPublishesCreatedEvent(t *testing.T) {
	d := &recordingDispatcher{}
	svc := newTestService(fixtures(), nil, d, nil)

	_, err := svc.Suggest(context.Background(), SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}})
	require.NoError(t, err)
	require.Len(t, d.events, 1)
	assert.Equal(t, events.EventSuggestionCreated, d.events[0].Type)
}

func TestSuggest_Insights(t *testing.T) {
	svc := newTestService(fixtures(), nil, nil, nil)

	got, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:  domain.Ticket{Body: "Code einlösen"},
		Voucher: VoucherInput{IssueDate: "2024-02-01"},
		Context: LookupContext{OrderID: "4711", VoucherCode: "ABC123", PIN: "9999"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"order_id": "4711", "payment_status": "PAID", "refund_status": "NONE"}, got.Insights.Order)
	assert.Equal(t, map[string]any{"voucher_code": "ABC123", "status": "NOT_REDEEMED", "valid_until": "2027-12-31"}, got.Insights.Voucher)
	assert.Equal(t, map[string]any{"status": "NOT_REDEEMED", "issue_date": "2024-02-01"}, got.Insights.UsedInputs)
	assert.NotContains(t, got.Insights.Order, "buyer_email")
}

func TestSuggest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestService(fixtures(), nil, nil, nil).Suggest(ctx, SuggestInput{Ticket: domain.Ticket{Body: "Hallo"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMergeVoucher(t *testing.T) {
	assert.Nil(t, mergeVoucher(nil, VoucherInput{}, ""))

	record := &domain.VoucherSnapshot{Code: "ABC123", Status: domain.VoucherStatusNotRedeemed, IssueDate: "2024-01-02"}
	merged := mergeVoucher(record, VoucherInput{Status: " redeemed ", IssueDate: "2025-01-01"}, "ABC123")
	assert.Equal(t, domain.VoucherStatusNotRedeemed, merged.Status)
	assert.Equal(t, "2024-01-02", merged.IssueDate)

	sparse := &domain.VoucherSnapshot{Code: "ABC123"}
	filled := mergeVoucher(sparse, VoucherInput{Status: " redeemed ", IssueDate: "2025-01-01"}, "ABC123")
	assert.Equal(t, domain.VoucherStatusRedeemed, filled.Status)
	assert.Equal(t, "2025-01-01", filled.IssueDate)
	assert.Equal(t, domain.VoucherStatusUnknown, sparse.Status, "record must not be mutated")

	onlyCode := mergeVoucher(nil, VoucherInput{}, "ZZZ")
	assert.Equal(t, "ZZZ", onlyCode.Code)
}

func TestSuggest_BackendRedeemedStatusWinsOverCaller(t *testing.T) {
	svc := newTestService(fixtures(), nil, nil, nil)
	got, err := svc.Suggest(context.Background(), SuggestInput{
		Ticket:  domain.Ticket{Body: "Bitte stornieren"},
		Voucher: VoucherInput{Code: "XYZ789", Status: "NOT_REDEEMED"},
		Context: LookupContext{OrderID: "4711"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.IntentCancel, got.Decision.Intent)
	assert.Equal(t, domain.PolicyRefundDeniedRedeemed, got.Decision.Code)
	assert.Equal(t, "REDEEMED", got.Insights.UsedInputs["status"])
}
