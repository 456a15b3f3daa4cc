package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-agent/internal/domain"
)

var now = time.Date(2025, time.September, 3, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return now.AddDate(0, 0, -n).Format("2006-01-02")
}

func paidOrder(createdAt string) *domain.OrderSnapshot {
	return &domain.OrderSnapshot{OrderID: "4711", PaymentStatus: domain.PaymentStatusPaid, CreatedAt: createdAt}
}

func TestDecide_Cancel(t *testing.T) {
	tests := []struct {
		name     string
		voucher  *domain.VoucherSnapshot
		order    *domain.OrderSnapshot
		wantCode domain.PolicyCode
		wantMeta map[string]any
	}{
		{
			name:     "within window",
			voucher:  &domain.VoucherSnapshot{Status: domain.VoucherStatusNotRedeemed},
			order:    paidOrder(daysAgo(5)),
			wantCode: domain.PolicyRefundAllowed14D,
			wantMeta: map[string]any{"days_since_purchase": 5},
		},
		{
			name:     "pending payment",
			order:    &domain.OrderSnapshot{PaymentStatus: domain.PaymentStatusPending, CreatedAt: daysAgo(1)},
			wantCode: domain.PolicyCancelNoPayment,
			wantMeta: map[string]any{"payment_status": "PENDING"},
		},
		{
			name:     "no order at all",
			wantCode: domain.PolicyCancelNoPayment,
			wantMeta: map[string]any{"payment_status": "UNKNOWN"},
		},
		{
			name:     "lowercase paid is normalized",
			order:    &domain.OrderSnapshot{PaymentStatus: "paid", CreatedAt: daysAgo(2)},
			wantCode: domain.PolicyRefundAllowed14D,
			wantMeta: map[string]any{"days_since_purchase": 2},
		},
		{
			name:     "unknown payment status is reported verbatim",
			order:    &domain.OrderSnapshot{PaymentStatus: "failed"},
			wantCode: domain.PolicyCancelNoPayment,
			wantMeta: map[string]any{"payment_status": "FAILED"},
		},
		{
			name:     "redeemed wins over timeout",
			voucher:  &domain.VoucherSnapshot{Status: domain.VoucherStatusRedeemed},
			order:    paidOrder(daysAgo(90)),
			wantCode: domain.PolicyRefundDeniedRedeemed,
			wantMeta: map[string]any{"voucher_status": "REDEEMED"},
		},
		{
			name:     "partially redeemed within window",
			voucher:  &domain.VoucherSnapshot{Status: "partially_redeemed"},
			order:    paidOrder(daysAgo(1)),
			wantCode: domain.PolicyRefundDeniedRedeemed,
			wantMeta: map[string]any{"voucher_status": "PARTIALLY_REDEEMED"},
		},
		{
			name:     "unpaid wins over redeemed",
			voucher:  &domain.VoucherSnapshot{Status: domain.VoucherStatusRedeemed},
			order:    &domain.OrderSnapshot{PaymentStatus: domain.PaymentStatusPending},
			wantCode: domain.PolicyCancelNoPayment,
			wantMeta: map[string]any{"payment_status": "PENDING"},
		},
		{
			name:     "window elapsed",
			order:    paidOrder(daysAgo(33)),
			wantCode: domain.PolicyRefundDeniedTimeout,
			wantMeta: map[string]any{"days_since_purchase": 33},
		},
		{
			name:     "missing creation date counts as outside window",
			order:    paidOrder(""),
			wantCode: domain.PolicyRefundDeniedTimeout,
			wantMeta: map[string]any{"days_since_purchase": nil},
		},
		{
			name:     "garbage creation date counts as outside window",
			order:    paidOrder("vor kurzem"),
			wantCode: domain.PolicyRefundDeniedTimeout,
			wantMeta: map[string]any{"days_since_purchase": nil},
		},
		{
			name:     "localized date",
			order:    paidOrder(now.AddDate(0, 0, -3).Format("02.01.2006")),
			wantCode: domain.PolicyRefundAllowed14D,
			wantMeta: map[string]any{"days_since_purchase": 3},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(domain.IntentCancel, tc.voucher, tc.order, Config{}, now)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, domain.IntentCancel, got.Intent)
			assert.Equal(t, tc.wantMeta, got.Meta)

			key, ok := tc.wantCode.TemplateKey()
			require.True(t, ok)
			assert.Equal(t, key, got.TemplateKey)
		})
	}
}

func TestDecide_RefundWindowBoundary(t *testing.T) {
	voucher := &domain.VoucherSnapshot{Status: domain.VoucherStatusNotRedeemed}

	atBoundary := Decide(domain.IntentCancel, voucher, paidOrder(daysAgo(14)), Config{RefundWindowDays: 14}, now)
	assert.Equal(t, domain.PolicyRefundAllowed14D, atBoundary.Code)

	pastBoundary := Decide(domain.IntentCancel, voucher, paidOrder(daysAgo(15)), Config{RefundWindowDays: 14}, now)
	assert.Equal(t, domain.PolicyRefundDeniedTimeout, pastBoundary.Code)

	custom := Decide(domain.IntentCancel, voucher, paidOrder(daysAgo(20)), Config{RefundWindowDays: 30}, now)
	assert.Equal(t, domain.PolicyRefundAllowed14D, custom.Code)
}

func TestDecide_InvalidRefundWindowUsesDefault(t *testing.T) {
	for _, window := range []int{0, -3} {
		got := Decide(domain.IntentCancel, nil, paidOrder(daysAgo(14)), Config{RefundWindowDays: window}, now)
		assert.Equal(t, domain.PolicyRefundAllowed14D, got.Code)

		got = Decide(domain.IntentCancel, nil, paidOrder(daysAgo(15)), Config{RefundWindowDays: window}, now)
		assert.Equal(t, domain.PolicyRefundDeniedTimeout, got.Code)
	}
}

func TestDecide_TimestampedCreationIsDateOnly(t *testing.T) {
	// Fourteen calendar days back, late in the evening with an offset:
	// the written date counts, not the instant.
	created := now.AddDate(0, 0, -14).Format("2006-01-02") + "T23:59:00+02:00"
	got := Decide(domain.IntentCancel, nil, paidOrder(created), Config{}, now)
	assert.Equal(t, domain.PolicyRefundAllowed14D, got.Code)
	assert.Equal(t, 14, got.Meta["days_since_purchase"])
}

func TestDecide_RedeemHelp(t *testing.T) {
	tests := []struct {
		name     string
		voucher  *domain.VoucherSnapshot
		wantCode domain.PolicyCode
		wantType string
	}{
		{name: "no voucher", wantCode: domain.PolicyInstructRedeemOnline, wantType: "universal"},
		{name: "empty type", voucher: &domain.VoucherSnapshot{}, wantCode: domain.PolicyInstructRedeemOnline, wantType: "universal"},
		{name: "universal mixed case", voucher: &domain.VoucherSnapshot{Type: "Universal"}, wantCode: domain.PolicyInstructRedeemOnline, wantType: "Universal"},
		{name: "restaurant", voucher: &domain.VoucherSnapshot{Type: "restaurant"}, wantCode: domain.PolicyInstructRedeemRestaurant, wantType: "restaurant"},
		{name: "redeemed restaurant still instructs", voucher: &domain.VoucherSnapshot{Type: "restaurant", Status: domain.VoucherStatusRedeemed}, wantCode: domain.PolicyInstructRedeemRestaurant, wantType: "restaurant"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(domain.IntentRedeemHelp, tc.voucher, nil, Config{}, now)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, domain.IntentRedeemHelp, got.Intent)
			assert.Equal(t, map[string]any{"voucher_type": tc.wantType}, got.Meta)
		})
	}
}

func TestDecide_General(t *testing.T) {
	expired := Decide(domain.IntentGeneral, &domain.VoucherSnapshot{Status: "expired"}, nil, Config{}, now)
	assert.Equal(t, domain.PolicyExpiredNotRedeemable, expired.Code)
	assert.Equal(t, domain.TemplateExpired, expired.TemplateKey)
	assert.Empty(t, expired.Meta)

	generic := Decide(domain.IntentGeneral, &domain.VoucherSnapshot{Status: domain.VoucherStatusNotRedeemed}, nil, Config{}, now)
	assert.Equal(t, domain.PolicyInfoGeneric, generic.Code)

	unknownIntent := Decide(domain.Intent("SOMETHING"), nil, nil, Config{}, now)
	assert.Equal(t, domain.PolicyInfoGeneric, unknownIntent.Code)
	assert.Equal(t, domain.IntentGeneral, unknownIntent.Intent)
	assert.NotNil(t, unknownIntent.Meta)
}

func TestDecide_Deterministic(t *testing.T) {
	voucher := &domain.VoucherSnapshot{Status: domain.VoucherStatusNotRedeemed, Type: "universal"}
	order := paidOrder(daysAgo(7))
	first := Decide(domain.IntentCancel, voucher, order, Config{}, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(domain.IntentCancel, voucher, order, Config{}, now))
	}
}

func TestExplain_ReportsRule(t *testing.T) {
	_, name := Explain(domain.IntentCancel, &domain.VoucherSnapshot{Status: domain.VoucherStatusRedeemed}, paidOrder(daysAgo(1)), Config{}, now)
	assert.Equal(t, "voucher_used", name)

	_, name = Explain(domain.IntentGeneral, nil, nil, Config{}, now)
	assert.Equal(t, "generic", name)
}

func TestRuleTiersEndUnconditionally(t *testing.T) {
	for _, tier := range [][]rule{cancelRules, redeemRules, generalRules} {
		last := tier[len(tier)-1]
		assert.True(t, last.applies(facts{}), last.name)
	}
}

func TestEngine_UsesClockAndOverride(t *testing.T) {
	engine := NewEngine(Config{RefundWindowDays: 14}, func() time.Time { return now })
	order := paidOrder(daysAgo(20))

	assert.Equal(t, domain.PolicyRefundDeniedTimeout, engine.Decide(domain.IntentCancel, nil, order, 0).Code)
	assert.Equal(t, domain.PolicyRefundAllowed14D, engine.Decide(domain.IntentCancel, nil, order, 30).Code)
	assert.Equal(t, 14, engine.Config().RefundWindowDays)
}
