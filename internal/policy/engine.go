package policy

import (
	"strings"
	"time"

	"github.com/spec-kit/support-agent/internal/domain"
)

// DefaultRefundWindowDays is used when no valid window is configured.
const DefaultRefundWindowDays = 14

// Config parameterizes the rule engine.
type Config struct {
	RefundWindowDays int
	Location         *time.Location
}

func (c Config) refundWindow() int {
	if c.RefundWindowDays <= 0 {
		return DefaultRefundWindowDays
	}
	return c.RefundWindowDays
}

// facts is the normalized view of the inputs every rule reads.
type facts struct {
	intent        domain.Intent
	paymentStatus domain.PaymentStatus
	voucherStatus domain.VoucherStatus
	voucherType   string
	daysSince     *int
	window        int
}

func (f facts) withinWindow() bool {
	return f.daysSince != nil && *f.daysSince <= f.window
}

func (f facts) daysMeta() map[string]any {
	if f.daysSince == nil {
		return map[string]any{"days_since_purchase": nil}
	}
	return map[string]any{"days_since_purchase": *f.daysSince}
}

// rule pairs a predicate with the decision it produces.
type rule struct {
	name    string
	applies func(facts) bool
	decide  func(facts) domain.PolicyDecision
}

// cancelRules: payment is confirmed before anything else; a used voucher is
// never refunded regardless of timing; only then is the refund window checked.
var cancelRules = []rule{
	{
		name:    "unpaid",
		applies: func(f facts) bool { return f.paymentStatus != domain.PaymentStatusPaid },
		decide: func(f facts) domain.PolicyDecision {
			status := string(f.paymentStatus)
			if status == "" {
				status = "UNKNOWN"
			}
			return domain.NewPolicyDecision(domain.PolicyCancelNoPayment, f.intent, map[string]any{"payment_status": status})
		},
	},
	{
		name:    "voucher_used",
		applies: func(f facts) bool { return f.voucherStatus.Used() },
		decide: func(f facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyRefundDeniedRedeemed, f.intent, map[string]any{"voucher_status": string(f.voucherStatus)})
		},
	},
	{
		name:    "within_window",
		applies: facts.withinWindow,
		decide: func(f facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyRefundAllowed14D, f.intent, f.daysMeta())
		},
	},
	{
		name:    "window_elapsed",
		applies: func(facts) bool { return true },
		decide: func(f facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyRefundDeniedTimeout, f.intent, f.daysMeta())
		},
	},
}

// redeemRules: universal vouchers (or untyped ones) are activated online,
// everything else is redeemed at the restaurant.
var redeemRules = []rule{
	{
		name: "universal",
		applies: func(f facts) bool {
			return f.voucherType == "" || equalFold(f.voucherType, domain.VoucherTypeUniversal)
		},
		decide: func(f facts) domain.PolicyDecision {
			voucherType := f.voucherType
			if voucherType == "" {
				voucherType = domain.VoucherTypeUniversal
			}
			return domain.NewPolicyDecision(domain.PolicyInstructRedeemOnline, f.intent, map[string]any{"voucher_type": voucherType})
		},
	},
	{
		name:    "restaurant_bound",
		applies: func(facts) bool { return true },
		decide: func(f facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyInstructRedeemRestaurant, f.intent, map[string]any{"voucher_type": f.voucherType})
		},
	},
}

// generalRules: an expired voucher is the only state worth calling out.
var generalRules = []rule{
	{
		name:    "expired",
		applies: func(f facts) bool { return f.voucherStatus == domain.VoucherStatusExpired },
		decide: func(facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyExpiredNotRedeemable, domain.IntentGeneral, nil)
		},
	},
	{
		name:    "generic",
		applies: func(facts) bool { return true },
		decide: func(facts) domain.PolicyDecision {
			return domain.NewPolicyDecision(domain.PolicyInfoGeneric, domain.IntentGeneral, nil)
		},
	},
}

func rulesFor(intent domain.Intent) []rule {
	switch intent {
	case domain.IntentCancel:
		return cancelRules
	case domain.IntentRedeemHelp:
		return redeemRules
	default:
		return generalRules
	}
}

// Decide evaluates the rule table for the given intent and snapshots.
// It never fails: missing or malformed inputs route through fallback rules.
func Decide(intent domain.Intent, voucher *domain.VoucherSnapshot, order *domain.OrderSnapshot, cfg Config, now time.Time) domain.PolicyDecision {
	decision, _ := evaluate(gatherFacts(intent, voucher, order, cfg, now))
	return decision
}

// Explain is Decide that also reports which rule fired.
func Explain(intent domain.Intent, voucher *domain.VoucherSnapshot, order *domain.OrderSnapshot, cfg Config, now time.Time) (domain.PolicyDecision, string) {
	return evaluate(gatherFacts(intent, voucher, order, cfg, now))
}

func evaluate(f facts) (domain.PolicyDecision, string) {
	for _, r := range rulesFor(f.intent) {
		if r.applies(f) {
			return r.decide(f), r.name
		}
	}
	// Each tier ends with an unconditional rule.
	return domain.NewPolicyDecision(domain.PolicyInfoGeneric, domain.IntentGeneral, nil), "generic"
}

func gatherFacts(intent domain.Intent, voucher *domain.VoucherSnapshot, order *domain.OrderSnapshot, cfg Config, now time.Time) facts {
	f := facts{intent: intent, window: cfg.refundWindow()}
	switch intent {
	case domain.IntentCancel, domain.IntentRedeemHelp:
	default:
		f.intent = domain.IntentGeneral
	}

	if order != nil {
		f.paymentStatus = domain.ParsePaymentStatus(string(order.PaymentStatus))
		if created, ok := ParseDate(order.CreatedAt); ok {
			days := created.DaysSince(DateOf(now, cfg.Location))
			f.daysSince = &days
		}
	}
	if voucher != nil {
		f.voucherStatus = domain.ParseVoucherStatus(string(voucher.Status))
		f.voucherType = strings.TrimSpace(voucher.Type)
	}
	return f
}
