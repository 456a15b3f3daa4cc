package domain

// Intent is the coarse classification of what the customer asks for.
type Intent string

const (
	IntentCancel     Intent = "CANCEL"
	IntentRedeemHelp Intent = "REDEEM_HELP"
	IntentGeneral    Intent = "GENERAL"
)

// PolicyCode names one decision outcome of the rule engine.
type PolicyCode string

const (
	PolicyCancelNoPayment          PolicyCode = "CANCEL_NO_PAYMENT"
	PolicyRefundDeniedRedeemed     PolicyCode = "REFUND_DENIED_REDEEMED"
	PolicyRefundAllowed14D         PolicyCode = "REFUND_ALLOWED_14D"
	PolicyRefundDeniedTimeout      PolicyCode = "REFUND_DENIED_TIMEOUT"
	PolicyInstructRedeemOnline     PolicyCode = "INSTRUCT_REDEEM_ONLINE"
	PolicyInstructRedeemRestaurant PolicyCode = "INSTRUCT_REDEEM_RESTAURANT"
	PolicyExpiredNotRedeemable     PolicyCode = "EXPIRED_NOT_REDEEMABLE"
	PolicyInfoGeneric              PolicyCode = "INFO_GENERIC"
)

// TemplateKey selects the reply text rendered for a policy code.
type TemplateKey string

const (
	TemplateCancelNoPayment      TemplateKey = "cancel_no_payment"
	TemplateRefundDeniedRedeemed TemplateKey = "refund_denied_redeemed"
	TemplateRefundAllowed        TemplateKey = "refund_allowed"
	TemplateRefundTimeout        TemplateKey = "refund_timeout"
	TemplateRedeemOnline         TemplateKey = "redeem_online"
	TemplateRedeemRestaurant     TemplateKey = "redeem_restaurant"
	TemplateExpired              TemplateKey = "expired"
	TemplateInfoGeneric          TemplateKey = "info_generic"
)

// policyTemplates is the joint code/template table. A code absent from this
// table cannot be emitted.
var policyTemplates = map[PolicyCode]TemplateKey{
	PolicyCancelNoPayment:          TemplateCancelNoPayment,
	PolicyRefundDeniedRedeemed:     TemplateRefundDeniedRedeemed,
	PolicyRefundAllowed14D:         TemplateRefundAllowed,
	PolicyRefundDeniedTimeout:      TemplateRefundTimeout,
	PolicyInstructRedeemOnline:     TemplateRedeemOnline,
	PolicyInstructRedeemRestaurant: TemplateRedeemRestaurant,
	PolicyExpiredNotRedeemable:     TemplateExpired,
	PolicyInfoGeneric:              TemplateInfoGeneric,
}

// AllPolicyCodes lists every code in declaration order.
func AllPolicyCodes() []PolicyCode {
	return []PolicyCode{
		PolicyCancelNoPayment,
		PolicyRefundDeniedRedeemed,
		PolicyRefundAllowed14D,
		PolicyRefundDeniedTimeout,
		PolicyInstructRedeemOnline,
		PolicyInstructRedeemRestaurant,
		PolicyExpiredNotRedeemable,
		PolicyInfoGeneric,
	}
}

// TemplateKey returns the template bound to the code, or false for codes
// outside the table.
func (c PolicyCode) TemplateKey() (TemplateKey, bool) {
	key, ok := policyTemplates[c]
	return key, ok
}

// TemplateKeys returns the template key of every policy code.
func TemplateKeys() []TemplateKey {
	codes := AllPolicyCodes()
	keys := make([]TemplateKey, 0, len(codes))
	for _, code := range codes {
		keys = append(keys, policyTemplates[code])
	}
	return keys
}

// PolicyDecision is the rule engine's output.
type PolicyDecision struct {
	Code        PolicyCode     `json:"code"`
	TemplateKey TemplateKey    `json:"template_key"`
	Intent      Intent         `json:"intent"`
	Meta        map[string]any `json:"meta"`
}

// NewPolicyDecision binds code to its template key. Only the rule engine
// constructs decisions, and only with codes from the table.
func NewPolicyDecision(code PolicyCode, intent Intent, meta map[string]any) PolicyDecision {
	if meta == nil {
		meta = map[string]any{}
	}
	key, ok := code.TemplateKey()
	if !ok {
		panic("domain: policy code without template: " + string(code))
	}
	return PolicyDecision{Code: code, TemplateKey: key, Intent: intent, Meta: meta}
}

// BindingText is the decision summary handed to the polish step, which
// must not change it.
func (d PolicyDecision) BindingText() string {
	return string(d.Code) + ": " + string(d.TemplateKey)
}

// GuardrailFlags are post-hoc safety checks on a final reply.
type GuardrailFlags struct {
	Forbidden             bool `json:"forbidden"`
	TooLong               bool `json:"too_long"`
	RequiresFormalAddress bool `json:"contains_sie"`
}

// NeedsHuman reports whether a person must review the reply before sending.
func (f GuardrailFlags) NeedsHuman() bool {
	return f.Forbidden || f.TooLong
}
