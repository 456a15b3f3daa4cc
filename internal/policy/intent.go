package policy

import "github.com/spec-kit/support-agent/internal/domain"

// IntentHints carries context outside the ticket text.
type IntentHints struct {
	HasVoucherCode bool
}

// Cancellation vocabulary. Checked before anything else.
var cancelPatterns = compile([]string{
	WordStart + `storno` + WordEnd,
	WordStart + `stornieren` + WordEnd,
	WordStart + `rücktritt` + WordEnd,
	WordStart + `widerruf` + WordEnd,
	WordStart + `bestellung\s*(?:stornieren|widerrufen)` + WordEnd,
})

// Redemption vocabulary. Stems match inflected forms (einlösen, einlöseanleitung).
var redeemPatterns = compile([]string{
	WordStart + `einlöse`,
	WordStart + `einlösen`,
	WordStart + `einloes`,
	WordStart + `einlösung`,
	WordStart + `gutschein\s*einlösen`,
	WordStart + `code` + WordEnd,
	WordStart + `pin` + WordEnd,
})

// Classify maps a ticket to an intent. Cancellation always wins over
// redemption vocabulary and the voucher-code hint.
func Classify(subject, body string, hints IntentHints) domain.Intent {
	text := Normalize(subject + " " + body)

	if matchAny(cancelPatterns, text) {
		return domain.IntentCancel
	}
	if hints.HasVoucherCode || matchAny(redeemPatterns, text) {
		return domain.IntentRedeemHelp
	}
	return domain.IntentGeneral
}
