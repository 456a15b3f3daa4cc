// Package guardrail scans final reply text for conditions that require a
// human to review the reply before it is sent.
package guardrail

import (
	"regexp"
	"strings"

	"github.com/spec-kit/support-agent/internal/domain"
	"github.com/spec-kit/support-agent/internal/policy"
)

// DefaultWordLimit caps reply length when no positive limit is configured.
const DefaultWordLimit = 180

// Payout trigger phrases. Case-insensitive, matched as whole words.
var forbiddenPatterns = []*regexp.Regexp{
	forbidden(`erstattung(?:en)?`),
	forbidden(`rückerstattung(?:en)?`),
	forbidden(`barauszahlung(?:en)?`),
	forbidden(`teil-?auszahlung(?:en)?`),
	forbidden(`geld\s*zurück`),
}

func forbidden(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + policy.WordStart + word + policy.WordEnd)
}

var formalAddressRe = regexp.MustCompile(`(?i)(?:^|\s)sie(?:\s|$)`)

// payoutPolicies are the only codes able to trigger real refund processing.
// Other codes may mention the trigger words in denials without penalty.
var payoutPolicies = map[domain.PolicyCode]bool{
	domain.PolicyRefundAllowed14D: true,
}

// GuardsPayout reports whether code is scanned for payout triggers.
func GuardsPayout(code domain.PolicyCode) bool {
	return payoutPolicies[code]
}

// ContainsForbidden reports whether text contains a payout trigger phrase,
// regardless of policy.
func ContainsForbidden(text string) bool {
	for _, re := range forbiddenPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// WordCount counts whitespace-delimited words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ContainsFormalAddress reports whether the formal "Sie" stands alone
// between whitespace or text edges.
func ContainsFormalAddress(text string) bool {
	return formalAddressRe.MatchString(text)
}

// Evaluate computes the guardrail flags for a final reply.
func Evaluate(text string, code domain.PolicyCode, wordLimit int) domain.GuardrailFlags {
	if wordLimit <= 0 {
		wordLimit = DefaultWordLimit
	}
	return domain.GuardrailFlags{
		Forbidden:             GuardsPayout(code) && ContainsForbidden(text),
		TooLong:               WordCount(text) > wordLimit,
		RequiresFormalAddress: ContainsFormalAddress(text),
	}
}
