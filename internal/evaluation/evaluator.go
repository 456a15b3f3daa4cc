package evaluation

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/support-agent/internal/guardrail"
)

// Result is the verdict for one case. Pointer fields are nil when the
// request failed.
type Result struct {
	Name        string
	OK          bool
	Reason      string
	Policy      *string
	ReplyWords  *int
	Forbidden   *bool
	ContainsSie *bool
	NeedsHuman  *bool
}

// Evaluator runs cases through a client.
type Evaluator struct {
	client   Client
	maxWords int
}

// NewEvaluator builds an evaluator. A non-positive limit uses the guardrail default.
func NewEvaluator(client Client, maxWords int) *Evaluator {
	if maxWords <= 0 {
		maxWords = guardrail.DefaultWordLimit
	}
	return &Evaluator{client: client, maxWords: maxWords}
}

// Check scores a response. The forbidden-phrase scan runs regardless of
// policy; evaluation is stricter than the service's own flag.
func (e *Evaluator) Check(c Case, resp *Response) Result {
	policy := resp.Policy
	words := guardrail.WordCount(resp.Reply)
	forbidden := guardrail.ContainsForbidden(resp.Reply)
	sie := guardrail.ContainsFormalAddress(resp.Reply)

	policyOK := c.ExpectPolicy == nil || policy == *c.ExpectPolicy
	lengthOK := words <= e.maxWords
	needsHumanFalse := resp.NeedsHuman != nil && !*resp.NeedsHuman

	var reasons []string
	if !policyOK {
		reasons = append(reasons, fmt.Sprintf("policy expected %s got %s", *c.ExpectPolicy, policy))
	}
	if !lengthOK {
		reasons = append(reasons, fmt.Sprintf("too long (%d words)", words))
	}
	if forbidden {
		reasons = append(reasons, "forbidden phrase")
	}
	if !sie {
		reasons = append(reasons, "no Sie-form")
	}
	if resp.NeedsHuman != nil && *resp.NeedsHuman {
		reasons = append(reasons, "needs_human true")
	}

	return Result{
		Name:        c.DisplayName(),
		OK:          policyOK && lengthOK && !forbidden && sie && needsHumanFalse,
		Reason:      strings.Join(reasons, "; "),
		Policy:      &policy,
		ReplyWords:  &words,
		Forbidden:   &forbidden,
		ContainsSie: &sie,
		NeedsHuman:  resp.NeedsHuman,
	}
}

// Run evaluates every case in order and prints one status line per case.
func (e *Evaluator) Run(ctx context.Context, cases []Case, out io.Writer) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		var res Result
		resp, err := e.client.Suggest(ctx, c.Input)
		if err != nil {
			res = Result{Name: c.DisplayName(), Reason: fmt.Sprintf("HTTP error: %v", err)}
		} else {
			res = e.Check(c, resp)
		}
		results = append(results, res)

		mark := "❌"
		if res.OK {
			mark = "✅"
		}
		fmt.Fprintf(out, "%s %s: %s\n", mark, res.Name, res.Reason)
	}
	return results
}
