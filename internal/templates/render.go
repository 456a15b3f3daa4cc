package templates

import (
	"strings"

	"github.com/spec-kit/support-agent/internal/domain"
)

// DefaultSalutation opens replies when the ticket carries none.
const DefaultSalutation = "Guten Tag"

const salutationPlaceholder = "{anrede}"

// Renderer fills templates from a store.
type Renderer struct {
	store *Store
}

// NewRenderer builds a renderer. A nil store renders from the built-in table.
func NewRenderer(store *Store) *Renderer {
	if store == nil {
		store = Builtin()
	}
	return &Renderer{store: store}
}

// Render resolves key and substitutes the salutation. Unknown keys render a
// generic acknowledgement.
func (r *Renderer) Render(key domain.TemplateKey, salutation string) string {
	text, ok := r.store.Resolve(key)
	if !ok || strings.TrimSpace(text) == "" {
		text = genericAcknowledgement
	}
	salutation = strings.TrimSpace(salutation)
	if salutation == "" {
		salutation = DefaultSalutation
	}
	return strings.ReplaceAll(text, salutationPlaceholder, salutation)
}
