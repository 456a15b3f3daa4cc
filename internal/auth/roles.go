package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Scope names an operation a caller may perform.
type Scope string

const (
	ScopeSuggest Scope = "suggest"
)

// RequireScope ensures the principal may perform scope. Requests that passed
// without credentials (auth disabled) are let through.
func RequireScope(scope Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return c.Next()
		}
		if !principal.Allows(scope) {
			return fiber.NewError(http.StatusForbidden, "insufficient scope")
		}
		return c.Next()
	}
}
