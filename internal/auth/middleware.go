package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/support-agent/pkg/util/errorutil"
)

// APIKeyHeader carries the static API key.
const APIKeyHeader = "X-API-Key"

const principalKey = "auth_principal"

// Method records how a caller authenticated.
type Method string

const (
	MethodAPIKey Method = "api_key"
	MethodToken  Method = "token"
)

// Principal represents the authenticated caller.
type Principal struct {
	Subject string
	Method  Method
	// Scopes is nil for API-key callers, which may do everything.
	Scopes []Scope
}

// Allows reports whether the principal holds scope.
func (p *Principal) Allows(scope Scope) bool {
	if p.Method == MethodAPIKey {
		return true
	}
	for _, s := range p.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// AuthMiddleware accepts an API key or a bearer service token.
type AuthMiddleware struct {
	keys   *KeyVerifier
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware. Either argument may be nil.
func NewAuthMiddleware(keys *KeyVerifier, tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{keys: keys, tokens: tokens}
}

// Enabled reports whether any credential is configured.
func (m *AuthMiddleware) Enabled() bool {
	return m != nil && (m.keys.Configured() || m.tokens != nil)
}

// Handle enforces authentication for protected routes. Without configured
// credentials every request passes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if !m.Enabled() {
		return c.Next()
	}

	if key := c.Get(APIKeyHeader); key != "" {
		if !m.keys.Verify(key) {
			return apperrors.NewUnauthorized("invalid api key")
		}
		c.Locals(principalKey, &Principal{Subject: "api-key", Method: MethodAPIKey})
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing credentials")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || m.tokens == nil {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(principalKey, &Principal{Subject: claims.Subject, Method: MethodToken, Scopes: claims.Scopes})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
