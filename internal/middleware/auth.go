package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rafaelmunetiko/Carteira/internal/auth"
)

// UserIDKey is the request-local under which the authenticated user id is
// stored as a uuid.UUID.
const UserIDKey = "user_id"

// BearerAuth returns a middleware that validates JWT access tokens and makes
// the authenticated user identifier available to handlers. Requests without
// a valid token are rejected before reaching the wallet core.
func BearerAuth(tokens *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}

		token := strings.TrimSpace(authz[len("Bearer "):])
		userID, err := tokens.VerifyAccess(token)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}
