package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/auth"
	"github.com/lira-pay/lira_pay/internal/config"
	"github.com/lira-pay/lira_pay/internal/user"
)

// UserIDKey is the locals key under which the authenticated user id is stored.
const UserIDKey = "user_id"

// JWTAuth validates bearer tokens and confirms the subject still exists.
func JWTAuth(cfg config.Config, users user.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		token := strings.TrimSpace(authz[len("Bearer "):])

		claims, err := auth.VerifyHS256(token, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}
		if _, err := users.FindByID(c.UserContext(), claims.Subject); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "unknown subject")
		}

		c.Locals(UserIDKey, claims.Subject)
		return c.Next()
	}
}
