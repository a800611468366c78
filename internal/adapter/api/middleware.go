package api

import (
	"crypto/subtle"
	"log/slog"
	"strings"

	"flightfare-core/internal/domain/entity"
	"flightfare-core/internal/domain/repository"

	"github.com/gofiber/fiber/v2"
)

const (
	userKey     = "user"
	adminHeader = "X-Admin-Token"
)

// RequireAuth resolves the bearer token to a user and stores it in Locals.
func (h *Handler) RequireAuth(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return fail(c, entity.ErrUnauthorized)
	}

	user, err := h.accounts.Authenticate(c.UserContext(), strings.TrimSpace(token))
	if err != nil {
		return fail(c, err)
	}
	c.Locals(userKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) *entity.User {
	user, _ := c.Locals(userKey).(*entity.User)
	return user
}

// RateLimit guards a route with the given limiter keyed by client IP.
// A limiter error lets the request through.
func RateLimit(limiter repository.RateLimiter) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			slog.WarnContext(c.UserContext(), "rate limiter unavailable, allowing request", "error", err)
			return c.Next()
		}
		if !allowed {
			return fail(c, entity.ErrRateLimitExceeded)
		}
		return c.Next()
	}
}

// RequireAdmin admits only requests carrying the operations token. User
// accounts never satisfy it.
func RequireAdmin(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(adminHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return fail(c, entity.ErrUnauthorized)
		}
		return c.Next()
	}
}
