package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "freshthreads/internal/log"
)

// RequireUser enforces that a user is signed in; otherwise redirect to
// the sign-in page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if currentSession(c) == nil {
			applog.Security(c, "access.denied.user", nil)
			return c.Redirect("/login")
		}
		return c.Next()
	}
}
