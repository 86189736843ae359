package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/shankarbhopany2-max/shankar-todo-application/authentication/session"
)

const (
	LocalsAccountID = "account_id"

	AuthEntryPoint = "/auth"
)

// SessionAuthMiddleware refuses requests without a live session by
// redirecting to the auth entry point before the handler runs.
func SessionAuthMiddleware(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, ok := sessions.Current(c)
		if !ok {
			return c.Redirect(AuthEntryPoint, fiber.StatusFound)
		}

		c.Locals(LocalsAccountID, rec.AccountID)
		return c.Next()
	}
}

// AccountID returns the id stored by SessionAuthMiddleware.
func AccountID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalsAccountID).(uint)
	return id, ok && id != 0
}
