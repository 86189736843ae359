package session

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/shankarbhopany2-max/shankar-todo-application/internal/util"
	"github.com/shankarbhopany2-max/shankar-todo-application/pkg/types"
)

const (
	FlashCookieName = "todo_flash"
	flashTTL        = 5 * time.Minute

	// maxPendingFlashes keeps the cookie well under the browser size limit
	// when redirects are not followed.
	maxPendingFlashes = 5

	localsFlashes = "flashes"
)

// Flash queues a one-shot message for the next rendered view. Flashes live in
// their own signed cookie so anonymous visitors get them too.
func (m *Manager) Flash(c *fiber.Ctx, category, message string) {
	pending, ok := c.Locals(localsFlashes).([]types.Flash)
	if !ok {
		pending = m.readFlashes(c)
	}
	pending = append(pending, types.Flash{Category: category, Message: message})
	if len(pending) > maxPendingFlashes {
		pending = pending[len(pending)-maxPendingFlashes:]
	}
	c.Locals(localsFlashes, pending)

	token, err := util.CreateFlashToken(pending, m.cfg.Secret, flashTTL)
	if err != nil {
		m.log.WithError(err).WithField("operation", "session.Manager.Flash").Error("failed to sign flash cookie")
		return
	}
	c.Cookie(m.cookie(FlashCookieName, token, m.now().Add(flashTTL)))
}

// Flashes returns and clears the queued messages.
func (m *Manager) Flashes(c *fiber.Ctx) []types.Flash {
	flashes, ok := c.Locals(localsFlashes).([]types.Flash)
	if !ok {
		flashes = m.readFlashes(c)
	}
	c.Locals(localsFlashes, []types.Flash{})

	if c.Cookies(FlashCookieName) != "" || len(flashes) > 0 {
		c.Cookie(m.cookie(FlashCookieName, "", m.now().Add(-time.Hour)))
	}
	if flashes == nil {
		flashes = []types.Flash{}
	}
	return flashes
}

func (m *Manager) readFlashes(c *fiber.Ctx) []types.Flash {
	raw := c.Cookies(FlashCookieName)
	if raw == "" {
		return nil
	}
	flashes, err := util.ParseFlashToken(raw, m.cfg.Secret)
	if err != nil {
		m.log.WithError(err).Debug("dropping unreadable flash cookie")
		return nil
	}
	return flashes
}
