package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func RequestLogger(log *logrus.Entry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
		})
		if id, ok := AccountID(c); ok {
			entry = entry.WithField("account_id", id)
		}
		if err != nil {
			entry.WithError(err).Warn("request failed")
		} else {
			entry.Debug("request")
		}
		return err
	}
}
