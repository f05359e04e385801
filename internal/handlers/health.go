package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/neows/internal/store"
)

// HealthHandler reports liveness and the number of live sessions
func HealthHandler(sessions *store.SessionStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"sessions": sessions.Count(),
		})
	}
}
