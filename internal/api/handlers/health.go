package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskquest/pkg/logger"
)

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"message":   msgServerRunning,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// DBHealth round-trips to the database and reports its clock.
func (h *Handler) DBHealth(c *fiber.Ctx) error {
	now, err := h.health.DBTime(c.UserContext())
	if err != nil {
		logger.ErrorLogger.Error("Database health check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "Error",
			"message": msgDBUnhealthy,
		})
	}
	return c.JSON(fiber.Map{
		"status":  "OK",
		"message": msgDBHealthy,
		"dbTime":  now.UTC().Format(time.RFC3339Nano),
	})
}
