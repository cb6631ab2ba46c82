package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskquest/internal/models"
	"taskquest/internal/scoring"
	"taskquest/pkg/logger"
)

// Stats returns the caller's progress. nextLevelPoints is omitted once the
// top level is reached.
func (h *Handler) Stats(c *fiber.Ctx) error {
	userID := currentUser(c)
	acc, err := h.loadProgress(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, msgUserNotFound)
		}
		logger.ErrorLogger.Error("Error fetching stats", zap.Int("user_id", userID), zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, msgStatsFetchFailed)
	}

	resp := fiber.Map{
		"totalPoints":  acc.TotalPoints,
		"currentLevel": acc.CurrentLevel,
		"stats":        acc.Stats,
	}
	if next, ok := scoring.NextThreshold(acc.TotalPoints); ok {
		resp["nextLevelPoints"] = next
	}
	return c.JSON(resp)
}
