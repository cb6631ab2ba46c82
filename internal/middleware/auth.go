package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"taskquest/internal/auth"
	"taskquest/pkg/logger"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Parse(token string) (*auth.Claims, error)
}

const (
	msgNoToken      = "التوكن غير موجود (No token provided)"
	msgBadFormat    = "صيغة التوكن غير صحيحة (Invalid token format)"
	msgInvalidToken = "التوكن غير صالح أو منتهي الصلاحية (Invalid/Expired token)"
)

func deny(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"error":   msg,
		"success": false,
		"status":  status,
	})
}

// UseToken authenticates the request. A missing or malformed Authorization
// header is 401; a token that fails verification is 403. On success the
// locals "userID" (int) and "email" (string) are set.
func UseToken(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			logger.SecurityLogger.Warn("No token provided", zap.String("url", c.OriginalURL()))
			return deny(c, fiber.StatusUnauthorized, msgNoToken)
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			logger.SecurityLogger.Warn("Invalid token format", zap.String("url", c.OriginalURL()))
			return deny(c, fiber.StatusUnauthorized, msgBadFormat)
		}

		claims, err := verifier.Parse(parts[1])
		if err != nil {
			reason := "invalid"
			if errors.Is(err, auth.ErrTokenExpired) {
				reason = "expired"
			}
			logger.SecurityLogger.Warn("Token rejected", zap.String("reason", reason), zap.Error(err))
			return deny(c, fiber.StatusForbidden, msgInvalidToken)
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		return c.Next()
	}
}

// TokenFromQuery lets clients that cannot set headers, such as browser
// websockets, pass the token as ?token=.
func TokenFromQuery(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		if tok := c.Query("token"); tok != "" {
			c.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+tok)
		}
	}
	return c.Next()
}
