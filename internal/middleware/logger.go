package middleware

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskquest/internal/metrics"
	"taskquest/pkg/logger"
)

const msgUnexpected = "حدث خطأ غير متوقع في الخادم (An unexpected server error occurred)"

// ErrorHandler recovers panics, tags each request with an id and logs and
// measures it.
func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		start := time.Now()
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals("requestID", requestID)
		c.Set(fiber.HeaderXRequestID, requestID)

		defer func() {
			if r := recover(); r != nil {
				logger.ErrorLogger.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("request_id", requestID),
					zap.String("stack", string(debug.Stack())),
				)
				err = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   msgUnexpected,
					"success": false,
					"status":  fiber.StatusInternalServerError,
				})
			}

			status := c.Response().StatusCode()
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else if err != nil {
				status = fiber.StatusInternalServerError
			}
			route := c.Route().Path
			metrics.RecordHTTPRequest(c.Method(), route, status, time.Since(start))
			logger.RequestLogger.Info("Request handled",
				zap.String("request_id", requestID),
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
			)
		}()

		return c.Next()
	}
}

// JSONErrorHandler renders errors that escape the handlers, such as unknown
// routes, in the same body shape as handler errors.
func JSONErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgUnexpected
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger.ErrorLogger.Error("Unhandled error", zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   msg,
		"success": false,
		"status":  code,
	})
}
