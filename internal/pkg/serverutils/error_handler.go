package serverutils

import (
	"resume-assistant-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "Internal server error"

// ErrorHandlerMiddleware turns errors returned by handlers into the {error} envelope.
// Server-side faults are logged with their cause; callers only see the public message.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		return writeError(ctx, log, err)
	}
}

// FiberErrorHandler is installed as fiber.Config.ErrorHandler so errors raised
// outside the middleware chain get the same envelope.
func FiberErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return writeError(ctx, log, err)
	}
}

func writeError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	status, message := StatusFor(err, internalErrorMessage)
	if status >= fiber.StatusInternalServerError {
		log.Error("HTTP", "Request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": status,
			"error":  err.Error(),
		})
	}
	return ctx.Status(status).JSON(ErrorResponse(message))
}
