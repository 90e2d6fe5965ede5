package serverutils

import (
	"errors"

	"infoguru-be/internal/pkg/apperror"
	"infoguru-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns any error returned further down the chain into
// the response envelope. Internal causes are logged and never sent to the client.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

// ErrorHandler is the fiber.Config hook for errors that escape the middleware chain.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		return WriteError(ctx, log, err)
	}
}

// WriteError prefers an *apperror.Error anywhere in the chain over a wrapped
// *fiber.Error, so a BadRequest that wraps a body parse failure stays a 400.
func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}
		appErr = apperror.Internal(err)
	}
	status := apperror.StatusCode(appErr.Kind)

	if appErr.Kind == apperror.KindInternal {
		log.Error("http", "Unhandled error", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err,
		})
	}

	if appErr.Fields != nil {
		return ctx.Status(status).JSON(NewResponse(status, appErr.Message, appErr.Fields))
	}
	return ctx.Status(status).JSON(ErrorResponse(status, appErr.Message))
}
