package handlers

import (
	"errors"
	"log/slog"

	"catalog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewFiberApp creates the Fiber app shared by the server and its tests.
// Handlers return errors; ErrorHandler turns them into responses.
func NewFiberApp(logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "catalog",
		// Params and body strings outlive the request in the memory store.
		Immutable:             true,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(logger),
	})
	app.Use(recover.New())
	return app
}

// ErrorHandler maps validation errors to 400, Fiber errors to their own code
// and everything else to 500. The body is the plain error message.
func ErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fe *fiber.Error
		switch {
		case models.IsValidationError(err):
			code = fiber.StatusBadRequest
		case errors.As(err, &fe):
			code = fe.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.Status(code).SendString(err.Error())
	}
}

// notFound answers 404 with an empty body.
func notFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)
	return nil
}
