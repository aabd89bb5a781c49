package handlers

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
)

// RegisterFrontEnd serves the files in dir and answers every other unmatched
// request with dir/index.html. Register it after all API routes.
func RegisterFrontEnd(app *fiber.App, dir string) {
	index := filepath.Join(dir, "index.html")

	app.Static("/", dir)
	app.Use(func(c *fiber.Ctx) error {
		return c.SendFile(index)
	})
}
