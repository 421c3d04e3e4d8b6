package routes

import (
	"github.com/gofiber/fiber/v2"

	"discord-strada/internal/controller"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, interactionController controller.InteractionController) {
	app.Post("/discord/interactions", interactionController.HandleInteraction)
	app.Post("/api/activities", interactionController.CreateActivity)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
