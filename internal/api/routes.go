package api

import (
	"github.com/gofiber/fiber/v3"
)

func SetupRoutes(app *fiber.App, h *Handler) {
	app.Get("/health", h.Health)

	api := app.Group("/api")
	api.Post("/index", h.IndexRepository)
	api.Post("/parse", h.ParseFile)
	api.Post("/classify", h.ClassifyRepo)
	api.Post("/graph/query", h.QueryGraph)
}
