// Package handler exposes the HTTP API.
package handler

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(app *fiber.App, h *AnalysisHandler) {
	api := app.Group("/api")

	api.Post("/analyze", h.Analyze)
	api.Get("/progress/:session_id", h.Progress)
	api.Post("/download-csv", h.DownloadCSV)
	api.Get("/health", h.Health)
}
