// Package http содержит HTTP API сервиса заметок.
package http

import (
	"github.com/gofiber/fiber/v3"

	"notesapi/internal/notes/ports/api"
)

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, notes api.NoteService, health api.HealthChecker) {
	handler := NewHandler(notes, NewValidator())

	app.Use(NewRequestIDMiddleware())
	app.Use(NewLoggerMiddleware())
	app.Use(NewRecoveryMiddleware())

	app.Get("/health", Health(health))

	noteRoutes := app.Group("/api/v1/notes")
	noteRoutes.Get("/", handler.ListNotes)
	noteRoutes.Get("/search", handler.SearchNotes)
	noteRoutes.Get("/:id", handler.GetNote)
	noteRoutes.Post("/", handler.CreateNote)
	noteRoutes.Put("/:id", handler.UpdateNote)
	noteRoutes.Delete("/:id", handler.DeleteNote)

	app.Use(func(ctx fiber.Ctx) error {
		return respond(ctx, fiber.StatusNotFound, ErrorResponse{Error: "Route not found"})
	})
}
