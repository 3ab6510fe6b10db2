package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/store"
)

// RegisterActionRoutes wires the store dispatch endpoint behind the given
// guards.
func RegisterActionRoutes(r fiber.Router, h *store.Handler, guards ...fiber.Handler) {
	handlers := append(append([]fiber.Handler{}, guards...), h.Dispatch)
	r.Post("/actions", handlers...)
}
