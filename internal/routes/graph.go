package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/graph"
)

// RegisterGraphRoutes wires the GraphQL endpoint.
func RegisterGraphRoutes(r fiber.Router, h *graph.Handler) {
	r.Post("/graphql", h.Query)
}
