package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/collectibles"
)

// RegisterCollectiblesRoutes wires view session endpoints. Guards run before
// the POST handlers only.
func RegisterCollectiblesRoutes(r fiber.Router, h *collectibles.Handler, guards ...fiber.Handler) {
	post := func(path string, handler fiber.Handler) {
		handlers := append(append([]fiber.Handler{}, guards...), handler)
		r.Post(path, handlers...)
	}

	post("/collectibles/sessions", h.Open)
	r.Get("/collectibles/sessions/:sessionId", h.Page)
	post("/collectibles/sessions/:sessionId/send", h.Send)
	post("/collectibles/sessions/:sessionId/close", h.Close)
	r.Delete("/collectibles/sessions/:sessionId", h.Unmount)
}
