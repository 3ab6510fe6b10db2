package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/selectors"
	"github.com/safe-ui/safe_assets/internal/store"
)

// RegisterAssetRoutes wires read endpoints over the current store snapshot.
func RegisterAssetRoutes(r fiber.Router, st *store.Store) {
	r.Get("/tokens", func(c *fiber.Ctx) error {
		s := st.State()
		return c.JSON(fiber.Map{
			"version": s.Version(),
			"tokens":  selectors.Tokens(s),
		})
	})

	r.Get("/tokens/:address", func(c *fiber.Ctx) error {
		token, ok := st.State().Token(c.Params("address"))
		if !ok {
			return fiber.NewError(http.StatusNotFound, "token not found")
		}
		return c.JSON(token)
	})

	r.Get("/safe", func(c *fiber.Ctx) error {
		safe, ok := selectors.Safe(st.State())
		if !ok {
			return fiber.NewError(http.StatusNotFound, "safe not loaded")
		}
		return c.JSON(safe)
	})
}
