package store

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the dispatch endpoint.
type Handler struct {
	store *Store
}

// NewHandler builds a dispatch HTTP handler.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// Dispatch decodes an action envelope from the body and applies it.
func (h *Handler) Dispatch(c *fiber.Ctx) error {
	action, err := DecodeAction(c.Body())
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	state, err := h.store.Dispatch(c.UserContext(), action)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCollectible), errors.Is(err, ErrInvalidSafe):
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, ErrUnknownAction):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"type":    action.Type(),
		"version": state.Version(),
	})
}
