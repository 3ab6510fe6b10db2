package collectibles

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/store"
)

// Handler exposes collectibles view sessions over HTTP.
type Handler struct {
	sessions *Sessions
	store    *store.Store
}

// NewHandler builds a collectibles HTTP handler.
func NewHandler(sessions *Sessions, st *store.Store) *Handler {
	return &Handler{sessions: sessions, store: st}
}

type sendRequest struct {
	Key       string `json:"key"`
	AssetSlug string `json:"asset_slug"`
	TokenID   string `json:"token_id"`
}

type pageResponse struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
	Page
}

// Open mounts a new view and returns its first page.
func (h *Handler) Open(c *fiber.Ctx) error {
	id, component := h.sessions.Open()
	return c.Status(http.StatusCreated).JSON(h.respond(id, component))
}

// Page renders the current page of a session.
func (h *Handler) Page(c *fiber.Ctx) error {
	id := c.Params("sessionId")
	component, err := h.sessions.Get(id)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.Status(http.StatusOK).JSON(h.respond(id, component))
}

// Send stages a collectible for the send modal.
func (h *Handler) Send(c *fiber.Ctx) error {
	id := c.Params("sessionId")
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	slug, tokenID := req.AssetSlug, req.TokenID
	if req.Key != "" {
		var ok bool
		if slug, tokenID, ok = SplitItemKey(req.Key); !ok {
			return fiber.NewError(http.StatusBadRequest, "malformed key")
		}
	}
	if slug == "" || tokenID == "" {
		return fiber.NewError(http.StatusBadRequest, "key or asset_slug and token_id are required")
	}

	component, err := h.sessions.Get(id)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	if err := component.SendItem(h.store.State(), slug, tokenID); err != nil {
		switch {
		case errors.Is(err, ErrUnknownItem):
			return fiber.NewError(http.StatusNotFound, err.Error())
		case errors.Is(err, ErrModalOpen):
			return fiber.NewError(http.StatusConflict, err.Error())
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.Status(http.StatusOK).JSON(h.respond(id, component))
}

// Close hides the send modal.
func (h *Handler) Close(c *fiber.Ctx) error {
	id := c.Params("sessionId")
	component, err := h.sessions.Get(id)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	component.Close()
	return c.Status(http.StatusOK).JSON(h.respond(id, component))
}

// Unmount ends a session.
func (h *Handler) Unmount(c *fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("sessionId")); err != nil {
		return fiber.NewError(http.StatusNotFound, err.Error())
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) respond(id string, component *Component) pageResponse {
	page := component.Render(h.store.State())
	return pageResponse{
		SessionID: id,
		Phase:     component.SendState().Phase(),
		Page:      page,
	}
}
