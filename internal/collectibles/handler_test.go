package collectibles

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/safe-ui/safe_assets/internal/logging"
	"github.com/safe-ui/safe_assets/internal/store"
)

func setupTestApp(t *testing.T) (*fiber.App, *Sessions, *store.Store) {
	t.Helper()
	st := newSeededStore(t)
	dispatch(t, st, store.UpdateSafe(store.Safe{Address: "0xSAFE", EthBalance: "1.0"}))
	sessions := NewSessions(st, nil, time.Minute, logging.Discard())
	h := NewHandler(sessions, st)

	app := fiber.New()
	app.Post("/sessions", h.Open)
	app.Get("/sessions/:sessionId", h.Page)
	app.Post("/sessions/:sessionId/send", h.Send)
	app.Post("/sessions/:sessionId/close", h.Close)
	app.Delete("/sessions/:sessionId", h.Unmount)
	return app, sessions, st
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, pageResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out pageResponse
	if resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode, out
}

func TestHandlerSendAndCloseFlow(t *testing.T) {
	app, sessions, _ := setupTestApp(t)

	status, opened := doJSON(t, app, fiber.MethodPost, "/sessions", "")
	if status != http.StatusCreated {
		t.Fatalf("open: expected %d got %d", http.StatusCreated, status)
	}
	if opened.SessionID == "" || len(opened.Groups) != 2 || opened.Phase != "idle" {
		t.Fatalf("unexpected first page: %+v", opened)
	}
	if opened.Modal.EthBalance == nil || *opened.Modal.EthBalance != "1.0" {
		t.Fatalf("expected eth balance in modal props, got %+v", opened.Modal)
	}
	base := "/sessions/" + opened.SessionID

	status, sent := doJSON(t, app, fiber.MethodPost, base+"/send", `{"asset_slug":"kitties","token_id":"7"}`)
	if status != http.StatusOK {
		t.Fatalf("send: expected 200 got %d", status)
	}
	if !sent.Modal.IsOpen || sent.Modal.SelectedToken == nil || sent.Modal.SelectedToken.TokenID != "7" {
		t.Fatalf("unexpected modal after send: %+v", sent.Modal)
	}

	if status, _ := doJSON(t, app, fiber.MethodPost, base+"/send", `{"key":"punks_1"}`); status != http.StatusConflict {
		t.Fatalf("send while open: expected 409 got %d", status)
	}

	status, closed := doJSON(t, app, fiber.MethodPost, base+"/close", "")
	if status != http.StatusOK {
		t.Fatalf("close: expected 200 got %d", status)
	}
	if closed.Modal.IsOpen || closed.Modal.SelectedToken == nil || closed.Modal.SelectedToken.TokenID != "7" {
		t.Fatalf("unexpected modal after close: %+v", closed.Modal)
	}

	if status, _ := doJSON(t, app, fiber.MethodDelete, base, ""); status != http.StatusNoContent {
		t.Fatalf("unmount: expected 204 got %d", status)
	}
	if sessions.Len() != 0 {
		t.Fatalf("expected session to be removed")
	}
	if status, _ := doJSON(t, app, fiber.MethodGet, base, ""); status != http.StatusNotFound {
		t.Fatalf("get after unmount: expected 404 got %d", status)
	}
}

func TestHandlerSendValidation(t *testing.T) {
	app, _, _ := setupTestApp(t)
	_, opened := doJSON(t, app, fiber.MethodPost, "/sessions", "")
	base := "/sessions/" + opened.SessionID

	if status, _ := doJSON(t, app, fiber.MethodPost, base+"/send", `{}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty send, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodPost, base+"/send", `{"key":"kitties"}`); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed key, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodPost, base+"/send", `{"asset_slug":"kitties_7","token_id":"1"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for a pair that only matches as a joined key, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodPost, base+"/send", `{"key":"kitties_404"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodPost, "/sessions/missing/send", `{"key":"kitties_7"}`); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", status)
	}
}

func TestSessionsSweepExpiresIdleViews(t *testing.T) {
	st := newSeededStore(t)
	sessions := NewSessions(st, nil, time.Minute, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	sessions.now = func() time.Time { return now }

	stale, _ := sessions.Open()
	now = now.Add(45 * time.Second)
	fresh, _ := sessions.Open()
	now = now.Add(30 * time.Second)

	if removed := sessions.Sweep(); removed != 1 {
		t.Fatalf("expected 1 expired session, got %d", removed)
	}
	if _, err := sessions.Get(stale); err != ErrSessionNotFound {
		t.Fatalf("expected stale session to be gone, got %v", err)
	}
	if _, err := sessions.Get(fresh); err != nil {
		t.Fatalf("fresh session: %v", err)
	}
}
