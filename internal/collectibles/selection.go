package collectibles

import (
	"errors"

	"github.com/safe-ui/safe_assets/internal/store"
)

// ErrModalOpen is returned when a send is requested while the modal is showing.
var ErrModalOpen = errors.New("send modal already open")

type phase int

const (
	phaseIdle phase = iota
	phaseModalOpen
	phaseModalClosed
)

// SendState is the send workflow of one viewer. The modal can only be open
// with a token selected; after closing, the last selection is retained.
type SendState struct {
	phase phase
	token store.NFTToken
}

// IsOpen reports whether the send modal is showing.
func (s SendState) IsOpen() bool { return s.phase == phaseModalOpen }

// Selected returns the staged token, if any.
func (s SendState) Selected() (store.NFTToken, bool) {
	if s.phase == phaseIdle {
		return store.NFTToken{}, false
	}
	return s.token, true
}

// Phase names the current state for logs and API output.
func (s SendState) Phase() string {
	switch s.phase {
	case phaseModalOpen:
		return "modal_open"
	case phaseModalClosed:
		return "modal_closed"
	default:
		return "idle"
	}
}

// Send stages token and opens the modal.
func (s SendState) Send(token store.NFTToken) (SendState, error) {
	if s.phase == phaseModalOpen {
		return s, ErrModalOpen
	}
	return SendState{phase: phaseModalOpen, token: token}, nil
}

// Close hides the modal and keeps the selection. It reports false when the
// modal was not open, so a close is only effective once per open.
func (s SendState) Close() (SendState, bool) {
	if s.phase != phaseModalOpen {
		return s, false
	}
	return SendState{phase: phaseModalClosed, token: s.token}, true
}
