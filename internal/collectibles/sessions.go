package collectibles

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/safe-ui/safe_assets/internal/analytics"
	"github.com/safe-ui/safe_assets/internal/store"
)

// ErrSessionNotFound is returned for unknown or expired view sessions.
var ErrSessionNotFound = errors.New("view session not found")

type session struct {
	component *Component
	lastSeen  time.Time
}

// Sessions keeps one mounted Component per viewer and unmounts components
// that have been idle longer than the configured TTL.
type Sessions struct {
	store   *store.Store
	tracker analytics.Tracker
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*session
}

// NewSessions builds a registry mounting components on st.
func NewSessions(st *store.Store, tracker analytics.Tracker, ttl time.Duration, logger *slog.Logger) *Sessions {
	return &Sessions{
		store:   st,
		tracker: tracker,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		items:   make(map[string]*session),
	}
}

// Open mounts a new component and returns its session id.
func (s *Sessions) Open() (string, *Component) {
	id := uuid.NewString()
	c := NewComponent(s.tracker, s.logger)
	c.Mount(s.store)

	s.mu.Lock()
	s.items[id] = &session{component: c, lastSeen: s.now()}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info("collectibles view mounted", slog.String("session_id", id))
	}
	return id, c
}

// Get returns the component of a live session and refreshes its idle timer.
func (s *Sessions) Get(id string) (*Component, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = s.now()
	return sess.component, nil
}

// Close unmounts and forgets a session.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	sess, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	sess.component.Unmount()
	return nil
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep unmounts sessions idle for longer than the TTL and returns how many
// were removed. A non-positive TTL disables expiry.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*session
	for id, sess := range s.items {
		if sess.lastSeen.Before(cutoff) {
			expired = append(expired, sess)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.component.Unmount()
	}
	if len(expired) > 0 && s.logger != nil {
		s.logger.Info("expired collectibles views", slog.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps on every interval until ctx is cancelled, then unmounts all
// remaining sessions.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	items := s.items
	s.items = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range items {
		sess.component.Unmount()
	}
}
