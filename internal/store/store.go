package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Listener is notified with each snapshot published by Dispatch.
type Listener func(State)

// Store owns the canonical entity state. Writes go through Dispatch only;
// reads return immutable snapshots and never block on writers.
type Store struct {
	dispatchMu sync.Mutex
	current    atomic.Pointer[State]
	validator  *Validator
	logger     *slog.Logger

	subsMu  sync.Mutex
	nextSub uint64
	subs    map[uint64]Listener
	order   []uint64
}

// New constructs an empty store.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		validator: NewValidator(),
		logger:    logger,
		subs:      make(map[uint64]Listener),
	}
	initial := NewState()
	s.current.Store(&initial)
	return s
}

// State returns the most recently published snapshot.
func (s *Store) State() State {
	return *s.current.Load()
}

// Dispatch validates and applies an action. The resulting snapshot is
// visible to State before Dispatch returns and before listeners run.
// Listeners run synchronously in subscription order and must not call
// Dispatch themselves.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	if err := ctx.Err(); err != nil {
		return s.State(), err
	}
	if a == nil {
		return s.State(), fmt.Errorf("%w: nil action", ErrUnknownAction)
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	prev := s.current.Load()
	if err := s.validator.Check(a); err != nil {
		s.logger.Warn("action rejected", slog.String("type", string(a.Type())), slog.Any("error", err))
		return *prev, err
	}

	next, err := Reduce(*prev, a)
	if err != nil {
		return *prev, err
	}
	s.current.Store(&next)

	s.logger.Debug("action applied",
		slog.String("type", string(a.Type())),
		slog.Uint64("version", next.Version()),
	)

	for _, l := range s.listeners() {
		l(next)
	}
	return next, nil
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = l
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()
			delete(s.subs, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) listeners() []Listener {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.subs[id])
	}
	return out
}

