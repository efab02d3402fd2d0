// Package actionstore holds the authoritative state of every action in a
// conversation session.
//
// The Store is an in-memory map guarded by a single update path. Every
// change is delivered to subscribers in the order the updates were applied,
// so a live view never sees an action move backwards. Records are never
// evicted; a Store lives as long as the session that owns it.
package actionstore

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

// Change is a snapshot of one record right after it was registered or updated.
type Change struct {
	ID    string
	State domain.ActionState
}

// Store maps action ids to their current state.
type Store struct {
	mu      sync.RWMutex
	actions map[string]domain.ActionState
	order   []string

	subs    map[int]*subscriber
	nextSub int

	logger *slog.Logger
}

// New returns an empty Store. A nil logger discards output.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		actions: make(map[string]domain.ActionState),
		subs:    make(map[int]*subscriber),
		logger:  logger.With("component", "actionstore"),
	}
}

// Register adds state under state.ID. It reports false, leaving the
// existing record untouched, when the id is already present.
func (s *Store) Register(state domain.ActionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.actions[state.ID]; exists {
		return false
	}
	s.actions[state.ID] = state
	s.order = append(s.order, state.ID)
	s.publishLocked(Change{ID: state.ID, State: state})
	return true
}

// Get returns the record for id.
func (s *Store) Get(id string) (domain.ActionState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.actions[id]
	return state, ok
}

// Snapshot returns a copy of the id to state mapping.
func (s *Store) Snapshot() map[string]domain.ActionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]domain.ActionState, len(s.actions))
	for id, state := range s.actions {
		out[id] = state
	}
	return out
}

// List returns every record in registration order.
func (s *Store) List() []domain.ActionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ActionState, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.actions[id])
	}
	return out
}

// Update merges u into the record for id and returns the result.
//
// Aborted is sticky: once a record is aborted, a status in u other than
// aborted is dropped and ErrActionAborted is returned alongside the record
// with the remaining fields applied.
func (s *Store) Update(id string, u domain.Update) (domain.ActionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.actions[id]
	if !ok {
		return domain.ActionState{}, fmt.Errorf("actionstore: update %s: %w", id, domain.ErrActionNotFound)
	}

	var dropped error
	if u.Status != nil && old.Status.Code() == domain.StatusAborted && u.Status.Code() != domain.StatusAborted {
		dropped = fmt.Errorf("actionstore: update %s to %s: %w", id, u.Status.Code(), domain.ErrActionAborted)
		u.Status = nil
	}

	next := u.Apply(old)
	if old.Status != next.Status {
		s.logger.Debug("action state update",
			"id", id,
			"kind", next.Kind(),
			"old_status", old.Status.Code(),
			"new_status", next.Status.Code(),
		)
	}
	s.actions[id] = next
	s.publishLocked(Change{ID: id, State: next})
	return next, dropped
}

// Abort moves the record for id to aborted unless it has already settled.
// It reports whether the status changed.
func (s *Store) Abort(id string) (domain.ActionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.actions[id]
	if !ok || old.Status.IsTerminal() {
		return old, false
	}

	next := domain.StatusUpdate(domain.Aborted()).Apply(old)
	s.logger.Debug("action state update",
		"id", id,
		"kind", next.Kind(),
		"old_status", old.Status.Code(),
		"new_status", next.Status.Code(),
	)
	s.actions[id] = next
	s.publishLocked(Change{ID: id, State: next})
	return next, true
}

// Subscribe calls fn with every subsequent change. Calls happen on a
// dedicated goroutine, one at a time, in update order. The returned
// function stops delivery; changes still queued at that point are dropped.
func (s *Store) Subscribe(fn func(Change)) func() {
	sub := newSubscriber(fn, s.logger)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.mu.Unlock()

	go sub.loop()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			sub.stop()
		})
	}
}

func (s *Store) publishLocked(c Change) {
	for _, sub := range s.subs {
		sub.push(c)
	}
}
