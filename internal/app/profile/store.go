package profile

import (
	"sync"

	"mypage/internal/identity"
)

// State is the profile snapshot held by a Store. Every field defaults to the
// empty string, never to a nil-like value, so rendering stays total.
type State struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Introduce string `json:"introduce"`
	AvatarURL string `json:"avatarUrl"`
}

// Store is a single-slot state container for the current user's profile,
// scoped to one mounted authenticated view tree. It is hydrated exactly once
// per mount from the resolved session and profile, replaced wholesale on every
// successful update, and reset to defaults when the session resolves to nothing.
//
// Write admission is not the store's job: at most one submission is in flight
// per form instance, enforced by the UpdateCoordinator. The mutex only keeps
// the slot itself consistent under Go's concurrent handlers.
type Store struct {
	mu    sync.RWMutex
	state State
}

// NewStore returns a store holding the all-defaults state.
func NewStore() *Store {
	return &Store{}
}

// Get returns the current state snapshot.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Set replaces the state wholesale. It never merges with the prior value.
func (s *Store) Set(next State) {
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
}

// Reset restores the all-defaults state.
func (s *Store) Reset() {
	s.Set(State{})
}

// Hydrate populates the store from a resolved session and profile. A nil
// session resets the store so a previous user's data never leaks across a
// logout/login transition. A nil profile (row fetch failed or not yet created)
// still carries the session identity so views can render something sensible.
func (s *Store) Hydrate(sess *identity.Session, p *Profile) {
	if sess == nil {
		s.Reset()
		return
	}

	if p == nil {
		s.Set(State{ID: sess.UserID, Email: sess.Email})
		return
	}

	s.Set(StateFrom(p))
}

// StateFrom converts a Profile row into the store's State shape.
func StateFrom(p *Profile) State {
	return State{
		ID:        p.ID,
		Email:     p.Email,
		Name:      p.Name,
		Introduce: p.Introduce,
		AvatarURL: p.AvatarURL,
	}
}
