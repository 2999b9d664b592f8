// Package user implements the current-visitor state container.
package user

import (
	"sync"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/notify"
)

// State is a point-in-time copy of the user slot. It is also the
// persisted record of the store.
type State struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// Store holds at most one current user. Login does not verify credentials;
// that belongs to an external auth service. Subscribers receive states in
// mutation order and must not mutate the store.
type Store struct {
	publish sync.Mutex
	mu      sync.Mutex
	state   State

	changes notify.Broadcaster[State]
}

// NewStore creates an empty, unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// Login stores u as the current user and marks the store authenticated.
func (s *Store) Login(u model.User) {
	s.mutate(func() {
		cp := u.Clone()
		s.state = State{User: &cp, IsAuthenticated: true}
	})
}

// Logout clears the current user.
func (s *Store) Logout() {
	s.mutate(func() {
		s.state = State{}
	})
}

// UpdateUser shallow-merges the patch into the current user. With no
// current user the result holds only the patched fields and the
// authentication flag is left unchanged.
func (s *Store) UpdateUser(patch model.UserPatch) {
	s.mutate(func() {
		var base model.User
		if s.state.User != nil {
			base = *s.state.User
		}
		merged := base.Merge(patch)
		s.state.User = &merged
	})
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Restore replaces the state with a persisted record without notifying
// subscribers.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = copyState(st)
}

// Subscribe registers fn to receive the state after every mutation.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

func (s *Store) mutate(fn func()) {
	s.publish.Lock()
	defer s.publish.Unlock()

	s.mu.Lock()
	fn()
	state := s.stateLocked()
	s.mu.Unlock()

	s.changes.Publish(state)
}

func (s *Store) stateLocked() State {
	return copyState(s.state)
}

func copyState(st State) State {
	if st.User == nil {
		return State{IsAuthenticated: st.IsAuthenticated}
	}
	u := st.User.Clone()
	return State{User: &u, IsAuthenticated: st.IsAuthenticated}
}
