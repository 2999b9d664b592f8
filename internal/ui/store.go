// Package ui implements the transient view-state flags of a visitor.
package ui

import (
	"sync"

	"github.com/vyrodovalexey/zuice-storefront/internal/notify"
)

// State holds independent view flags. It is never persisted.
type State struct {
	IsMobileMenuOpen bool `json:"isMobileMenuOpen"`
	IsSearchOpen     bool `json:"isSearchOpen"`
	IsLoading        bool `json:"isLoading"`
}

// Store holds the UI flags of one visitor. Subscribers receive flags in
// mutation order and must not mutate the store.
type Store struct {
	publish sync.Mutex
	mu      sync.Mutex
	state   State

	changes notify.Broadcaster[State]
}

// NewStore creates a store with every flag cleared.
func NewStore() *Store {
	return &Store{}
}

// ToggleMobileMenu flips the mobile menu flag.
func (s *Store) ToggleMobileMenu() {
	s.mutate(func(st *State) { st.IsMobileMenuOpen = !st.IsMobileMenuOpen })
}

// CloseMobileMenu clears the mobile menu flag. Navigation calls it on every
// route change.
func (s *Store) CloseMobileMenu() {
	s.mutate(func(st *State) { st.IsMobileMenuOpen = false })
}

// ToggleSearch flips the search overlay flag.
func (s *Store) ToggleSearch() {
	s.mutate(func(st *State) { st.IsSearchOpen = !st.IsSearchOpen })
}

// CloseSearch clears the search overlay flag.
func (s *Store) CloseSearch() {
	s.mutate(func(st *State) { st.IsSearchOpen = false })
}

// SetLoading sets the global loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mutate(func(st *State) { st.IsLoading = loading })
}

// State returns the current flags.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive the flags after every mutation.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	return s.changes.Subscribe(fn)
}

func (s *Store) mutate(fn func(*State)) {
	s.publish.Lock()
	defer s.publish.Unlock()

	s.mu.Lock()
	fn(&s.state)
	state := s.state
	s.mu.Unlock()

	s.changes.Publish(state)
}
