// Package cart implements the shopping cart state container.
package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/notify"
)

// State is a point-in-time copy of the cart.
type State struct {
	Items  []model.LineItem `json:"items"`
	IsOpen bool             `json:"isOpen"`
}

// TotalItems returns the sum of all quantities.
func (s State) TotalItems() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the undiscounted sum of price times quantity.
func (s State) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// Snapshot is the persisted part of the cart. The drawer flag is view
// state and never leaves the process.
type Snapshot struct {
	Items []model.LineItem `json:"items"`
}

// Store holds the line items of one visitor. Items are unique by ID and
// always carry a positive quantity. Every mutation publishes the new state
// to subscribers after the store lock is released, in mutation order.
// Subscribers may read the store but must not mutate it.
type Store struct {
	// publish serializes mutate so subscribers see states in the order the
	// mutations were applied.
	publish sync.Mutex
	mu      sync.Mutex
	items   []model.LineItem
	isOpen  bool

	changes notify.Broadcaster[State]
}

// NewStore creates an empty, closed cart.
func NewStore() *Store {
	return &Store{
		items: []model.LineItem{},
	}
}

// AddItem increments the quantity of the item with the same ID, or appends
// the item with a quantity of one. The quantity of the argument is ignored.
func (s *Store) AddItem(product model.LineItem) {
	s.mutate(func() {
		if i := s.indexOf(product.ID); i >= 0 {
			s.items[i].Quantity++
			return
		}
		product.Quantity = 1
		s.items = append(s.items, product)
	})
}

// RemoveItem drops the item with the given ID. Unknown IDs are ignored.
func (s *Store) RemoveItem(id string) {
	s.mutate(func() {
		s.items = slices.DeleteFunc(s.items, func(item model.LineItem) bool {
			return item.ID == id
		})
	})
}

// UpdateQuantity sets the quantity of an item. A quantity of zero or less
// removes the item.
func (s *Store) UpdateQuantity(id string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(id)
		return
	}

	s.mutate(func() {
		if i := s.indexOf(id); i >= 0 {
			s.items[i].Quantity = quantity
		}
	})
}

// Clear empties the item list. The drawer flag is left as is.
func (s *Store) Clear() {
	s.mutate(func() {
		s.items = []model.LineItem{}
	})
}

// Toggle flips the drawer flag.
func (s *Store) Toggle() {
	s.mutate(func() { s.isOpen = !s.isOpen })
}

// Open shows the cart drawer.
func (s *Store) Open() {
	s.mutate(func() { s.isOpen = true })
}

// Close hides the cart drawer.
func (s *Store) Close() {
	s.mutate(func() { s.isOpen = false })
}

// State returns a copy of the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// TotalItems returns the sum of all quantities.
func (s *Store) TotalItems() int {
	return s.State().TotalItems()
}

// TotalPrice returns the sum of price times quantity across items.
func (s *Store) TotalPrice() decimal.Decimal {
	return s.State().TotalPrice()
}

// Snapshot returns the persisted part of the cart.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Items: s.State().Items}
}

// Restore replaces the items with a persisted snapshot and closes the
// drawer. Restoring does not notify subscribers. Items that would break the
// store invariants (duplicate IDs, quantity below one) are dropped.
func (s *Store) Restore(snap Snapshot) {
	items := make([]model.LineItem, 0, len(snap.Items))
	seen := make(map[string]struct{}, len(snap.Items))
	for _, item := range snap.Items {
		if item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		items = append(items, item)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.isOpen = false
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
	return State{
		Items:  slices.Clone(s.items),
		IsOpen: s.isOpen,
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item model.LineItem) bool {
		return item.ID == id
	})
}
