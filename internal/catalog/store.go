// Package catalog implements the product list with filter, search and sort
// view state.
package catalog

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
	"github.com/vyrodovalexey/zuice-storefront/internal/notify"
)

// SortOrder selects the ordering of the filtered product view.
type SortOrder string

// Supported sort orders. Any other value sorts by name.
const (
	SortByName      SortOrder = "name"
	SortByPriceLow  SortOrder = "price-low"
	SortByPriceHigh SortOrder = "price-high"
	SortByRating    SortOrder = "rating"
	SortByNewest    SortOrder = "newest"
)

// Default filter bounds.
var (
	DefaultMinPrice = decimal.Zero
	DefaultMaxPrice = decimal.NewFromInt(10000)
)

// PriceRange is an inclusive [min, max] price interval.
type PriceRange [2]decimal.Decimal

// Min returns the lower bound.
func (r PriceRange) Min() decimal.Decimal { return r[0] }

// Max returns the upper bound.
func (r PriceRange) Max() decimal.Decimal { return r[1] }

// Contains reports whether price lies within the range, bounds included.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r[0]) && price.LessThanOrEqual(r[1])
}

// ordered returns the range with its bounds swapped if inverted.
// Equal reports whether both bounds match numerically.
func (r PriceRange) Equal(other PriceRange) bool {
	return r[0].Equal(other[0]) && r[1].Equal(other[1])
}

func (r PriceRange) ordered() PriceRange {
	if r[0].GreaterThan(r[1]) {
		return PriceRange{r[1], r[0]}
	}
	return r
}

// Filters are the criteria applied to the product list.
type Filters struct {
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"priceRange"`
	Rating     float64    `json:"rating"`
	InStock    bool       `json:"inStock"`
}

// DefaultFilters returns the neutral filters: any category, price in
// [0, 10000], any rating, stock ignored.
func DefaultFilters() Filters {
	return Filters{
		PriceRange: PriceRange{DefaultMinPrice, DefaultMaxPrice},
	}
}

// FilterPatch is a partial filter update. Nil fields are left untouched.
type FilterPatch struct {
	Category   *string     `json:"category,omitempty"`
	PriceRange *PriceRange `json:"priceRange,omitempty"`
	Rating     *float64    `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	InStock    *bool       `json:"inStock,omitempty"`
}

// apply merges the patch into f and keeps the price range ordered.
func (p FilterPatch) apply(f Filters) Filters {
	if p.Category != nil {
		f.Category = *p.Category
	}
	if p.PriceRange != nil {
		f.PriceRange = *p.PriceRange
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.InStock != nil {
		f.InStock = *p.InStock
	}
	f.PriceRange = f.PriceRange.ordered()
	return f
}

// State is a point-in-time copy of the store.
type State struct {
	Products    []model.Product `json:"products"`
	Categories  []string        `json:"categories"`
	Filters     Filters         `json:"filters"`
	SortBy      SortOrder       `json:"sortBy"`
	SearchQuery string          `json:"searchQuery"`
}

// Store holds a product list and the view criteria of one visitor. The
// filtered view is derived on demand and never cached; deriving it does not
// touch the product list. Every setter publishes the new state to
// subscribers in mutation order; subscribers must not mutate the store.
type Store struct {
	publish     sync.Mutex
	mu          sync.RWMutex
	products    []model.Product
	categories  []string
	filters     Filters
	sortBy      SortOrder
	searchQuery string

	changes notify.Broadcaster[State]
}

// NewStore creates a store holding products with default filters and name
// ordering.
func NewStore(products []model.Product) *Store {
	s := &Store{
		categories: []string{},
		filters:    DefaultFilters(),
		sortBy:     SortByName,
	}
	s.products = cloneProducts(products)
	return s
}

// SetProducts replaces the product list.
func (s *Store) SetProducts(products []model.Product) {
	cp := cloneProducts(products)
	s.mutate(func() { s.products = cp })
}

// ReplaceProducts replaces the product list like SetProducts. When the price
// filter still spans the whole previous list it is widened to span the new
// one, so the unfiltered view keeps listing every product. A narrowed range
// is left alone.
func (s *Store) ReplaceProducts(products []model.Product) {
	cp := cloneProducts(products)
	s.mutate(func() {
		if s.filters.PriceRange.Equal(PriceBounds(s.products)) {
			s.filters.PriceRange = PriceBounds(cp)
		}
		s.products = cp
	})
}

// SetCategories replaces the category list.
func (s *Store) SetCategories(categories []string) {
	cp := slices.Clone(categories)
	if cp == nil {
		cp = []string{}
	}
	s.mutate(func() { s.categories = cp })
}

// UpdateFilters shallow-merges patch into the current filters.
func (s *Store) UpdateFilters(patch FilterPatch) {
	s.mutate(func() { s.filters = patch.apply(s.filters) })
}

// SetSortBy sets the ordering of the filtered view.
func (s *Store) SetSortBy(order SortOrder) {
	s.mutate(func() { s.sortBy = order })
}

// SetSearchQuery sets the free-text search query.
func (s *Store) SetSearchQuery(query string) {
	s.mutate(func() { s.searchQuery = query })
}

// State returns a copy of the store.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
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
		Products:    cloneProducts(s.products),
		Categories:  slices.Clone(s.categories),
		Filters:     s.filters,
		SortBy:      s.sortBy,
		SearchQuery: s.searchQuery,
	}
}

// Categories returns the configured categories, or the distinct product
// categories in first-seen order when none are configured.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.categories) > 0 {
		return slices.Clone(s.categories)
	}

	seen := make(map[string]struct{})
	categories := []string{}
	for _, p := range s.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

// Product returns the product with the given ID.
func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return model.Product{}, false
}

// FilteredProducts returns the products matching the search query and
// filters, ordered by the sort order.
func (s *Store) FilteredProducts() []model.Product {
	s.mu.RLock()
	products := cloneProducts(s.products)
	query := Query{
		Search:  s.searchQuery,
		Filters: s.filters,
		SortBy:  s.sortBy,
	}
	s.mu.RUnlock()

	return query.Apply(products)
}

// Query is a one-shot search, filter and sort over a product list.
type Query struct {
	Search  string
	Filters Filters
	SortBy  SortOrder
}

// Apply returns the matching products in order. The input slice is not
// modified.
func (q Query) Apply(products []model.Product) []model.Product {
	search := strings.ToLower(q.Search)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if q.matches(p, search) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, q.comparator())
	return out
}

func (q Query) matches(p model.Product, search string) bool {
	if search != "" &&
		!strings.Contains(strings.ToLower(p.Name), search) &&
		!strings.Contains(strings.ToLower(p.Description), search) {
		return false
	}

	f := q.Filters
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if !f.PriceRange.ordered().Contains(p.Price) {
		return false
	}
	if f.Rating > 0 && p.Rating < f.Rating {
		return false
	}
	if f.InStock && !p.InStock() {
		return false
	}
	return true
}

func (q Query) comparator() func(a, b model.Product) int {
	switch q.SortBy {
	case SortByPriceLow:
		return func(a, b model.Product) int { return a.Price.Cmp(b.Price) }
	case SortByPriceHigh:
		return func(a, b model.Product) int { return b.Price.Cmp(a.Price) }
	case SortByRating:
		return func(a, b model.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortByNewest:
		return func(a, b model.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	default:
		// collate.Collator keeps a buffer and is not safe for concurrent
		// use, so every query gets its own.
		col := collate.New(language.English)
		return func(a, b model.Product) int { return col.CompareString(a.Name, b.Name) }
	}
}

func cloneProducts(products []model.Product) []model.Product {
	out := make([]model.Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
	}
	return out
}
