package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

func testProducts() []model.Product {
	day := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	return []model.Product{
		{ID: "b", Name: "beta inverter", Category: "PCU", Price: decimal.NewFromInt(3000), Rating: 4.1, Stock: 2,
			Description: "Hybrid unit", CreatedAt: day},
		{ID: "a", Name: "Alpha Kit", Category: "Accessories", Price: decimal.NewFromInt(500), Rating: 4.9, Stock: 0,
			Description: "Monitoring add-on", CreatedAt: day.AddDate(0, 0, 2)},
		{ID: "c", Name: "Charlie Panel", Category: "PCU", Price: decimal.NewFromInt(9000), Rating: 3.5, Stock: 5,
			Description: "Solar array with battery", CreatedAt: day.AddDate(0, 0, 1)},
		{ID: "é", Name: "Éclair Meter", Category: "Accessories", Price: decimal.NewFromInt(500), Rating: 4.9, Stock: 1,
			Description: "Energy meter", CreatedAt: day.AddDate(0, 0, -1)},
	}
}

func ids(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestStore_DefaultsReturnAllByName(t *testing.T) {
	s := NewStore(testProducts())

	got := s.FilteredProducts()

	// Locale-aware: case and accents do not push names to the end.
	assert.Equal(t, []string{"a", "b", "c", "é"}, ids(got))
}

func TestStore_DefaultState(t *testing.T) {
	s := NewStore(nil)

	st := s.State()
	assert.Equal(t, SortByName, st.SortBy)
	assert.Empty(t, st.SearchQuery)
	assert.Equal(t, DefaultFilters(), st.Filters)
	assert.True(t, st.Filters.PriceRange.Min().Equal(decimal.Zero))
	assert.True(t, st.Filters.PriceRange.Max().Equal(decimal.NewFromInt(10000)))
	assert.NotNil(t, st.Products)
	assert.NotNil(t, st.Categories)
}

func TestStore_Sorting(t *testing.T) {
	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByPriceLow, []string{"a", "é", "b", "c"}},
		{SortByPriceHigh, []string{"c", "b", "a", "é"}},
		{SortByRating, []string{"a", "é", "b", "c"}},
		{SortByNewest, []string{"a", "c", "b", "é"}},
		{SortByName, []string{"a", "b", "c", "é"}},
		{SortOrder("unknown"), []string{"a", "b", "c", "é"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			s := NewStore(testProducts())
			s.SetSortBy(tt.order)

			assert.Equal(t, tt.want, ids(s.FilteredProducts()))
		})
	}
}

func TestStore_PriceLowIsNonDecreasing(t *testing.T) {
	s := NewStore(SeedProducts())
	bounds := PriceBounds(SeedProducts())
	s.UpdateFilters(FilterPatch{PriceRange: &bounds})
	s.SetSortBy(SortByPriceLow)

	got := s.FilteredProducts()

	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Price.LessThanOrEqual(got[i].Price), "%s > %s", got[i-1].Price, got[i].Price)
	}
}

func TestStore_Search(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"INVERTER", []string{"b"}},
		{"battery", []string{"c"}},
		{"meter", []string{"é"}},
		{"", []string{"a", "b", "c", "é"}},
		{"nothing like this", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := NewStore(testProducts())
			s.SetSearchQuery(tt.query)

			assert.Equal(t, tt.want, ids(s.FilteredProducts()))
		})
	}
}

func TestStore_Filters(t *testing.T) {
	category := "PCU"
	empty := ""
	rating := 4.5
	zero := 0.0
	inStock := true
	tight := PriceRange{decimal.NewFromInt(500), decimal.NewFromInt(3000)}

	tests := []struct {
		name  string
		patch FilterPatch
		want  []string
	}{
		{"category", FilterPatch{Category: &category}, []string{"b", "c"}},
		{"empty category is any", FilterPatch{Category: &empty}, []string{"a", "b", "c", "é"}},
		{"inclusive price range", FilterPatch{PriceRange: &tight}, []string{"a", "b", "é"}},
		{"minimum rating", FilterPatch{Rating: &rating}, []string{"a", "é"}},
		{"zero rating disables", FilterPatch{Rating: &zero}, []string{"a", "b", "c", "é"}},
		{"in stock", FilterPatch{InStock: &inStock}, []string{"b", "c", "é"}},
		{"combined", FilterPatch{Category: &category, InStock: &inStock, PriceRange: &tight}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(testProducts())
			s.UpdateFilters(tt.patch)

			assert.Equal(t, tt.want, ids(s.FilteredProducts()))
		})
	}
}

func TestStore_UpdateFiltersMergesShallowly(t *testing.T) {
	s := NewStore(testProducts())
	category := "PCU"
	inStock := true

	s.UpdateFilters(FilterPatch{Category: &category})
	s.UpdateFilters(FilterPatch{InStock: &inStock})

	f := s.State().Filters
	assert.Equal(t, "PCU", f.Category)
	assert.True(t, f.InStock)
	assert.True(t, f.PriceRange.Max().Equal(DefaultMaxPrice))
}

func TestStore_UpdateFiltersOrdersPriceRange(t *testing.T) {
	s := NewStore(testProducts())
	inverted := PriceRange{decimal.NewFromInt(3000), decimal.NewFromInt(500)}

	s.UpdateFilters(FilterPatch{PriceRange: &inverted})

	f := s.State().Filters
	assert.True(t, f.PriceRange.Min().LessThanOrEqual(f.PriceRange.Max()))
	assert.Equal(t, []string{"a", "b", "é"}, ids(s.FilteredProducts()))
}

func TestStore_FilteringDoesNotMutateProducts(t *testing.T) {
	s := NewStore(testProducts())
	before := ids(s.State().Products)

	s.SetSortBy(SortByPriceHigh)
	got := s.FilteredProducts()
	got[0].Name = "mutated"

	assert.Equal(t, before, ids(s.State().Products))
	p, ok := s.Product(got[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, "mutated", p.Name)
}

func TestStore_FilterOrderDoesNotMatter(t *testing.T) {
	category := "Accessories"
	rating := 4.0
	inStock := true

	first := NewStore(testProducts())
	first.UpdateFilters(FilterPatch{Category: &category})
	first.UpdateFilters(FilterPatch{Rating: &rating})
	first.SetSearchQuery("e")
	first.UpdateFilters(FilterPatch{InStock: &inStock})

	second := NewStore(testProducts())
	second.UpdateFilters(FilterPatch{InStock: &inStock})
	second.SetSearchQuery("e")
	second.UpdateFilters(FilterPatch{Rating: &rating, Category: &category})

	assert.Equal(t, ids(first.FilteredProducts()), ids(second.FilteredProducts()))
}

func TestStore_SetProductsCopiesInput(t *testing.T) {
	products := testProducts()
	s := NewStore(nil)

	s.SetProducts(products)
	products[0].Name = "changed"

	p, ok := s.Product("b")
	require.True(t, ok)
	assert.Equal(t, "beta inverter", p.Name)
}

func TestStore_SubscribersReceiveEveryMutation(t *testing.T) {
	s := NewStore(nil)
	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	s.SetProducts(testProducts())
	s.SetCategories([]string{"PCU"})
	rating := 4.0
	s.UpdateFilters(FilterPatch{Rating: &rating})
	s.SetSortBy(SortByPriceLow)
	s.SetSearchQuery("meter")

	require.Len(t, got, 5)
	assert.Len(t, got[0].Products, 4)
	assert.Equal(t, []string{"PCU"}, got[1].Categories)
	assert.Equal(t, 4.0, got[2].Filters.Rating)
	assert.Equal(t, SortByPriceLow, got[3].SortBy)
	assert.Equal(t, "meter", got[4].SearchQuery)
	assert.Equal(t, s.State(), got[4])

	unsubscribe()
	s.SetSearchQuery("")
	assert.Len(t, got, 5)
}

func TestStore_ReplaceProductsWidensUntouchedPriceRange(t *testing.T) {
	s := NewStore(testProducts())
	pricey := []model.Product{{ID: "x", Name: "Utility PCU", Price: decimal.NewFromInt(250000)}}

	s.ReplaceProducts(pricey)

	assert.True(t, s.State().Filters.PriceRange.Max().Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, []string{"x"}, ids(s.FilteredProducts()))
}

func TestStore_ReplaceProductsKeepsNarrowedPriceRange(t *testing.T) {
	s := NewStore(testProducts())
	narrow := PriceRange{decimal.NewFromInt(100), decimal.NewFromInt(600)}
	s.UpdateFilters(FilterPatch{PriceRange: &narrow})

	s.ReplaceProducts([]model.Product{{ID: "x", Name: "Utility PCU", Price: decimal.NewFromInt(250000)}})

	assert.True(t, s.State().Filters.PriceRange.Equal(narrow))
	assert.Empty(t, s.FilteredProducts())
}

func TestStore_Categories(t *testing.T) {
	s := NewStore(testProducts())

	assert.Equal(t, []string{"PCU", "Accessories"}, s.Categories())

	s.SetCategories([]string{"Inverters", "Batteries"})
	assert.Equal(t, []string{"Inverters", "Batteries"}, s.Categories())
	assert.Equal(t, []string{"Inverters", "Batteries"}, s.State().Categories)

	s.SetCategories(nil)
	assert.Equal(t, []string{"PCU", "Accessories"}, s.Categories())
}

func TestStore_ProductLookup(t *testing.T) {
	s := NewStore(testProducts())

	p, ok := s.Product("c")
	assert.True(t, ok)
	assert.Equal(t, "Charlie Panel", p.Name)

	_, ok = s.Product("zzz")
	assert.False(t, ok)
}

func TestSeedProducts(t *testing.T) {
	products := SeedProducts()

	require.Len(t, products, 4)
	for _, p := range products {
		assert.NoError(t, p.Validate(), p.ID)
	}
	assert.True(t, PriceBounds(products).Max().Equal(decimal.NewFromInt(75000)))
}

func TestPriceBoundsKeepsDefaultUpperBound(t *testing.T) {
	bounds := PriceBounds([]model.Product{{Price: decimal.NewFromInt(10)}})

	assert.True(t, bounds.Max().Equal(DefaultMaxPrice))
	assert.True(t, bounds.Min().Equal(decimal.Zero))
}
