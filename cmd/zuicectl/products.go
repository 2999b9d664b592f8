package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/zuice-storefront/internal/catalog"
	"github.com/vyrodovalexey/zuice-storefront/internal/model"
)

var sortOrders = []catalog.SortOrder{
	catalog.SortByName,
	catalog.SortByPriceLow,
	catalog.SortByPriceHigh,
	catalog.SortByRating,
	catalog.SortByNewest,
}

type productsOptions struct {
	search   string
	category string
	minPrice string
	maxPrice string
	rating   float64
	inStock  bool
	sortBy   string
}

func newProductsCmd() *cobra.Command {
	opts := productsOptions{}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products through the storefront filters",
		Long: `List the built-in catalog with the same search, filters and sort
order a visitor can apply.

Search matches name and description, case-insensitively. An inverted
price range is swapped. A rating of 0 disables the rating filter.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runProducts(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.search, "search", "q", "", "search text")
	f.StringVarP(&opts.category, "category", "c", "", "only this category")
	f.StringVar(&opts.minPrice, "min-price", "", "lowest price (default 0)")
	f.StringVar(&opts.maxPrice, "max-price", "", "highest price (default covers every product)")
	f.Float64Var(&opts.rating, "rating", 0, "minimum rating")
	f.BoolVar(&opts.inStock, "in-stock", false, "only products in stock")
	f.StringVar(&opts.sortBy, "sort", string(catalog.SortByName), "sort order (name, price-low, price-high, rating, newest)")
	return cmd
}

// query builds the catalog query. Unset price bounds fall back to the
// bounds of products.
func (o productsOptions) query(products []model.Product) (catalog.Query, error) {
	bounds := catalog.PriceBounds(products)
	lo, err := parsePrice("--min-price", o.minPrice, bounds.Min())
	if err != nil {
		return catalog.Query{}, err
	}
	hi, err := parsePrice("--max-price", o.maxPrice, bounds.Max())
	if err != nil {
		return catalog.Query{}, err
	}
	if o.rating < 0 || o.rating > model.MaxRating {
		return catalog.Query{}, fmt.Errorf("invalid --rating %v: %w", o.rating, model.ErrInvalidRating)
	}
	order := catalog.SortOrder(o.sortBy)
	if !slices.Contains(sortOrders, order) {
		return catalog.Query{}, fmt.Errorf("invalid --sort %q", o.sortBy)
	}

	return catalog.Query{
		Search: o.search,
		Filters: catalog.Filters{
			Category:   o.category,
			PriceRange: catalog.PriceRange{lo, hi},
			Rating:     o.rating,
			InStock:    o.inStock,
		},
		SortBy: order,
	}, nil
}

func parsePrice(flag, value string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", flag, value, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", flag, value, model.ErrNegativePrice)
	}
	return d, nil
}

func runProducts(cmd *cobra.Command, opts productsOptions) error {
	seed := catalog.SeedProducts()
	q, err := opts.query(seed)
	if err != nil {
		return err
	}

	products := q.Apply(seed)
	out := cmd.OutOrStdout()
	if len(products) == 0 {
		fmt.Fprintln(out, "No products found")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE\tRATING\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Category, p.Price.StringFixed(2),
			strconv.FormatFloat(p.Rating, 'f', 1, 64), stockLabel(p))
	}
	return tw.Flush()
}

func stockLabel(p model.Product) string {
	if p.InStock() {
		return "in stock"
	}
	return "out"
}
