// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Validation errors for Product and LineItem.
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrNameTooLong      = errors.New("name cannot exceed 255 characters")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrDescriptionLimit = errors.New("description cannot exceed 1000 characters")
	ErrInvalidRating    = errors.New("rating must be between 0 and 5")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

// Validation constants.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxRating            = 5
)

var productRules = map[rule]error{
	{"ID", "required"}:     ErrEmptyID,
	{"Name", "required"}:   ErrEmptyName,
	{"Name", "max"}:        ErrNameTooLong,
	{"Description", "max"}: ErrDescriptionLimit,
	{"Rating", "gte"}:      ErrInvalidRating,
	{"Rating", "lte"}:      ErrInvalidRating,
	{"Stock", "gte"}:       ErrNegativeStock,
}

// Product is a catalog entry of the storefront.
type Product struct {
	ID             string            `json:"id" validate:"required,max=64"`
	Name           string            `json:"name" validate:"required,max=255"`
	Category       string            `json:"category,omitempty" validate:"max=100"`
	Power          string            `json:"power,omitempty"`
	Efficiency     string            `json:"efficiency,omitempty"`
	Price          decimal.Decimal   `json:"price"`
	OriginalPrice  *decimal.Decimal  `json:"originalPrice,omitempty"`
	Discount       int               `json:"discount,omitempty" validate:"gte=0,lte=100"`
	Rating         float64           `json:"rating" validate:"gte=0,lte=5"`
	Reviews        int               `json:"reviews,omitempty" validate:"gte=0"`
	Stock          int               `json:"stock" validate:"gte=0"`
	Badge          string            `json:"badge,omitempty"`
	Features       []string          `json:"features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
	Images         []string          `json:"images,omitempty"`
	Description    string            `json:"description,omitempty" validate:"max=1000"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// Validate checks if the Product has valid field values.
func (p *Product) Validate() error {
	if err := checkStruct(p, productRules); err != nil {
		return err
	}

	if p.Price.IsNegative() {
		return ErrNegativePrice
	}

	if p.OriginalPrice != nil && p.OriginalPrice.IsNegative() {
		return ErrNegativePrice
	}

	return nil
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// LineItem returns the cart view of the product with a quantity of one.
// The first product image, if any, becomes the line item image.
func (p *Product) LineItem() LineItem {
	item := LineItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Quantity: 1,
	}
	if len(p.Images) > 0 {
		item.Image = p.Images[0]
	}
	return item
}

// Clone returns a deep copy of the product so callers can hand it out
// without sharing slices or maps with a store.
func (p Product) Clone() Product {
	if p.OriginalPrice != nil {
		orig := *p.OriginalPrice
		p.OriginalPrice = &orig
	}
	if p.Features != nil {
		p.Features = append([]string(nil), p.Features...)
	}
	if p.Images != nil {
		p.Images = append([]string(nil), p.Images...)
	}
	if p.Specifications != nil {
		specs := make(map[string]string, len(p.Specifications))
		for k, v := range p.Specifications {
			specs[k] = v
		}
		p.Specifications = specs
	}
	return p
}
