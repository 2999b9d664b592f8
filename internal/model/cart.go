package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a line item quantity is below one.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

var lineItemRules = map[rule]error{
	{"ID", "required"}:  ErrEmptyID,
	{"Name", "max"}:     ErrNameTooLong,
	{"Quantity", "gte"}: ErrInvalidQuantity,
}

// LineItem is one product entry in the cart, with its own quantity.
type LineItem struct {
	ID       string          `json:"id" validate:"required,max=64"`
	Name     string          `json:"name" validate:"max=255"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty" validate:"omitempty,uri"`
	Quantity int             `json:"quantity" validate:"gte=1"`
}

// Validate checks if the LineItem has valid field values.
func (i *LineItem) Validate() error {
	if err := checkStruct(i, lineItemRules); err != nil {
		return err
	}

	if i.Price.IsNegative() {
		return ErrNegativePrice
	}

	return nil
}

// Subtotal returns price multiplied by quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
