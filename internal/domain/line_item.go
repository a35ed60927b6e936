package domain

import "github.com/shopspring/decimal"

// LineItem is one product-quantity pairing held in the cart.
// Display fields are copied from the product when it is first added.
type LineItem struct {
	ProductID   int64
	Name        string
	UnitPrice   decimal.Decimal
	Quantity    int
	Category    string
	Brand       string
	Image       string
	Description string
}

// NewLineItem copies the display fields of p into a line item of quantity 1
func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID:   p.ID,
		Name:        p.Name,
		UnitPrice:   p.Price,
		Quantity:    1,
		Category:    p.Category,
		Brand:       p.Brand,
		Image:       p.Image,
		Description: p.Description,
	}
}

// Subtotal is the unit price times the quantity
func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
