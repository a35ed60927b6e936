// Package checkout runs the simulated purchase: it checks the preconditions,
// empties the cart and sends the shopper home. No order is recorded and no
// payment is taken.
package checkout

import (
	"context" // Request-scoped calls
	"errors"  // Error handling

	"storefront/internal/domain" // Domain models
	"storefront/internal/gate"   // Route authorization

	"github.com/shopspring/decimal" // Exact money arithmetic
)

const (
	// ReturnPath is where login sends the shopper back to after a blocked checkout
	ReturnPath = "/carrito"
	// HomePath is where a completed checkout lands
	HomePath = "/"
)

// Messages shown to the shopper
const (
	MessageLoginRequired = "Por favor inicia sesión para continuar con la compra"
	MessageEmptyCart     = "Tu carrito está vacío"
	MessageThanks        = "¡Gracias por tu compra! Esta es una simulación."
)

var (
	ErrLoginRequired = errors.New("checkout requires a logged in user")
	ErrEmptyCart     = errors.New("checkout requires a non-empty cart")
)

// Cart is the part of the cart store checkout uses
type Cart interface {
	ItemCount() int
	Total() decimal.Decimal
	Items() []domain.LineItem
	Clear(ctx context.Context) error
}

// Result describes a completed checkout
type Result struct {
	Redirect  string          // Where the shopper lands
	Message   string          // Confirmation notice
	Lines     int             // Distinct products bought
	ItemCount int             // Units bought
	Total     decimal.Decimal // Amount charged
}

// Checkout clears the cart of an authenticated viewer. It returns
// ErrLoginRequired or ErrEmptyCart without touching the cart when a
// precondition fails.
func Checkout(ctx context.Context, v gate.Viewer, c Cart) (Result, error) {
	if v == nil || !v.IsAuthenticated() {
		return Result{}, ErrLoginRequired // Cart kept for after login
	}
	items := c.Items() // Snapshot before clearing
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}
	// Record the totals before the cart is emptied
	res := Result{
		Redirect:  HomePath,
		Message:   MessageThanks,
		Lines:     len(items),
		ItemCount: c.ItemCount(),
		Total:     c.Total(),
	}
	if err := c.Clear(ctx); err != nil {
		return Result{}, err
	}
	return res, nil
}
