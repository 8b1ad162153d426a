package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// ErrVersionConflict is returned by CartRepository.Replace when the stored
// cart changed since it was read.
var ErrVersionConflict = errors.New("cart version conflict")

// CartItem is one (product snapshot, quantity) line of a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns cost × quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Cost.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the per-user cart document, keyed by the owner's email.
// A cart holds at most one line per product id.
type Cart struct {
	Email     string     `json:"email"`
	CartItems []CartItem `json:"cartItems"`

	// Version increments on every write and guards Replace.
	Version   int64     `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// IndexOf returns the index of the line holding productID, or -1.
func (c *Cart) IndexOf(productID string) int {
	for i, item := range c.CartItems {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// HasProduct reports whether the cart has a line for productID.
func (c *Cart) HasProduct(productID string) bool {
	return c.IndexOf(productID) >= 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.CartItems) == 0
}

// Total returns the sum of cost × quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.CartItems {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount returns the sum of quantities over all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.CartItems {
		n += item.Quantity
	}
	return n
}

// CartRepository persists cart documents, one per email.
type CartRepository interface {
	// FindByEmail returns ErrRecordNotFound when the user has no cart.
	FindByEmail(ctx context.Context, email string) (*Cart, error)

	// Create inserts a new cart. Fails if a cart already exists for email.
	Create(ctx context.Context, email string, items []CartItem) (*Cart, error)

	// Replace saves the whole document if its version still matches,
	// otherwise it returns ErrVersionConflict.
	Replace(ctx context.Context, cart *Cart) (*Cart, error)

	// RemoveItem pulls every line for productID in a single write.
	RemoveItem(ctx context.Context, email, productID string) (*Cart, error)
}
