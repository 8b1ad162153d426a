package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product is a catalog entry. A copy of it is embedded into each cart line,
// so the cart keeps the price the product had when it was added.
type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Cost        decimal.Decimal `json:"cost"`
	Rating      int             `json:"rating"`
	Image       string          `json:"image"`
	Description string          `json:"description,omitempty"`
}

// Catalog resolves product identifiers to product snapshots.
// FindProduct returns ErrRecordNotFound when the product does not exist.
type Catalog interface {
	FindProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
}
