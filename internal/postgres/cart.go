package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/jackc/pgx/v5"
)

// CartRepository stores one JSONB cart document per email.
type CartRepository struct {
	db DBTX
}

var _ domain.CartRepository = (*CartRepository)(nil)

// NewCartRepository creates a CartRepository.
func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

const cartColumns = `email, cart_items, version, updated_at`

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var (
		cart  domain.Cart
		items []byte
	)
	if err := row.Scan(&cart.Email, &items, &cart.Version, &cart.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &cart.CartItems); err != nil {
		return nil, fmt.Errorf("decode cart items for %s: %w", cart.Email, err)
	}
	if cart.CartItems == nil {
		cart.CartItems = []domain.CartItem{}
	}
	return &cart, nil
}

func encodeItems(items []domain.CartItem) ([]byte, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	return json.Marshal(items)
}

// FindByEmail loads the cart owned by email.
func (r *CartRepository) FindByEmail(ctx context.Context, email string) (*domain.Cart, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE email = $1`, email)

	cart, err := scanCart(row)
	if err != nil {
		return nil, notFound(err)
	}
	return cart, nil
}

// Create inserts a new cart document. A concurrent create for the same email
// fails on the primary key.
func (r *CartRepository) Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error) {
	data, err := encodeItems(items)
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO carts (email, cart_items)
		 VALUES ($1, $2)
		 RETURNING `+cartColumns, email, data)

	cart, err := scanCart(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("cart for %s already exists: %w", email, err)
		}
		return nil, fmt.Errorf("insert cart: %w", err)
	}
	return cart, nil
}

// Replace writes the whole document when the stored version still equals
// cart.Version, and bumps the version.
func (r *CartRepository) Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	data, err := encodeItems(cart.CartItems)
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}

	row := r.db.QueryRow(ctx,
		`UPDATE carts
		 SET cart_items = $2, version = version + 1, updated_at = NOW()
		 WHERE email = $1 AND version = $3
		 RETURNING `+cartColumns, cart.Email, data, cart.Version)

	saved, err := scanCart(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionConflict
		}
		return nil, fmt.Errorf("replace cart: %w", err)
	}
	return saved, nil
}

// RemoveItem pulls every line for productID in one statement.
func (r *CartRepository) RemoveItem(ctx context.Context, email, productID string) (*domain.Cart, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE carts
		 SET cart_items = COALESCE((
		         SELECT jsonb_agg(elem ORDER BY ord)
		         FROM jsonb_array_elements(cart_items) WITH ORDINALITY AS t(elem, ord)
		         WHERE elem->'product'->>'_id' <> $2
		     ), '[]'::jsonb),
		     version = version + 1,
		     updated_at = NOW()
		 WHERE email = $1
		 RETURNING `+cartColumns, email, productID)

	cart, err := scanCart(row)
	if err != nil {
		return nil, notFound(err)
	}
	return cart, nil
}
