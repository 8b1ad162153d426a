package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ProductRepository is the Postgres-backed catalog.
type ProductRepository struct {
	db DBTX
}

var _ domain.Catalog = (*ProductRepository)(nil)

// NewProductRepository creates a ProductRepository.
func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id::text, name, category, cost, rating, image, description`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Cost, &p.Rating, &p.Image, &p.Description); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProduct returns the product snapshot for productID.
func (r *ProductRepository) FindProduct(ctx context.Context, productID string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id::text = $1`, productID)

	p, err := scanProduct(row)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ListProducts returns the catalog ordered by name.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}
