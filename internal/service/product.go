package service

import (
	"context"
	"errors"

	"github.com/dukerupert/qkart/internal/domain"
)

// ErrProductNotFound is returned when a product id does not resolve.
var ErrProductNotFound = domain.Errorf(domain.ENOTFOUND, "", "Product not found")

// ProductService exposes the read-only catalog.
type ProductService interface {
	GetProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
}

type productService struct {
	catalog domain.Catalog
}

// NewProductService creates a new ProductService instance
func NewProductService(catalog domain.Catalog) ProductService {
	return &productService{catalog: catalog}
}

func (s *productService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	return products, nil
}

func (s *productService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to load product")
	}
	return product, nil
}
