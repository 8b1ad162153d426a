package api

import (
	"net/http"

	"github.com/dukerupert/qkart/internal/handler"
	"github.com/dukerupert/qkart/internal/service"
)

// ProductHandler serves the public catalog.
type ProductHandler struct {
	products service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(products service.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

// List handles GET /v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetProducts(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, products)
}

// Get handles GET /v1/products/{productId}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetProductByID(r.Context(), r.PathValue("productId"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, product)
}
