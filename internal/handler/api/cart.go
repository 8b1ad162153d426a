package api

import (
	"net/http"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/handler"
	"github.com/dukerupert/qkart/internal/service"
)

// CartHandler handles the authenticated user's cart.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,min=1"`
}

type updateCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,min=0"`
}

// Get handles GET /v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cartService.GetCart(r.Context(), domain.MustUser(r.Context()))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, cart)
}

// Add handles POST /v1/cart
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := handler.DecodeAndValidate(r, "cart.add", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	cart, err := h.cartService.AddProductToCart(r.Context(), domain.MustUser(r.Context()), req.ProductID, *req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusCreated, cart)
}

// Update handles PUT /v1/cart
// A quantity of zero removes the product.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCartRequest
	if err := handler.DecodeAndValidate(r, "cart.update", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user := domain.MustUser(r.Context())

	var (
		cart *domain.Cart
		err  error
	)
	if *req.Quantity == 0 {
		cart, err = h.cartService.DeleteProductFromCart(r.Context(), user, req.ProductID)
	} else {
		cart, err = h.cartService.UpdateProductInCart(r.Context(), user, req.ProductID, *req.Quantity)
	}
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.WriteJSON(w, http.StatusOK, cart)
}

// Checkout handles POST /v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := h.cartService.Checkout(r.Context(), domain.MustUser(r.Context())); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
