package routes

import (
	"github.com/dukerupert/qkart/internal/handler"
	"github.com/dukerupert/qkart/internal/router"
)

// RegisterAPIRoutes registers the /v1 JSON API.
// Catalog routes are public; user and cart routes require a bearer token.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	// Authentication (rate limited)
	auth := r.Group(deps.AuthRateLimit)
	auth.Post("/v1/auth/register", deps.AuthHandler.Register)
	auth.Post("/v1/auth/login", deps.AuthHandler.Login)

	// Catalog
	r.Get("/v1/products", deps.ProductHandler.List)
	r.Get("/v1/products/{productId}", deps.ProductHandler.Get)

	authed := r.Group(deps.RequireAuth)

	// Users
	authed.Get("/v1/users/{userId}", deps.UserHandler.Get)
	authed.Put("/v1/users/{userId}", deps.UserHandler.SetAddress)

	// Cart
	authed.Get("/v1/cart", deps.CartHandler.Get)
	authed.Post("/v1/cart", deps.CartHandler.Add)
	authed.Put("/v1/cart", deps.CartHandler.Update)
	authed.Post("/v1/cart/checkout", deps.CartHandler.Checkout)

	// Everything else
	r.NotFound(handler.NotFoundResponse)
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *router.Router, deps OpsDeps) {
	r.Handle("GET", "/health", deps.HealthHandler)
	r.Handle("GET", "/metrics", deps.MetricsHandler)
}
