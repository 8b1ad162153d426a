package routes

import (
	"net/http"

	"github.com/dukerupert/qkart/internal/handler/api"
	"github.com/dukerupert/qkart/internal/router"
)

// APIDeps contains dependencies for the /v1 JSON API
type APIDeps struct {
	// Auth (register, login)
	AuthHandler *api.AuthHandler

	// Users (profile, address)
	UserHandler *api.UserHandler

	// Catalog
	ProductHandler *api.ProductHandler

	// Cart and checkout
	CartHandler *api.CartHandler

	// RequireAuth guards user and cart routes
	RequireAuth router.Middleware

	// AuthRateLimit throttles register and login
	AuthRateLimit router.Middleware
}

// OpsDeps contains dependencies for operational endpoints
type OpsDeps struct {
	HealthHandler  http.Handler
	MetricsHandler http.Handler
}
