// Package api implements the JSON HTTP handlers of the /v1 API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/handler"
	"github.com/dukerupert/qkart/internal/service"
)

// AuthHandler handles registration and login.
type AuthHandler struct {
	users  service.UserService
	tokens service.TokenService
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users service.UserService, tokens service.TokenService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	User   *domain.User        `json:"user"`
	Tokens *service.AuthTokens `json:"tokens"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := handler.DecodeAndValidate(r, "auth.register", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	tokens, err := h.tokens.GenerateAuthTokens(user)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusCreated, authResponse{User: user, Tokens: tokens})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := handler.DecodeAndValidate(r, "auth.login", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.InfoContext(r.Context(), "login failed", "email", req.Email)
		handler.ErrorResponse(w, r, err)
		return
	}

	tokens, err := h.tokens.GenerateAuthTokens(user)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, authResponse{User: user, Tokens: tokens})
}
