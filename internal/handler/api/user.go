package api

import (
	"net/http"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/handler"
	"github.com/dukerupert/qkart/internal/service"
	"github.com/google/uuid"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type setAddressRequest struct {
	Address string `json:"address" validate:"required,min=20"`
}

type addressResponse struct {
	Address string `json:"address"`
}

// Get handles GET /v1/users/{userId}
// With ?q=address only the address is returned.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	current, err := h.authorize(r, "user.get")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), current.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if r.URL.Query().Get("q") == "address" {
		handler.WriteJSON(w, http.StatusOK, addressResponse{Address: user.Address})
		return
	}

	handler.WriteJSON(w, http.StatusOK, user)
}

// SetAddress handles PUT /v1/users/{userId}
func (h *UserHandler) SetAddress(w http.ResponseWriter, r *http.Request) {
	current, err := h.authorize(r, "user.set_address")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req setAddressRequest
	if err := handler.DecodeAndValidate(r, "user.set_address", &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	address, err := h.users.SetAddress(r.Context(), current, req.Address)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.WriteJSON(w, http.StatusOK, addressResponse{Address: address})
}

// authorize checks that the path's userId is well formed and belongs to the caller.
func (h *UserHandler) authorize(r *http.Request, op string) (*domain.User, error) {
	userID := r.PathValue("userId")
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.NewValidationError(op, "userId", "userId must be a valid id")
	}

	current := domain.MustUser(r.Context())
	if current.ID != userID {
		return nil, domain.Forbidden(op, "User not authorized to access this resource")
	}
	return current, nil
}
