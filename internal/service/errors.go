package service

import (
	"github.com/dukerupert/qkart/internal/domain"
)

// Cart errors. Messages are part of the public API and shown to clients verbatim.
var (
	ErrUserHasNoCart        = domain.Errorf(domain.ENOTFOUND, "", "User does not have a cart")
	ErrNoCartToUpdate       = domain.Errorf(domain.EINVALID, "", "User does not have a cart. Use POST to create cart and add a product")
	ErrNoCartToDelete       = domain.Errorf(domain.EINVALID, "", "User does not have a cart")
	ErrProductNotInDatabase = domain.Errorf(domain.EINVALID, "", "Product doesn't exist in database")
	ErrProductAlreadyInCart = domain.Errorf(domain.EINVALID, "", "Product already in cart. Use the cart sidebar to update or remove product from cart")
	ErrProductNotInCart     = domain.Errorf(domain.EINVALID, "", "Product not in cart")
	ErrInvalidQuantity      = domain.Errorf(domain.EINVALID, "", "Quantity must be greater than 0")
	ErrCartConflict         = domain.Errorf(domain.ECONFLICT, "", "Cart was modified concurrently, please retry")
)

// Checkout errors
var (
	ErrCartNotFound        = domain.Errorf(domain.ENOTFOUND, "", "cart not found")
	ErrCartEmpty           = domain.Errorf(domain.EINVALID, "", "cart is empty")
	ErrAddressNotSet       = domain.Errorf(domain.EINVALID, "", "address is not set")
	ErrInsufficientBalance = domain.Errorf(domain.EINVALID, "", "wallet balance is insufficient")
)

// User/auth errors
var (
	ErrEmailTaken           = domain.Errorf(domain.ECONFLICT, "", "Email already taken")
	ErrIncorrectCredentials = domain.Errorf(domain.EUNAUTHORIZED, "", "Incorrect email or password")
	ErrUserNotFound         = domain.Errorf(domain.ENOTFOUND, "", "User not found")
	ErrInvalidToken         = domain.Errorf(domain.EUNAUTHORIZED, "", "Please authenticate")
)
