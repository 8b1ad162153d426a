package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// USER DOMAIN TYPES
// =============================================================================

// User is a registered customer. The cart engine only reads the wallet and
// address fields.
type User struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	WalletMoney  decimal.Decimal `json:"walletMoney"`
	Address      string          `json:"address"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// CreateUserParams holds the already-hashed fields for a new user record.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	WalletMoney  decimal.Decimal
	Address      string
}

// UserRepository persists users.
// Lookups return ErrRecordNotFound when no user matches.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	UpdateAddress(ctx context.Context, id, address string) (*User, error)
}
