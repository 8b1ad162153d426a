package postgres

import (
	"context"
	"fmt"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/jackc/pgx/v5"
)

// UserRepository persists users.
type UserRepository struct {
	db DBTX
}

var _ domain.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a UserRepository.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id::text, name, email, password_hash, wallet_money, address, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.WalletMoney,
		&u.Address,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. The password must already be hashed.
func (r *UserRepository) Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, wallet_money, address)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		params.Name, params.Email, params.PasswordHash, params.WalletMoney, params.Address)

	u, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("email %s already registered: %w", params.Email, err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// GetByID returns the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id::text = $1`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetByEmail looks a user up case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// EmailTaken reports whether a user already registered email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// UpdateAddress sets the shipping address and returns the updated user.
func (r *UserRepository) UpdateAddress(ctx context.Context, id, address string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE users SET address = $2, updated_at = NOW()
		 WHERE id::text = $1
		 RETURNING `+userColumns, id, address)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
