package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dukerupert/qkart/internal/auth"
	"github.com/dukerupert/qkart/internal/domain"
)

// UserService manages registration, login and profile updates.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SetAddress(ctx context.Context, user *domain.User, address string) (string, error)
}

type userService struct {
	users    domain.UserRepository
	defaults UserDefaults
	logger   *slog.Logger
}

// NewUserService creates a new UserService instance
func NewUserService(users domain.UserRepository, defaults UserDefaults, logger *slog.Logger) UserService {
	return &userService{
		users:    users,
		defaults: defaults,
		logger:   logger,
	}
}

// Register creates a user with the configured wallet and address defaults.
// The password is hashed here, before the record reaches the repository.
func (s *userService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	const op = "user.register"

	email = strings.TrimSpace(email)

	taken, err := s.users.EmailTaken(ctx, email)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to check email")
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooWeak) {
			return nil, domain.NewValidationError(op, "password", err.Error())
		}
		return nil, domain.Internal(err, op, "failed to hash password")
	}

	user, err := s.users.Create(ctx, domain.CreateUserParams{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		WalletMoney:  s.defaults.WalletMoney,
		Address:      s.defaults.Address,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to create user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Authenticate returns the user matching email and password.
// Unknown emails and wrong passwords fail identically.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	const op = "user.authenticate"

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrIncorrectCredentials
		}
		return nil, domain.Internal(err, op, "failed to load user")
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrIncorrectCredentials
		}
		return nil, domain.Internal(err, op, "failed to verify password")
	}

	return user, nil
}

// GetUserByID returns the user with the given id.
func (s *userService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.get", "failed to load user")
	}
	return user, nil
}

// GetUserByEmail returns the user registered with email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.get_by_email", "failed to load user")
	}
	return user, nil
}

// SetAddress stores a new shipping address and returns it.
func (s *userService) SetAddress(ctx context.Context, user *domain.User, address string) (string, error) {
	updated, err := s.users.UpdateAddress(ctx, user.ID, address)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", domain.Internal(err, "user.set_address", "failed to update address")
	}
	return updated.Address, nil
}
