package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dukerupert/qkart/internal/auth"
	"github.com/dukerupert/qkart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDefaults = UserDefaults{
	WalletMoney: decimal.NewFromInt(50000),
	Address:     defaultAddress,
}

func newTestUserService(repo *mockUserRepo) UserService {
	return NewUserService(repo, testDefaults, slog.New(slog.DiscardHandler))
}

func TestUserService_Register(t *testing.T) {
	var created domain.CreateUserParams
	repo := &mockUserRepo{
		createFunc: func(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
			created = params
			return &domain.User{
				ID:           "u1",
				Name:         params.Name,
				Email:        params.Email,
				PasswordHash: params.PasswordHash,
				WalletMoney:  params.WalletMoney,
				Address:      params.Address,
			}, nil
		},
	}

	user, err := newTestUserService(repo).Register(context.Background(), " crio-user ", "crio-user@gmail.com", "learninga1")

	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "crio-user", created.Name)
	assert.True(t, created.WalletMoney.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, defaultAddress, created.Address)
	assert.NotEqual(t, "learninga1", created.PasswordHash, "password must be hashed before storage")
	assert.NoError(t, auth.VerifyPassword("learninga1", created.PasswordHash))
}

func TestUserService_Register_Errors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		repo     *mockUserRepo
		wantErr  error
		wantCode string
		wantVal  bool
	}{
		{
			name:     "email taken",
			password: "learninga1",
			repo: &mockUserRepo{
				emailTakenFunc: func(ctx context.Context, email string) (bool, error) { return true, nil },
			},
			wantErr:  ErrEmailTaken,
			wantCode: domain.ECONFLICT,
		},
		{
			name:     "password too short",
			password: "a1",
			repo:     &mockUserRepo{},
			wantVal:  true,
		},
		{
			name:     "password without digit",
			password: "onlyletters",
			repo:     &mockUserRepo{},
			wantVal:  true,
		},
		{
			name:     "email check fails",
			password: "learninga1",
			repo: &mockUserRepo{
				emailTakenFunc: func(ctx context.Context, email string) (bool, error) { return false, errors.New("db down") },
			},
			wantCode: domain.EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestUserService(tt.repo).Register(context.Background(), "crio", "crio@gmail.com", tt.password)

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantVal {
				assert.True(t, domain.IsValidationError(err))
				assert.Contains(t, domain.GetValidationFields(err), "password")
				return
			}
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("learninga1")
	require.NoError(t, err)

	repo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			if email != "crio@gmail.com" {
				return nil, domain.ErrRecordNotFound
			}
			return &domain.User{ID: "u1", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestUserService(repo)

	user, err := svc.Authenticate(context.Background(), "crio@gmail.com", "learninga1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.Authenticate(context.Background(), "crio@gmail.com", "wrongpass1")
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))

	_, err = svc.Authenticate(context.Background(), "someone@gmail.com", "learninga1")
	assert.ErrorIs(t, err, ErrIncorrectCredentials)
	assert.Equal(t, "Incorrect email or password", domain.ErrorMessage(err))
}

func TestUserService_GetUser(t *testing.T) {
	repo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if id == "u1" {
				return &domain.User{ID: "u1"}, nil
			}
			return nil, domain.ErrRecordNotFound
		},
		getByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := newTestUserService(repo)

	user, err := svc.GetUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = svc.GetUserByID(context.Background(), "u2")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))

	_, err = svc.GetUserByEmail(context.Background(), "crio@gmail.com")
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
}

func TestUserService_SetAddress(t *testing.T) {
	repo := &mockUserRepo{
		updateAddressFunc: func(ctx context.Context, id, address string) (*domain.User, error) {
			return &domain.User{ID: id, Address: address}, nil
		},
	}

	address, err := newTestUserService(repo).SetAddress(context.Background(), &domain.User{ID: "u1"}, "221B Baker Street, London NW1")

	require.NoError(t, err)
	assert.Equal(t, "221B Baker Street, London NW1", address)
}

func TestWalletView(t *testing.T) {
	w := NewWalletView(defaultAddress)

	assert.False(t, w.HasNonDefaultAddress(&domain.User{Address: defaultAddress}))
	assert.True(t, w.HasNonDefaultAddress(&domain.User{Address: "221B Baker Street, London NW1"}))
	assert.True(t, w.Balance(&domain.User{WalletMoney: decimal.NewFromInt(42)}).Equal(decimal.NewFromInt(42)))
}
