package api

import (
	"context"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/service"
)

// mockCartService implements service.CartService for testing
type mockCartService struct {
	getCartFunc   func(ctx context.Context, user *domain.User) (*domain.Cart, error)
	addFunc       func(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	updateFunc    func(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	deleteFunc    func(ctx context.Context, user *domain.User, productID string) (*domain.Cart, error)
	checkoutFunc  func(ctx context.Context, user *domain.User) error
	lastProductID string
	lastQuantity  int
	deleteCalled  bool
	updateCalled  bool
}

func (m *mockCartService) GetCart(ctx context.Context, user *domain.User) (*domain.Cart, error) {
	if m.getCartFunc != nil {
		return m.getCartFunc(ctx, user)
	}
	return nil, nil
}

func (m *mockCartService) AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	m.lastProductID, m.lastQuantity = productID, quantity
	if m.addFunc != nil {
		return m.addFunc(ctx, user, productID, quantity)
	}
	return &domain.Cart{Email: user.Email}, nil
}

func (m *mockCartService) UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	m.updateCalled = true
	m.lastProductID, m.lastQuantity = productID, quantity
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user, productID, quantity)
	}
	return &domain.Cart{Email: user.Email}, nil
}

func (m *mockCartService) DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) (*domain.Cart, error) {
	m.deleteCalled = true
	m.lastProductID = productID
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, user, productID)
	}
	return &domain.Cart{Email: user.Email}, nil
}

func (m *mockCartService) Checkout(ctx context.Context, user *domain.User) error {
	if m.checkoutFunc != nil {
		return m.checkoutFunc(ctx, user)
	}
	return nil
}

// mockUserService implements service.UserService for testing
type mockUserService struct {
	registerFunc     func(ctx context.Context, name, email, password string) (*domain.User, error)
	authenticateFunc func(ctx context.Context, email, password string) (*domain.User, error)
	getByIDFunc      func(ctx context.Context, id string) (*domain.User, error)
	setAddressFunc   func(ctx context.Context, user *domain.User, address string) (string, error)
}

func (m *mockUserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, name, email, password)
	}
	return nil, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, email, password)
	}
	return nil, nil
}

func (m *mockUserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, service.ErrUserNotFound
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, service.ErrUserNotFound
}

func (m *mockUserService) SetAddress(ctx context.Context, user *domain.User, address string) (string, error) {
	if m.setAddressFunc != nil {
		return m.setAddressFunc(ctx, user, address)
	}
	return address, nil
}

// mockTokenService implements service.TokenService for testing
type mockTokenService struct{}

func (mockTokenService) GenerateAuthTokens(user *domain.User) (*service.AuthTokens, error) {
	return &service.AuthTokens{Access: service.TokenDetail{Token: "token-for-" + user.ID}}, nil
}

func (mockTokenService) VerifyAccessToken(token string) (string, error) {
	return "", service.ErrInvalidToken
}

// mockProductService implements service.ProductService for testing
type mockProductService struct {
	products []domain.Product
}

func (m *mockProductService) GetProducts(ctx context.Context) ([]domain.Product, error) {
	return m.products, nil
}

func (m *mockProductService) GetProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == productID {
			return &p, nil
		}
	}
	return nil, service.ErrProductNotFound
}
