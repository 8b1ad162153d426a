package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/shopspring/decimal"
)

// memCartRepo is an in-memory CartRepository with the same version
// semantics as the Postgres one. Stored carts are deep-copied so callers
// cannot mutate persisted state.
type memCartRepo struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart

	// Err* override the matching call when set.
	findErr    error
	createErr  error
	replaceErr error
	removeErr  error

	writes int
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: make(map[string]*domain.Cart)}
}

func cloneCart(c *domain.Cart) *domain.Cart {
	data, err := json.Marshal(c.CartItems)
	if err != nil {
		panic(err)
	}
	out := *c
	out.CartItems = []domain.CartItem{}
	if err := json.Unmarshal(data, &out.CartItems); err != nil {
		panic(err)
	}
	return &out
}

func (r *memCartRepo) seed(email string, items ...domain.CartItem) {
	if items == nil {
		items = []domain.CartItem{}
	}
	r.carts[email] = &domain.Cart{Email: email, CartItems: items, Version: 1}
}

func (r *memCartRepo) stored(email string) *domain.Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[email]
	if !ok {
		return nil
	}
	return cloneCart(c)
}

func (r *memCartRepo) FindByEmail(ctx context.Context, email string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.carts[email]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return cloneCart(c), nil
}

func (r *memCartRepo) Create(ctx context.Context, email string, items []domain.CartItem) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if _, ok := r.carts[email]; ok {
		return nil, errors.New("duplicate key value violates unique constraint")
	}
	c := &domain.Cart{Email: email, CartItems: items, Version: 1}
	r.carts[email] = cloneCart(c)
	r.writes++
	return cloneCart(c), nil
}

func (r *memCartRepo) Replace(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	current, ok := r.carts[cart.Email]
	if !ok || current.Version != cart.Version {
		return nil, domain.ErrVersionConflict
	}
	next := cloneCart(cart)
	next.Version = current.Version + 1
	r.carts[cart.Email] = next
	r.writes++
	return cloneCart(next), nil
}

func (r *memCartRepo) RemoveItem(ctx context.Context, email, productID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removeErr != nil {
		return nil, r.removeErr
	}
	current, ok := r.carts[email]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	kept := []domain.CartItem{}
	for _, item := range current.CartItems {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	current.CartItems = kept
	current.Version++
	r.writes++
	return cloneCart(current), nil
}

// mockCatalog implements domain.Catalog for testing
type mockCatalog struct {
	products map[string]domain.Product
	err      error
}

func newMockCatalog(products ...domain.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[string]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) FindProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (m *mockCatalog) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

// mockUserRepo implements domain.UserRepository for testing
type mockUserRepo struct {
	createFunc        func(ctx context.Context, params domain.CreateUserParams) (*domain.User, error)
	getByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFunc    func(ctx context.Context, email string) (*domain.User, error)
	emailTakenFunc    func(ctx context.Context, email string) (bool, error)
	updateAddressFunc func(ctx context.Context, id, address string) (*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, domain.ErrRecordNotFound
}

func (m *mockUserRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	if m.emailTakenFunc != nil {
		return m.emailTakenFunc(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UpdateAddress(ctx context.Context, id, address string) (*domain.User, error) {
	if m.updateAddressFunc != nil {
		return m.updateAddressFunc(ctx, id, address)
	}
	return nil, nil
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	subjects []string
	events   []any
	err      error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, v any) error {
	p.subjects = append(p.subjects, subject)
	p.events = append(p.events, v)
	return p.err
}

func product(id string, cost int64) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: "Fashion",
		Cost:     decimal.NewFromInt(cost),
		Rating:   4,
		Image:    "https://crio-directus-assets.s3.ap-south-1.amazonaws.com/" + id + ".png",
	}
}
