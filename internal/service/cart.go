package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/dukerupert/qkart/internal/events"
	"github.com/dukerupert/qkart/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
)

// CartService provides the cart and checkout business rules.
// Every operation acts on the cart owned by user.Email.
type CartService interface {
	GetCart(ctx context.Context, user *domain.User) (*domain.Cart, error)
	AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error)
	DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) (*domain.Cart, error)
	Checkout(ctx context.Context, user *domain.User) error
}

type cartService struct {
	carts     domain.CartRepository
	catalog   domain.Catalog
	wallet    WalletView
	publisher events.Publisher
	subject   string
	metrics   *telemetry.CartMetrics
	logger    *slog.Logger
	now       func() time.Time
}

// CartOption configures optional collaborators of the cart service.
type CartOption func(*cartService)

// WithPublisher publishes checkout events on subject.
func WithPublisher(p events.Publisher, subject string) CartOption {
	return func(s *cartService) {
		s.publisher = p
		if subject != "" {
			s.subject = subject
		}
	}
}

// WithMetrics records cart activity on m.
func WithMetrics(m *telemetry.CartMetrics) CartOption {
	return func(s *cartService) {
		s.metrics = m
	}
}

// NewCartService creates a new CartService instance
func NewCartService(carts domain.CartRepository, catalog domain.Catalog, wallet WalletView, logger *slog.Logger, opts ...CartOption) CartService {
	s := &cartService{
		carts:     carts,
		catalog:   catalog,
		wallet:    wallet,
		publisher: events.NoopPublisher{},
		subject:   events.SubjectCheckout,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = telemetry.NewCartMetrics("qkart", prometheus.NewRegistry())
	}
	return s
}

// GetCart returns the user's cart.
func (s *cartService) GetCart(ctx context.Context, user *domain.User) (*domain.Cart, error) {
	const op = "cart.get"

	cart, err := s.carts.FindByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrUserHasNoCart
		}
		return nil, domain.Internal(err, op, "failed to load cart")
	}
	return cart, nil
}

// AddProductToCart adds a new line for productID, creating the cart on first use.
// A product already in the cart is rejected rather than merged.
func (s *cartService) AddProductToCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	const op = "cart.add"

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.findProduct(ctx, op, productID)
	if err != nil {
		return nil, err
	}

	line := domain.CartItem{Product: *product, Quantity: quantity}

	cart, err := s.carts.FindByEmail(ctx, user.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.Internal(err, op, "failed to load cart")
		}

		cart, err = s.carts.Create(ctx, user.Email, []domain.CartItem{line})
		if err != nil {
			return nil, domain.Internal(err, op, "failed to create cart")
		}

		s.metrics.CartsCreated.Inc()
		s.metrics.ItemsAdded.Inc()
		s.logger.InfoContext(ctx, "cart created", "email", user.Email, "product_id", productID)
		return cart, nil
	}

	if cart.HasProduct(productID) {
		return nil, ErrProductAlreadyInCart
	}

	cart.CartItems = append(cart.CartItems, line)

	saved, err := s.replace(ctx, op, cart)
	if err != nil {
		return nil, err
	}

	s.metrics.ItemsAdded.Inc()
	return saved, nil
}

// UpdateProductInCart sets the quantity of an existing line.
//
// A product that is valid but not in a non-empty cart leaves the cart as it
// was; the unchanged cart is still written and returned.
func (s *cartService) UpdateProductInCart(ctx context.Context, user *domain.User, productID string, quantity int) (*domain.Cart, error) {
	const op = "cart.update"

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.carts.FindByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrNoCartToUpdate
		}
		return nil, domain.Internal(err, op, "failed to load cart")
	}

	// An empty cart is reported before an unknown product.
	if cart.IsEmpty() {
		return nil, ErrProductNotInCart
	}

	if _, err := s.findProduct(ctx, op, productID); err != nil {
		return nil, err
	}

	idx := cart.IndexOf(productID)
	if idx < 0 {
		s.logger.DebugContext(ctx, "update for product not in cart ignored",
			"email", user.Email,
			"product_id", productID,
		)
	} else {
		cart.CartItems[idx].Quantity = quantity
	}

	saved, err := s.replace(ctx, op, cart)
	if err != nil {
		return nil, err
	}

	if idx >= 0 {
		s.metrics.ItemsUpdated.Inc()
	}
	return saved, nil
}

// DeleteProductFromCart removes every line for productID.
func (s *cartService) DeleteProductFromCart(ctx context.Context, user *domain.User, productID string) (*domain.Cart, error) {
	const op = "cart.delete"

	cart, err := s.carts.FindByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrNoCartToDelete
		}
		return nil, domain.Internal(err, op, "failed to load cart")
	}

	if !cart.HasProduct(productID) {
		return nil, ErrProductNotInCart
	}

	updated, err := s.carts.RemoveItem(ctx, user.Email, productID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrNoCartToDelete
		}
		return nil, domain.Internal(err, op, "failed to remove product from cart")
	}

	s.metrics.ItemsRemoved.Inc()
	return updated, nil
}

// Checkout validates the cart against the user's address and balance and
// empties it. The wallet is not debited.
//
// Every failed precondition leaves the cart untouched.
func (s *cartService) Checkout(ctx context.Context, user *domain.User) error {
	const op = "cart.checkout"

	cart, err := s.carts.FindByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.metrics.CheckoutRejected.WithLabelValues("no_cart").Inc()
			return ErrCartNotFound
		}
		return domain.Internal(err, op, "failed to load cart")
	}

	if cart.IsEmpty() {
		s.metrics.CheckoutRejected.WithLabelValues("empty").Inc()
		return ErrCartEmpty
	}

	if !s.wallet.HasNonDefaultAddress(user) {
		s.metrics.CheckoutRejected.WithLabelValues("no_address").Inc()
		return ErrAddressNotSet
	}

	event := events.NewCheckoutEvent(cart, s.now())
	total := event.Total

	if total.GreaterThan(s.wallet.Balance(user)) {
		s.metrics.CheckoutRejected.WithLabelValues("insufficient_balance").Inc()
		return ErrInsufficientBalance
	}

	// TODO: debit user.WalletMoney by total once the users table can be
	// updated in the same transaction as the cart.
	cart.CartItems = []domain.CartItem{}

	if _, err := s.replace(ctx, op, cart); err != nil {
		return err
	}

	s.metrics.CheckoutCompleted.Inc()
	s.metrics.CheckoutValue.Observe(total.InexactFloat64())

	s.logger.InfoContext(ctx, "checkout completed",
		"email", user.Email,
		"total", total.String(),
		"items", event.ItemCount,
	)

	if err := s.publisher.Publish(ctx, s.subject, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish checkout event",
			"email", user.Email,
			"subject", s.subject,
			"error", err,
		)
	}

	return nil
}

func (s *cartService) findProduct(ctx context.Context, op, productID string) (*domain.Product, error) {
	product, err := s.catalog.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, ErrProductNotInDatabase
		}
		return nil, domain.Internal(err, op, "failed to look up product")
	}
	return product, nil
}

func (s *cartService) replace(ctx context.Context, op string, cart *domain.Cart) (*domain.Cart, error) {
	saved, err := s.carts.Replace(ctx, cart)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			s.metrics.WriteConflicts.Inc()
			return nil, ErrCartConflict
		}
		return nil, domain.Internal(err, op, "failed to save cart")
	}
	return saved, nil
}
