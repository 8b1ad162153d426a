package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dukerupert/qkart/internal"
	"github.com/dukerupert/qkart/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPool connects to the database named by PG_TEST_URL, migrates it and
// returns a pool. Tests using it are skipped when the variable is unset.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("PG_TEST_URL")
	if url == "" {
		t.Skip("PG_TEST_URL not set")
	}

	sqlDB, err := sql.Open("pgx", url)
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, internal.RunMigrations(sqlDB, slog.New(slog.DiscardHandler)))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

// newTestCart creates a cart under a fresh email and deletes it afterwards.
func newTestCart(t *testing.T, pool *pgxpool.Pool, items ...domain.CartItem) *domain.Cart {
	t.Helper()

	email := uuid.NewString() + "@qkart.test"
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM carts WHERE email = $1`, email)
	})

	cart, err := NewCartRepository(pool).Create(context.Background(), email, items)
	require.NoError(t, err)
	return cart
}

func item(id string, cost int64, qty int) domain.CartItem {
	return domain.CartItem{
		Product:  domain.Product{ID: id, Name: id, Category: "Fashion", Cost: decimal.NewFromInt(cost)},
		Quantity: qty,
	}
}

func productIDs(cart *domain.Cart) []string {
	ids := make([]string, 0, len(cart.CartItems))
	for _, it := range cart.CartItems {
		ids = append(ids, it.Product.ID)
	}
	return ids
}

func TestCartRepository_Replace_RejectsStaleVersion(t *testing.T) {
	pool := testPool(t)
	repo := NewCartRepository(pool)
	ctx := context.Background()

	created := newTestCart(t, pool, item("p1", 100, 2))
	assert.Equal(t, int64(1), created.Version)

	first, err := repo.FindByEmail(ctx, created.Email)
	require.NoError(t, err)
	second, err := repo.FindByEmail(ctx, created.Email)
	require.NoError(t, err)

	first.CartItems = append(first.CartItems, item("p2", 50, 1))
	saved, err := repo.Replace(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.Version)

	second.CartItems = nil
	_, err = repo.Replace(ctx, second)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	stored, err := repo.FindByEmail(ctx, created.Email)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2"}, productIDs(stored))
	assert.True(t, decimal.NewFromInt(250).Equal(stored.Total()))
}

func TestCartRepository_Replace_ConcurrentWritersOneWins(t *testing.T) {
	pool := testPool(t)
	repo := NewCartRepository(pool)
	ctx := context.Background()

	created := newTestCart(t, pool, item("p1", 100, 1))

	const writers = 8
	var (
		wg        sync.WaitGroup
		wins      atomic.Int32
		conflicts atomic.Int32
	)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cart := *created
			cart.CartItems = []domain.CartItem{item("p1", 100, i+2)}
			_, err := repo.Replace(ctx, &cart)
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, domain.ErrVersionConflict):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, int32(writers-1), conflicts.Load())

	stored, err := repo.FindByEmail(ctx, created.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
}

func TestCartRepository_RemoveItem_PullsEveryMatchingLine(t *testing.T) {
	pool := testPool(t)
	repo := NewCartRepository(pool)
	ctx := context.Background()

	created := newTestCart(t, pool,
		item("p1", 100, 1),
		item("p2", 50, 1),
		item("p1", 100, 3),
		item("p3", 10, 2),
	)

	cart, err := repo.RemoveItem(ctx, created.Email, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p3"}, productIDs(cart), "remaining lines keep their order")
	assert.Equal(t, created.Version+1, cart.Version)

	cart, err = repo.RemoveItem(ctx, created.Email, "p2")
	require.NoError(t, err)
	cart, err = repo.RemoveItem(ctx, created.Email, "p3")
	require.NoError(t, err)
	assert.NotNil(t, cart.CartItems)
	assert.Empty(t, cart.CartItems)

	var itemsType string
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT jsonb_typeof(cart_items) FROM carts WHERE email = $1`, created.Email).Scan(&itemsType))
	assert.Equal(t, "array", itemsType)
}

func TestCartRepository_RemoveItem_UnknownEmail(t *testing.T) {
	pool := testPool(t)

	_, err := NewCartRepository(pool).RemoveItem(context.Background(), uuid.NewString()+"@qkart.test", "p1")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestCartRepository_Create_DuplicateEmailViolatesKey(t *testing.T) {
	pool := testPool(t)

	created := newTestCart(t, pool, item("p1", 100, 1))

	_, err := NewCartRepository(pool).Create(context.Background(), created.Email, nil)
	require.Error(t, err)
	assert.True(t, isUniqueViolation(err))
}
