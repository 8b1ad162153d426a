package domain_test

import (
	"testing"

	"github.com/dukerupert/qkart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id string, cost int64, qty int) domain.CartItem {
	return domain.CartItem{
		Product:  domain.Product{ID: id, Name: id, Cost: decimal.NewFromInt(cost)},
		Quantity: qty,
	}
}

func TestCart_Total(t *testing.T) {
	tests := []struct {
		name     string
		items    []domain.CartItem
		expected string
	}{
		{
			name:     "empty cart",
			items:    nil,
			expected: "0",
		},
		{
			name:     "cost times quantity summed over lines",
			items:    []domain.CartItem{line("a", 100, 2), line("b", 50, 1)},
			expected: "250",
		},
		{
			name: "fractional costs stay exact",
			items: []domain.CartItem{
				{Product: domain.Product{ID: "c", Cost: decimal.RequireFromString("0.1")}, Quantity: 3},
				{Product: domain.Product{ID: "d", Cost: decimal.RequireFromString("19.99")}, Quantity: 1},
			},
			expected: "20.29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &domain.Cart{CartItems: tt.items}
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(cart.Total()),
				"total = %s, want %s", cart.Total(), tt.expected)
		})
	}
}

func TestCart_Lookup(t *testing.T) {
	cart := &domain.Cart{CartItems: []domain.CartItem{line("a", 1, 1), line("b", 2, 4)}}

	assert.Equal(t, 1, cart.IndexOf("b"))
	assert.Equal(t, -1, cart.IndexOf("z"))
	assert.True(t, cart.HasProduct("a"))
	assert.False(t, cart.HasProduct("z"))
	assert.False(t, cart.IsEmpty())
	assert.Equal(t, 5, cart.ItemCount())

	assert.True(t, (&domain.Cart{}).IsEmpty())
}
