package service

import (
	"github.com/dukerupert/qkart/internal/domain"
	"github.com/shopspring/decimal"
)

// UserDefaults are the values a newly registered user starts with.
type UserDefaults struct {
	WalletMoney decimal.Decimal
	Address     string
}

// WalletView is the read-only projection of a user's balance and address
// that checkout depends on.
type WalletView struct {
	defaultAddress string
}

// NewWalletView creates a WalletView that treats defaultAddress as "not set".
func NewWalletView(defaultAddress string) WalletView {
	return WalletView{defaultAddress: defaultAddress}
}

// Balance returns the user's wallet balance.
func (w WalletView) Balance(user *domain.User) decimal.Decimal {
	return user.WalletMoney
}

// HasNonDefaultAddress reports whether the user has replaced the sentinel address.
func (w WalletView) HasNonDefaultAddress(user *domain.User) bool {
	return user.Address != w.defaultAddress
}
