package handlers

import (
	"context"
)

// Context keys
type contextKey string

const (
	// WalletAddressKey is the key for the caller's wallet address in the context
	WalletAddressKey contextKey = "walletAddress"
)

// NewContextWithWalletAddress adds a wallet address to the context
func NewContextWithWalletAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, WalletAddressKey, address)
}

// WalletAddressFromContext extracts the wallet address from the context
func WalletAddressFromContext(ctx context.Context) (string, bool) {
	address, ok := ctx.Value(WalletAddressKey).(string)
	return address, ok
}
