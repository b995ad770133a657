package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/leafchain/leafchain-api/internal/services"
)

// TokenRequest is the payload for the token endpoint. The wallet address is
// resolved by the upstream identity layer; this endpoint just exchanges it
// for a bearer token the marketplace endpoints understand.
type TokenRequest struct {
	Address string `json:"address"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueToken handles exchanging a wallet address for a bearer token
func IssueToken(authService *services.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.Address == "" {
			http.Error(w, "Wallet address is required", http.StatusBadRequest)
			return
		}

		token, expiresAt, err := authService.IssueToken(req.Address)
		if err != nil {
			http.Error(w, "Failed to issue token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{Token: token, ExpiresAt: expiresAt})
	}
}

// WalletMiddleware resolves the caller's wallet address from a bearer token
// when one is presented. Requests without a token pass through anonymously;
// operations that need an owner check enforce it themselves.
func WalletMiddleware(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			address, err := authService.ValidateToken(parts[1])
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := NewContextWithWalletAddress(r.Context(), address)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
