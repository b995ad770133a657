package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leafchain/leafchain-api/internal/services"
)

// GetPortfolio handles retrieving an owner's derived portfolio view
func GetPortfolio(portfolioService *services.PortfolioService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")
		if address == "" {
			http.Error(w, "Wallet address is required", http.StatusBadRequest)
			return
		}

		portfolio, err := portfolioService.GetPortfolio(r.Context(), address)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, portfolio)
	}
}
