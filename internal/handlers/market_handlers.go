package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/services"
)

// defaultTradeLimit bounds the recent-trades endpoint.
const defaultTradeLimit = 20

// ListNFT handles putting a record up for sale
func ListNFT(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "id")
		if nftID == "" {
			http.Error(w, "NFT ID is required", http.StatusBadRequest)
			return
		}

		var req models.ListRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// Anonymous callers skip the owner check; authenticated ones
		// must own the record.
		caller, _ := WalletAddressFromContext(r.Context())

		nft, err := marketService.List(r.Context(), nftID, caller, req.Price)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nft)
	}
}

// PurchaseNFT handles buying a listed record
func PurchaseNFT(marketService *services.MarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "id")
		if nftID == "" {
			http.Error(w, "NFT ID is required", http.StatusBadRequest)
			return
		}

		var req models.PurchaseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if req.BuyerAddress == "" {
			if address, ok := WalletAddressFromContext(r.Context()); ok {
				req.BuyerAddress = address
			}
		}
		if req.BuyerAddress == "" {
			http.Error(w, "Buyer address is required", http.StatusBadRequest)
			return
		}

		nft, err := marketService.Purchase(r.Context(), nftID, req.BuyerAddress)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nft)
	}
}

// GetMarketplaceListings handles retrieving the active listings
func GetMarketplaceListings(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listings, err := catalogService.GetMarketplaceListings(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, listings)
	}
}

// GetRecentTrades handles retrieving the trade history, newest first
func GetRecentTrades(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultTradeLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err == nil && parsed > 0 {
				limit = parsed
			}
		}

		trades, err := catalogService.RecentTrades(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, models.TradeListResponse{
			Trades:     trades,
			TotalCount: len(trades),
		})
	}
}
