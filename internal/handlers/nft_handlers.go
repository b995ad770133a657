package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/services"
)

// MintNFT handles minting a new record from an impact snapshot
func MintNFT(mintService *services.MintService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.MintRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		// A caller authenticated with a wallet token mints to itself
		if req.OwnerAddress == "" {
			if address, ok := WalletAddressFromContext(r.Context()); ok {
				req.OwnerAddress = address
			}
		}

		nft, err := mintService.Mint(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, nft)
	}
}

// GetAllNFTs handles retrieving every record
func GetAllNFTs(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nfts, err := catalogService.GetAllNFTs(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nfts)
	}
}

// GetNFT handles retrieving a single record
func GetNFT(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "id")
		if nftID == "" {
			http.Error(w, "NFT ID is required", http.StatusBadRequest)
			return
		}

		nft, err := catalogService.GetNFT(r.Context(), nftID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, nft)
	}
}

// GetSpecies handles retrieving the identification reference catalog
func GetSpecies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.SampleSpecies)
	}
}
