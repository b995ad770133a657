package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leafchain/leafchain-api/internal/services"
)

// GetCollections handles retrieving all collection summaries
func GetCollections(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collections, err := catalogService.GetCollections(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, collections)
	}
}

// GetCollection handles retrieving a single collection summary
func GetCollection(catalogService *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		collectionID := chi.URLParam(r, "id")
		if collectionID == "" {
			http.Error(w, "Collection ID is required", http.StatusBadRequest)
			return
		}

		collection, err := catalogService.GetCollection(r.Context(), collectionID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, collection)
	}
}
