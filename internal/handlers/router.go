package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/leafchain/leafchain-api/internal/services"
)

// Services bundles everything the router needs.
type Services struct {
	Auth      *services.AuthService
	Mint      *services.MintService
	Market    *services.MarketService
	Portfolio *services.PortfolioService
	Catalog   *services.CatalogService
	Hub       *Hub
}

// NewRouter wires the HTTP surface.
func NewRouter(s Services) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(WalletMiddleware(s.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", IssueToken(s.Auth))

		r.Route("/nfts", func(r chi.Router) {
			r.Get("/", GetAllNFTs(s.Catalog))
			r.Post("/mint", MintNFT(s.Mint))
			r.Get("/{id}", GetNFT(s.Catalog))
			r.Post("/{id}/list", ListNFT(s.Market))
			r.Post("/{id}/purchase", PurchaseNFT(s.Market))
		})

		r.Get("/marketplace/listings", GetMarketplaceListings(s.Catalog))
		r.Get("/trades", GetRecentTrades(s.Catalog))
		r.Get("/portfolio/{address}", GetPortfolio(s.Portfolio))

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", GetCollections(s.Catalog))
			r.Get("/{id}", GetCollection(s.Catalog))
		})

		r.Get("/species", GetSpecies())
	})

	r.Get("/ws/market", ServeMarketFeed(s.Hub))

	return r
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)))
	})
}
