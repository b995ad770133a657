package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/handlers"
	"github.com/leafchain/leafchain-api/internal/services"
	"github.com/leafchain/leafchain-api/internal/store"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ledger, trades, collections, cleanup, err := buildStores(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	hub := handlers.NewHub()
	go hub.Run()

	settlement := services.NewSettlementService(cfg.Market)
	mintService := services.NewMintService(ledger, collections, settlement, services.DefaultCollectionID, nil, hub)
	marketService := services.NewMarketService(ledger, trades, collections, settlement, cfg.Market, services.DefaultCollectionID, hub)
	portfolioService := services.NewPortfolioService(ledger, trades)
	catalogService := services.NewCatalogService(ledger, trades, collections, cfg.Market)
	authService := services.NewAuthService(cfg.Auth)

	ctx := context.Background()
	if err := services.EnsureDefaultCollection(ctx, collections, cfg.Market); err != nil {
		return fmt.Errorf("failed to ensure default collection: %w", err)
	}
	if cfg.Server.SeedDemoData {
		if err := services.SeedDemoData(ctx, mintService, marketService, cfg.Market); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		slog.Info("seeded demo data")
	}

	router := handlers.NewRouter(handlers.Services{
		Auth:      authService,
		Mint:      mintService,
		Market:    marketService,
		Portfolio: portfolioService,
		Catalog:   catalogService,
		Hub:       hub,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening",
			slog.Int("port", cfg.Server.Port),
			slog.String("store", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// buildStores selects the store backend from config.
func buildStores(cfg *config.Config) (store.Ledger, store.TradeLog, store.CollectionStore, func(), error) {
	switch cfg.Database.Driver {
	case "", "memory":
		return store.NewMemoryLedger(cfg.Market.TokenIDBase),
			store.NewMemoryTradeLog(),
			store.NewMemoryCollectionStore(),
			func() {}, nil

	case "postgres":
		db, err := store.NewDatabase(cfg.Database)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := db.EnsureSchema(cfg.Market.TokenIDBase); err != nil {
			db.Close()
			return nil, nil, nil, nil, err
		}
		return store.NewNFTRepository(db),
			store.NewTradeRepository(db),
			store.NewCollectionRepository(db),
			func() { db.Close() }, nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
