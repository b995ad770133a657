package services

import (
	"context"
	"time"

	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

// CatalogService serves the read-only projections consumed by the UI. Every
// call reads the ledger's latest committed state directly; record reads are
// deliberately uncached so a caller always sees its own writes.
type CatalogService struct {
	ledger      store.Ledger
	trades      store.TradeLog
	collections store.CollectionStore
	listingTTL  time.Duration
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(ledger store.Ledger, trades store.TradeLog, collections store.CollectionStore, cfg config.MarketConfig) *CatalogService {
	return &CatalogService{
		ledger:      ledger,
		trades:      trades,
		collections: collections,
		listingTTL:  time.Duration(cfg.ListingTTLHours) * time.Hour,
	}
}

// GetAllNFTs returns every record in mint order.
func (s *CatalogService) GetAllNFTs(ctx context.Context) ([]models.PlantNFT, error) {
	return s.ledger.GetAll(ctx)
}

// GetNFT returns a single record, or models.ErrNotFound.
func (s *CatalogService) GetNFT(ctx context.Context, id string) (*models.PlantNFT, error) {
	return s.ledger.GetByID(ctx, id)
}

// GetMarketplaceListings projects the currently-listed records.
func (s *CatalogService) GetMarketplaceListings(ctx context.Context) (*models.MarketplaceResponse, error) {
	all, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	listings := []models.Listing{}
	for i := range all {
		nft := &all[i]
		if !nft.Listed() {
			continue
		}
		listings = append(listings, models.Listing{
			NFTID:          nft.ID,
			TokenID:        nft.TokenID,
			SellerAddress:  nft.Ownership.OwnerAddress,
			Price:          nft.MarketData.CurrentPrice,
			Currency:       nft.MarketData.Currency,
			ExpirationDate: time.Now().Add(s.listingTTL),
		})
	}

	return &models.MarketplaceResponse{Listings: listings}, nil
}

// GetCollections returns all collection summaries.
func (s *CatalogService) GetCollections(ctx context.Context) ([]models.Collection, error) {
	return s.collections.GetAll(ctx)
}

// GetCollection returns one collection summary, or models.ErrNotFound.
func (s *CatalogService) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	return s.collections.GetByID(ctx, id)
}

// RecentTrades returns the most recent settled trades, newest first.
func (s *CatalogService) RecentTrades(ctx context.Context, limit int) ([]models.Trade, error) {
	return s.trades.Recent(ctx, limit)
}
