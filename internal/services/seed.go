package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

// DefaultCollectionID is the collection every mint and trade is counted
// against until multi-collection support lands.
const DefaultCollectionID = "collection-1"

// demoCollectorAddress holds the demo records after the seeded trades.
const demoCollectorAddress = "0x742d35Cc6634C0532925a3b844Bc9e7595f845e0"

// EnsureDefaultCollection creates the default collection if it is missing.
func EnsureDefaultCollection(ctx context.Context, collections store.CollectionStore, cfg config.MarketConfig) error {
	_, err := collections.GetByID(ctx, DefaultCollectionID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	return collections.Insert(ctx, &models.Collection{
		ID:              DefaultCollectionID,
		Name:            "Plant Guardians Collection",
		Description:     "NFTs representing verified plant species and their environmental impact.",
		TotalSupply:     1000,
		ImageURL:        "https://picsum.photos/seed/plant-guardians/400/400.jpg",
		ContractAddress: cfg.ContractAddress,
		OwnerAddress:    cfg.ContractAddress,
		CreatedAt:       time.Now(),
	})
}

// SeedDemoData mints a couple of showcase records and runs them through the
// market so a fresh instance has listings, trades and counters to look at.
func SeedDemoData(ctx context.Context, mint *MintService, market *MarketService, cfg config.MarketConfig) error {
	creator := cfg.ContractAddress

	type seedPlan struct {
		species   models.Species
		location  string
		health    float64
		salePrice float64
		relistAt  float64
	}

	plans := []seedPlan{
		{species: models.SampleSpecies[0], location: "Nairobi, Kenya", health: 0.92, salePrice: 0.12},
		{species: models.SampleSpecies[1], location: "Mombasa, Kenya", health: 0.88, salePrice: 0.06, relistAt: 0.08},
	}

	for _, plan := range plans {
		health := plan.health
		nft, err := mint.Mint(ctx, models.MintRequest{
			Snapshot:     plan.species.Snapshot(plan.location),
			OwnerAddress: creator,
			HealthScore:  &health,
		})
		if err != nil {
			return fmt.Errorf("failed to seed mint for %s: %w", plan.species.SpeciesName, err)
		}

		if _, err := market.List(ctx, nft.ID, creator, plan.salePrice); err != nil {
			return fmt.Errorf("failed to seed listing for %s: %w", nft.ID, err)
		}
		if _, err := market.Purchase(ctx, nft.ID, demoCollectorAddress); err != nil {
			return fmt.Errorf("failed to seed trade for %s: %w", nft.ID, err)
		}

		if plan.relistAt > 0 {
			if _, err := market.List(ctx, nft.ID, demoCollectorAddress, plan.relistAt); err != nil {
				return fmt.Errorf("failed to seed relisting for %s: %w", nft.ID, err)
			}
		}
	}

	return nil
}
