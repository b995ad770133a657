package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

// MintService turns validated impact snapshots into ledger records.
type MintService struct {
	ledger       store.Ledger
	collections  store.CollectionStore
	settlement   *SettlementService
	collectionID string
	pub          Publisher

	// rng feeds generated health scores. Injected so mints are
	// reproducible under test.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMintService creates a new MintService
func NewMintService(ledger store.Ledger, collections store.CollectionStore, settlement *SettlementService, collectionID string, rng *rand.Rand, pub Publisher) *MintService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if pub == nil {
		pub = NopPublisher
	}
	return &MintService{
		ledger:       ledger,
		collections:  collections,
		settlement:   settlement,
		collectionID: collectionID,
		pub:          pub,
		rng:          rng,
	}
}

// Mint creates a new immutable record from an impact snapshot. The snapshot
// is validated before any state changes; a rejected mint commits nothing.
func (s *MintService) Mint(ctx context.Context, req models.MintRequest) (*models.PlantNFT, error) {
	if err := req.Snapshot.Validate(); err != nil {
		return nil, err
	}
	if req.OwnerAddress == "" {
		return nil, fmt.Errorf("%w: owner address is required", models.ErrMintingFailed)
	}

	healthScore, err := s.healthScore(req.HealthScore)
	if err != nil {
		return nil, err
	}

	tokenID, err := s.ledger.NextTokenID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate token id: %w", err)
	}

	snap := req.Snapshot
	now := time.Now()
	displayName := snap.CommonName
	if displayName == "" {
		displayName = snap.SpeciesName
	}

	nft := &models.PlantNFT{
		ID:          uuid.New().String(),
		TokenID:     tokenID,
		Name:        fmt.Sprintf("%s Guardian #%d", displayName, tokenID),
		Description: snap.Description,
		ImageURL:    imageURLFor(snap.SpeciesName, tokenID),
		SpeciesName: snap.SpeciesName,
		CommonName:  snap.CommonName,
		PlantType:   snap.PlantType,
		EnvironmentalImpact: models.EnvironmentalImpact{
			CO2AbsorbedAnnual: snap.CO2AbsorbedAnnual,
			CO2AbsorbedDaily:  snap.CO2AbsorbedDaily,
			CanopyArea:        snap.CanopyArea,
			Height:            snap.Height,
			Location:          snap.Location,
		},
		Metadata: models.NFTMetadata{
			Confidence:  snap.Confidence,
			ScanDate:    now,
			OptimalTemp: snap.OptimalTemp,
			Rainfall:    snap.Rainfall,
			SoilType:    snap.SoilType,
			HealthScore: healthScore,
			Rarity:      models.RarityForCO2(snap.CO2AbsorbedAnnual),
		},
		Ownership: models.Ownership{
			OwnerAddress:   req.OwnerAddress,
			CreatorAddress: req.OwnerAddress,
			MintDate:       now,
		},
		Chain: []models.ChainRef{s.settlement.NextRef(tokenID)},
	}

	if err := s.ledger.Insert(ctx, nft); err != nil {
		return nil, fmt.Errorf("failed to insert nft: %w", err)
	}

	if err := s.collections.RecordMint(ctx, s.collectionID); err != nil {
		// Counters are derived state and can be rebuilt; the mint stands.
		slog.Warn("failed to bump collection minted counter",
			slog.String("collection_id", s.collectionID),
			slog.String("error", err.Error()))
	}

	slog.Info("minted nft",
		slog.String("id", nft.ID),
		slog.Int64("token_id", nft.TokenID),
		slog.String("species", nft.SpeciesName),
		slog.String("rarity", string(nft.Metadata.Rarity)),
		slog.String("owner", req.OwnerAddress))

	s.pub.Publish(marketEvent(models.EventMint, nft.ID, nft))

	return nft, nil
}

// healthScore validates a caller-supplied score or draws one in [0.7, 1.0).
func (s *MintService) healthScore(supplied *float64) (float64, error) {
	if supplied != nil {
		if *supplied < 0 || *supplied > 1 {
			return 0, fmt.Errorf("%w: health score must be within [0, 1]", models.ErrMintingFailed)
		}
		return *supplied, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return 0.7 + s.rng.Float64()*0.3, nil
}

func imageURLFor(species string, tokenID int64) string {
	seed := strings.ReplaceAll(species, " ", "-")
	return fmt.Sprintf("https://picsum.photos/seed/%s-%d/400/400.jpg", seed, tokenID)
}
