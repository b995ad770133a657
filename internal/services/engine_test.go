package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

func testMarketConfig() config.MarketConfig {
	return config.MarketConfig{
		FeeRate:         0.10,
		Currency:        "ETH",
		ContractAddress: "0x1234567890123456789012345678901234567890",
		ChainID:         "137",
		ListingTTLHours: 168,
		TokenIDBase:     1000,
	}
}

// eventRecorder captures published market events for assertions.
type eventRecorder struct {
	mu     sync.Mutex
	events []models.MarketEvent
}

func (r *eventRecorder) Publish(event models.MarketEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) all() []models.MarketEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.MarketEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *eventRecorder) ofType(t models.MarketEventType) []models.MarketEvent {
	out := []models.MarketEvent{}
	for _, e := range r.all() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// failingTradeLog rejects every append so purchase compensation paths can be
// driven deterministically.
type failingTradeLog struct {
	*store.MemoryTradeLog
	err error
}

func (f *failingTradeLog) Append(ctx context.Context, trade *models.Trade) error {
	return f.err
}

// testEngine wires the full service stack over the in-memory stores.
type testEngine struct {
	cfg         config.MarketConfig
	ledger      *store.MemoryLedger
	trades      *store.MemoryTradeLog
	collections *store.MemoryCollectionStore
	events      *eventRecorder

	mint      *MintService
	market    *MarketService
	portfolio *PortfolioService
	catalog   *CatalogService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	cfg := testMarketConfig()
	ledger := store.NewMemoryLedger(cfg.TokenIDBase)
	trades := store.NewMemoryTradeLog()
	collections := store.NewMemoryCollectionStore()
	events := &eventRecorder{}
	settlement := NewSettlementService(cfg)
	rng := rand.New(rand.NewSource(42))

	require.NoError(t, EnsureDefaultCollection(context.Background(), collections, cfg))

	return &testEngine{
		cfg:         cfg,
		ledger:      ledger,
		trades:      trades,
		collections: collections,
		events:      events,
		mint:        NewMintService(ledger, collections, settlement, DefaultCollectionID, rng, events),
		market:      NewMarketService(ledger, trades, collections, settlement, cfg, DefaultCollectionID, events),
		portfolio:   NewPortfolioService(ledger, trades),
		catalog:     NewCatalogService(ledger, trades, collections, cfg),
	}
}

// mintSample mints one record from the built-in catalog for the given owner.
func (e *testEngine) mintSample(t *testing.T, speciesIdx int, owner string) *models.PlantNFT {
	t.Helper()

	nft, err := e.mint.Mint(context.Background(), models.MintRequest{
		Snapshot:     models.SampleSpecies[speciesIdx].Snapshot("Nairobi, Kenya"),
		OwnerAddress: owner,
	})
	require.NoError(t, err)
	return nft
}

var errAppendRefused = errors.New("trade log unavailable")
