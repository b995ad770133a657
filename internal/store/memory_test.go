package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafchain/leafchain-api/internal/models"
)

func newLedgerNFT(id string, tokenID int64, owner string) *models.PlantNFT {
	return &models.PlantNFT{
		ID:          id,
		TokenID:     tokenID,
		Name:        fmt.Sprintf("Mango Guardian #%d", tokenID),
		SpeciesName: "Mangifera indica",
		Ownership: models.Ownership{
			OwnerAddress:   owner,
			CreatorAddress: owner,
		},
	}
}

func TestMemoryLedgerInsertAndGet(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)

	nft := newLedgerNFT("nft-1", 1001, "0xaaa")
	require.NoError(t, ledger.Insert(ctx, nft))

	got, err := ledger.GetByID(ctx, "nft-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1001), got.TokenID)
	assert.Equal(t, "0xaaa", got.Ownership.OwnerAddress)

	// The ledger hands out copies, not aliases into its own state.
	got.Ownership.OwnerAddress = "0xmutated"
	again, err := ledger.GetByID(ctx, "nft-1")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", again.Ownership.OwnerAddress)

	_, err = ledger.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryLedgerGetAllMintOrder(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("nft-%d", i)
		require.NoError(t, ledger.Insert(ctx, newLedgerNFT(id, int64(1001+i), "0xaaa")))
	}

	all, err := ledger.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, nft := range all {
		assert.Equal(t, fmt.Sprintf("nft-%d", i), nft.ID)
	}
}

func TestMemoryLedgerNextTokenIDStrictlyIncreasing(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)

	first, err := ledger.NextTokenID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), first)

	const goroutines = 16
	const perGoroutine = 50

	var mu sync.Mutex
	seen := make(map[int64]bool)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id, err := ledger.NextTokenID(ctx)
				assert.NoError(t, err)
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine, "token ids must be unique")
	for id := range seen {
		assert.Greater(t, id, first)
	}
}

func TestMemoryLedgerUpdate(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)
	require.NoError(t, ledger.Insert(ctx, newLedgerNFT("nft-1", 1001, "0xaaa")))

	updated, err := ledger.Update(ctx, "nft-1", func(nft *models.PlantNFT) error {
		nft.Ownership.OwnerAddress = "0xbbb"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "0xbbb", updated.Ownership.OwnerAddress)
	assert.Equal(t, int64(1), updated.Version)

	_, err = ledger.Update(ctx, "missing", func(*models.PlantNFT) error { return nil })
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMemoryLedgerUpdateRejectionLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)
	require.NoError(t, ledger.Insert(ctx, newLedgerNFT("nft-1", 1001, "0xaaa")))

	boom := errors.New("mutation rejected")
	_, err := ledger.Update(ctx, "nft-1", func(nft *models.PlantNFT) error {
		nft.Ownership.OwnerAddress = "0xevil"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := ledger.GetByID(ctx, "nft-1")
	require.NoError(t, err)
	assert.Equal(t, "0xaaa", got.Ownership.OwnerAddress)
	assert.Equal(t, int64(0), got.Version)
}

func TestMemoryLedgerConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	ledger := NewMemoryLedger(1000)

	nft := newLedgerNFT("nft-1", 1001, "0xaaa")
	nft.MarketData = &models.MarketData{}
	require.NoError(t, ledger.Insert(ctx, nft))

	const workers = 8
	const bumps = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < bumps; i++ {
				_, err := ledger.Update(ctx, "nft-1", func(n *models.PlantNFT) error {
					n.MarketData.CurrentPrice++
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	got, err := ledger.GetByID(ctx, "nft-1")
	require.NoError(t, err)
	assert.Equal(t, float64(workers*bumps), got.MarketData.CurrentPrice,
		"every mutation must be applied exactly once")
	assert.Equal(t, int64(workers*bumps), got.Version)
}

func TestMemoryTradeLogOrderingAndFilter(t *testing.T) {
	ctx := context.Background()
	log := NewMemoryTradeLog()

	for i := 0; i < 5; i++ {
		from := "0xseller"
		if i%2 == 1 {
			from = "0xother"
		}
		require.NoError(t, log.Append(ctx, &models.Trade{
			ID:          fmt.Sprintf("trade-%d", i),
			TokenID:     int64(1001 + i),
			FromAddress: from,
			ToAddress:   "0xbuyer",
			Price:       0.1,
		}))
	}

	recent, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "trade-4", recent[0].ID)
	assert.Equal(t, "trade-2", recent[2].ID)

	bySeller, err := log.ByAddress(ctx, "0xseller", 0)
	require.NoError(t, err)
	require.Len(t, bySeller, 3)
	assert.Equal(t, "trade-4", bySeller[0].ID)

	byBuyer, err := log.ByAddress(ctx, "0xbuyer", 2)
	require.NoError(t, err)
	assert.Len(t, byBuyer, 2)

	none, err := log.ByAddress(ctx, "0xnobody", 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	assert.Equal(t, 5, log.Len())
}

func TestMemoryCollectionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCollectionStore()

	require.NoError(t, store.Insert(ctx, &models.Collection{ID: "collection-1", Name: "Plant Guardians Collection"}))

	_, err := store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, store.RecordMint(ctx, "missing"), models.ErrNotFound)
	assert.ErrorIs(t, store.RecordTrade(ctx, "missing", 0.1), models.ErrNotFound)

	require.NoError(t, store.RecordMint(ctx, "collection-1"))
	require.NoError(t, store.RecordMint(ctx, "collection-1"))
	require.NoError(t, store.RecordTrade(ctx, "collection-1", 0.12))
	require.NoError(t, store.RecordTrade(ctx, "collection-1", 0.06))

	got, err := store.GetByID(ctx, "collection-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.MintedCount)
	assert.InDelta(t, 0.18, got.TotalVolume, 1e-9)
	assert.InDelta(t, 0.09, got.AveragePrice, 1e-9)
	assert.Equal(t, 0.06, got.FloorPrice)

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
