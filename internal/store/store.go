package store

import (
	"context"

	"github.com/leafchain/leafchain-api/internal/models"
)

// Mutation is applied to a working copy of a record under the ledger's
// per-record serialization. Returning an error aborts the update and leaves
// the record untouched; the error is surfaced to the caller unchanged.
type Mutation func(nft *models.PlantNFT) error

// Ledger is the authoritative store of records and their current
// ownership/listing state. Updates against different ids proceed in
// parallel; updates against the same id are serialized.
type Ledger interface {
	// NextTokenID allocates a fresh token id. Allocations are unique and
	// strictly increasing; an id burned by a failed mint is never reused.
	NextTokenID(ctx context.Context) (int64, error)

	// Insert adds a freshly minted record. The record's token id must
	// come from NextTokenID.
	Insert(ctx context.Context, nft *models.PlantNFT) error

	// GetByID returns a copy of the record, or models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.PlantNFT, error)

	// GetAll returns copies of every record in mint order.
	GetAll(ctx context.Context) ([]models.PlantNFT, error)

	// Update applies fn to the record under the compare-and-mutate
	// primitive and returns the committed state. Returns
	// models.ErrNotFound for unknown ids, fn's error when fn rejects the
	// precondition, or models.ErrConcurrentModification when the commit
	// loses a race.
	Update(ctx context.Context, id string, fn Mutation) (*models.PlantNFT, error)
}

// TradeLog is the append-only trade history. No update or delete exists.
type TradeLog interface {
	Append(ctx context.Context, trade *models.Trade) error

	// Recent returns the most recent trades, newest first.
	Recent(ctx context.Context, limit int) ([]models.Trade, error)

	// ByAddress returns the most recent trades where the address is buyer
	// or seller, newest first.
	ByAddress(ctx context.Context, address string, limit int) ([]models.Trade, error)
}

// CollectionStore holds per-collection counters. The counters are derived
// from records and trades and may be rebuilt from them.
type CollectionStore interface {
	Insert(ctx context.Context, c *models.Collection) error
	GetByID(ctx context.Context, id string) (*models.Collection, error)
	GetAll(ctx context.Context) ([]models.Collection, error)

	// RecordMint bumps the minted counter.
	RecordMint(ctx context.Context, id string) error

	// RecordTrade folds a settled price into the volume counters.
	RecordTrade(ctx context.Context, id string, price float64) error
}
