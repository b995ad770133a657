package store

import (
	"context"
	"database/sql"

	"github.com/leafchain/leafchain-api/internal/models"
)

// CollectionRepository is the Postgres-backed CollectionStore.
type CollectionRepository struct {
	db *Database
}

// NewCollectionRepository creates a new CollectionRepository
func NewCollectionRepository(db *Database) *CollectionRepository {
	return &CollectionRepository{
		db: db,
	}
}

// Insert adds a collection if it does not already exist.
func (r *CollectionRepository) Insert(ctx context.Context, c *models.Collection) error {
	query := `INSERT INTO collections (id, name, description, total_supply,
			  minted_count, floor_price, average_price, total_volume,
			  trade_count, image_url, contract_address, owner_address, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  ON CONFLICT (id) DO NOTHING`

	_, err := r.db.GetDB().ExecContext(ctx, query,
		c.ID, c.Name, c.Description, c.TotalSupply, c.MintedCount,
		c.FloorPrice, c.AveragePrice, c.TotalVolume, c.TradeCount,
		c.ImageURL, c.ContractAddress, c.OwnerAddress, c.CreatedAt)

	return err
}

// GetByID retrieves a collection by ID
func (r *CollectionRepository) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	c := &models.Collection{}
	query := `SELECT id, name, description, total_supply, minted_count,
			  floor_price, average_price, total_volume, trade_count, image_url,
			  contract_address, owner_address, created_at
			  FROM collections WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, c, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetAll retrieves all collections.
func (r *CollectionRepository) GetAll(ctx context.Context) ([]models.Collection, error) {
	collections := []models.Collection{}
	query := `SELECT id, name, description, total_supply, minted_count,
			  floor_price, average_price, total_volume, trade_count, image_url,
			  contract_address, owner_address, created_at
			  FROM collections ORDER BY id ASC`

	if err := r.db.GetDB().SelectContext(ctx, &collections, query); err != nil {
		return nil, err
	}
	return collections, nil
}

// RecordMint bumps the minted counter.
func (r *CollectionRepository) RecordMint(ctx context.Context, id string) error {
	query := `UPDATE collections SET minted_count = minted_count + 1 WHERE id = $1`
	res, err := r.db.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RecordTrade folds a settled price into the volume counters in one
// statement so concurrent purchases cannot interleave partial updates.
func (r *CollectionRepository) RecordTrade(ctx context.Context, id string, price float64) error {
	query := `UPDATE collections SET
			  total_volume = total_volume + $1,
			  trade_count = trade_count + 1,
			  average_price = (total_volume + $1) / (trade_count + 1),
			  floor_price = CASE WHEN floor_price = 0 OR $1 < floor_price
			                     THEN $1 ELSE floor_price END
			  WHERE id = $2`

	res, err := r.db.GetDB().ExecContext(ctx, query, price, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
