package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/leafchain/leafchain-api/internal/models"
)

// NFTRepository is the Postgres-backed Ledger. The structured parts of a
// record live in JSONB columns; owner/listing mutations go through an
// optimistic version check so lost updates surface as
// models.ErrConcurrentModification.
type NFTRepository struct {
	db *Database
}

// NewNFTRepository creates a new NFTRepository
func NewNFTRepository(db *Database) *NFTRepository {
	return &NFTRepository{
		db: db,
	}
}

type nftRow struct {
	ID          string          `db:"id"`
	TokenID     int64           `db:"token_id"`
	Name        string          `db:"name"`
	Description string          `db:"description"`
	ImageURL    string          `db:"image_url"`
	SpeciesName string          `db:"species_name"`
	CommonName  string          `db:"common_name"`
	PlantType   string          `db:"plant_type"`
	Impact      json.RawMessage `db:"impact"`
	Metadata    json.RawMessage `db:"metadata"`
	Ownership   json.RawMessage `db:"ownership"`
	Chain       json.RawMessage `db:"chain"`
	Market      json.RawMessage `db:"market"`
	Version     int64           `db:"version"`
	CreatedAt   time.Time       `db:"created_at"`
}

const nftColumns = `id, token_id, name, description, image_url, species_name,
		common_name, plant_type, impact, metadata, ownership, chain, market,
		version, created_at`

func (row *nftRow) toModel() (*models.PlantNFT, error) {
	nft := &models.PlantNFT{
		ID:          row.ID,
		TokenID:     row.TokenID,
		Name:        row.Name,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		SpeciesName: row.SpeciesName,
		CommonName:  row.CommonName,
		PlantType:   row.PlantType,
		Version:     row.Version,
	}
	if err := json.Unmarshal(row.Impact, &nft.EnvironmentalImpact); err != nil {
		return nil, fmt.Errorf("failed to decode impact for nft %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Metadata, &nft.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata for nft %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Ownership, &nft.Ownership); err != nil {
		return nil, fmt.Errorf("failed to decode ownership for nft %s: %w", row.ID, err)
	}
	if err := json.Unmarshal(row.Chain, &nft.Chain); err != nil {
		return nil, fmt.Errorf("failed to decode chain refs for nft %s: %w", row.ID, err)
	}
	if len(row.Market) > 0 {
		nft.MarketData = &models.MarketData{}
		if err := json.Unmarshal(row.Market, nft.MarketData); err != nil {
			return nil, fmt.Errorf("failed to decode market data for nft %s: %w", row.ID, err)
		}
	}
	return nft, nil
}

func encodeNFT(nft *models.PlantNFT) (impact, metadata, ownership, chain, market []byte, err error) {
	if impact, err = json.Marshal(nft.EnvironmentalImpact); err != nil {
		return
	}
	if metadata, err = json.Marshal(nft.Metadata); err != nil {
		return
	}
	if ownership, err = json.Marshal(nft.Ownership); err != nil {
		return
	}
	if chain, err = json.Marshal(nft.Chain); err != nil {
		return
	}
	if nft.MarketData != nil {
		market, err = json.Marshal(nft.MarketData)
	}
	return
}

// NextTokenID allocates the next token id from the database sequence.
func (r *NFTRepository) NextTokenID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.GetDB().GetContext(ctx, &id, `SELECT nextval('plant_nft_token_seq')`)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate token id: %w", err)
	}
	return id, nil
}

// Insert adds a freshly minted record.
func (r *NFTRepository) Insert(ctx context.Context, nft *models.PlantNFT) error {
	impact, metadata, ownership, chain, market, err := encodeNFT(nft)
	if err != nil {
		return fmt.Errorf("failed to encode nft %s: %w", nft.ID, err)
	}

	query := `INSERT INTO nfts (id, token_id, name, description, image_url,
			  species_name, common_name, plant_type, impact, metadata,
			  ownership, chain, market, version)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.db.GetDB().ExecContext(ctx, query,
		nft.ID, nft.TokenID, nft.Name, nft.Description, nft.ImageURL,
		nft.SpeciesName, nft.CommonName, nft.PlantType,
		impact, metadata, ownership, chain, market, nft.Version)

	return err
}

// GetByID retrieves a record by ID
func (r *NFTRepository) GetByID(ctx context.Context, id string) (*models.PlantNFT, error) {
	row := &nftRow{}
	query := `SELECT ` + nftColumns + ` FROM nfts WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, err
	}

	return row.toModel()
}

// GetAll retrieves every record in mint order.
func (r *NFTRepository) GetAll(ctx context.Context) ([]models.PlantNFT, error) {
	rows := []nftRow{}
	query := `SELECT ` + nftColumns + ` FROM nfts ORDER BY token_id ASC`

	if err := r.db.GetDB().SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	nfts := make([]models.PlantNFT, 0, len(rows))
	for i := range rows {
		nft, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		nfts = append(nfts, *nft)
	}
	return nfts, nil
}

// Update applies fn under an optimistic version check. A concurrent writer
// that commits first makes the update fail with ErrConcurrentModification;
// callers re-read and retry.
func (r *NFTRepository) Update(ctx context.Context, id string, fn Mutation) (*models.PlantNFT, error) {
	nft, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := nft.Version
	if err := fn(nft); err != nil {
		return nil, err
	}
	nft.Version = expectedVersion + 1

	// Only owner/listing fields may change after mint, so the update
	// writes ownership, chain and market alone.
	ownership, err := json.Marshal(nft.Ownership)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ownership for nft %s: %w", id, err)
	}
	chain, err := json.Marshal(nft.Chain)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chain refs for nft %s: %w", id, err)
	}
	var market []byte
	if nft.MarketData != nil {
		if market, err = json.Marshal(nft.MarketData); err != nil {
			return nil, fmt.Errorf("failed to encode market data for nft %s: %w", id, err)
		}
	}

	query := `UPDATE nfts SET ownership = $1, chain = $2, market = $3,
			  version = $4 WHERE id = $5 AND version = $6`

	res, err := r.db.GetDB().ExecContext(ctx, query,
		ownership, chain, market, nft.Version, id, expectedVersion)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrConcurrentModification
	}

	return nft, nil
}
