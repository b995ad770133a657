package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/leafchain/leafchain-api/internal/models"
)

// TradeRepository is the Postgres-backed TradeLog. Insert-only: no update or
// delete statement exists in this file on purpose.
type TradeRepository struct {
	db *Database
}

// NewTradeRepository creates a new TradeRepository
func NewTradeRepository(db *Database) *TradeRepository {
	return &TradeRepository{
		db: db,
	}
}

// Append adds a trade to the history.
func (r *TradeRepository) Append(ctx context.Context, trade *models.Trade) error {
	if trade.ID == "" {
		trade.ID = uuid.New().String()
	}
	if trade.Timestamp.IsZero() {
		trade.Timestamp = time.Now()
	}

	query := `INSERT INTO trades (id, token_id, from_address, to_address,
			  price, currency, timestamp, tx_hash, marketplace_fee)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.GetDB().ExecContext(ctx, query,
		trade.ID, trade.TokenID, trade.FromAddress, trade.ToAddress,
		trade.Price, trade.Currency, trade.Timestamp, trade.TxHash,
		trade.MarketplaceFee)

	return err
}

// Recent returns the most recent trades, newest first.
func (r *TradeRepository) Recent(ctx context.Context, limit int) ([]models.Trade, error) {
	trades := []models.Trade{}
	query := `SELECT id, token_id, from_address, to_address, price, currency,
			  timestamp, tx_hash, marketplace_fee
			  FROM trades ORDER BY timestamp DESC LIMIT $1`

	if err := r.db.GetDB().SelectContext(ctx, &trades, query, limit); err != nil {
		return nil, err
	}
	return trades, nil
}

// ByAddress returns the most recent trades where the address was buyer or
// seller, newest first.
func (r *TradeRepository) ByAddress(ctx context.Context, address string, limit int) ([]models.Trade, error) {
	trades := []models.Trade{}
	query := `SELECT id, token_id, from_address, to_address, price, currency,
			  timestamp, tx_hash, marketplace_fee
			  FROM trades WHERE from_address = $1 OR to_address = $1
			  ORDER BY timestamp DESC LIMIT $2`

	if err := r.db.GetDB().SelectContext(ctx, &trades, query, address, limit); err != nil {
		return nil, err
	}
	return trades, nil
}
