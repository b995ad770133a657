package models

import "time"

// Trade is the immutable record of one completed sale. Created only by the
// purchase flow and never edited afterwards.
type Trade struct {
	ID             string    `json:"id" db:"id"`
	TokenID        int64     `json:"tokenId" db:"token_id"`
	FromAddress    string    `json:"fromAddress" db:"from_address"`
	ToAddress      string    `json:"toAddress" db:"to_address"`
	Price          float64   `json:"price" db:"price"`
	Currency       string    `json:"currency" db:"currency"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	TxHash         string    `json:"transactionHash" db:"tx_hash"`
	MarketplaceFee float64   `json:"marketplaceFee" db:"marketplace_fee"`
}

// Touches reports whether the address was either side of the trade.
func (t *Trade) Touches(address string) bool {
	return t.FromAddress == address || t.ToAddress == address
}

// TradeListResponse is the response for the recent-trades endpoint.
type TradeListResponse struct {
	Trades     []Trade `json:"trades"`
	TotalCount int     `json:"total_count"`
}
