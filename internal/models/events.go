package models

import "encoding/json"

// MarketEventType identifies the kind of engine event pushed to subscribers.
type MarketEventType string

const (
	EventMint    MarketEventType = "mint"
	EventListing MarketEventType = "listing"
	EventTrade   MarketEventType = "trade"
)

// MarketEvent is broadcast over the market feed after a successful engine
// operation.
type MarketEvent struct {
	Type    MarketEventType `json:"type"`
	NFTID   string          `json:"nftId"`
	Payload json.RawMessage `json:"payload"`
}
