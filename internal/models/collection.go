package models

import "time"

// Collection aggregates counters over a named group of records. The counters
// are derived from the base nfts and trades tables and can always be rebuilt
// from them.
type Collection struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	TotalSupply     int64     `json:"totalSupply" db:"total_supply"`
	MintedCount     int64     `json:"mintedCount" db:"minted_count"`
	FloorPrice      float64   `json:"floorPrice" db:"floor_price"`
	AveragePrice    float64   `json:"averagePrice" db:"average_price"`
	TotalVolume     float64   `json:"totalVolume" db:"total_volume"`
	TradeCount      int64     `json:"-" db:"trade_count"`
	ImageURL        string    `json:"imageUrl" db:"image_url"`
	ContractAddress string    `json:"contractAddress" db:"contract_address"`
	OwnerAddress    string    `json:"ownerAddress" db:"owner_address"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// ApplyTrade folds one settled sale into the collection counters.
func (c *Collection) ApplyTrade(price float64) {
	c.TotalVolume += price
	c.TradeCount++
	c.AveragePrice = c.TotalVolume / float64(c.TradeCount)
	if c.FloorPrice == 0 || price < c.FloorPrice {
		c.FloorPrice = price
	}
}
