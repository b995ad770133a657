package models

import "time"

// Portfolio is a derived, per-owner view over the ledger and the trade log.
// Never stored; recomputed on demand.
type Portfolio struct {
	OwnerAddress string     `json:"ownerAddress"`
	TotalNFTs    int        `json:"totalNFTs"`
	TotalValue   float64    `json:"totalValue"`
	NFTs         []PlantNFT `json:"nfts"`
	RecentTrades []Trade    `json:"recentTrades"`
}

// Listing is a marketplace projection of one record currently for sale.
type Listing struct {
	NFTID          string    `json:"nftId"`
	TokenID        int64     `json:"tokenId"`
	SellerAddress  string    `json:"sellerAddress"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	ExpirationDate time.Time `json:"expirationDate"`
}

// MarketplaceResponse wraps the active listings.
type MarketplaceResponse struct {
	Listings []Listing `json:"listings"`
}
