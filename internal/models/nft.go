package models

import (
	"fmt"
	"time"
)

// Rarity is the tier assigned to a record at mint time, derived from the
// plant's annual CO2 absorption.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Rarity thresholds in kg CO2 absorbed annually.
const (
	rarityLegendaryMin = 60
	rarityEpicMin      = 45
	rarityRareMin      = 35
	rarityUncommonMin  = 25
)

// RarityForCO2 maps an annual CO2 absorption figure to a rarity tier.
// Monotonic: a larger input never yields a lower tier.
func RarityForCO2(annual float64) Rarity {
	switch {
	case annual >= rarityLegendaryMin:
		return RarityLegendary
	case annual >= rarityEpicMin:
		return RarityEpic
	case annual >= rarityRareMin:
		return RarityRare
	case annual >= rarityUncommonMin:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

// Rank returns the ordinal position of the tier, common = 0.
func (r Rarity) Rank() int {
	switch r {
	case RarityLegendary:
		return 4
	case RarityEpic:
		return 3
	case RarityRare:
		return 2
	case RarityUncommon:
		return 1
	default:
		return 0
	}
}

// EnvironmentalImpact is the snapshot captured from the identification
// pipeline at mint time. Immutable after mint.
type EnvironmentalImpact struct {
	CO2AbsorbedAnnual float64 `json:"co2AbsorbedAnnual"`
	CO2AbsorbedDaily  float64 `json:"co2AbsorbedDaily"`
	CanopyArea        float64 `json:"canopyArea"`
	Height            float64 `json:"height"`
	Location          string  `json:"location"`
}

// NFTMetadata holds the scan-derived figures and the computed rarity.
type NFTMetadata struct {
	Confidence  float64   `json:"confidence"`
	ScanDate    time.Time `json:"scanDate"`
	OptimalTemp float64   `json:"optimalTemp"`
	Rainfall    float64   `json:"rainfall"`
	SoilType    string    `json:"soilType"`
	HealthScore float64   `json:"healthScore"`
	Rarity      Rarity    `json:"rarity"`
}

// Ownership tracks the current and original holder of a record. OwnerAddress
// is the only field that changes after mint, and only through a completed
// trade.
type Ownership struct {
	OwnerAddress     string     `json:"ownerAddress"`
	CreatorAddress   string     `json:"creatorAddress"`
	MintDate         time.Time  `json:"mintDate"`
	LastTransferDate *time.Time `json:"lastTransferDate,omitempty"`
}

// ChainRef is one entry in a record's settlement audit trail. A record gets
// one at mint and one per transfer; entries are never rewritten.
type ChainRef struct {
	ContractAddress string `json:"contractAddress"`
	ChainID         string `json:"chainId"`
	TxHash          string `json:"transactionHash"`
	BlockNumber     int64  `json:"blockNumber"`
}

// MarketData is present only while a record has market-relevant state.
type MarketData struct {
	CurrentPrice  float64    `json:"currentPrice,omitempty"`
	Currency      string     `json:"currency,omitempty"`
	ListedForSale bool       `json:"listedForSale"`
	LastSalePrice float64    `json:"lastSalePrice,omitempty"`
	LastSaleDate  *time.Time `json:"lastSaleDate,omitempty"`
}

// PlantNFT is one minted unit of environmental-impact provenance.
type PlantNFT struct {
	ID          string `json:"id"`
	TokenID     int64  `json:"tokenId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	SpeciesName string `json:"speciesName"`
	CommonName  string `json:"commonName"`
	PlantType   string `json:"plantType"`

	EnvironmentalImpact EnvironmentalImpact `json:"environmentalImpact"`
	Metadata            NFTMetadata         `json:"metadata"`
	Ownership           Ownership           `json:"ownership"`
	Chain               []ChainRef          `json:"blockchain"`
	MarketData          *MarketData         `json:"marketData,omitempty"`

	// Version backs the ledger's compare-and-mutate primitive. Bumped on
	// every committed mutation; not part of the API payload.
	Version int64 `json:"-"`
}

// Listed reports whether the record is currently up for sale.
func (n *PlantNFT) Listed() bool {
	return n.MarketData != nil && n.MarketData.ListedForSale
}

// CurrentPrice returns the asking price, 0 when unlisted or never priced.
func (n *PlantNFT) CurrentPrice() float64 {
	if n.MarketData == nil {
		return 0
	}
	return n.MarketData.CurrentPrice
}

// LatestChainRef returns the most recent settlement entry.
func (n *PlantNFT) LatestChainRef() *ChainRef {
	if len(n.Chain) == 0 {
		return nil
	}
	return &n.Chain[len(n.Chain)-1]
}

// Clone returns a deep copy of the record.
func (n *PlantNFT) Clone() *PlantNFT {
	c := *n
	c.Chain = make([]ChainRef, len(n.Chain))
	copy(c.Chain, n.Chain)
	if n.Ownership.LastTransferDate != nil {
		t := *n.Ownership.LastTransferDate
		c.Ownership.LastTransferDate = &t
	}
	if n.MarketData != nil {
		md := *n.MarketData
		if md.LastSaleDate != nil {
			t := *md.LastSaleDate
			md.LastSaleDate = &t
		}
		c.MarketData = &md
	}
	return &c
}

// ImpactSnapshot is the raw identification-pipeline output handed to the
// minter. The engine validates it here before any state is touched.
type ImpactSnapshot struct {
	SpeciesName       string  `json:"speciesName"`
	CommonName        string  `json:"commonName"`
	PlantType         string  `json:"plantType"`
	Description       string  `json:"description"`
	CO2AbsorbedAnnual float64 `json:"co2AbsorbedAnnual"`
	CO2AbsorbedDaily  float64 `json:"co2AbsorbedDaily"`
	CanopyArea        float64 `json:"canopyArea"`
	Height            float64 `json:"height"`
	Location          string  `json:"location"`
	Confidence        float64 `json:"confidence"`
	OptimalTemp       float64 `json:"optimalTemp"`
	Rainfall          float64 `json:"rainfall"`
	SoilType          string  `json:"soilType"`
}

// Validate checks the fields the minter cannot proceed without.
func (s *ImpactSnapshot) Validate() error {
	if s.SpeciesName == "" {
		return fmt.Errorf("%w: species name is required", ErrMintingFailed)
	}
	if s.CO2AbsorbedAnnual <= 0 {
		return fmt.Errorf("%w: annual CO2 absorption must be positive", ErrMintingFailed)
	}
	return nil
}

// MintRequest is the payload accepted by the mint endpoint.
type MintRequest struct {
	Snapshot     ImpactSnapshot `json:"snapshot"`
	OwnerAddress string         `json:"ownerAddress"`
	// HealthScore, when supplied, overrides the generated value. Must be
	// within [0, 1].
	HealthScore *float64 `json:"healthScore,omitempty"`
}

// ListRequest is the payload accepted by the list-for-sale endpoint.
type ListRequest struct {
	Price float64 `json:"price"`
}

// PurchaseRequest is the payload accepted by the purchase endpoint.
type PurchaseRequest struct {
	BuyerAddress string `json:"buyerAddress"`
}
