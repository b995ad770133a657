package services

import (
	"context"
	"fmt"

	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

// recentTradeLimit caps the trades attached to a portfolio.
const recentTradeLimit = 5

// PortfolioService derives per-owner views from the ledger and the trade
// log. Pure reads; nothing is cached or stored.
type PortfolioService struct {
	ledger store.Ledger
	trades store.TradeLog
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(ledger store.Ledger, trades store.TradeLog) *PortfolioService {
	return &PortfolioService{
		ledger: ledger,
		trades: trades,
	}
}

// GetPortfolio returns the address's holdings, their combined asking value
// and the most recent trades touching the address. An address with no
// holdings gets an empty portfolio, not an error.
func (s *PortfolioService) GetPortfolio(ctx context.Context, ownerAddress string) (*models.Portfolio, error) {
	all, err := s.ledger.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger: %w", err)
	}

	owned := []models.PlantNFT{}
	totalValue := 0.0
	for i := range all {
		if all[i].Ownership.OwnerAddress != ownerAddress {
			continue
		}
		owned = append(owned, all[i])
		totalValue += all[i].CurrentPrice()
	}

	recent, err := s.trades.ByAddress(ctx, ownerAddress, recentTradeLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}

	return &models.Portfolio{
		OwnerAddress: ownerAddress,
		TotalNFTs:    len(owned),
		TotalValue:   totalValue,
		NFTs:         owned,
		RecentTrades: recent,
	}, nil
}
