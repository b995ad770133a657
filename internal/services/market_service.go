package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
	"github.com/leafchain/leafchain-api/internal/store"
)

// MarketService owns the listing and purchase flows. All state changes go
// through the ledger's compare-and-mutate primitive, so a purchase racing a
// relist or a second purchase on the same record resolves to exactly one of
// the two possible outcomes.
type MarketService struct {
	ledger       store.Ledger
	trades       store.TradeLog
	collections  store.CollectionStore
	settlement   *SettlementService
	cfg          config.MarketConfig
	collectionID string
	pub          Publisher
}

// NewMarketService creates a new MarketService
func NewMarketService(ledger store.Ledger, trades store.TradeLog, collections store.CollectionStore, settlement *SettlementService, cfg config.MarketConfig, collectionID string, pub Publisher) *MarketService {
	if pub == nil {
		pub = NopPublisher
	}
	return &MarketService{
		ledger:       ledger,
		trades:       trades,
		collections:  collections,
		settlement:   settlement,
		cfg:          cfg,
		collectionID: collectionID,
		pub:          pub,
	}
}

// List puts a record up for sale at the given price. Relisting an
// already-listed record just updates the price. When callerAddress is known
// it must match the current owner.
func (s *MarketService) List(ctx context.Context, id, callerAddress string, price float64) (*models.PlantNFT, error) {
	if price <= 0 {
		return nil, models.ErrInvalidPrice
	}

	updated, err := s.ledger.Update(ctx, id, func(nft *models.PlantNFT) error {
		if callerAddress != "" && nft.Ownership.OwnerAddress != callerAddress {
			return models.ErrNotOwner
		}
		if nft.MarketData == nil {
			nft.MarketData = &models.MarketData{}
		}
		nft.MarketData.CurrentPrice = price
		nft.MarketData.Currency = s.cfg.Currency
		nft.MarketData.ListedForSale = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("listed nft for sale",
		slog.String("id", id),
		slog.Int64("token_id", updated.TokenID),
		slog.Float64("price", price))

	s.pub.Publish(marketEvent(models.EventListing, id, updated))

	return updated, nil
}

// Purchase settles a sale: owner changes to the buyer, the listing clears,
// a settlement reference is appended and exactly one trade is recorded. The
// ledger mutation and the trade append form one logical transaction; when
// the append fails, the mutation is compensated so ledger and history never
// diverge.
func (s *MarketService) Purchase(ctx context.Context, id, buyerAddress string) (*models.PlantNFT, error) {
	var (
		trade        *models.Trade
		prevOwner    string
		prevTransfer *time.Time
		prevMarket   models.MarketData
		prevChainLen int
	)

	updated, err := s.ledger.Update(ctx, id, func(nft *models.PlantNFT) error {
		if !nft.Listed() {
			return models.ErrNotListed
		}
		if nft.Ownership.OwnerAddress == buyerAddress {
			return models.ErrSelfTrade
		}

		prevOwner = nft.Ownership.OwnerAddress
		prevTransfer = nft.Ownership.LastTransferDate
		prevMarket = *nft.MarketData
		prevChainLen = len(nft.Chain)

		price := nft.MarketData.CurrentPrice
		now := time.Now()
		ref := s.settlement.NextRef(nft.TokenID)

		nft.Ownership.OwnerAddress = buyerAddress
		nft.Ownership.LastTransferDate = &now
		nft.Chain = append(nft.Chain, ref)
		nft.MarketData.ListedForSale = false
		nft.MarketData.LastSalePrice = price
		nft.MarketData.LastSaleDate = &now

		trade = &models.Trade{
			ID:             uuid.New().String(),
			TokenID:        nft.TokenID,
			FromAddress:    prevOwner,
			ToAddress:      buyerAddress,
			Price:          price,
			Currency:       nft.MarketData.Currency,
			Timestamp:      now,
			TxHash:         ref.TxHash,
			MarketplaceFee: price * s.cfg.FeeRate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.trades.Append(ctx, trade); err != nil {
		s.compensate(ctx, id, prevOwner, prevTransfer, prevMarket, prevChainLen)
		return nil, fmt.Errorf("failed to record trade: %w", err)
	}

	if err := s.collections.RecordTrade(ctx, s.collectionID, trade.Price); err != nil {
		// Counters are derived state and can be rebuilt; the sale stands.
		slog.Warn("failed to update collection volume",
			slog.String("collection_id", s.collectionID),
			slog.String("error", err.Error()))
	}

	slog.Info("settled purchase",
		slog.String("id", id),
		slog.Int64("token_id", updated.TokenID),
		slog.String("seller", trade.FromAddress),
		slog.String("buyer", trade.ToAddress),
		slog.Float64("price", trade.Price),
		slog.Float64("fee", trade.MarketplaceFee))

	s.pub.Publish(marketEvent(models.EventTrade, id, trade))

	return updated, nil
}

// compensate restores the pre-purchase ownership and listing state after a
// failed trade append.
func (s *MarketService) compensate(ctx context.Context, id, prevOwner string, prevTransfer *time.Time, prevMarket models.MarketData, prevChainLen int) {
	_, err := s.ledger.Update(ctx, id, func(nft *models.PlantNFT) error {
		nft.Ownership.OwnerAddress = prevOwner
		nft.Ownership.LastTransferDate = prevTransfer
		if len(nft.Chain) > prevChainLen {
			nft.Chain = nft.Chain[:prevChainLen]
		}
		market := prevMarket
		nft.MarketData = &market
		return nil
	})
	if err != nil {
		slog.Error("failed to roll back purchase after trade append failure",
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
}
