package services

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/leafchain/leafchain-api/internal/config"
	"github.com/leafchain/leafchain-api/internal/models"
)

// settlementBlockBase is where the simulated chain height starts.
const settlementBlockBase = 12345678

// SettlementService fabricates chain references for mints and transfers. It
// stands in for a real settlement backend: transaction hashes are derived
// deterministically from the operation inputs and block numbers increase
// monotonically, so the audit trail behaves like one produced by a chain.
type SettlementService struct {
	contractAddress string
	chainID         string
	blockNumber     atomic.Int64
}

// NewSettlementService creates a new SettlementService
func NewSettlementService(cfg config.MarketConfig) *SettlementService {
	s := &SettlementService{
		contractAddress: cfg.ContractAddress,
		chainID:         cfg.ChainID,
	}
	s.blockNumber.Store(settlementBlockBase)
	return s
}

// NextRef issues the settlement entry for one mint or transfer of the token.
func (s *SettlementService) NextRef(tokenID int64) models.ChainRef {
	block := s.blockNumber.Add(1)
	payload := fmt.Sprintf("%s:%s:%d:%d:%d",
		s.contractAddress, s.chainID, tokenID, block, time.Now().UnixNano())
	hash := chainhash.DoubleHashH([]byte(payload))

	return models.ChainRef{
		ContractAddress: s.contractAddress,
		ChainID:         s.chainID,
		TxHash:          "0x" + hash.String(),
		BlockNumber:     block,
	}
}
