package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementRefs(t *testing.T) {
	svc := NewSettlementService(testMarketConfig())

	first := svc.NextRef(1001)
	second := svc.NextRef(1001)
	third := svc.NextRef(1002)

	for _, tx := range []string{first.TxHash, second.TxHash, third.TxHash} {
		assert.True(t, strings.HasPrefix(tx, "0x"))
		assert.Len(t, tx, 2+64)
	}

	// Same token, different operations: distinct hashes, advancing blocks.
	assert.NotEqual(t, first.TxHash, second.TxHash)
	assert.Greater(t, second.BlockNumber, first.BlockNumber)
	assert.Greater(t, third.BlockNumber, second.BlockNumber)

	require.Equal(t, "0x1234567890123456789012345678901234567890", first.ContractAddress)
	require.Equal(t, "137", first.ChainID)
}
