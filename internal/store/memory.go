package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/leafchain/leafchain-api/internal/models"
)

// MemoryLedger is the in-process Ledger implementation. Each record carries
// its own mutex, so mutations against different ids run in parallel while
// mutations against the same id are serialized.
type MemoryLedger struct {
	mu          sync.RWMutex
	records     map[string]*memoryRecord
	mintOrder   []string
	nextTokenID atomic.Int64
}

type memoryRecord struct {
	mu  sync.Mutex
	nft *models.PlantNFT
}

// NewMemoryLedger creates a ledger whose first allocated token id is
// tokenIDBase+1.
func NewMemoryLedger(tokenIDBase int64) *MemoryLedger {
	l := &MemoryLedger{records: make(map[string]*memoryRecord)}
	l.nextTokenID.Store(tokenIDBase)
	return l
}

func (l *MemoryLedger) NextTokenID(ctx context.Context) (int64, error) {
	return l.nextTokenID.Add(1), nil
}

func (l *MemoryLedger) Insert(ctx context.Context, nft *models.PlantNFT) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[nft.ID] = &memoryRecord{nft: nft.Clone()}
	l.mintOrder = append(l.mintOrder, nft.ID)
	return nil
}

func (l *MemoryLedger) GetByID(ctx context.Context, id string) (*models.PlantNFT, error) {
	l.mu.RLock()
	rec, ok := l.records[id]
	l.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.nft.Clone(), nil
}

func (l *MemoryLedger) GetAll(ctx context.Context) ([]models.PlantNFT, error) {
	l.mu.RLock()
	order := make([]string, len(l.mintOrder))
	copy(order, l.mintOrder)
	recs := make([]*memoryRecord, 0, len(order))
	for _, id := range order {
		recs = append(recs, l.records[id])
	}
	l.mu.RUnlock()

	out := make([]models.PlantNFT, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		out = append(out, *rec.nft.Clone())
		rec.mu.Unlock()
	}
	return out, nil
}

func (l *MemoryLedger) Update(ctx context.Context, id string, fn Mutation) (*models.PlantNFT, error) {
	l.mu.RLock()
	rec, ok := l.records[id]
	l.mu.RUnlock()
	if !ok {
		return nil, models.ErrNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	working := rec.nft.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	working.Version = rec.nft.Version + 1
	rec.nft = working
	return working.Clone(), nil
}

// MemoryTradeLog is the in-process append-only trade history.
type MemoryTradeLog struct {
	mu     sync.RWMutex
	trades []models.Trade
}

func NewMemoryTradeLog() *MemoryTradeLog {
	return &MemoryTradeLog{}
}

func (t *MemoryTradeLog) Append(ctx context.Context, trade *models.Trade) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trades = append(t.trades, *trade)
	return nil
}

func (t *MemoryTradeLog) Recent(ctx context.Context, limit int) ([]models.Trade, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter(func(models.Trade) bool { return true }, limit), nil
}

func (t *MemoryTradeLog) ByAddress(ctx context.Context, address string, limit int) ([]models.Trade, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter(func(tr models.Trade) bool { return tr.Touches(address) }, limit), nil
}

// filter walks the log newest-first. Callers hold the read lock.
func (t *MemoryTradeLog) filter(keep func(models.Trade) bool, limit int) []models.Trade {
	out := []models.Trade{}
	for i := len(t.trades) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		if keep(t.trades[i]) {
			out = append(out, t.trades[i])
		}
	}
	return out
}

// Len reports the current length of the log.
func (t *MemoryTradeLog) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.trades)
}

// MemoryCollectionStore is the in-process collection counter store.
type MemoryCollectionStore struct {
	mu          sync.RWMutex
	collections map[string]*models.Collection
}

func NewMemoryCollectionStore() *MemoryCollectionStore {
	return &MemoryCollectionStore{collections: make(map[string]*models.Collection)}
}

func (s *MemoryCollectionStore) Insert(ctx context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.collections[c.ID] = &cp
	return nil
}

func (s *MemoryCollectionStore) GetByID(ctx context.Context, id string) (*models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *MemoryCollectionStore) GetAll(ctx context.Context) ([]models.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Collection, 0, len(s.collections))
	for _, c := range s.collections {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryCollectionStore) RecordMint(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return models.ErrNotFound
	}
	c.MintedCount++
	return nil
}

func (s *MemoryCollectionStore) RecordTrade(ctx context.Context, id string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return models.ErrNotFound
	}
	c.ApplyTrade(price)
	return nil
}
