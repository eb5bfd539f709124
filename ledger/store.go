package ledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Store is the append-only home of ledger entries. Implementations must
// make AppendBatch atomic: either every entry in the batch becomes
// visible or none does, and no reader may observe a partial batch.
type Store interface {
	// AppendBatch appends all entries atomically, assigning each a
	// strictly increasing sequence number.
	AppendBatch(ctx context.Context, entries []*LedgerEntry) error

	// Entries returns entries matching the query in append order.
	Entries(ctx context.Context, q EntryQuery) ([]*LedgerEntry, error)
}

// checkEvery bounds how often a store scan polls for cancellation.
const checkEvery = 1024

type indexKey struct {
	fund     string
	period   string
	category Category
}

// MemoryStore is an in-memory Store. Entries live in an append-only slice
// guarded by a RWMutex, with a secondary index on (fund, period,
// category) serving the budget tracker's recompute path and any fully
// scoped query without a linear scan.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []*LedgerEntry
	index   map[indexKey][]int
	seq     uint64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index: make(map[indexKey][]int),
	}
}

// AppendBatch appends all entries under one lock acquisition. Readers
// hold the read lock for their whole scan, so they never see a batch
// mid-append.
func (s *MemoryStore) AppendBatch(ctx context.Context, entries []*LedgerEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		s.seq++
		e.Seq = s.seq
		pos := len(s.entries)
		s.entries = append(s.entries, e)

		key := indexKey{fund: e.FundID, period: e.PeriodID, category: e.Category}
		s.index[key] = append(s.index[key], pos)
	}
	return nil
}

// Entries returns entries matching the query in append order. Queries
// binding fund, period and category are served from the secondary index.
func (s *MemoryStore) Entries(ctx context.Context, q EntryQuery) ([]*LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*LedgerEntry

	if q.indexed() {
		key := indexKey{fund: q.FundID, period: q.PeriodID, category: q.Category}
		for _, pos := range s.index[key] {
			e := s.entries[pos]
			if !q.Matches(e) {
				continue
			}
			result = append(result, e)
			if q.Limit > 0 && len(result) >= q.Limit {
				break
			}
		}
		return result, nil
	}

	for i, e := range s.entries {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if !q.Matches(e) {
			continue
		}
		result = append(result, e)
		if q.Limit > 0 && len(result) >= q.Limit {
			break
		}
	}
	return result, nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Totals returns the store-wide debit and credit sums. With every batch
// validated at write time the two are always equal; the pair is exposed
// as a trial-balance style consistency probe.
func (s *MemoryStore) Totals() (debits, credits decimal.Decimal) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

var _ Store = (*MemoryStore)(nil)
