// Package statement derives the balance sheet, income statement and
// cash flow statement from the
// accumulated ledger entries. All generation functions are pure reads:
// they never write, may run concurrently with each other, and can be
// cancelled through the context without side effects. An empty or
// filtered-out entry set yields zero totals, never an error.
package statement

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
)

// Section groups net amounts by key (category for balance sheet and
// income statement, description for cash flow buckets) with a running
// total.
type Section struct {
	Items map[string]decimal.Decimal
	Total decimal.Decimal
}

func newSection() Section {
	return Section{Items: make(map[string]decimal.Decimal)}
}

// add accumulates a signed amount under a key.
func (s *Section) add(key string, amount decimal.Decimal) {
	s.Items[key] = s.Items[key].Add(amount)
	s.Total = s.Total.Add(amount)
}

// Keys returns the section's keys in sorted order for deterministic
// rendering.
func (s *Section) Keys() []string {
	keys := make([]string, 0, len(s.Items))
	for k := range s.Items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Generator computes statements over an entry store. The zero tolerance
// default means the accounting equation must hold exactly; amounts are
// decimals, so validated ledgers always satisfy it.
type Generator struct {
	store     ledger.Store
	tolerance decimal.Decimal
}

// Option configures a Generator.
type Option func(*Generator)

// WithTolerance sets the allowed absolute difference for the balance
// sheet's consistency check.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(g *Generator) { g.tolerance = tolerance }
}

// NewGenerator creates a statement generator over the given store.
func NewGenerator(store ledger.Store, opts ...Option) *Generator {
	g := &Generator{store: store}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// entries runs a query against the store, checking for cancellation first.
func (g *Generator) entries(ctx context.Context, q ledger.EntryQuery) ([]*ledger.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.store.Entries(ctx, q)
}
