package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/openfisc/govledger/telemetry"
)

// TransactionCommitted is the event emitted after a batch has been
// appended to the store.
type TransactionCommitted struct {
	TransactionID string    `json:"transaction_id"`
	EntryIDs      []string  `json:"entry_ids"`
	Postings      int       `json:"postings"`
	CommittedAt   time.Time `json:"committed_at"`
}

// EventPublisher receives committed-transaction events. Implementations
// must not assume they run on the posting goroutine.
type EventPublisher interface {
	Publish(ctx context.Context, event TransactionCommitted) error
}

// Ledger ties together the registry, the append-only entry store and the
// budget tracker. CreateTransaction is its only mutating operation.
type Ledger struct {
	registry  *Registry
	store     Store
	budgets   *BudgetTracker
	publisher EventPublisher
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPublisher attaches an event publisher notified after every
// committed transaction.
func WithPublisher(p EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

// New creates a ledger over the given registry and store.
func New(registry *Registry, store Store, opts ...Option) *Ledger {
	l := &Ledger{
		registry: registry,
		store:    store,
		budgets:  NewBudgetTracker(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry returns the fund and period registry.
func (l *Ledger) Registry() *Registry {
	return l.registry
}

// Store returns the underlying entry store.
func (l *Ledger) Store() Store {
	return l.store
}

// Budgets returns the budget tracker.
func (l *Ledger) Budgets() *BudgetTracker {
	return l.budgets
}

// CreateTransaction validates a batch of postings sharing one transaction
// id and appends them atomically. Either every posting becomes visible or
// none does. On validation failure it returns a *ValidationErrors wrapping
// every problem found and persists nothing.
//
// The balance check can be skipped with WithoutValidation for trusted
// import paths; the closed-period gate and per-posting checks always run.
func (l *Ledger) CreateTransaction(ctx context.Context, txnID string, specs []PostingSpec, opts ...TxnOption) ([]*LedgerEntry, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("ledger.create_transaction %s (%d postings)", txnID, len(specs)))
	defer timer.End()

	var options txnOptions
	for _, opt := range opts {
		opt(&options)
	}

	v := newValidator(l.registry)
	errs, entries := v.validateTransaction(ctx, txnID, specs, options)
	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	if err := l.store.AppendBatch(ctx, entries); err != nil {
		return nil, fmt.Errorf("append transaction %s: %w", txnID, err)
	}

	// Incremental planned-vs-actual maintenance; O(batch), not O(store).
	for _, e := range entries {
		l.budgets.Apply(e)
	}

	if l.publisher != nil {
		event := TransactionCommitted{
			TransactionID: txnID,
			EntryIDs:      make([]string, len(entries)),
			Postings:      len(entries),
			CommittedAt:   time.Now().UTC(),
		}
		for i, e := range entries {
			event.EntryIDs[i] = e.ID
		}
		if err := l.publisher.Publish(ctx, event); err != nil {
			// The batch is durable at this point; surface the publish
			// failure without pretending the commit failed.
			return entries, fmt.Errorf("transaction %s committed but event publish failed: %w", txnID, err)
		}
	}

	return entries, nil
}

// Entries queries the underlying store.
func (l *Ledger) Entries(ctx context.Context, q EntryQuery) ([]*LedgerEntry, error) {
	return l.store.Entries(ctx, q)
}

// ReversalSpecs builds the offsetting batch for previously committed
// entries: debit and credit swapped, dated at the given date. Posting the
// result through CreateTransaction is the only supported correction
// mechanism; history is never edited.
func ReversalSpecs(entries []*LedgerEntry, date time.Time, description string) []PostingSpec {
	specs := make([]PostingSpec, len(entries))
	for i, e := range entries {
		specs[i] = PostingSpec{
			Type:        e.Type,
			Category:    e.Category,
			Debit:       e.Credit,
			Credit:      e.Debit,
			Date:        date,
			Description: description,
			Tags:        e.TagString(),
			FundID:      e.FundID,
			PeriodID:    e.PeriodID,
		}
	}
	return specs
}
