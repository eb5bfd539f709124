package ledger

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// BudgetType distinguishes spending budgets from collection targets. The
// variance sign convention depends on it: overspending an expense budget
// is unfavorable, over-collecting a revenue budget is favorable.
type BudgetType int

const (
	BudgetExpense BudgetType = iota
	BudgetRevenue
)

// String returns "expense" or "revenue".
func (t BudgetType) String() string {
	if t == BudgetExpense {
		return "expense"
	}
	return "revenue"
}

// ParseBudgetType parses a case-insensitive budget type name.
func ParseBudgetType(s string) (BudgetType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense", "":
		return BudgetExpense, true
	case "revenue":
		return BudgetRevenue, true
	default:
		return BudgetExpense, false
	}
}

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus int

const (
	BudgetDraft BudgetStatus = iota
	BudgetApproved
)

// String returns "draft" or "approved".
func (s BudgetStatus) String() string {
	if s == BudgetDraft {
		return "draft"
	}
	return "approved"
}

// Budget holds a planned amount for a (fund, period, category, budget
// type) tuple with a running actual maintained as postings land. Actual
// is mutated only through UpdateActual; updates are serialized by a
// per-budget mutex so concurrent posting cannot lose increments.
type Budget struct {
	FundID   string
	PeriodID string
	Category Category
	Type     BudgetType
	Status   BudgetStatus
	Planned  decimal.Decimal

	mu     sync.Mutex
	actual decimal.Decimal
}

// NewBudget creates a draft budget with a zero actual.
func NewBudget(fundID, periodID string, category Category, budgetType BudgetType, planned decimal.Decimal) *Budget {
	return &Budget{
		FundID:   fundID,
		PeriodID: periodID,
		Category: NormalizeCategory(string(category)),
		Type:     budgetType,
		Status:   BudgetDraft,
		Planned:  planned,
	}
}

// Approve transitions the budget from draft to approved.
func (b *Budget) Approve() {
	b.Status = BudgetApproved
}

// Actual returns the current actual amount.
func (b *Budget) Actual() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.actual
}

// UpdateActual adds a signed delta to the actual amount. It is the only
// mutator of actual.
func (b *Budget) UpdateActual(delta decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actual = b.actual.Add(delta)
}

// setActual replaces the actual amount wholesale; used by recompute.
func (b *Budget) setActual(v decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actual = v
}

// Variance returns actual minus planned. For expense budgets a positive
// variance means over budget; for revenue budgets a positive variance
// means over-collection, which is favorable.
func (b *Budget) Variance() decimal.Decimal {
	return b.Actual().Sub(b.Planned)
}

// Favorable reports whether the current variance is good news under the
// budget type's sign convention.
func (b *Budget) Favorable() bool {
	v := b.Variance()
	if b.Type == BudgetExpense {
		return !v.IsPositive()
	}
	return !v.IsNegative()
}

// VariancePercent returns the variance as a percentage of planned, zero
// when planned is zero.
func (b *Budget) VariancePercent() decimal.Decimal {
	if b.Planned.IsZero() {
		return decimal.Zero
	}
	return b.Variance().Div(b.Planned).Mul(decimal.NewFromInt(100))
}

type budgetKey struct {
	fund     string
	period   string
	category Category
}

// BudgetTracker holds budgets keyed by (fund, period, category) and feeds
// them postings as they commit.
type BudgetTracker struct {
	mu      sync.RWMutex
	budgets map[budgetKey]*Budget
}

// NewBudgetTracker creates an empty tracker.
func NewBudgetTracker() *BudgetTracker {
	return &BudgetTracker{budgets: make(map[budgetKey]*Budget)}
}

// Add registers a budget, replacing any existing budget for its key.
func (t *BudgetTracker) Add(b *Budget) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.budgets[budgetKey{fund: b.FundID, period: b.PeriodID, category: b.Category}] = b
}

// Get looks up a budget by key.
func (t *BudgetTracker) Get(fundID, periodID string, category Category) (*Budget, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.budgets[budgetKey{fund: fundID, period: periodID, category: NormalizeCategory(string(category))}]
	if !ok {
		return nil, NewBudgetNotFoundError(fundID, periodID, category)
	}
	return b, nil
}

// All returns every tracked budget.
func (t *BudgetTracker) All() []*Budget {
	t.mu.RLock()
	defer t.mu.RUnlock()
	budgets := make([]*Budget, 0, len(t.budgets))
	for _, b := range t.budgets {
		budgets = append(budgets, b)
	}
	return budgets
}

// Apply feeds a committed entry to the matching budget, if any. The delta
// is the entry's normal-side net, so expense budgets grow with debits and
// revenue budgets with credits, and reversals subtract.
func (t *BudgetTracker) Apply(e *LedgerEntry) {
	t.mu.RLock()
	b, ok := t.budgets[budgetKey{fund: e.FundID, period: e.PeriodID, category: e.Category}]
	t.mu.RUnlock()
	if !ok {
		return
	}
	b.UpdateActual(e.NormalNet())
}

// Recompute rebuilds a budget's actual from the store, repairing any
// drift between the incremental figure and the entry set. It uses the
// fully scoped query, which the memory store serves from its secondary
// index.
func (t *BudgetTracker) Recompute(ctx context.Context, store Store, fundID, periodID string, category Category) error {
	b, err := t.Get(fundID, periodID, category)
	if err != nil {
		return err
	}

	entries, err := store.Entries(ctx, EntryQuery{
		FundID:   fundID,
		PeriodID: periodID,
		Category: NormalizeCategory(string(category)),
	})
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.NormalNet())
	}
	b.setActual(total)
	return nil
}
