package statement

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func amount(i int64) decimal.Decimal {
	return decimal.NewFromInt(i)
}

// newTestLedger builds a ledger with the general and capital funds and an
// open fiscal year 2026 over a fresh memory store.
func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	registry := ledger.NewRegistry()
	registry.AddFund(&ledger.Fund{ID: "general", Name: "General Fund", Type: ledger.FundGeneral})
	registry.AddFund(&ledger.Fund{ID: "capital", Name: "Capital Projects Fund", Type: ledger.FundCapitalProjects})
	registry.AddPeriod(&ledger.FiscalPeriod{
		ID:    "fy2026",
		Name:  "Fiscal Year 2026",
		Start: date("2025-07-01"),
		End:   date("2026-06-30"),
	})

	return ledger.New(registry, ledger.NewMemoryStore())
}

func post(t *testing.T, l *ledger.Ledger, txnID string, specs ...ledger.PostingSpec) {
	t.Helper()
	_, err := l.CreateTransaction(context.Background(), txnID, specs)
	assert.NoError(t, err)
}

func TestSectionKeysSorted(t *testing.T) {
	s := newSection()
	s.add("tax", amount(3))
	s.add("fee", amount(2))
	s.add("grant", amount(1))
	s.add("fee", amount(4))

	assert.Equal(t, s.Keys(), []string{"fee", "grant", "tax"})
	assert.True(t, s.Items["fee"].Equal(amount(6)))
	assert.True(t, s.Total.Equal(amount(10)))
}

func TestGeneratorEmptyStore(t *testing.T) {
	gen := NewGenerator(ledger.NewMemoryStore())

	sheet, err := gen.BalanceSheet(context.Background(), "", time.Time{})
	assert.NoError(t, err)
	assert.True(t, sheet.NetPosition.IsZero())
	assert.True(t, sheet.IsBalanced)

	income, err := gen.IncomeStatement(context.Background(), "", "")
	assert.NoError(t, err)
	assert.True(t, income.NetIncome.IsZero())
	assert.Equal(t, income.SurplusOrDeficit, Surplus)

	flow, err := gen.CashFlow(context.Background(), date("2025-07-01"), date("2026-06-30"), "")
	assert.NoError(t, err)
	assert.True(t, flow.NetChange.IsZero())
	assert.True(t, flow.BeginningCashBalance.IsZero())
	assert.True(t, flow.EndingCashBalance.IsZero())
}

func TestGeneratorCancelled(t *testing.T) {
	gen := NewGenerator(ledger.NewMemoryStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.BalanceSheet(ctx, "", time.Time{})
	assert.IsError(t, err, context.Canceled)
	_, err = gen.IncomeStatement(ctx, "", "")
	assert.IsError(t, err, context.Canceled)
	_, err = gen.CashFlow(ctx, date("2025-07-01"), date("2026-06-30"), "")
	assert.IsError(t, err, context.Canceled)
}

func TestGeneratorReadsAreIdempotent(t *testing.T) {
	l := newTestLedger(t)
	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(500), Date: date("2025-08-01"), Description: "Fee collection", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryFee, Credit: amount(500), Date: date("2025-08-01"), Description: "Fee collection", FundID: "general", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	first, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)
	second, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
