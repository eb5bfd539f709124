package statement

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"

	"github.com/openfisc/govledger/ledger"
)

func TestBalanceSheet(t *testing.T) {
	l := newTestLedger(t)

	// Tax collection, a payroll run and a bond issue.
	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(250000), Date: date("2025-09-15"), Description: "Property tax receipts", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryTax, Credit: amount(250000), Date: date("2025-09-15"), Description: "Property tax receipts", FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-2",
		ledger.PostingSpec{Type: ledger.EntryTypeExpense, Category: ledger.CategoryPersonnel, Debit: amount(80000), Date: date("2025-09-30"), Description: "September payroll", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Credit: amount(80000), Date: date("2025-09-30"), Description: "September payroll", FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-3",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(1000000), Date: date("2025-10-01"), Description: "Bond issue proceeds", Tags: "financing,bond", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeLiability, Category: ledger.CategoryBond, Credit: amount(1000000), Date: date("2025-10-01"), Description: "Bond issue proceeds", Tags: "financing,bond", FundID: "general", PeriodID: "fy2026"},
	)

	sheet, err := NewGenerator(l.Store()).BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)

	assert.True(t, sheet.Assets.Items["cash"].Equal(amount(1170000)), "cash %s", sheet.Assets.Items["cash"])
	assert.True(t, sheet.Liabilities.Items["bond"].Equal(amount(1000000)))
	assert.True(t, sheet.NetPosition.Equal(amount(170000)))
	assert.True(t, sheet.NetIncome.Equal(amount(170000)))
	assert.True(t, sheet.FundBalance.Total.IsZero())

	// Assets - Liabilities == FundBalance + NetIncome.
	assert.True(t, sheet.IsBalanced)
}

func TestBalanceSheetAsOfCutoff(t *testing.T) {
	l := newTestLedger(t)

	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(100), Date: date("2025-08-01"), FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryFee, Credit: amount(100), Date: date("2025-08-01"), FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-2",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(900), Date: date("2025-12-01"), FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryFee, Credit: amount(900), Date: date("2025-12-01"), FundID: "general", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	tests := []struct {
		name     string
		asOf     string
		wantCash int64
	}{
		{name: "before any entry", asOf: "2025-07-15", wantCash: 0},
		{name: "on first entry date", asOf: "2025-08-01", wantCash: 100},
		{name: "between entries", asOf: "2025-11-30", wantCash: 100},
		{name: "after all entries", asOf: "2026-06-30", wantCash: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet, err := gen.BalanceSheet(context.Background(), "general", date(tt.asOf))
			assert.NoError(t, err)
			assert.True(t, sheet.Assets.Total.Equal(amount(tt.wantCash)), "assets %s", sheet.Assets.Total)
			assert.True(t, sheet.IsBalanced)
		})
	}
}

func TestBalanceSheetFundScope(t *testing.T) {
	l := newTestLedger(t)

	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(300), Date: date("2025-08-01"), FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryTax, Credit: amount(300), Date: date("2025-08-01"), FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-2",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(700), Date: date("2025-08-01"), FundID: "capital", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryGrant, Credit: amount(700), Date: date("2025-08-01"), FundID: "capital", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	general, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)
	assert.True(t, general.Assets.Total.Equal(amount(300)))

	capital, err := gen.BalanceSheet(context.Background(), "capital", time.Time{})
	assert.NoError(t, err)
	assert.True(t, capital.Assets.Total.Equal(amount(700)))

	all, err := gen.BalanceSheet(context.Background(), "", time.Time{})
	assert.NoError(t, err)
	assert.True(t, all.Assets.Total.Equal(amount(1000)))
}

func TestBalanceSheetToleranceFlagsDrift(t *testing.T) {
	store := ledger.NewMemoryStore()
	// An unbalanced orphan entry, as a migration might leave behind.
	err := store.AppendBatch(context.Background(), []*ledger.LedgerEntry{
		{ID: "e1", TransactionID: "t1", Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(100), Date: date("2025-08-01"), FundID: "general", PeriodID: "fy2026"},
	})
	assert.NoError(t, err)

	sheet, err := NewGenerator(store).BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)
	assert.False(t, sheet.IsBalanced)

	// A generous tolerance swallows the residual.
	sheet, err = NewGenerator(store, WithTolerance(amount(100))).BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)
	assert.True(t, sheet.IsBalanced)
}
