package statement

import (
	"context"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
)

func TestClosingSpecsBalance(t *testing.T) {
	l := newTestLedger(t)

	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(5000), Date: date("2025-09-15"), Description: "Tax receipts", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryTax, Credit: amount(5000), Date: date("2025-09-15"), Description: "Tax receipts", FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-2",
		ledger.PostingSpec{Type: ledger.EntryTypeExpense, Category: ledger.CategoryPersonnel, Debit: amount(3000), Date: date("2025-09-30"), Description: "Payroll", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Credit: amount(3000), Date: date("2025-09-30"), Description: "Payroll", FundID: "general", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	stmt, err := gen.IncomeStatement(context.Background(), "general", "fy2026")
	assert.NoError(t, err)
	assert.True(t, stmt.NetIncome.Equal(amount(2000)))

	specs := ClosingSpecs(stmt, "general", "fy2026", date("2026-06-30"))
	// One revenue close, one expense close, one equity roll-up.
	assert.Equal(t, len(specs), 3)

	debits := decimal.Zero
	credits := decimal.Zero
	for _, spec := range specs {
		debits = debits.Add(spec.Debit)
		credits = credits.Add(spec.Credit)
	}
	assert.True(t, debits.Equal(credits), "debits %s credits %s", debits, credits)

	// The batch passes full validation.
	_, err = l.CreateTransaction(context.Background(), "close-fy2026", specs)
	assert.NoError(t, err)
}

func TestClosingMovesNetIncomeIntoFundBalance(t *testing.T) {
	l := newTestLedger(t)

	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: amount(5000), Date: date("2025-09-15"), Description: "Tax receipts", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryTax, Credit: amount(5000), Date: date("2025-09-15"), Description: "Tax receipts", FundID: "general", PeriodID: "fy2026"},
	)
	post(t, l, "txn-2",
		ledger.PostingSpec{Type: ledger.EntryTypeExpense, Category: ledger.CategoryPersonnel, Debit: amount(3000), Date: date("2025-09-30"), Description: "Payroll", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Credit: amount(3000), Date: date("2025-09-30"), Description: "Payroll", FundID: "general", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	before, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)
	assert.True(t, before.NetIncome.Equal(amount(2000)))
	assert.True(t, before.FundBalance.Total.IsZero())
	assert.True(t, before.IsBalanced)

	stmt, err := gen.IncomeStatement(context.Background(), "general", "fy2026")
	assert.NoError(t, err)
	_, err = l.CreateTransaction(context.Background(), "close-fy2026",
		ClosingSpecs(stmt, "general", "fy2026", date("2026-06-30")))
	assert.NoError(t, err)
	assert.NoError(t, l.Registry().ClosePeriod("fy2026"))

	after, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)

	// Net income moved into the fund balance; assets are untouched.
	assert.True(t, after.NetIncome.IsZero(), "net income %s", after.NetIncome)
	assert.True(t, after.FundBalance.Total.Equal(amount(2000)))
	assert.True(t, after.NetPosition.Equal(before.NetPosition))
	assert.True(t, after.IsBalanced)
}

func TestClosingSpecsDeficit(t *testing.T) {
	l := newTestLedger(t)

	post(t, l, "txn-1",
		ledger.PostingSpec{Type: ledger.EntryTypeExpense, Category: ledger.CategoryServices, Debit: amount(900), Date: date("2025-09-30"), Description: "Contracted services", FundID: "general", PeriodID: "fy2026"},
		ledger.PostingSpec{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Credit: amount(900), Date: date("2025-09-30"), Description: "Contracted services", FundID: "general", PeriodID: "fy2026"},
	)

	gen := NewGenerator(l.Store())

	stmt, err := gen.IncomeStatement(context.Background(), "general", "fy2026")
	assert.NoError(t, err)
	assert.Equal(t, stmt.SurplusOrDeficit, Deficit)

	_, err = l.CreateTransaction(context.Background(), "close-fy2026",
		ClosingSpecs(stmt, "general", "fy2026", date("2026-06-30")))
	assert.NoError(t, err)

	sheet, err := gen.BalanceSheet(context.Background(), "general", time.Time{})
	assert.NoError(t, err)

	// A deficit closes as a debit to fund balance.
	assert.True(t, sheet.FundBalance.Total.Equal(amount(-900)))
	assert.True(t, sheet.NetIncome.IsZero())
	assert.True(t, sheet.IsBalanced)
}

func TestClosingSpecsEmptyStatement(t *testing.T) {
	stmt := &IncomeStatement{Revenues: newSection(), Expenses: newSection()}
	assert.Equal(t, len(ClosingSpecs(stmt, "general", "fy2026", date("2026-06-30"))), 0)
}
