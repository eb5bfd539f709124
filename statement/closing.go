package statement

import (
	"time"

	"github.com/openfisc/govledger/ledger"
)

// ClosingSpecs builds the period-close batch for an income statement:
// each revenue category is debited flat, each expense category is
// credited flat, and the residual net income lands in the fund balance
// equity category. The batch balances by construction; the caller posts
// it through CreateTransaction before closing the fiscal period.
//
// Categories that netted to zero are skipped. A zero net income produces
// no equity posting.
func ClosingSpecs(stmt *IncomeStatement, fundID, periodID string, date time.Time) []ledger.PostingSpec {
	var specs []ledger.PostingSpec

	for _, category := range stmt.Revenues.Keys() {
		amount := stmt.Revenues.Items[category]
		if amount.IsZero() {
			continue
		}
		spec := ledger.PostingSpec{
			Type:        ledger.EntryTypeRevenue,
			Category:    ledger.Category(category),
			Date:        date,
			Description: "Close " + category + " to fund balance",
			FundID:      fundID,
			PeriodID:    periodID,
		}
		// A net credit balance closes with a debit; a contra balance
		// closes with a credit.
		if amount.IsPositive() {
			spec.Debit = amount
		} else {
			spec.Credit = amount.Neg()
		}
		specs = append(specs, spec)
	}

	for _, category := range stmt.Expenses.Keys() {
		amount := stmt.Expenses.Items[category]
		if amount.IsZero() {
			continue
		}
		spec := ledger.PostingSpec{
			Type:        ledger.EntryTypeExpense,
			Category:    ledger.Category(category),
			Date:        date,
			Description: "Close " + category + " to fund balance",
			FundID:      fundID,
			PeriodID:    periodID,
		}
		if amount.IsPositive() {
			spec.Credit = amount
		} else {
			spec.Debit = amount.Neg()
		}
		specs = append(specs, spec)
	}

	if !stmt.NetIncome.IsZero() {
		spec := ledger.PostingSpec{
			Type:        ledger.EntryTypeEquity,
			Category:    ledger.CategoryFundBalance,
			Date:        date,
			Description: "Net income roll-up",
			FundID:      fundID,
			PeriodID:    periodID,
		}
		if stmt.NetIncome.IsPositive() {
			spec.Credit = stmt.NetIncome
		} else {
			spec.Debit = stmt.NetIncome.Neg()
		}
		specs = append(specs, spec)
	}

	return specs
}
