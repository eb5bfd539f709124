package statement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/telemetry"
)

// Surplus/deficit labels reported by the income statement.
const (
	Surplus = "surplus"
	Deficit = "deficit"
)

// IncomeStatement reports revenues and expenses by category for a scope.
type IncomeStatement struct {
	FundID           string
	PeriodID         string
	Revenues         Section
	Expenses         Section
	NetIncome        decimal.Decimal
	SurplusOrDeficit string
}

// IncomeStatement computes revenues, expenses and net income, optionally
// scoped to one fund and one fiscal period. Zero values leave the scope
// unbounded.
func (g *Generator) IncomeStatement(ctx context.Context, fundID, periodID string) (*IncomeStatement, error) {
	timer := telemetry.StartTimer(ctx, "statement.income_statement")
	defer timer.End()

	entries, err := g.entries(ctx, ledger.EntryQuery{FundID: fundID, PeriodID: periodID})
	if err != nil {
		return nil, err
	}

	stmt := &IncomeStatement{
		FundID:   fundID,
		PeriodID: periodID,
		Revenues: newSection(),
		Expenses: newSection(),
	}

	for _, e := range entries {
		switch e.Type {
		case ledger.EntryTypeRevenue:
			stmt.Revenues.add(string(e.Category), e.Credit.Sub(e.Debit))
		case ledger.EntryTypeExpense:
			stmt.Expenses.add(string(e.Category), e.Debit.Sub(e.Credit))
		}
	}

	stmt.NetIncome = stmt.Revenues.Total.Sub(stmt.Expenses.Total)
	if stmt.NetIncome.IsNegative() {
		stmt.SurplusOrDeficit = Deficit
	} else {
		stmt.SurplusOrDeficit = Surplus
	}

	return stmt, nil
}
