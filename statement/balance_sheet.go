package statement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/telemetry"
)

// BalanceSheet reports assets, liabilities and fund balance by category
// as of a date. NetIncome carries the current period's unclosed result:
// it is reported separately rather than folded into FundBalance, and
// moves into FundBalance only when a collaborator posts an explicit
// closing batch (see ClosingSpecs).
type BalanceSheet struct {
	FundID      string
	AsOf        time.Time // zero means all dates
	Assets      Section
	Liabilities Section
	FundBalance Section
	NetPosition decimal.Decimal
	NetIncome   decimal.Decimal
	IsBalanced  bool
}

// BalanceSheet computes a balance sheet, optionally scoped to one fund
// and to entries dated on or before asOf. Zero values leave the scope
// unbounded.
//
// The accounting equation NetPosition == FundBalance + NetIncome should
// always hold when every transaction was validated at write time;
// IsBalanced is a defense-in-depth consistency check, reported rather
// than raised so monitoring can detect drift without breaking reporting.
func (g *Generator) BalanceSheet(ctx context.Context, fundID string, asOf time.Time) (*BalanceSheet, error) {
	timer := telemetry.StartTimer(ctx, "statement.balance_sheet")
	defer timer.End()

	entries, err := g.entries(ctx, ledger.EntryQuery{FundID: fundID, To: asOf})
	if err != nil {
		return nil, err
	}

	sheet := &BalanceSheet{
		FundID:      fundID,
		AsOf:        asOf,
		Assets:      newSection(),
		Liabilities: newSection(),
		FundBalance: newSection(),
	}

	revenues := decimal.Zero
	expenses := decimal.Zero

	for _, e := range entries {
		switch e.Type {
		case ledger.EntryTypeAsset:
			sheet.Assets.add(string(e.Category), e.Debit.Sub(e.Credit))
		case ledger.EntryTypeLiability:
			sheet.Liabilities.add(string(e.Category), e.Credit.Sub(e.Debit))
		case ledger.EntryTypeEquity:
			sheet.FundBalance.add(string(e.Category), e.Credit.Sub(e.Debit))
		case ledger.EntryTypeRevenue:
			revenues = revenues.Add(e.Credit.Sub(e.Debit))
		case ledger.EntryTypeExpense:
			expenses = expenses.Add(e.Debit.Sub(e.Credit))
		}
	}

	sheet.NetPosition = sheet.Assets.Total.Sub(sheet.Liabilities.Total)
	sheet.NetIncome = revenues.Sub(expenses)

	residual := sheet.NetPosition.Sub(sheet.FundBalance.Total.Add(sheet.NetIncome)).Abs()
	sheet.IsBalanced = residual.LessThanOrEqual(g.tolerance)

	return sheet, nil
}
