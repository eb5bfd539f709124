package statement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/telemetry"
)

// Activity tags recognized by cash flow classification.
const (
	TagFinancing = "financing"
	TagInvesting = "investing"
)

// CashFlowStatement reports the movement of cash over a window, bucketed
// into operating, investing and financing activities. Bucket items map
// entry descriptions to signed amounts, debits positive, so inflows
// raise a bucket and outflows lower it.
type CashFlowStatement struct {
	FundID               string
	Start                time.Time
	End                  time.Time
	Operating            Section
	Investing            Section
	Financing            Section
	NetChange            decimal.Decimal
	BeginningCashBalance decimal.Decimal
	EndingCashBalance    decimal.Decimal
}

// CashFlow computes a cash flow statement over [start, end], optionally
// scoped to one fund. Only cash-category entries participate.
//
// Classification precedence on the entry's tag set is fixed: "financing"
// wins over "investing", and untagged entries are operating. An entry
// tagged "financing,investing" is therefore financing, and ordinary
// revenue collection or routine expense payment, which carries no tags,
// lands in operating.
func (g *Generator) CashFlow(ctx context.Context, start, end time.Time, fundID string) (*CashFlowStatement, error) {
	timer := telemetry.StartTimer(ctx, "statement.cash_flow")
	defer timer.End()

	// All cash entries up to the window's end; the strictly-before-start
	// slice funds the beginning balance.
	entries, err := g.entries(ctx, ledger.EntryQuery{
		FundID:   fundID,
		Category: ledger.CategoryCash,
		To:       end,
	})
	if err != nil {
		return nil, err
	}

	stmt := &CashFlowStatement{
		FundID:    fundID,
		Start:     start,
		End:       end,
		Operating: newSection(),
		Investing: newSection(),
		Financing: newSection(),
	}

	beginning := decimal.Zero
	for _, e := range entries {
		signed := e.Debit.Sub(e.Credit)

		if e.Date.Before(start) {
			beginning = beginning.Add(signed)
			continue
		}

		switch {
		case e.HasTag(TagFinancing):
			stmt.Financing.add(e.Description, signed)
		case e.HasTag(TagInvesting):
			stmt.Investing.add(e.Description, signed)
		default:
			stmt.Operating.add(e.Description, signed)
		}
	}

	stmt.BeginningCashBalance = beginning
	stmt.NetChange = stmt.Operating.Total.Add(stmt.Investing.Total).Add(stmt.Financing.Total)
	stmt.EndingCashBalance = beginning.Add(stmt.NetChange)

	return stmt, nil
}
