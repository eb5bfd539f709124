package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/output"
	"github.com/openfisc/govledger/statement"
)

func renderSection(w io.Writer, styles *output.Styles, title string, s statement.Section) {
	_, _ = fmt.Fprintf(w, "%s\n", styles.Heading(title))
	for _, key := range s.Keys() {
		_, _ = fmt.Fprintf(w, "  %-24s %s\n",
			styles.Category(key),
			styles.Amount(s.Items[key].StringFixed(2)))
	}
	_, _ = fmt.Fprintf(w, "  %-24s %s\n", "total", styles.Amount(s.Total.StringFixed(2)))
}

func renderBalanceSheet(w io.Writer, sheet *statement.BalanceSheet) {
	styles := output.NewStyles(w)

	title := "Balance Sheet"
	if sheet.FundID != "" {
		title += " - " + sheet.FundID
	}
	if !sheet.AsOf.IsZero() {
		title += " as of " + sheet.AsOf.Format("2006-01-02")
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", styles.Heading(title))

	renderSection(w, styles, "Assets", sheet.Assets)
	renderSection(w, styles, "Liabilities", sheet.Liabilities)
	renderSection(w, styles, "Fund Balance", sheet.FundBalance)

	_, _ = fmt.Fprintf(w, "\n%-26s %s\n", "Net position", styles.Amount(sheet.NetPosition.StringFixed(2)))
	_, _ = fmt.Fprintf(w, "%-26s %s\n", "Net income (unclosed)", styles.Amount(sheet.NetIncome.StringFixed(2)))

	if sheet.IsBalanced {
		_, _ = fmt.Fprintf(w, "%s\n", styles.Success("Accounting equation holds"))
	} else {
		_, _ = fmt.Fprintf(w, "%s\n", styles.Error("Accounting equation violated"))
	}
}

func renderIncomeStatement(w io.Writer, stmt *statement.IncomeStatement) {
	styles := output.NewStyles(w)

	title := "Income Statement"
	if stmt.FundID != "" {
		title += " - " + stmt.FundID
	}
	if stmt.PeriodID != "" {
		title += " (" + stmt.PeriodID + ")"
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", styles.Heading(title))

	renderSection(w, styles, "Revenues", stmt.Revenues)
	renderSection(w, styles, "Expenses", stmt.Expenses)

	_, _ = fmt.Fprintf(w, "\n%-26s %s (%s)\n", "Net income",
		styles.Amount(stmt.NetIncome.StringFixed(2)), stmt.SurplusOrDeficit)
}

func renderCashFlow(w io.Writer, stmt *statement.CashFlowStatement) {
	styles := output.NewStyles(w)

	title := fmt.Sprintf("Cash Flow Statement %s to %s",
		stmt.Start.Format("2006-01-02"), stmt.End.Format("2006-01-02"))
	if stmt.FundID != "" {
		title += " - " + stmt.FundID
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", styles.Heading(title))

	renderSection(w, styles, "Operating activities", stmt.Operating)
	renderSection(w, styles, "Investing activities", stmt.Investing)
	renderSection(w, styles, "Financing activities", stmt.Financing)

	_, _ = fmt.Fprintf(w, "\n%-26s %s\n", "Beginning cash", styles.Amount(stmt.BeginningCashBalance.StringFixed(2)))
	_, _ = fmt.Fprintf(w, "%-26s %s\n", "Net change in cash", styles.Amount(stmt.NetChange.StringFixed(2)))
	_, _ = fmt.Fprintf(w, "%-26s %s\n", "Ending cash", styles.Amount(stmt.EndingCashBalance.StringFixed(2)))
}

func renderBudgets(w io.Writer, budgets []*ledger.Budget) {
	styles := output.NewStyles(w)

	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].FundID != budgets[j].FundID {
			return budgets[i].FundID < budgets[j].FundID
		}
		if budgets[i].PeriodID != budgets[j].PeriodID {
			return budgets[i].PeriodID < budgets[j].PeriodID
		}
		return budgets[i].Category < budgets[j].Category
	})

	_, _ = fmt.Fprintf(w, "%s\n\n", styles.Heading("Budgets"))
	for _, b := range budgets {
		marker := styles.Success("on track")
		if !b.Favorable() {
			marker = styles.Warning("unfavorable")
		}
		_, _ = fmt.Fprintf(w, "%s %s/%s %-16s planned %s actual %s variance %s (%s%%) %s\n",
			styles.Fund(b.FundID),
			b.PeriodID,
			styles.Dim(b.Status.String()),
			styles.Category(string(b.Category)),
			styles.Amount(b.Planned.StringFixed(2)),
			styles.Amount(b.Actual().StringFixed(2)),
			styles.Amount(b.Variance().StringFixed(2)),
			b.VariancePercent().StringFixed(1),
			marker)
	}
}
