package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/openfisc/govledger/statement"
)

// parseFlagDate parses an optional YYYY-MM-DD flag value.
func parseFlagDate(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s date %q (expected YYYY-MM-DD)", name, value)
	}
	return t, nil
}

type BalanceSheetCmd struct {
	Journal string `help:"Journal file." arg:"" type:"existingfile"`
	Fund    string `help:"Restrict the report to one fund." optional:""`
	AsOf    string `name:"as-of" help:"Include entries dated on or before this date (YYYY-MM-DD)." optional:""`
	EnvFile string `name:"env" help:"Path to a .env file with store settings." type:"existingfile" optional:""`
}

func (cmd *BalanceSheetCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("balance-sheet %s", filepath.Base(cmd.Journal)))
	defer report()

	asOf, err := parseFlagDate("as-of", cmd.AsOf)
	if err != nil {
		return err
	}

	l, err := openLedger(runCtx, ctx, cmd.Journal, loadEnviron(cmd.EnvFile, os.Getenv), report)
	if err != nil {
		return err
	}

	sheet, err := statement.NewGenerator(l.Store()).BalanceSheet(runCtx, cmd.Fund, asOf)
	if err != nil {
		return err
	}

	renderBalanceSheet(ctx.Stdout, sheet)
	return nil
}

type IncomeStatementCmd struct {
	Journal string `help:"Journal file." arg:"" type:"existingfile"`
	Fund    string `help:"Restrict the report to one fund." optional:""`
	Period  string `help:"Restrict the report to one fiscal period." optional:""`
	EnvFile string `name:"env" help:"Path to a .env file with store settings." type:"existingfile" optional:""`
}

func (cmd *IncomeStatementCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("income-statement %s", filepath.Base(cmd.Journal)))
	defer report()

	l, err := openLedger(runCtx, ctx, cmd.Journal, loadEnviron(cmd.EnvFile, os.Getenv), report)
	if err != nil {
		return err
	}

	stmt, err := statement.NewGenerator(l.Store()).IncomeStatement(runCtx, cmd.Fund, cmd.Period)
	if err != nil {
		return err
	}

	renderIncomeStatement(ctx.Stdout, stmt)
	return nil
}

type CashFlowCmd struct {
	Journal string `help:"Journal file." arg:"" type:"existingfile"`
	Start   string `help:"Window start date (YYYY-MM-DD)." required:""`
	End     string `help:"Window end date (YYYY-MM-DD)." required:""`
	Fund    string `help:"Restrict the report to one fund." optional:""`
	EnvFile string `name:"env" help:"Path to a .env file with store settings." type:"existingfile" optional:""`
}

func (cmd *CashFlowCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("cash-flow %s", filepath.Base(cmd.Journal)))
	defer report()

	start, err := parseFlagDate("start", cmd.Start)
	if err != nil {
		return err
	}
	end, err := parseFlagDate("end", cmd.End)
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", cmd.End, cmd.Start)
	}

	l, err := openLedger(runCtx, ctx, cmd.Journal, loadEnviron(cmd.EnvFile, os.Getenv), report)
	if err != nil {
		return err
	}

	stmt, err := statement.NewGenerator(l.Store()).CashFlow(runCtx, start, end, cmd.Fund)
	if err != nil {
		return err
	}

	renderCashFlow(ctx.Stdout, stmt)
	return nil
}

type BudgetsCmd struct {
	Journal string `help:"Journal file." arg:"" type:"existingfile"`
}

func (cmd *BudgetsCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("budgets %s", filepath.Base(cmd.Journal)))
	defer report()

	l, err := loadJournal(runCtx, ctx, cmd.Journal, report)
	if err != nil {
		return err
	}

	renderBudgets(ctx.Stdout, l.Budgets().All())
	return nil
}
