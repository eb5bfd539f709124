package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/openfisc/govledger/ledger"
)

type CheckCmd struct {
	File string `help:"Journal file to validate." arg:"" type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("check %s", filepath.Base(cmd.File)))
	defer report()

	l, err := loadJournal(runCtx, ctx, cmd.File, report)
	if err != nil {
		return err
	}

	if store, ok := l.Store().(*ledger.MemoryStore); ok {
		debits, credits := store.Totals()
		if !debits.Equal(credits) {
			printError(ctx.Stderr, fmt.Sprintf("trial balance is off: debits %s, credits %s", debits, credits))
			return fmt.Errorf("journal does not balance")
		}
		printInfof(ctx.Stdout, "%d entries, debits %s = credits %s", store.Len(), debits, credits)
	}

	printSuccess(ctx.Stdout, "Check passed")
	return nil
}
