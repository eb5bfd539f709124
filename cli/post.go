package cli

import (
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/openfisc/govledger/journal"
	"github.com/openfisc/govledger/ledger"
)

type PostCmd struct {
	Journal string `help:"Journal file declaring funds, periods and budgets." arg:"" type:"existingfile"`
	File    string `help:"Transaction file in journal format (transactions only)." arg:"" type:"existingfile"`

	NoValidate bool   `name:"no-validate" help:"Skip the batch balance check. Trusted imports only."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt for --no-validate."`
	EnvFile    string `name:"env" help:"Path to a .env file with store and broker settings." type:"existingfile" optional:""`
}

func (cmd *PostCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("post %s", filepath.Base(cmd.File)))
	defer report()

	if cmd.NoValidate && !cmd.Yes {
		confirmed, err := promptYesNo(ctx, "Posting without balance validation. Continue?")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("aborted")
		}
	}

	env := loadEnviron(cmd.EnvFile, os.Getenv)

	var opts []ledger.Option
	if publisher := env.publisher(); publisher != nil {
		opts = append(opts, ledger.WithPublisher(publisher))
	}

	l, err := openLedger(runCtx, ctx, cmd.Journal, env, report, opts...)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return err
	}
	batch, err := journal.Parse(data)
	if err != nil {
		return err
	}
	if len(batch.Transactions) == 0 {
		return fmt.Errorf("no transactions in %s", cmd.File)
	}

	for _, txn := range batch.Transactions {
		specs := make([]ledger.PostingSpec, len(txn.Postings))
		for i, p := range txn.Postings {
			entryType, _ := ledger.ParseEntryType(p.Type)
			specs[i] = ledger.PostingSpec{
				Type:        entryType,
				Category:    ledger.Category(p.Category),
				Debit:       p.Debit,
				Credit:      p.Credit,
				Date:        p.Date.Time,
				Description: p.Description,
				Tags:        p.Tags,
				FundID:      p.Fund,
				PeriodID:    p.Period,
			}
		}

		var txnOpts []ledger.TxnOption
		if cmd.NoValidate || (txn.Validate != nil && !*txn.Validate) {
			txnOpts = append(txnOpts, ledger.WithoutValidation())
		}

		entries, err := l.CreateTransaction(runCtx, txn.ID, specs, txnOpts...)
		if err != nil {
			if renderValidationErrors(ctx, err) {
				report()
				os.Exit(1)
			}
			return err
		}
		printSuccess(ctx.Stdout, fmt.Sprintf("Posted %s (%d entries)", txn.ID, len(entries)))
	}

	return nil
}

// renderValidationErrors prints each wrapped validation error and reports
// whether err was a validation failure.
func renderValidationErrors(ctx *kong.Context, err error) bool {
	var verrs *ledger.ValidationErrors
	if !stdErrors.As(err, &verrs) {
		return false
	}
	for _, e := range verrs.Errors {
		printError(ctx.Stderr, e.Error())
	}
	return true
}
