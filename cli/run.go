package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"

	"github.com/openfisc/govledger/journal"
	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/telemetry"
)

// withTelemetry attaches a timing collector to the context when the
// global flag is set. The returned report function is safe to call more
// than once; only the first call prints.
func withTelemetry(ctx *kong.Context, globals *Globals, name string) (context.Context, func()) {
	runCtx := context.Background()

	if !globals.Telemetry {
		return runCtx, func() {}
	}

	collector := telemetry.NewTimingCollector()
	runCtx = telemetry.WithCollector(runCtx, collector)

	rootTimer := collector.Start(name)
	runCtx = telemetry.WithRootTimer(runCtx, rootTimer)

	var once sync.Once
	report := func() {
		once.Do(func() {
			rootTimer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		})
	}
	return runCtx, report
}

// openLedger builds a ledger from a journal file. When env names a
// database, the journal contributes declarations only and the durable
// store carries the entries; otherwise the whole journal is replayed into
// memory.
func openLedger(runCtx context.Context, ctx *kong.Context, path string, env environ, report func(), opts ...ledger.Option) (*ledger.Ledger, error) {
	store, err := env.store()
	if err != nil {
		return nil, err
	}

	if store == nil {
		return loadJournal(runCtx, ctx, path, report)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := journal.Parse(data)
	if err != nil {
		return nil, err
	}
	if len(doc.Transactions) > 0 {
		printInfof(ctx.Stderr, "journal transactions ignored: entries live in the configured database")
	}

	l := ledger.New(ledger.NewRegistry(), store, opts...)
	doc.Declare(l)
	return l, nil
}

// loadJournal loads and replays a journal file, rendering validation
// errors one per line before exiting nonzero.
func loadJournal(runCtx context.Context, ctx *kong.Context, path string, report func()) (*ledger.Ledger, error) {
	l, err := journal.Load(runCtx, path)
	if err != nil {
		var verrs *ledger.ValidationErrors
		if stdErrors.As(err, &verrs) {
			for _, e := range verrs.Errors {
				printError(ctx.Stderr, e.Error())
			}
			_, _ = fmt.Fprintln(ctx.Stderr)
			printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) in %s", len(verrs.Errors), filepath.Base(path)))

			report()
			os.Exit(1)
		}
		return nil, err
	}
	return l, nil
}
