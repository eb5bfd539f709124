package cli

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/openfisc/govledger/web"
)

type WebCmd struct {
	File     string `help:"Journal file to serve." arg:"" type:"existingfile"`
	Port     int    `help:"Port to listen on." default:"8080"`
	ReadOnly bool   `help:"Reject transaction posting over the API." short:"r"`
	Watch    bool   `help:"Reload the ledger when the journal file changes." short:"w"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, report := withTelemetry(ctx, globals, fmt.Sprintf("web %s", filepath.Base(cmd.File)))
	defer report()

	journalFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	server := web.New(cmd.Port, journalFile)
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving journal: %s", pathStyle.Render(journalFile))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}
	if cmd.Watch {
		printInfof(ctx.Stdout, "Watching journal for changes")
	}

	return server.Start(runCtx)
}
