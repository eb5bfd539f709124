// Package web provides an HTTP server exposing the ledger's statements
// and budgets as a JSON API over a journal-backed ledger.
//
// SECURITY WARNING: the server has no authentication and should only be
// bound to localhost (127.0.0.1). Do not expose it to untrusted networks.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/openfisc/govledger/journal"
	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/statement"
	"github.com/openfisc/govledger/telemetry"
)

// Server serves the JSON API for one journal file. With watch enabled it
// reloads the ledger whenever the journal changes on disk; transactions
// posted through the API live in memory until the next reload.
type Server struct {
	Port         int
	Host         string
	ReadOnly     bool
	WatchEnabled bool

	journalFile string

	mu     sync.RWMutex
	ledger *ledger.Ledger
	gen    *statement.Generator
}

// New creates a server for the given journal file.
func New(port int, journalFile string) *Server {
	return &Server{
		Port:        port,
		Host:        "127.0.0.1",
		journalFile: journalFile,
	}
}

// Start loads the journal, optionally starts the file watcher, and
// serves until the listener fails.
func (s *Server) Start(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("web.start %s:%d", s.Host, s.Port))
	defer timer.End()

	if s.journalFile == "" {
		return fmt.Errorf("journal file is required")
	}

	if err := s.reload(ctx); err != nil {
		return fmt.Errorf("failed to load journal: %w", err)
	}

	if s.WatchEnabled {
		if err := s.startWatcher(ctx); err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	return http.ListenAndServe(addr, s.router())
}

func (s *Server) router() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/balance-sheet", s.handleBalanceSheet)
	mux.HandleFunc("GET /api/income-statement", s.handleIncomeStatement)
	mux.HandleFunc("GET /api/cash-flow", s.handleCashFlow)
	mux.HandleFunc("GET /api/budgets", s.handleBudgets)
	mux.HandleFunc("GET /api/entries", s.handleEntries)
	mux.HandleFunc("POST /api/transactions", s.requireWritable(s.handlePostTransaction))

	return mux
}

// requireWritable rejects write requests in read-only mode.
func (s *Server) requireWritable(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.ReadOnly {
			http.Error(w, "server is in read-only mode", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// reload rebuilds the ledger from the journal file.
func (s *Server) reload(ctx context.Context) error {
	l, err := journal.Load(ctx, s.journalFile)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = l
	s.gen = statement.NewGenerator(l.Store())
	return nil
}

// startWatcher reloads the journal whenever it is written. Editors often
// replace files via rename, so the watch covers the parent directory and
// filters events down to the journal path.
func (s *Server) startWatcher(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.journalFile)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	target := filepath.Clean(s.journalFile)

	go func() {
		defer watcher.Close()

		// Debounce bursts of write events from editors.
		var pending *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(100*time.Millisecond, func() {
					if err := s.reload(ctx); err != nil {
						log.Printf("journal reload failed: %v", err)
						return
					}
					log.Printf("journal reloaded: %s", s.journalFile)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("watcher error: %v", err)
			}
		}
	}()

	return nil
}
