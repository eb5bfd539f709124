// Package postgres provides a durable append-only ledger.Store backed by
// PostgreSQL. Batches are appended inside a database transaction so the
// all-or-nothing contract of the store holds across process crashes, and
// readers never observe a half-committed batch.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/openfisc/govledger/ledger"
)

// Schema creates the ledger_entries table. Amounts are stored as
// NUMERIC so decimal values round-trip exactly; tags keep their
// comma-separated wire form so cash-flow classification stays
// reproducible from the stored row alone.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	seq            BIGSERIAL PRIMARY KEY,
	id             TEXT NOT NULL UNIQUE,
	transaction_id TEXT NOT NULL,
	entry_type     TEXT NOT NULL,
	category       TEXT NOT NULL,
	debit          NUMERIC(20,4) NOT NULL,
	credit         NUMERIC(20,4) NOT NULL,
	entry_date     DATE NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	tags           TEXT NOT NULL DEFAULT '',
	fund_id        TEXT NOT NULL,
	period_id      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_entries_scope
	ON ledger_entries (fund_id, period_id, category);
CREATE INDEX IF NOT EXISTS idx_entries_date
	ON ledger_entries (entry_date);
`

// Store implements ledger.Store on a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL with the given DSN and ensures the schema
// exists.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle without touching the schema.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendBatch inserts all entries in one database transaction and reads
// back the assigned sequence numbers.
func (s *Store) AppendBatch(ctx context.Context, entries []*ledger.LedgerEntry) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO ledger_entries
		(id, transaction_id, entry_type, category, debit, credit, entry_date, description, tags, fund_id, period_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING seq`

	for _, e := range entries {
		err = tx.QueryRowContext(ctx, query,
			e.ID, e.TransactionID, e.Type.String(), string(e.Category),
			e.Debit, e.Credit, e.Date, e.Description, e.TagString(),
			e.FundID, e.PeriodID,
		).Scan(&e.Seq)
		if err != nil {
			return fmt.Errorf("insert entry %s: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// Entries returns entries matching the query in append order. Filters
// become WHERE clauses so the (fund_id, period_id, category) index can
// serve fully scoped queries.
func (s *Store) Entries(ctx context.Context, q ledger.EntryQuery) ([]*ledger.LedgerEntry, error) {
	var (
		where []string
		args  []any
	)
	add := func(clause string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if q.FundID != "" {
		add("fund_id = $%d", q.FundID)
	}
	if q.PeriodID != "" {
		add("period_id = $%d", q.PeriodID)
	}
	if q.Category != "" {
		add("category = $%d", string(q.Category))
	}
	if q.Type != ledger.EntryTypeUnknown {
		add("entry_type = $%d", q.Type.String())
	}
	if !q.From.IsZero() {
		add("entry_date >= $%d", q.From)
	}
	if !q.To.IsZero() {
		add("entry_date <= $%d", q.To)
	}

	query := `SELECT seq, id, transaction_id, entry_type, category, debit, credit,
		entry_date, description, tags, fund_id, period_id FROM ledger_entries`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq"
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.LedgerEntry
	for rows.Next() {
		var (
			e         ledger.LedgerEntry
			entryType string
			category  string
			date      time.Time
			tags      string
		)
		if err := rows.Scan(&e.Seq, &e.ID, &e.TransactionID, &entryType, &category,
			&e.Debit, &e.Credit, &date, &e.Description, &tags, &e.FundID, &e.PeriodID); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Type, _ = ledger.ParseEntryType(entryType)
		e.Category = ledger.Category(category)
		e.Date = date
		e.Tags = ledger.ParseTags(tags)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

var _ ledger.Store = (*Store)(nil)
