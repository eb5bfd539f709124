// Package journal loads a JSON journal file declaring funds, fiscal
// periods, budgets and transaction batches, and replays it into a
// ledger. The journal is the administrative input surface: collaborators
// that record financial events programmatically call the ledger
// directly, while operators and tests describe a whole book in one file.
//
// A minimal journal:
//
//	{
//	  "funds": [
//	    {"id": "general", "name": "General Fund", "type": "general"}
//	  ],
//	  "periods": [
//	    {"id": "fy2026", "name": "FY 2026",
//	     "start": "2025-07-01", "end": "2026-06-30"}
//	  ],
//	  "budgets": [
//	    {"fund": "general", "period": "fy2026", "category": "personnel",
//	     "type": "expense", "planned": "1200000", "approved": true}
//	  ],
//	  "transactions": [
//	    {"id": "txn-1", "postings": [
//	      {"type": "asset", "category": "cash", "debit": "250000",
//	       "date": "2025-07-15", "description": "Property tax receipts",
//	       "fund": "general", "period": "fy2026"},
//	      {"type": "revenue", "category": "tax", "credit": "250000",
//	       "date": "2025-07-15", "description": "Property tax receipts",
//	       "fund": "general", "period": "fy2026"}
//	    ]}
//	  ]
//	}
//
// Transactions marked "validate": false skip the balance check (the
// migration escape hatch) but still go through every other check.
// Periods marked "closed": true are closed after all transactions have
// been replayed, so a journal can both fill and close a period.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/telemetry"
)

// Date is a calendar date serialized as "2006-01-02".
type Date struct {
	time.Time
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

// Journal is the parsed representation of a journal file.
type Journal struct {
	Funds        []FundDecl    `json:"funds"`
	Periods      []PeriodDecl  `json:"periods"`
	Budgets      []BudgetDecl  `json:"budgets"`
	Transactions []Transaction `json:"transactions"`
}

// FundDecl declares a fund.
type FundDecl struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// PeriodDecl declares a fiscal period. Closed periods are closed only
// after every transaction in the journal has been replayed.
type PeriodDecl struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Start  Date   `json:"start"`
	End    Date   `json:"end"`
	Closed bool   `json:"closed"`
}

// BudgetDecl declares a planned amount for a (fund, period, category).
type BudgetDecl struct {
	Fund     string          `json:"fund"`
	Period   string          `json:"period"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Planned  decimal.Decimal `json:"planned"`
	Approved bool            `json:"approved"`
}

// Transaction is a batch of postings sharing one transaction id.
type Transaction struct {
	ID       string    `json:"id"`
	Validate *bool     `json:"validate"` // nil means true
	Postings []Posting `json:"postings"`
}

// Posting is the wire form of a ledger.PostingSpec.
type Posting struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Tags        string          `json:"tags"`
	Fund        string          `json:"fund"`
	Period      string          `json:"period"`
}

// Parse decodes a journal document. Unknown fields are rejected so typos
// in field names fail loudly instead of silently dropping amounts.
func Parse(data []byte) (*Journal, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var j Journal
	if err := dec.Decode(&j); err != nil {
		return nil, fmt.Errorf("parse journal: %w", err)
	}
	return &j, nil
}

// Load reads and replays a journal file into a fresh ledger backed by an
// in-memory store.
func Load(ctx context.Context, path string, opts ...ledger.Option) (*ledger.Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return LoadBytes(ctx, data, opts...)
}

// LoadBytes replays a journal document into a fresh ledger backed by an
// in-memory store.
func LoadBytes(ctx context.Context, data []byte, opts ...ledger.Option) (*ledger.Ledger, error) {
	j, err := Parse(data)
	if err != nil {
		return nil, err
	}

	l := ledger.New(ledger.NewRegistry(), ledger.NewMemoryStore(), opts...)
	if err := j.Replay(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Declare applies only the journal's declarations (funds, periods and
// budgets), leaving transactions untouched. Used when entries live in a
// durable store and replaying them would duplicate history.
func (j *Journal) Declare(l *ledger.Ledger) {
	for _, fd := range j.Funds {
		fundType, _ := ledger.ParseFundType(fd.Type)
		l.Registry().AddFund(&ledger.Fund{ID: fd.ID, Name: fd.Name, Type: fundType})
	}

	for _, pd := range j.Periods {
		l.Registry().AddPeriod(&ledger.FiscalPeriod{
			ID:    pd.ID,
			Name:  pd.Name,
			Start: pd.Start.Time,
			End:   pd.End.Time,
		})
	}

	for _, bd := range j.Budgets {
		budgetType, _ := ledger.ParseBudgetType(bd.Type)
		b := ledger.NewBudget(bd.Fund, bd.Period, ledger.Category(bd.Category), budgetType, bd.Planned)
		if bd.Approved {
			b.Approve()
		}
		l.Budgets().Add(b)
	}
}

// Replay applies the journal to a ledger in order: declarations first,
// then transactions, then period closes.
func (j *Journal) Replay(ctx context.Context, l *ledger.Ledger) error {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("journal.replay (%d transactions)", len(j.Transactions)))
	defer timer.End()

	j.Declare(l)

	for _, txn := range j.Transactions {
		if err := ctx.Err(); err != nil {
			return err
		}

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

		var opts []ledger.TxnOption
		if txn.Validate != nil && !*txn.Validate {
			opts = append(opts, ledger.WithoutValidation())
		}

		if _, err := l.CreateTransaction(ctx, txn.ID, specs, opts...); err != nil {
			return fmt.Errorf("replay transaction %s: %w", txn.ID, err)
		}
	}

	for _, pd := range j.Periods {
		if pd.Closed {
			if err := l.Registry().ClosePeriod(pd.ID); err != nil {
				return err
			}
		}
	}

	return nil
}
