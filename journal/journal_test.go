package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/ledger"
)

const sampleJournal = `{
  "funds": [
    {"id": "general", "name": "General Fund", "type": "general"},
    {"id": "capital", "name": "Capital Projects Fund", "type": "capital_projects"}
  ],
  "periods": [
    {"id": "fy2026", "name": "FY 2026", "start": "2025-07-01", "end": "2026-06-30"}
  ],
  "budgets": [
    {"fund": "general", "period": "fy2026", "category": "personnel",
     "type": "expense", "planned": "1200000", "approved": true}
  ],
  "transactions": [
    {"id": "txn-1", "postings": [
      {"type": "asset", "category": "cash", "debit": "250000",
       "date": "2025-07-15", "description": "Property tax receipts",
       "fund": "general", "period": "fy2026"},
      {"type": "revenue", "category": "tax", "credit": "250000",
       "date": "2025-07-15", "description": "Property tax receipts",
       "fund": "general", "period": "fy2026"}
    ]},
    {"id": "txn-2", "postings": [
      {"type": "expense", "category": "personnel", "debit": "80000",
       "date": "2025-07-31", "description": "July payroll",
       "fund": "general", "period": "fy2026"},
      {"type": "asset", "category": "cash", "credit": "80000",
       "date": "2025-07-31", "description": "July payroll",
       "fund": "general", "period": "fy2026"}
    ]}
  ]
}`

func TestParse(t *testing.T) {
	j, err := Parse([]byte(sampleJournal))
	assert.NoError(t, err)

	assert.Equal(t, len(j.Funds), 2)
	assert.Equal(t, len(j.Periods), 1)
	assert.Equal(t, len(j.Budgets), 1)
	assert.Equal(t, len(j.Transactions), 2)

	assert.Equal(t, j.Periods[0].Start.Format("2006-01-02"), "2025-07-01")
	assert.True(t, j.Budgets[0].Planned.Equal(decimal.NewFromInt(1200000)))
	assert.True(t, j.Transactions[0].Postings[0].Debit.Equal(decimal.NewFromInt(250000)))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "malformed json", input: `{"funds": [`},
		{name: "unknown field", input: `{"funds": [{"id": "general", "nickname": "gf"}]}`},
		{name: "bad date", input: `{"periods": [{"id": "p", "start": "July 1st"}]}`},
		{name: "bad amount", input: `{"transactions": [{"id": "t", "postings": [{"debit": "abc"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestLoadBytes(t *testing.T) {
	l, err := LoadBytes(context.Background(), []byte(sampleJournal))
	assert.NoError(t, err)

	f, err := l.Registry().Fund("capital")
	assert.NoError(t, err)
	assert.Equal(t, f.Type, ledger.FundCapitalProjects)

	entries, err := l.Entries(context.Background(), ledger.EntryQuery{})
	assert.NoError(t, err)
	assert.Equal(t, len(entries), 4)

	// The budget picked up the replayed payroll.
	b, err := l.Budgets().Get("general", "fy2026", ledger.CategoryPersonnel)
	assert.NoError(t, err)
	assert.Equal(t, b.Status, ledger.BudgetApproved)
	assert.True(t, b.Actual().Equal(decimal.NewFromInt(80000)), "actual %s", b.Actual())
}

func TestReplayRejectsInvalidTransaction(t *testing.T) {
	doc := `{
	  "funds": [{"id": "general", "name": "General Fund", "type": "general"}],
	  "periods": [{"id": "fy2026", "start": "2025-07-01", "end": "2026-06-30"}],
	  "transactions": [
	    {"id": "txn-bad", "postings": [
	      {"type": "asset", "category": "cash", "debit": "1000",
	       "date": "2025-07-15", "fund": "general", "period": "fy2026"},
	      {"type": "revenue", "category": "fee", "credit": "500",
	       "date": "2025-07-15", "fund": "general", "period": "fy2026"}
	    ]}
	  ]
	}`

	_, err := LoadBytes(context.Background(), []byte(doc))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "replay transaction txn-bad")

	var unbalanced *ledger.UnbalancedTransactionError
	assert.True(t, errors.As(err, &unbalanced))
}

func TestReplayValidateFalse(t *testing.T) {
	doc := `{
	  "funds": [{"id": "general", "name": "General Fund", "type": "general"}],
	  "periods": [{"id": "fy2026", "start": "2025-07-01", "end": "2026-06-30"}],
	  "transactions": [
	    {"id": "txn-migrate", "validate": false, "postings": [
	      {"type": "asset", "category": "cash", "debit": "1000",
	       "date": "2025-07-15", "description": "Opening balance",
	       "fund": "general", "period": "fy2026"}
	    ]}
	  ]
	}`

	l, err := LoadBytes(context.Background(), []byte(doc))
	assert.NoError(t, err)

	entries, err := l.Entries(context.Background(), ledger.EntryQuery{})
	assert.NoError(t, err)
	assert.Equal(t, len(entries), 1)
}

func TestReplayClosesPeriodsAfterTransactions(t *testing.T) {
	doc := `{
	  "funds": [{"id": "general", "name": "General Fund", "type": "general"}],
	  "periods": [{"id": "fy2025", "start": "2024-07-01", "end": "2025-06-30", "closed": true}],
	  "transactions": [
	    {"id": "txn-1", "postings": [
	      {"type": "asset", "category": "cash", "debit": "100",
	       "date": "2024-08-01", "fund": "general", "period": "fy2025"},
	      {"type": "revenue", "category": "fee", "credit": "100",
	       "date": "2024-08-01", "fund": "general", "period": "fy2025"}
	    ]}
	  ]
	}`

	// The transaction replays into the still-open period; the close
	// happens last.
	l, err := LoadBytes(context.Background(), []byte(doc))
	assert.NoError(t, err)

	p, err := l.Registry().Period("fy2025")
	assert.NoError(t, err)
	assert.False(t, p.IsOpen())

	// Posting after the replay hits the closed gate.
	_, err = l.CreateTransaction(context.Background(), "txn-2", []ledger.PostingSpec{
		{Type: ledger.EntryTypeAsset, Category: ledger.CategoryCash, Debit: decimal.NewFromInt(1), Date: p.Start, FundID: "general", PeriodID: "fy2025"},
		{Type: ledger.EntryTypeRevenue, Category: ledger.CategoryFee, Credit: decimal.NewFromInt(1), Date: p.Start, FundID: "general", PeriodID: "fy2025"},
	})
	var closed *ledger.PeriodClosedError
	assert.True(t, errors.As(err, &closed))
}

func TestDeclareSkipsTransactions(t *testing.T) {
	j, err := Parse([]byte(sampleJournal))
	assert.NoError(t, err)

	l := ledger.New(ledger.NewRegistry(), ledger.NewMemoryStore())
	j.Declare(l)

	_, err = l.Registry().Fund("general")
	assert.NoError(t, err)
	_, err = l.Registry().Period("fy2026")
	assert.NoError(t, err)
	_, err = l.Budgets().Get("general", "fy2026", ledger.CategoryPersonnel)
	assert.NoError(t, err)

	entries, err := l.Entries(context.Background(), ledger.EntryQuery{})
	assert.NoError(t, err)
	assert.Equal(t, len(entries), 0)
}

func TestDateRoundTrip(t *testing.T) {
	var d Date
	assert.NoError(t, d.UnmarshalJSON([]byte(`"2025-07-01"`)))
	assert.Equal(t, d.Format("2006-01-02"), "2025-07-01")

	out, err := d.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, string(out), `"2025-07-01"`)

	// Absent and null dates stay zero.
	var zero Date
	assert.NoError(t, zero.UnmarshalJSON([]byte(`null`)))
	assert.True(t, zero.IsZero())
}
