package ledger

import "time"

// EntryQuery is a typed filter over the entry store. Zero-valued fields
// match everything; From/To bound the entry date inclusively; Limit, when
// positive, caps the number of returned entries so an oversized report
// cannot scan the whole store.
type EntryQuery struct {
	FundID   string
	PeriodID string
	Category Category
	Type     EntryType
	From     time.Time
	To       time.Time
	Limit    int
}

// Matches reports whether an entry satisfies every bound filter.
func (q EntryQuery) Matches(e *LedgerEntry) bool {
	if q.FundID != "" && e.FundID != q.FundID {
		return false
	}
	if q.PeriodID != "" && e.PeriodID != q.PeriodID {
		return false
	}
	if q.Category != "" && e.Category != q.Category {
		return false
	}
	if q.Type != EntryTypeUnknown && e.Type != q.Type {
		return false
	}
	if !q.From.IsZero() && e.Date.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && e.Date.After(q.To) {
		return false
	}
	return true
}

// indexed reports whether the query binds all three dimensions of the
// store's secondary index.
func (q EntryQuery) indexed() bool {
	return q.FundID != "" && q.PeriodID != "" && q.Category != ""
}
