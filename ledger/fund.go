package ledger

import (
	"strings"
	"sync"
	"time"
)

// FundType classifies a fund by its governmental purpose.
type FundType int

const (
	FundGeneral FundType = iota
	FundSpecialRevenue
	FundCapitalProjects
	FundDebtService
	FundEnterprise
)

// String returns the string representation of the fund type.
func (t FundType) String() string {
	switch t {
	case FundGeneral:
		return "general"
	case FundSpecialRevenue:
		return "special_revenue"
	case FundCapitalProjects:
		return "capital_projects"
	case FundDebtService:
		return "debt_service"
	case FundEnterprise:
		return "enterprise"
	default:
		return "unknown"
	}
}

// ParseFundType parses a case-insensitive fund type name.
func ParseFundType(s string) (FundType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "general", "":
		return FundGeneral, true
	case "special_revenue", "special-revenue":
		return FundSpecialRevenue, true
	case "capital_projects", "capital-projects", "capital":
		return FundCapitalProjects, true
	case "debt_service", "debt-service":
		return FundDebtService, true
	case "enterprise":
		return FundEnterprise, true
	default:
		return FundGeneral, false
	}
}

// Fund is a named subdivision of money used to scope postings and
// statements. Funds are created administratively and are immutable once
// referenced by postings.
type Fund struct {
	ID   string
	Name string
	Type FundType
}

// PeriodStatus is the lifecycle state of a fiscal period.
type PeriodStatus int

const (
	PeriodOpen PeriodStatus = iota
	PeriodClosed
)

// String returns "open" or "closed".
func (s PeriodStatus) String() string {
	if s == PeriodOpen {
		return "open"
	}
	return "closed"
}

// FiscalPeriod is a bounded accounting window. Postings may only target
// an open period; Open → Closed is a one-way transition. Reopening is not
// modeled: corrections against a closed period are made by creating a new
// period and posting reversals.
type FiscalPeriod struct {
	ID     string
	Name   string
	Start  time.Time
	End    time.Time
	Status PeriodStatus

	closedAt time.Time
}

// IsOpen reports whether the period still accepts postings.
func (p *FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Contains reports whether a date falls within the period window,
// inclusive on both ends.
func (p *FiscalPeriod) Contains(date time.Time) bool {
	return !date.Before(p.Start) && !date.After(p.End)
}

// Close transitions the period to Closed. Closing an already closed
// period is an error; there is no way back.
func (p *FiscalPeriod) Close() error {
	if p.Status == PeriodClosed {
		return NewPeriodClosedError(p)
	}
	p.Status = PeriodClosed
	p.closedAt = time.Now()
	return nil
}

// ClosedAt returns when the period was closed, zero if still open.
func (p *FiscalPeriod) ClosedAt() time.Time {
	return p.closedAt
}

// Registry holds the funds and fiscal periods that postings may
// reference. Lookups during validation go through the registry so that
// unknown references fail with a typed not-found error.
type Registry struct {
	mu      sync.RWMutex
	funds   map[string]*Fund
	periods map[string]*FiscalPeriod
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funds:   make(map[string]*Fund),
		periods: make(map[string]*FiscalPeriod),
	}
}

// AddFund registers a fund. Re-registering an existing id replaces it;
// funds referenced by postings should never be replaced.
func (r *Registry) AddFund(f *Fund) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funds[f.ID] = f
}

// AddPeriod registers a fiscal period.
func (r *Registry) AddPeriod(p *FiscalPeriod) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.periods[p.ID] = p
}

// Fund looks up a fund by id.
func (r *Registry) Fund(id string) (*Fund, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.funds[id]
	if !ok {
		return nil, NewFundNotFoundError(id)
	}
	return f, nil
}

// Period looks up a fiscal period by id.
func (r *Registry) Period(id string) (*FiscalPeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.periods[id]
	if !ok {
		return nil, NewPeriodNotFoundError(id)
	}
	return p, nil
}

// Funds returns all registered funds.
func (r *Registry) Funds() []*Fund {
	r.mu.RLock()
	defer r.mu.RUnlock()
	funds := make([]*Fund, 0, len(r.funds))
	for _, f := range r.funds {
		funds = append(funds, f)
	}
	return funds
}

// Periods returns all registered fiscal periods.
func (r *Registry) Periods() []*FiscalPeriod {
	r.mu.RLock()
	defer r.mu.RUnlock()
	periods := make([]*FiscalPeriod, 0, len(r.periods))
	for _, p := range r.periods {
		periods = append(periods, p)
	}
	return periods
}

// ClosePeriod closes the period with the given id.
func (r *Registry) ClosePeriod(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.periods[id]
	if !ok {
		return NewPeriodNotFoundError(id)
	}
	return p.Close()
}
