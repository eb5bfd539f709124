package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfisc/govledger/journal"
	"github.com/openfisc/govledger/ledger"
	"github.com/openfisc/govledger/statement"
)

// SectionResponse is the JSON form of a statement section.
type SectionResponse struct {
	Items map[string]decimal.Decimal `json:"items"`
	Total decimal.Decimal            `json:"total"`
}

func toSection(s statement.Section) SectionResponse {
	return SectionResponse{Items: s.Items, Total: s.Total}
}

// BalanceSheetResponse is the JSON form of a balance sheet.
type BalanceSheetResponse struct {
	Fund        string          `json:"fund,omitempty"`
	AsOf        string          `json:"asOf,omitempty"`
	Assets      SectionResponse `json:"assets"`
	Liabilities SectionResponse `json:"liabilities"`
	FundBalance SectionResponse `json:"fundBalance"`
	NetPosition decimal.Decimal `json:"netPosition"`
	NetIncome   decimal.Decimal `json:"netIncome"`
	IsBalanced  bool            `json:"isBalanced"`
}

// IncomeStatementResponse is the JSON form of an income statement.
type IncomeStatementResponse struct {
	Fund             string          `json:"fund,omitempty"`
	Period           string          `json:"period,omitempty"`
	Revenues         SectionResponse `json:"revenues"`
	Expenses         SectionResponse `json:"expenses"`
	NetIncome        decimal.Decimal `json:"netIncome"`
	SurplusOrDeficit string          `json:"surplusOrDeficit"`
}

// CashFlowResponse is the JSON form of a cash flow statement.
type CashFlowResponse struct {
	Fund                 string          `json:"fund,omitempty"`
	Start                string          `json:"start"`
	End                  string          `json:"end"`
	OperatingActivities  SectionResponse `json:"operatingActivities"`
	InvestingActivities  SectionResponse `json:"investingActivities"`
	FinancingActivities  SectionResponse `json:"financingActivities"`
	NetChangeInCash      decimal.Decimal `json:"netChangeInCash"`
	BeginningCashBalance decimal.Decimal `json:"beginningCashBalance"`
	EndingCashBalance    decimal.Decimal `json:"endingCashBalance"`
}

// BudgetResponse is the JSON form of a tracked budget.
type BudgetResponse struct {
	Fund            string          `json:"fund"`
	Period          string          `json:"period"`
	Category        string          `json:"category"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	Planned         decimal.Decimal `json:"planned"`
	Actual          decimal.Decimal `json:"actual"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePercent decimal.Decimal `json:"variancePercent"`
	Favorable       bool            `json:"favorable"`
}

// EntryResponse is the JSON form of a ledger entry. All fields of the
// persisted representation are preserved, including tags, so cash-flow
// classification stays reproducible from the export.
type EntryResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	Seq           uint64          `json:"seq"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Date          string          `json:"date"`
	Description   string          `json:"description"`
	Tags          string          `json:"tags,omitempty"`
	Fund          string          `json:"fund"`
	Period        string          `json:"period"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// parseDate parses an optional YYYY-MM-DD query parameter. The zero time
// and nil error mean the parameter was absent.
func parseDate(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", v)
}

func (s *Server) handleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseDate(r, "asOf")
	if err != nil {
		http.Error(w, "invalid asOf date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	sheet, err := gen.BalanceSheet(r.Context(), r.URL.Query().Get("fund"), asOf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := BalanceSheetResponse{
		Fund:        sheet.FundID,
		Assets:      toSection(sheet.Assets),
		Liabilities: toSection(sheet.Liabilities),
		FundBalance: toSection(sheet.FundBalance),
		NetPosition: sheet.NetPosition,
		NetIncome:   sheet.NetIncome,
		IsBalanced:  sheet.IsBalanced,
	}
	if !sheet.AsOf.IsZero() {
		resp.AsOf = sheet.AsOf.Format("2006-01-02")
	}
	writeJSON(w, resp)
}

func (s *Server) handleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	stmt, err := gen.IncomeStatement(r.Context(), r.URL.Query().Get("fund"), r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, IncomeStatementResponse{
		Fund:             stmt.FundID,
		Period:           stmt.PeriodID,
		Revenues:         toSection(stmt.Revenues),
		Expenses:         toSection(stmt.Expenses),
		NetIncome:        stmt.NetIncome,
		SurplusOrDeficit: stmt.SurplusOrDeficit,
	})
}

func (s *Server) handleCashFlow(w http.ResponseWriter, r *http.Request) {
	start, err := parseDate(r, "start")
	if err != nil || start.IsZero() {
		http.Error(w, "start date is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	end, err := parseDate(r, "end")
	if err != nil || end.IsZero() {
		http.Error(w, "end date is required (YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	stmt, err := gen.CashFlow(r.Context(), start, end, r.URL.Query().Get("fund"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, CashFlowResponse{
		Fund:                 stmt.FundID,
		Start:                stmt.Start.Format("2006-01-02"),
		End:                  stmt.End.Format("2006-01-02"),
		OperatingActivities:  toSection(stmt.Operating),
		InvestingActivities:  toSection(stmt.Investing),
		FinancingActivities:  toSection(stmt.Financing),
		NetChangeInCash:      stmt.NetChange,
		BeginningCashBalance: stmt.BeginningCashBalance,
		EndingCashBalance:    stmt.EndingCashBalance,
	})
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	budgets := s.ledger.Budgets().All()
	s.mu.RUnlock()

	resp := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		resp = append(resp, BudgetResponse{
			Fund:            b.FundID,
			Period:          b.PeriodID,
			Category:        string(b.Category),
			Type:            b.Type.String(),
			Status:          b.Status.String(),
			Planned:         b.Planned,
			Actual:          b.Actual(),
			Variance:        b.Variance(),
			VariancePercent: b.VariancePercent(),
			Favorable:       b.Favorable(),
		})
	}
	writeJSON(w, resp)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	q := ledger.EntryQuery{
		FundID:   r.URL.Query().Get("fund"),
		PeriodID: r.URL.Query().Get("period"),
		Category: ledger.NormalizeCategory(r.URL.Query().Get("category")),
	}
	if t := r.URL.Query().Get("type"); t != "" {
		entryType, ok := ledger.ParseEntryType(t)
		if !ok {
			http.Error(w, "invalid entry type: "+t, http.StatusBadRequest)
			return
		}
		q.Type = entryType
	}
	var err error
	if q.From, err = parseDate(r, "from"); err != nil {
		http.Error(w, "invalid from date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if q.To, err = parseDate(r, "to"); err != nil {
		http.Error(w, "invalid to date (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if q.Limit, err = strconv.Atoi(limit); err != nil || q.Limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	s.mu.RLock()
	l := s.ledger
	s.mu.RUnlock()

	entries, err := l.Entries(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, EntryResponse{
			ID:            e.ID,
			TransactionID: e.TransactionID,
			Seq:           e.Seq,
			Type:          e.Type.String(),
			Category:      string(e.Category),
			Debit:         e.Debit,
			Credit:        e.Credit,
			Date:          e.Date.Format("2006-01-02"),
			Description:   e.Description,
			Tags:          e.TagString(),
			Fund:          e.FundID,
			Period:        e.PeriodID,
		})
	}
	writeJSON(w, resp)
}

// handlePostTransaction accepts a single journal-format transaction and
// posts it to the in-memory ledger. Posted transactions survive until the
// next journal reload.
func (s *Server) handlePostTransaction(w http.ResponseWriter, r *http.Request) {
	var txn journal.Transaction
	if err := json.NewDecoder(r.Body).Decode(&txn); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if txn.ID == "" {
		http.Error(w, "transaction id is required", http.StatusBadRequest)
		return
	}

	doc := &journal.Journal{Transactions: []journal.Transaction{txn}}

	s.mu.RLock()
	l := s.ledger
	s.mu.RUnlock()

	if err := doc.Replay(r.Context(), l); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "created", "transactionId": txn.ID})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
