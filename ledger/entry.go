// Package ledger implements an append-only double-entry bookkeeping core
// for government accounting. It records immutable postings (LedgerEntry)
// scoped by Fund and FiscalPeriod, validates that every transaction batch
// balances before anything becomes visible, and tracks planned-vs-actual
// budget figures incrementally as postings land.
//
// The ledger validates that:
//   - Every transaction's debit total equals its credit total
//   - Postings only target funds and fiscal periods known to the registry
//   - Postings never target a closed fiscal period
//   - A posting's category agrees with its entry type
//
// All monetary amounts use decimal arithmetic to keep balance comparisons
// exact. Entries are never mutated or deleted; corrections are posted as
// offsetting reversal transactions.
//
// Example usage:
//
//	reg := ledger.NewRegistry()
//	reg.AddFund(&ledger.Fund{ID: "general", Name: "General Fund", Type: ledger.FundGeneral})
//	reg.AddPeriod(&ledger.FiscalPeriod{ID: "fy2026", Start: start, End: end})
//
//	l := ledger.New(reg, ledger.NewMemoryStore())
//	entries, err := l.CreateTransaction(ctx, "txn-1", []ledger.PostingSpec{...})
//	if err != nil {
//	    var verrs *ledger.ValidationErrors
//	    if errors.As(err, &verrs) {
//	        for _, e := range verrs.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType classifies a posting by the five fundamental account types.
type EntryType int

const (
	EntryTypeUnknown EntryType = iota
	EntryTypeAsset
	EntryTypeLiability
	EntryTypeEquity
	EntryTypeRevenue
	EntryTypeExpense
)

// String returns the string representation of the entry type.
func (t EntryType) String() string {
	switch t {
	case EntryTypeAsset:
		return "asset"
	case EntryTypeLiability:
		return "liability"
	case EntryTypeEquity:
		return "equity"
	case EntryTypeRevenue:
		return "revenue"
	case EntryTypeExpense:
		return "expense"
	default:
		return "unknown"
	}
}

// ParseEntryType parses a case-insensitive entry type name.
func ParseEntryType(s string) (EntryType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asset", "assets":
		return EntryTypeAsset, true
	case "liability", "liabilities":
		return EntryTypeLiability, true
	case "equity", "fund_balance":
		return EntryTypeEquity, true
	case "revenue", "revenues", "income":
		return EntryTypeRevenue, true
	case "expense", "expenses":
		return EntryTypeExpense, true
	default:
		return EntryTypeUnknown, false
	}
}

// Side identifies the normal balance side of an entry type.
type Side int

const (
	SideDebit Side = iota
	SideCredit
)

// String returns "debit" or "credit".
func (s Side) String() string {
	if s == SideDebit {
		return "debit"
	}
	return "credit"
}

// NormalSide returns the side on which an increase is recorded for the
// entry type. Assets and expenses are debit-normal, liabilities, equity
// and revenues are credit-normal.
func (t EntryType) NormalSide() Side {
	switch t {
	case EntryTypeAsset, EntryTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Category is a finer-grained classification within an entry type, such
// as "cash" or "personnel". The set is open-ended: categories listed in
// WellKnownCategories are checked against their expected entry type,
// anything else passes through unchecked.
type Category string

// Well-known categories.
const (
	CategoryCash        Category = "cash"
	CategoryReceivable  Category = "receivable"
	CategoryEquipment   Category = "equipment"
	CategoryPayable     Category = "payable"
	CategoryBond        Category = "bond"
	CategoryFundBalance Category = "fund_balance"
	CategoryTax         Category = "tax"
	CategoryFee         Category = "fee"
	CategoryGrant       Category = "grant"
	CategoryPersonnel   Category = "personnel"
	CategorySupplies    Category = "supplies"
	CategoryServices    Category = "services"
	CategoryDebt        Category = "debt"
)

// WellKnownCategories maps known categories to the entry type they belong
// to. Postings using a listed category under a different entry type are
// rejected during validation.
var WellKnownCategories = map[Category]EntryType{
	CategoryCash:        EntryTypeAsset,
	CategoryReceivable:  EntryTypeAsset,
	CategoryEquipment:   EntryTypeAsset,
	CategoryPayable:     EntryTypeLiability,
	CategoryBond:        EntryTypeLiability,
	CategoryFundBalance: EntryTypeEquity,
	CategoryTax:         EntryTypeRevenue,
	CategoryFee:         EntryTypeRevenue,
	CategoryGrant:       EntryTypeRevenue,
	CategoryPersonnel:   EntryTypeExpense,
	CategorySupplies:    EntryTypeExpense,
	CategoryServices:    EntryTypeExpense,
	CategoryDebt:        EntryTypeExpense,
}

// NormalizeCategory lowercases and trims a category name.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// LedgerEntry is a single immutable posting. Entries are created only by
// the transaction validator and share a TransactionID with every other
// posting written in the same batch.
type LedgerEntry struct {
	ID            string
	TransactionID string
	Seq           uint64 // store-assigned, strictly increasing append order
	Type          EntryType
	Category      Category
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Date          time.Time
	Description   string
	Tags          []string // normalized lowercase activity tags
	FundID        string
	PeriodID      string
}

// IsDebit reports whether the entry carries a nonzero debit amount.
// Debit and credit are mutually exclusive by construction.
func (e *LedgerEntry) IsDebit() bool {
	return e.Debit.IsPositive()
}

// IsCredit reports whether the entry carries a nonzero credit amount.
func (e *LedgerEntry) IsCredit() bool {
	return e.Credit.IsPositive()
}

// Amount returns whichever of debit or credit is nonzero.
func (e *LedgerEntry) Amount() decimal.Decimal {
	if e.IsDebit() {
		return e.Debit
	}
	return e.Credit
}

// Net returns the debit-minus-credit value of the entry. Positive for
// debit entries, negative for credit entries.
func (e *LedgerEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}

// NormalNet returns the entry's contribution on its type's normal balance
// side: debit minus credit for debit-normal types, the reverse otherwise.
func (e *LedgerEntry) NormalNet() decimal.Decimal {
	if e.Type.NormalSide() == SideDebit {
		return e.Debit.Sub(e.Credit)
	}
	return e.Credit.Sub(e.Debit)
}

// HasTag reports whether the entry carries the given activity tag.
func (e *LedgerEntry) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ParseTags splits a comma-separated tag string into normalized tags.
// Empty segments are dropped.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// TagString joins the entry's tags back into the comma-separated wire
// form used by external stores and exports.
func (e *LedgerEntry) TagString() string {
	return strings.Join(e.Tags, ",")
}
