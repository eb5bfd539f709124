package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Error types for transaction validation and registry lookups.

// ValidationErrors wraps multiple validation errors found in one batch.
// The validator collects every error rather than stopping at the first.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping.
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// UnbalancedTransactionError is returned when a batch's debit and credit
// totals differ. It carries both totals so callers can rebalance.
type UnbalancedTransactionError struct {
	TransactionID string
	Debits        decimal.Decimal
	Credits       decimal.Decimal
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s does not balance: debits %s, credits %s (residual %s)",
		e.TransactionID, e.Debits.String(), e.Credits.String(), e.Debits.Sub(e.Credits).String())
}

// Residual returns debits minus credits.
func (e *UnbalancedTransactionError) Residual() decimal.Decimal {
	return e.Debits.Sub(e.Credits)
}

// NewUnbalancedTransactionError creates an error carrying both batch totals.
func NewUnbalancedTransactionError(txnID string, debits, credits decimal.Decimal) *UnbalancedTransactionError {
	return &UnbalancedTransactionError{TransactionID: txnID, Debits: debits, Credits: credits}
}

// EmptyTransactionError is returned when a batch contains no postings.
type EmptyTransactionError struct {
	TransactionID string
}

func (e *EmptyTransactionError) Error() string {
	return fmt.Sprintf("transaction %s contains no postings", e.TransactionID)
}

// InvalidPostingError is returned when a single posting spec is malformed:
// negative amounts, both sides nonzero, both sides zero, or a date outside
// its fiscal period window.
type InvalidPostingError struct {
	TransactionID string
	Index         int // 0-based position of the posting in the batch
	Reason        string
}

func (e *InvalidPostingError) Error() string {
	return fmt.Sprintf("transaction %s posting #%d: %s", e.TransactionID, e.Index+1, e.Reason)
}

// NewInvalidPostingError creates an error for a malformed posting spec.
func NewInvalidPostingError(txnID string, index int, reason string) *InvalidPostingError {
	return &InvalidPostingError{TransactionID: txnID, Index: index, Reason: reason}
}

// CategoryMismatchError is returned when a well-known category is posted
// under the wrong entry type, e.g. category "cash" on a revenue posting.
type CategoryMismatchError struct {
	TransactionID string
	Index         int
	Category      Category
	Type          EntryType
	Expected      EntryType
}

func (e *CategoryMismatchError) Error() string {
	return fmt.Sprintf("transaction %s posting #%d: category %q belongs to %s entries, not %s",
		e.TransactionID, e.Index+1, e.Category, e.Expected, e.Type)
}

// NewCategoryMismatchError creates an error for a category posted under
// the wrong entry type.
func NewCategoryMismatchError(txnID string, index int, category Category, got, expected EntryType) *CategoryMismatchError {
	return &CategoryMismatchError{TransactionID: txnID, Index: index, Category: category, Type: got, Expected: expected}
}

// PeriodClosedError is returned when a posting targets a closed fiscal
// period, or when closing an already closed period.
type PeriodClosedError struct {
	PeriodID string
	Name     string
}

func (e *PeriodClosedError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("fiscal period %s (%s) is closed", e.PeriodID, e.Name)
	}
	return fmt.Sprintf("fiscal period %s is closed", e.PeriodID)
}

// NewPeriodClosedError creates an error for a posting against a closed period.
func NewPeriodClosedError(p *FiscalPeriod) *PeriodClosedError {
	return &PeriodClosedError{PeriodID: p.ID, Name: p.Name}
}

// FundNotFoundError is returned when a posting references an unknown fund.
type FundNotFoundError struct {
	FundID string
}

func (e *FundNotFoundError) Error() string {
	return fmt.Sprintf("unknown fund %q", e.FundID)
}

// NewFundNotFoundError creates an error for an unknown fund reference.
func NewFundNotFoundError(id string) *FundNotFoundError {
	return &FundNotFoundError{FundID: id}
}

// PeriodNotFoundError is returned when a posting references an unknown
// fiscal period.
type PeriodNotFoundError struct {
	PeriodID string
}

func (e *PeriodNotFoundError) Error() string {
	return fmt.Sprintf("unknown fiscal period %q", e.PeriodID)
}

// NewPeriodNotFoundError creates an error for an unknown period reference.
func NewPeriodNotFoundError(id string) *PeriodNotFoundError {
	return &PeriodNotFoundError{PeriodID: id}
}

// BudgetNotFoundError is returned when no budget exists for a
// (fund, period, category) key.
type BudgetNotFoundError struct {
	FundID   string
	PeriodID string
	Category Category
}

func (e *BudgetNotFoundError) Error() string {
	return fmt.Sprintf("no budget for fund %q, period %q, category %q", e.FundID, e.PeriodID, e.Category)
}

// NewBudgetNotFoundError creates an error for a missing budget key.
func NewBudgetNotFoundError(fundID, periodID string, category Category) *BudgetNotFoundError {
	return &BudgetNotFoundError{FundID: fundID, PeriodID: periodID, Category: category}
}
