package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Validation Architecture
//
// Transactions are processed in two phases, mirroring the split between
// checking and committing:
//
//  1. Validation phase: a validator with read-only access to the registry
//     checks every posting spec and collects all errors found (it does not
//     short-circuit). If the batch survives, the validator materializes
//     the entries it would append.
//  2. Mutation phase: only executed if validation passed. The prepared
//     entries are handed to the store's atomic AppendBatch, after which
//     the budget tracker is updated incrementally.
//
// The balance check (debit total == credit total) runs after the per-
// posting checks and can be skipped with WithoutValidation for trusted
// migration or import paths. The period-open check always runs: nothing
// may post into a closed fiscal period.

// PostingSpec describes one posting of a transaction batch to be created.
// Exactly one of Debit or Credit must be positive, the other zero.
type PostingSpec struct {
	Type        EntryType
	Category    Category
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Date        time.Time
	Description string
	Tags        string // comma-separated activity tags, e.g. "financing,bond"
	FundID      string
	PeriodID    string
}

// TxnOption configures CreateTransaction.
type TxnOption func(*txnOptions)

type txnOptions struct {
	skipBalanceCheck bool
}

// WithoutValidation disables the batch balance check. This is a deliberate
// escape hatch for trusted migration and import paths, not a general API:
// per-posting checks and the closed-period gate still apply.
func WithoutValidation() TxnOption {
	return func(o *txnOptions) { o.skipBalanceCheck = true }
}

// validator checks a transaction batch with read-only access to the
// registry. It is a separate type from Ledger so validation cannot
// mutate state.
type validator struct {
	registry *Registry
}

func newValidator(registry *Registry) *validator {
	return &validator{registry: registry}
}

// validateTransaction checks a batch and, when it is clean, returns the
// entries that should be appended. All errors are collected; entries are
// only returned when errs is empty.
func (v *validator) validateTransaction(ctx context.Context, txnID string, specs []PostingSpec, opts txnOptions) ([]error, []*LedgerEntry) {
	if len(specs) == 0 {
		return []error{&EmptyTransactionError{TransactionID: txnID}}, nil
	}

	var errs []error
	debits := decimal.Zero
	credits := decimal.Zero

	for i, spec := range specs {
		if err := ctx.Err(); err != nil {
			return []error{err}, nil
		}
		errs = append(errs, v.validatePosting(txnID, i, spec)...)
		debits = debits.Add(spec.Debit)
		credits = credits.Add(spec.Credit)
	}

	if !opts.skipBalanceCheck && !debits.Equal(credits) {
		errs = append(errs, NewUnbalancedTransactionError(txnID, debits, credits))
	}

	if len(errs) > 0 {
		return errs, nil
	}

	entries := make([]*LedgerEntry, len(specs))
	for i, spec := range specs {
		entries[i] = &LedgerEntry{
			ID:            uuid.NewString(),
			TransactionID: txnID,
			Type:          spec.Type,
			Category:      NormalizeCategory(string(spec.Category)),
			Debit:         spec.Debit,
			Credit:        spec.Credit,
			Date:          spec.Date,
			Description:   spec.Description,
			Tags:          ParseTags(spec.Tags),
			FundID:        spec.FundID,
			PeriodID:      spec.PeriodID,
		}
	}
	return nil, entries
}

// validatePosting checks a single posting spec: amount shape, fund and
// period references, period lifecycle and window, category pairing.
func (v *validator) validatePosting(txnID string, index int, spec PostingSpec) []error {
	var errs []error

	if spec.Type == EntryTypeUnknown {
		errs = append(errs, NewInvalidPostingError(txnID, index, "missing entry type"))
	}
	if spec.Debit.IsNegative() || spec.Credit.IsNegative() {
		errs = append(errs, NewInvalidPostingError(txnID, index, "debit and credit amounts must be non-negative"))
	}
	if spec.Debit.IsPositive() && spec.Credit.IsPositive() {
		errs = append(errs, NewInvalidPostingError(txnID, index, "posting cannot carry both a debit and a credit amount"))
	}
	if spec.Debit.IsZero() && spec.Credit.IsZero() {
		errs = append(errs, NewInvalidPostingError(txnID, index, "posting amount must be nonzero"))
	}
	if spec.Date.IsZero() {
		errs = append(errs, NewInvalidPostingError(txnID, index, "missing entry date"))
	}

	category := NormalizeCategory(string(spec.Category))
	if expected, ok := WellKnownCategories[category]; ok && spec.Type != EntryTypeUnknown && expected != spec.Type {
		errs = append(errs, NewCategoryMismatchError(txnID, index, category, spec.Type, expected))
	}

	if _, err := v.registry.Fund(spec.FundID); err != nil {
		errs = append(errs, err)
	}

	period, err := v.registry.Period(spec.PeriodID)
	if err != nil {
		errs = append(errs, err)
		return errs
	}
	if !period.IsOpen() {
		errs = append(errs, NewPeriodClosedError(period))
	}
	if !spec.Date.IsZero() && !period.Contains(spec.Date) {
		errs = append(errs, NewInvalidPostingError(txnID, index,
			fmt.Sprintf("entry date %s is outside fiscal period %s", spec.Date.Format("2006-01-02"), period.ID)))
	}

	return errs
}
