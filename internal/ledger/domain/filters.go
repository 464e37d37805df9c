package domain

import (
	"time"

	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

// TransactionFilters narrows a transaction query. Both date bounds are
// inclusive. Type and CategoryID are optional. Filters are a query parameter
// only and never persisted.
type TransactionFilters struct {
	DateStart  time.Time `json:"date_start"`
	DateEnd    time.Time `json:"date_end"`
	Type       string    `json:"type,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
}

// Validate asserts the caller-side preconditions. The API layer checks the
// range before the ledger is invoked; the ledger asserts it again defensively.
func (f TransactionFilters) Validate() error {
	if f.DateStart.After(f.DateEnd) {
		return financeErrors.ErrInvalidFilterRange
	}
	if f.Type != "" && !IsValidTransactionType(f.Type) {
		return financeErrors.NewValidationError("Type must be 'income' or 'expense'")
	}
	return nil
}

func (f TransactionFilters) Matches(transaction Transaction) bool {
	if transaction.Date.Before(f.DateStart) || transaction.Date.After(f.DateEnd) {
		return false
	}
	if f.Type != "" && transaction.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && transaction.CategoryID != f.CategoryID {
		return false
	}
	return true
}
