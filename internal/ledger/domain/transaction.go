package domain

import (
	"time"

	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"

	maxDescriptionLength = 200
)

// Transaction is a single ledger entry, owned exclusively by one account.
// The ID is assigned by the ledger on add and never changes afterwards.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"` // "income" or "expense"
	CategoryID  string          `json:"category_id"`
}

func IsValidTransactionType(transactionType string) bool {
	return transactionType == TypeIncome || transactionType == TypeExpense
}

func (t *Transaction) Validate() error {
	if t.Amount.IsNegative() {
		return financeErrors.NewValidationError("Amount must not be negative")
	}
	if !IsValidTransactionType(t.Type) {
		return financeErrors.NewValidationError("Type must be 'income' or 'expense'")
	}
	if len(t.Description) > maxDescriptionLength {
		return financeErrors.NewValidationError("Description must be of length less than 200")
	}
	if t.CategoryID == "" {
		return financeErrors.NewValidationError("Category ID must be provided")
	}
	if t.Date.IsZero() {
		return financeErrors.NewValidationError("Date must be provided")
	}
	return nil
}
