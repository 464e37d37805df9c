package application

import (
	"github.com/google/uuid"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

// Ledger implements the account ledger operations on a User aggregate. It is
// stateless: every operation takes a consistent snapshot, validates all
// preconditions before touching it, and returns the mutated aggregate for the
// caller to persist. A failed operation leaves the aggregate untouched.
type Ledger struct{}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AddTransaction appends a transaction to the account's store under a fresh
// id and bumps the income or expense total selected by the transaction type.
func (l *Ledger) AddTransaction(user *domain.User, accountID string, transaction domain.Transaction) (*domain.User, error) {
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if transaction.Currency != account.Currency {
		return nil, financeErrors.ErrCurrencyMismatch
	}
	if _, err := account.ResolveCategoryType(transaction.CategoryID); err != nil {
		return nil, err
	}

	transaction.ID = uuid.NewString()
	account.Transactions = append(account.Transactions, transaction)
	applyToBucket(account, transaction.Type, transaction.Amount)
	return user, nil
}

// UpdateTransaction replaces the stored transaction fields in place, keeping
// the id. The old amount is taken out of its previous bucket and the new
// amount added to the bucket matching the new type, so a reclassification
// from income to expense moves the amount between buckets.
func (l *Ledger) UpdateTransaction(user *domain.User, accountID string, transaction domain.Transaction) (*domain.User, error) {
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	index, err := account.TransactionIndex(transaction.ID)
	if err != nil {
		return nil, err
	}
	if err := transaction.Validate(); err != nil {
		return nil, err
	}
	if transaction.Currency != account.Currency {
		return nil, financeErrors.ErrCurrencyMismatch
	}
	if _, err := account.ResolveCategoryType(transaction.CategoryID); err != nil {
		return nil, err
	}

	old := account.Transactions[index]
	applyToBucket(account, old.Type, old.Amount.Neg())
	applyToBucket(account, transaction.Type, transaction.Amount)
	account.Transactions[index] = transaction
	return user, nil
}

// DeleteTransaction removes the transaction and subtracts its amount from the
// bucket matching its type.
func (l *Ledger) DeleteTransaction(user *domain.User, accountID, transactionID string) (*domain.User, error) {
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	index, err := account.TransactionIndex(transactionID)
	if err != nil {
		return nil, err
	}

	removed := account.Transactions[index]
	applyToBucket(account, removed.Type, removed.Amount.Neg())
	account.Transactions = append(account.Transactions[:index], account.Transactions[index+1:]...)
	return user, nil
}

// GetTransactionByID is a pure lookup with no mutation.
func (l *Ledger) GetTransactionByID(user *domain.User, accountID, transactionID string) (*domain.Transaction, error) {
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	index, err := account.TransactionIndex(transactionID)
	if err != nil {
		return nil, err
	}
	transaction := account.Transactions[index]
	return &transaction, nil
}

// FilterTransactions returns a projection of the aggregate in which the
// target account's transactions are replaced by the subsequence matching the
// filters, in original order. The underlying store is not mutated.
func (l *Ledger) FilterTransactions(user *domain.User, accountID string, filters domain.TransactionFilters) (*domain.User, error) {
	if _, err := user.Account(accountID); err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	projected := *user
	projected.Accounts = make([]domain.Account, len(user.Accounts))
	copy(projected.Accounts, user.Accounts)

	account, _ := projected.Account(accountID)
	filtered := make([]domain.Transaction, 0, len(account.Transactions))
	for _, transaction := range account.Transactions {
		if filters.Matches(transaction) {
			filtered = append(filtered, transaction)
		}
	}
	account.Transactions = filtered
	return &projected, nil
}

// Buckets key off the transaction type, not the category type: changing only
// a transaction's category never moves totals between buckets.
func applyToBucket(account *domain.Account, transactionType string, delta decimal.Decimal) {
	switch transactionType {
	case domain.TypeIncome:
		account.IncomeAmount = account.IncomeAmount.Add(delta)
	case domain.TypeExpense:
		account.ExpenseAmount = account.ExpenseAmount.Add(delta)
	}
}
