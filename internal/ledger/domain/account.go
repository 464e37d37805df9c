package domain

import (
	"github.com/google/uuid"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

var supportedCurrencies = map[string]struct{}{
	"USD": {},
	"EUR": {},
	"GBP": {},
	"PLN": {},
	"CHF": {},
}

func IsValidCurrency(currency string) bool {
	_, ok := supportedCurrencies[currency]
	return ok
}

// Account is a currency-scoped container of categories and transactions.
// IncomeAmount and ExpenseAmount are running totals kept in sync with the
// transaction store on every mutation: IncomeAmount always equals the sum of
// stored income transactions, ExpenseAmount the sum of expense ones.
type Account struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Categories    []Category      `json:"categories"`
	Transactions  []Transaction   `json:"transactions"`
	IncomeAmount  decimal.Decimal `json:"income_amount"`
	ExpenseAmount decimal.Decimal `json:"expense_amount"`
}

// NewAccount creates an empty account with the starter category set.
func NewAccount(name, currency string) Account {
	return Account{
		ID:            uuid.NewString(),
		Name:          name,
		Currency:      currency,
		Categories:    DefaultCategories(),
		Transactions:  []Transaction{},
		IncomeAmount:  decimal.Zero,
		ExpenseAmount: decimal.Zero,
	}
}

// ResolveCategoryType resolves the income/expense type of a category or
// subcategory reference within this account's category set.
func (a *Account) ResolveCategoryType(categoryID string) (string, error) {
	for i := range a.Categories {
		if a.Categories[i].ID == categoryID {
			return a.Categories[i].Type, nil
		}
		for j := range a.Categories[i].Subcategories {
			if a.Categories[i].Subcategories[j].ID == categoryID {
				return a.Categories[i].Subcategories[j].Type, nil
			}
		}
	}
	return "", financeErrors.ErrCategoryNotFound
}

// CategoryByID returns the top-level category with the given id.
func (a *Account) CategoryByID(categoryID string) (*Category, error) {
	for i := range a.Categories {
		if a.Categories[i].ID == categoryID {
			return &a.Categories[i], nil
		}
	}
	return nil, financeErrors.ErrCategoryNotFound
}

// TransactionIndex returns the position of the transaction with the given id
// in the store, or ErrTransactionNotFound.
func (a *Account) TransactionIndex(transactionID string) (int, error) {
	for i := range a.Transactions {
		if a.Transactions[i].ID == transactionID {
			return i, nil
		}
	}
	return 0, financeErrors.ErrTransactionNotFound
}
