package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

func accountWithCategories() Account {
	return Account{
		ID:       "acc-1",
		Name:     "Main Account",
		Currency: "USD",
		Categories: []Category{
			{ID: "cat-income", Name: "Salary", Type: TypeIncome},
			{
				ID:   "cat-expense",
				Name: "Bills",
				Type: TypeExpense,
				Subcategories: []Subcategory{
					{ID: "sub-rent", Name: "Rent", Type: TypeExpense},
				},
			},
		},
	}
}

func TestNewAccount_SeedsDefaults(t *testing.T) {
	account := NewAccount("Main Account", "USD")

	assert.NotEmpty(t, account.ID)
	assert.Equal(t, "USD", account.Currency)
	assert.NotEmpty(t, account.Categories)
	assert.Empty(t, account.Transactions)
	assert.True(t, account.IncomeAmount.IsZero())
	assert.True(t, account.ExpenseAmount.IsZero())
}

func TestResolveCategoryType_TopLevel(t *testing.T) {
	account := accountWithCategories()

	categoryType, err := account.ResolveCategoryType("cat-income")
	assert.NoError(t, err)
	assert.Equal(t, TypeIncome, categoryType)
}

func TestResolveCategoryType_Subcategory(t *testing.T) {
	account := accountWithCategories()

	categoryType, err := account.ResolveCategoryType("sub-rent")
	assert.NoError(t, err)
	assert.Equal(t, TypeExpense, categoryType)
}

func TestResolveCategoryType_NotFound(t *testing.T) {
	account := accountWithCategories()

	_, err := account.ResolveCategoryType("missing")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNotFound)
}

func TestCategoryByID_OnlyTopLevel(t *testing.T) {
	account := accountWithCategories()

	category, err := account.CategoryByID("cat-expense")
	assert.NoError(t, err)
	assert.Equal(t, "Bills", category.Name)

	_, err = account.CategoryByID("sub-rent")
	assert.ErrorIs(t, err, financeErrors.ErrCategoryNotFound)
}

func TestTransactionIndex_NotFound(t *testing.T) {
	account := accountWithCategories()

	_, err := account.TransactionIndex("missing")
	assert.ErrorIs(t, err, financeErrors.ErrTransactionNotFound)
}

func TestIsValidCurrency(t *testing.T) {
	assert.True(t, IsValidCurrency("USD"))
	assert.True(t, IsValidCurrency("PLN"))
	assert.False(t, IsValidCurrency("usd"))
	assert.False(t, IsValidCurrency("XYZ"))
}

func TestUserAccount_ReturnsPointerIntoAggregate(t *testing.T) {
	user := &User{ID: "user-1", Accounts: []Account{accountWithCategories()}}

	account, err := user.Account("acc-1")
	assert.NoError(t, err)

	account.Name = "Renamed"
	assert.Equal(t, "Renamed", user.Accounts[0].Name)
}

func TestUserAccount_NotFound(t *testing.T) {
	user := &User{ID: "user-1"}

	_, err := user.Account("missing")
	assert.ErrorIs(t, err, financeErrors.ErrAccountNotFound)
}
