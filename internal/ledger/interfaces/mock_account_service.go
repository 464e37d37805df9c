package interfaces

import (
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
)

type MockAccountService struct {
	Account     *domain.Account
	Category    *domain.Category
	Subcategory *domain.Subcategory
	Err         error
}

func (m *MockAccountService) CreateAccount(userID, name, currency string) (*domain.Account, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Account, nil
}

func (m *MockAccountService) RenameAccount(userID, accountID, name string) error {
	return m.Err
}

func (m *MockAccountService) DeleteAccount(userID, accountID string) error {
	return m.Err
}

func (m *MockAccountService) AddCategory(userID, accountID, name, categoryType string) (*domain.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Category, nil
}

func (m *MockAccountService) AddSubcategory(userID, accountID, categoryID, name, categoryType string) (*domain.Subcategory, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Subcategory, nil
}

func (m *MockAccountService) DeleteCategory(userID, accountID, categoryID string) error {
	return m.Err
}
