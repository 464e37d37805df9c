package application

import (
	"github.com/google/uuid"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

// AccountService manages the account and category structure of a user
// aggregate: accounts, top-level categories and their subcategories.
type AccountService struct {
	repo domain.UserRepository
}

func NewAccountService(repo domain.UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) CreateAccount(userID, name, currency string) (*domain.Account, error) {
	if name == "" {
		return nil, financeErrors.NewValidationError("Account name must be provided")
	}
	if !domain.IsValidCurrency(currency) {
		return nil, financeErrors.NewValidationError("Currency is not supported")
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	account := domain.NewAccount(name, currency)
	user.Accounts = append(user.Accounts, account)
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) RenameAccount(userID, accountID, name string) error {
	if name == "" {
		return financeErrors.NewValidationError("Account name must be provided")
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	account, err := user.Account(accountID)
	if err != nil {
		return err
	}
	account.Name = name
	return s.repo.Save(user)
}

func (s *AccountService) DeleteAccount(userID, accountID string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	for i := range user.Accounts {
		if user.Accounts[i].ID == accountID {
			user.Accounts = append(user.Accounts[:i], user.Accounts[i+1:]...)
			return s.repo.Save(user)
		}
	}
	return financeErrors.ErrAccountNotFound
}

func (s *AccountService) AddCategory(userID, accountID, name, categoryType string) (*domain.Category, error) {
	if name == "" {
		return nil, financeErrors.NewValidationError("Category name must be provided")
	}
	if !domain.IsValidTransactionType(categoryType) {
		return nil, financeErrors.NewValidationError("Type must be 'income' or 'expense'")
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	category := domain.Category{
		ID:   uuid.NewString(),
		Name: name,
		Type: categoryType,
	}
	account.Categories = append(account.Categories, category)
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return &category, nil
}

// AddSubcategory attaches a leaf node to an existing top-level category. The
// subcategory type must equal the parent's type.
func (s *AccountService) AddSubcategory(userID, accountID, categoryID, name, categoryType string) (*domain.Subcategory, error) {
	if name == "" {
		return nil, financeErrors.NewValidationError("Category name must be provided")
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	account, err := user.Account(accountID)
	if err != nil {
		return nil, err
	}
	parent, err := account.CategoryByID(categoryID)
	if err != nil {
		return nil, err
	}
	if categoryType != "" && categoryType != parent.Type {
		return nil, financeErrors.ErrCategoryTypeMismatch
	}
	subcategory := domain.Subcategory{
		ID:   uuid.NewString(),
		Name: name,
		Type: parent.Type,
	}
	parent.Subcategories = append(parent.Subcategories, subcategory)
	if err := s.repo.Save(user); err != nil {
		return nil, err
	}
	return &subcategory, nil
}

// DeleteCategory removes a top-level category and its subcategories. It is
// rejected while any stored transaction still references the category or one
// of its subcategories, so classification lookups stay resolvable.
func (s *AccountService) DeleteCategory(userID, accountID, categoryID string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	account, err := user.Account(accountID)
	if err != nil {
		return err
	}
	category, err := account.CategoryByID(categoryID)
	if err != nil {
		return err
	}

	referenced := map[string]struct{}{category.ID: {}}
	for _, subcategory := range category.Subcategories {
		referenced[subcategory.ID] = struct{}{}
	}
	for _, transaction := range account.Transactions {
		if _, ok := referenced[transaction.CategoryID]; ok {
			return financeErrors.ErrCategoryInUse
		}
	}

	for i := range account.Categories {
		if account.Categories[i].ID == categoryID {
			account.Categories = append(account.Categories[:i], account.Categories[i+1:]...)
			break
		}
	}
	return s.repo.Save(user)
}
