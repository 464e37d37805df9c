package infrastructure

import (
	"sync"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

// MockUserRepository keeps aggregates in memory. Every Get hands out a deep
// copy so tests exercise the same snapshot semantics the Postgres repository
// provides.
type MockUserRepository struct {
	mu    sync.Mutex
	Users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Signup(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Users {
		if existing.Email == user.Email {
			return financeErrors.NewValidationError("email already exists")
		}
	}
	m.Users[user.ID] = cloneUser(user)
	return nil
}

func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.Users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, financeErrors.ErrUserNotFound
}

func (m *MockUserRepository) GetByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[id]
	if !ok {
		return nil, financeErrors.ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (m *MockUserRepository) Save(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[user.ID]; !ok {
		return financeErrors.ErrUserNotFound
	}
	m.Users[user.ID] = cloneUser(user)
	return nil
}

func (m *MockUserRepository) ListUserIDs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.Users))
	for id := range m.Users {
		ids = append(ids, id)
	}
	return ids, nil
}

func cloneUser(user *domain.User) *domain.User {
	clone := *user
	clone.Accounts = make([]domain.Account, len(user.Accounts))
	for i, account := range user.Accounts {
		copied := account
		copied.Categories = make([]domain.Category, len(account.Categories))
		for j, category := range account.Categories {
			copiedCategory := category
			copiedCategory.Subcategories = append([]domain.Subcategory(nil), category.Subcategories...)
			copied.Categories[j] = copiedCategory
		}
		copied.Transactions = append([]domain.Transaction(nil), account.Transactions...)
		clone.Accounts[i] = copied
	}
	return &clone
}
