package interfaces

import (
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
)

// MockTransactionService returns canned results configured per test case.
type MockTransactionService struct {
	User        *domain.User
	Transaction *domain.Transaction
	Err         error

	LastFilters domain.TransactionFilters
}

func (m *MockTransactionService) AddTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

func (m *MockTransactionService) UpdateTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

func (m *MockTransactionService) DeleteTransaction(userID, accountID, transactionID string) (*domain.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}

func (m *MockTransactionService) GetTransactionByID(userID, accountID, transactionID string) (*domain.Transaction, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Transaction, nil
}

func (m *MockTransactionService) FilterTransactions(userID, accountID string, filters domain.TransactionFilters) (*domain.User, error) {
	m.LastFilters = filters
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}
