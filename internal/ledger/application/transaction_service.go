package application

import (
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
)

// TransactionService wires the stateless ledger to the persistence boundary:
// load the aggregate, run the operation, save the result. Read operations
// skip the save.
type TransactionService struct {
	repo   domain.UserRepository
	ledger *Ledger
}

func NewTransactionService(repo domain.UserRepository, ledger *Ledger) *TransactionService {
	return &TransactionService{repo: repo, ledger: ledger}
}

func (s *TransactionService) AddTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.AddTransaction(user, accountID, transaction)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TransactionService) UpdateTransaction(userID, accountID string, transaction domain.Transaction) (*domain.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.UpdateTransaction(user, accountID, transaction)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TransactionService) DeleteTransaction(userID, accountID, transactionID string) (*domain.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.ledger.DeleteTransaction(user, accountID, transactionID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TransactionService) GetTransactionByID(userID, accountID, transactionID string) (*domain.Transaction, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.GetTransactionByID(user, accountID, transactionID)
}

func (s *TransactionService) FilterTransactions(userID, accountID string, filters domain.TransactionFilters) (*domain.User, error) {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return s.ledger.FilterTransactions(user, accountID, filters)
}
