package application

import (
	"fmt"
	"log"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	"github.com/shopspring/decimal"
)

// AuditService refolds each account's transaction store and compares the
// result against the denormalized income/expense totals. Run periodically
// from the scheduler, it surfaces any drift the invariant is meant to rule
// out without ever repairing silently.
type AuditService struct {
	repo domain.UserRepository
}

func NewAuditService(repo domain.UserRepository) *AuditService {
	return &AuditService{repo: repo}
}

// RecomputeTotals folds the transaction store into income/expense sums.
func RecomputeTotals(account *domain.Account) (decimal.Decimal, decimal.Decimal) {
	income := decimal.Zero
	expense := decimal.Zero
	for _, transaction := range account.Transactions {
		switch transaction.Type {
		case domain.TypeIncome:
			income = income.Add(transaction.Amount)
		case domain.TypeExpense:
			expense = expense.Add(transaction.Amount)
		}
	}
	return income, expense
}

// AuditAll checks every stored aggregate and returns the number of accounts
// whose stored totals drifted from the recomputed ones.
func (s *AuditService) AuditAll() (int, error) {
	userIDs, err := s.repo.ListUserIDs()
	if err != nil {
		return 0, fmt.Errorf("could not list users for audit: %v", err)
	}

	drifted := 0
	for _, userID := range userIDs {
		user, err := s.repo.GetByID(userID)
		if err != nil {
			return drifted, fmt.Errorf("could not load user %s for audit: %v", userID, err)
		}
		for i := range user.Accounts {
			account := &user.Accounts[i]
			income, expense := RecomputeTotals(account)
			if !income.Equal(account.IncomeAmount) || !expense.Equal(account.ExpenseAmount) {
				drifted++
				log.Printf(
					"aggregate drift on account %s (user %s): stored income=%s expense=%s, recomputed income=%s expense=%s",
					account.ID, user.ID,
					account.IncomeAmount, account.ExpenseAmount,
					income, expense,
				)
			}
		}
	}
	return drifted, nil
}
