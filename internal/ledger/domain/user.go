package domain

import (
	"time"

	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

// User is the aggregate root handed to the ledger: identity data plus the
// accounts it exclusively owns. Email is the external lookup key.
type User struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Surname          string    `json:"surname"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	HashToken        string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorSecret  string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Accounts         []Account `json:"accounts"`
}

// Account returns a pointer into the aggregate's account set, so ledger
// operations mutate the aggregate in place.
func (u *User) Account(accountID string) (*Account, error) {
	for i := range u.Accounts {
		if u.Accounts[i].ID == accountID {
			return &u.Accounts[i], nil
		}
	}
	return nil, financeErrors.ErrAccountNotFound
}

// UserRepository is the persistence boundary of the ledger. Implementations
// must hand out consistent snapshots and serialize concurrent writers per
// account; the ledger itself is stateless between calls.
type UserRepository interface {
	Signup(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id string) (*User, error)
	Save(user *User) error
	ListUserIDs() ([]string, error)
}
