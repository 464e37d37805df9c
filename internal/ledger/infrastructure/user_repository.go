package infrastructure

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

// UserRepository persists whole User aggregates in Postgres. Save replaces
// the account/category/transaction rows of the aggregate inside a single db
// transaction, which is also where concurrent writers on the same user get
// serialized.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Signup(user *domain.User) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin signup transaction: %v", err)
	}
	defer safeRollback(tx)

	query := `
		INSERT INTO users (id, name, surname, email, password_hash, hash_token, two_factor_enabled, two_factor_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err = tx.Exec(query, user.ID, user.Name, user.Surname, user.Email, user.PasswordHash, user.HashToken, user.TwoFactorEnabled, user.TwoFactorSecret)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}

	if err := insertAccounts(tx, user); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepository) GetByEmail(email string) (*domain.User, error) {
	return r.getUser(`WHERE email = $1`, email)
}

func (r *UserRepository) GetByID(id string) (*domain.User, error) {
	return r.getUser(`WHERE id = $1`, id)
}

func (r *UserRepository) getUser(where string, arg interface{}) (*domain.User, error) {
	query := `
		SELECT id, name, surname, email, password_hash, hash_token, two_factor_enabled, two_factor_secret, created_at, updated_at
		FROM users
	` + where

	var user domain.User
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Name, &user.Surname, &user.Email, &user.PasswordHash,
		&user.HashToken, &user.TwoFactorEnabled, &user.TwoFactorSecret,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, financeErrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}

	if err := r.loadAccounts(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Save writes the aggregate back. The user row is updated and the owned
// account rows replaced; ON DELETE CASCADE takes the old categories and
// transactions with them.
func (r *UserRepository) Save(user *domain.User) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin save transaction: %v", err)
	}
	defer safeRollback(tx)

	query := `
		UPDATE users
		SET name = $2, surname = $3, email = $4, password_hash = $5, hash_token = $6,
		    two_factor_enabled = $7, two_factor_secret = $8, updated_at = NOW()
		WHERE id = $1
	`
	result, err := tx.Exec(query, user.ID, user.Name, user.Surname, user.Email, user.PasswordHash, user.HashToken, user.TwoFactorEnabled, user.TwoFactorSecret)
	if err != nil {
		return fmt.Errorf("could not update user: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not update user: %v", err)
	}
	if affected == 0 {
		return financeErrors.ErrUserNotFound
	}

	if _, err := tx.Exec(`DELETE FROM accounts WHERE user_id = $1`, user.ID); err != nil {
		return fmt.Errorf("could not replace accounts: %v", err)
	}
	if err := insertAccounts(tx, user); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *UserRepository) ListUserIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT id FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("could not list users: %v", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertAccounts(tx *sql.Tx, user *domain.User) error {
	for position, account := range user.Accounts {
		_, err := tx.Exec(
			`INSERT INTO accounts (id, user_id, name, currency, income_amount, expense_amount, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			account.ID, user.ID, account.Name, account.Currency, account.IncomeAmount, account.ExpenseAmount, position,
		)
		if err != nil {
			return fmt.Errorf("could not save account: %v", err)
		}

		for _, category := range account.Categories {
			_, err := tx.Exec(
				`INSERT INTO categories (id, account_id, parent_id, name, type) VALUES ($1, $2, NULL, $3, $4)`,
				category.ID, account.ID, category.Name, category.Type,
			)
			if err != nil {
				return fmt.Errorf("could not save category: %v", err)
			}
			for _, subcategory := range category.Subcategories {
				_, err := tx.Exec(
					`INSERT INTO categories (id, account_id, parent_id, name, type) VALUES ($1, $2, $3, $4, $5)`,
					subcategory.ID, account.ID, category.ID, subcategory.Name, subcategory.Type,
				)
				if err != nil {
					return fmt.Errorf("could not save subcategory: %v", err)
				}
			}
		}

		for position, transaction := range account.Transactions {
			_, err := tx.Exec(
				`INSERT INTO transactions (id, account_id, category_id, amount, currency, type, date, description, position)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				transaction.ID, account.ID, transaction.CategoryID, transaction.Amount, transaction.Currency,
				transaction.Type, transaction.Date, transaction.Description, position,
			)
			if err != nil {
				return fmt.Errorf("could not save transaction: %v", err)
			}
		}
	}
	return nil
}

func (r *UserRepository) loadAccounts(user *domain.User) error {
	rows, err := r.db.Query(
		`SELECT id, name, currency, income_amount, expense_amount FROM accounts WHERE user_id = $1 ORDER BY position`,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("could not load accounts: %v", err)
	}
	defer rows.Close()

	user.Accounts = []domain.Account{}
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Name, &account.Currency, &account.IncomeAmount, &account.ExpenseAmount); err != nil {
			return err
		}
		user.Accounts = append(user.Accounts, account)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range user.Accounts {
		if err := r.loadCategories(&user.Accounts[i]); err != nil {
			return err
		}
		if err := r.loadTransactions(&user.Accounts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepository) loadCategories(account *domain.Account) error {
	rows, err := r.db.Query(
		`SELECT id, parent_id, name, type FROM categories WHERE account_id = $1 ORDER BY parent_id NULLS FIRST, name`,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("could not load categories: %v", err)
	}
	defer rows.Close()

	account.Categories = []domain.Category{}
	parents := make(map[string]int)
	type pendingSub struct {
		parentID    string
		subcategory domain.Subcategory
	}
	var pending []pendingSub

	for rows.Next() {
		var id, name, categoryType string
		var parentID sql.NullString
		if err := rows.Scan(&id, &parentID, &name, &categoryType); err != nil {
			return err
		}
		if !parentID.Valid {
			parents[id] = len(account.Categories)
			account.Categories = append(account.Categories, domain.Category{ID: id, Name: name, Type: categoryType})
			continue
		}
		pending = append(pending, pendingSub{
			parentID:    parentID.String,
			subcategory: domain.Subcategory{ID: id, Name: name, Type: categoryType},
		})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, sub := range pending {
		index, ok := parents[sub.parentID]
		if !ok {
			return fmt.Errorf("subcategory %s references unknown parent %s", sub.subcategory.ID, sub.parentID)
		}
		parent := &account.Categories[index]
		parent.Subcategories = append(parent.Subcategories, sub.subcategory)
	}
	return nil
}

func (r *UserRepository) loadTransactions(account *domain.Account) error {
	rows, err := r.db.Query(
		`SELECT id, category_id, amount, currency, type, date, description FROM transactions WHERE account_id = $1 ORDER BY position`,
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("could not load transactions: %v", err)
	}
	defer rows.Close()

	account.Transactions = []domain.Transaction{}
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(
			&transaction.ID, &transaction.CategoryID, &transaction.Amount, &transaction.Currency,
			&transaction.Type, &transaction.Date, &transaction.Description,
		); err != nil {
			return err
		}
		account.Transactions = append(account.Transactions, transaction)
	}
	return rows.Err()
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		fmt.Println("Error during transaction rollback:", err)
	}
}
