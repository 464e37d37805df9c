package infrastructure

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	database "github.com/pkaminski-dev/FinanceTracker/internal/db"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("finance_tracker_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("could not terminate postgres container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(database.Schema)
	require.NoError(t, err)
	return db
}

func integrationTestUser() *domain.User {
	incomeCategory := domain.Category{ID: uuid.NewString(), Name: "Salary", Type: domain.TypeIncome}
	expenseCategory := domain.Category{
		ID:   uuid.NewString(),
		Name: "Bills",
		Type: domain.TypeExpense,
		Subcategories: []domain.Subcategory{
			{ID: uuid.NewString(), Name: "Rent", Type: domain.TypeExpense},
		},
	}
	account := domain.Account{
		ID:         uuid.NewString(),
		Name:       "Main Account",
		Currency:   "USD",
		Categories: []domain.Category{incomeCategory, expenseCategory},
		Transactions: []domain.Transaction{
			{
				ID:          uuid.NewString(),
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Date:        time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
				Description: "May salary",
				Type:        domain.TypeIncome,
				CategoryID:  incomeCategory.ID,
			},
			{
				ID:         uuid.NewString(),
				Amount:     decimal.NewFromFloat(40.25),
				Currency:   "USD",
				Date:       time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC),
				Type:       domain.TypeExpense,
				CategoryID: expenseCategory.Subcategories[0].ID,
			},
		},
		IncomeAmount:  decimal.NewFromInt(100),
		ExpenseAmount: decimal.NewFromFloat(40.25),
	}
	return &domain.User{
		ID:           uuid.NewString(),
		Name:         "Jan",
		Surname:      "Kowalski",
		Email:        "jan.kowalski@example.com",
		PasswordHash: "hashed-password",
		HashToken:    "hash-token",
		Accounts:     []domain.Account{account},
	}
}

func TestUserRepository_SignupAndLoadRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := integrationTestUser()
	require.NoError(t, repo.Signup(user))

	loaded, err := repo.GetByID(user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.Email, loaded.Email)
	assert.Equal(t, user.HashToken, loaded.HashToken)
	require.Equal(t, 1, len(loaded.Accounts))

	account := loaded.Accounts[0]
	assert.Equal(t, "Main Account", account.Name)
	assert.Equal(t, "USD", account.Currency)
	assert.True(t, account.IncomeAmount.Equal(decimal.NewFromInt(100)))
	assert.True(t, account.ExpenseAmount.Equal(decimal.NewFromFloat(40.25)))

	// Transaction order survives the round trip.
	require.Equal(t, 2, len(account.Transactions))
	assert.Equal(t, user.Accounts[0].Transactions[0].ID, account.Transactions[0].ID)
	assert.Equal(t, user.Accounts[0].Transactions[1].ID, account.Transactions[1].ID)
	assert.Equal(t, "May salary", account.Transactions[0].Description)

	// Subcategories come back attached to their parent.
	categoryType, err := account.ResolveCategoryType(user.Accounts[0].Categories[1].Subcategories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TypeExpense, categoryType)

	byEmail, err := repo.GetByEmail(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserRepository_SaveReplacesAggregate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := integrationTestUser()
	require.NoError(t, repo.Signup(user))

	loaded, err := repo.GetByID(user.ID)
	require.NoError(t, err)

	// Drop one transaction and adjust the expense total accordingly.
	account := &loaded.Accounts[0]
	account.Transactions = account.Transactions[:1]
	account.ExpenseAmount = decimal.Zero
	account.Name = "Renamed Account"
	require.NoError(t, repo.Save(loaded))

	reloaded, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, len(reloaded.Accounts))
	assert.Equal(t, "Renamed Account", reloaded.Accounts[0].Name)
	assert.Equal(t, 1, len(reloaded.Accounts[0].Transactions))
	assert.True(t, reloaded.Accounts[0].ExpenseAmount.IsZero())
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	_, err := repo.GetByID(uuid.NewString())
	assert.ErrorIs(t, err, financeErrors.ErrUserNotFound)
}

func TestUserRepository_SaveUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	user := integrationTestUser()
	err := repo.Save(user)
	assert.ErrorIs(t, err, financeErrors.ErrUserNotFound)
}

func TestUserRepository_ListUserIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)

	first := integrationTestUser()
	require.NoError(t, repo.Signup(first))

	second := integrationTestUser()
	second.ID = uuid.NewString()
	second.Email = "second@example.com"
	second.Accounts = []domain.Account{}
	require.NoError(t, repo.Signup(second))

	ids, err := repo.ListUserIDs()
	require.NoError(t, err)
	assert.Contains(t, ids, first.ID)
	assert.Contains(t, ids, second.ID)
}
