package user

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	financeErrors "github.com/pkaminski-dev/FinanceTracker/internal/ledger/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength = 64
	minEmailLength = 3
	maxNameLength  = 50
	bcryptCost     = 12

	defaultAccountName = "Main Account"
)

var (
	ErrInvalidEmail       = fmt.Errorf("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrInvalidOldPassword = errors.New("invalid old password")
	ErrUserNotFound       = financeErrors.ErrUserNotFound
)

type Service interface {
	Signup(name, surname, email, password, currency string) (*domain.User, error)
	GetUserByID(userID string) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error
	SetTwoFactor(userID string, enabled bool, secret string) error
}

type service struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) Service {
	return &service{repo: repo}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func DoPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %v", err)
	}
	return hex.EncodeToString(token), nil
}

func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if err := checkmail.ValidateHost(email); err != nil {
		if !strings.Contains(err.Error(), "timeout") {
			return ErrInvalidEmail
		}
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

// Signup registers a user and seeds the aggregate with one account in the
// selected currency, holding the starter category set.
func (s *service) Signup(name, surname, email, password, currency string) (*domain.User, error) {
	if err := validateEmailAddress(email); err != nil {
		return nil, err
	}
	if name == "" || len(name) > maxNameLength || len(surname) > maxNameLength {
		return nil, financeErrors.NewValidationError("Name must be provided and shorter than 50 characters")
	}
	if len(password) < 8 {
		return nil, financeErrors.NewValidationError("Password must be at least 8 characters long")
	}
	if !domain.IsValidCurrency(currency) {
		return nil, financeErrors.NewValidationError("Currency is not supported")
	}

	_, err := s.repo.GetByEmail(email)
	if err == nil {
		return nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, ErrUserNotFound) {
		fmt.Println("Error with database request:", err)
		return nil, ErrInternalError
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		fmt.Println("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		fmt.Println("Error during generating a hashToken")
		return nil, ErrInternalError
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
		CreatedAt:    now,
		UpdatedAt:    now,
		Accounts:     []domain.Account{domain.NewAccount(defaultAccountName, currency)},
	}

	if err := s.repo.Signup(user); err != nil {
		fmt.Println("Error during creating the user:", err)
		return nil, ErrInternalError
	}
	return user, nil
}

func (s *service) GetUserByID(userID string) (*domain.User, error) {
	return s.repo.GetByID(userID)
}

func (s *service) GetUserByEmail(email string) (*domain.User, error) {
	return s.repo.GetByEmail(email)
}

func (s *service) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !DoPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < 8 {
		return financeErrors.NewValidationError("Password must be at least 8 characters long")
	}

	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}
	newHashToken, err := generateHashToken()
	if err != nil {
		return fmt.Errorf("could not generate hash token: %v", err)
	}

	// Rotating the hash token invalidates outstanding refresh tokens.
	user.PasswordHash = newPasswordHash
	user.HashToken = newHashToken
	return s.repo.Save(user)
}

// SetTwoFactor stores the 2FA state; used by the auth service after TOTP
// registration or disable.
func (s *service) SetTwoFactor(userID string, enabled bool, secret string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	user.TwoFactorEnabled = enabled
	user.TwoFactorSecret = secret
	return s.repo.Save(user)
}
