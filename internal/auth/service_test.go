package auth

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkaminski-dev/FinanceTracker/internal/ledger/domain"
	"github.com/pkaminski-dev/FinanceTracker/internal/user"
)

type mockUserService struct {
	user *domain.User
}

func (m *mockUserService) Signup(name, surname, email, password, currency string) (*domain.User, error) {
	return m.user, nil
}

func (m *mockUserService) GetUserByID(userID string) (*domain.User, error) {
	if m.user == nil || m.user.ID != userID {
		return nil, user.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*domain.User, error) {
	if m.user == nil || m.user.Email != email {
		return nil, user.ErrUserNotFound
	}
	return m.user, nil
}

func (m *mockUserService) ChangePasswordWithOldPassword(userID, oldPassword, newPassword string) error {
	return nil
}

func (m *mockUserService) SetTwoFactor(userID string, enabled bool, secret string) error {
	m.user.TwoFactorEnabled = enabled
	m.user.TwoFactorSecret = secret
	return nil
}

func newTestAuthService(t *testing.T, u *domain.User) Service {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewAuthService(&mockUserService{user: u}, NewSessionManager(), NewJWTManager(), Authenticator{})
}

func bcryptHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestLogin_Success(t *testing.T) {
	service := newTestAuthService(t, &domain.User{
		ID:           "user-1",
		Email:        "jan@example.com",
		PasswordHash: bcryptHash(t, "password123"),
		HashToken:    "hash-token",
	})

	access, refresh, pending, err := service.Login("jan@example.com", "password123")
	assert.NoError(t, err)
	assert.False(t, pending)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestLogin_WrongPassword(t *testing.T) {
	service := newTestAuthService(t, &domain.User{
		ID:           "user-1",
		Email:        "jan@example.com",
		PasswordHash: bcryptHash(t, "password123"),
	})

	_, _, _, err := service.Login("jan@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailLooksLikeBadCredentials(t *testing.T) {
	service := newTestAuthService(t, &domain.User{
		ID:           "user-1",
		Email:        "jan@example.com",
		PasswordHash: bcryptHash(t, "password123"),
	})

	_, _, _, err := service.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TwoFactorPending(t *testing.T) {
	service := newTestAuthService(t, &domain.User{
		ID:               "user-1",
		Email:            "jan@example.com",
		PasswordHash:     bcryptHash(t, "password123"),
		TwoFactorEnabled: true,
		TwoFactorSecret:  "secret",
	})

	sessionToken, refresh, pending, err := service.Login("jan@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, pending)
	assert.NotEmpty(t, sessionToken)
	assert.Empty(t, refresh)
}

func TestTwoFactorFlow_RegisterConfirmVerify(t *testing.T) {
	u := &domain.User{
		ID:           "user-1",
		Email:        "jan@example.com",
		PasswordHash: bcryptHash(t, "password123"),
		HashToken:    "hash-token",
	}
	authService := newTestAuthService(t, u)

	otpURI, err := authService.RegisterTwoFactor("user-1")
	assert.NoError(t, err)
	assert.Contains(t, otpURI, "otpauth://")

	// 2FA stays off until the first code is confirmed.
	assert.False(t, u.TwoFactorEnabled)
	assert.ErrorIs(t, authService.ConfirmTwoFactor("user-1", "000000"), ErrInvalid2FACode)

	secret := authService.(*service).pendingSecrets["user-1"]
	assert.NotEmpty(t, secret)

	code, err := totp.GenerateCode(secret, time.Now())
	assert.NoError(t, err)
	assert.NoError(t, authService.ConfirmTwoFactor("user-1", code))
	assert.True(t, u.TwoFactorEnabled)

	// Login now yields a session token instead of the token pair.
	sessionToken, _, pending, err := authService.Login("jan@example.com", "password123")
	assert.NoError(t, err)
	assert.True(t, pending)

	code, err = totp.GenerateCode(u.TwoFactorSecret, time.Now())
	assert.NoError(t, err)
	access, refresh, err := authService.VerifyTwoFactor(sessionToken, code)
	assert.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)

	// The session token is single use.
	_, _, err = authService.VerifyTwoFactor(sessionToken, code)
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestConfirmTwoFactor_WithoutRegistration(t *testing.T) {
	service := newTestAuthService(t, &domain.User{ID: "user-1", Email: "jan@example.com"})

	err := service.ConfirmTwoFactor("user-1", "123456")
	assert.ErrorIs(t, err, ErrUser2FANotEnabled)
}

func TestVerifyTwoFactor_InvalidSession(t *testing.T) {
	service := newTestAuthService(t, &domain.User{ID: "user-1", Email: "jan@example.com"})

	_, _, err := service.VerifyTwoFactor("bogus-session", "123456")
	assert.ErrorIs(t, err, ErrInvalidSessionToken)
}

func TestDisableTwoFactor_NotEnabled(t *testing.T) {
	service := newTestAuthService(t, &domain.User{ID: "user-1", Email: "jan@example.com"})

	err := service.DisableTwoFactor("user-1", "123456")
	assert.ErrorIs(t, err, ErrUser2FANotEnabled)
}

func TestRefreshAccessToken(t *testing.T) {
	service := newTestAuthService(t, &domain.User{ID: "user-1", Email: "jan@example.com"})

	token, err := service.RefreshAccessToken("user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthenticator_VerifyCode(t *testing.T) {
	authenticator := Authenticator{}
	uri, secret, err := authenticator.GenerateSecret("jan@example.com")
	assert.NoError(t, err)
	assert.Contains(t, uri, "FinanceTracker")

	code, err := totp.GenerateCode(secret, time.Now())
	assert.NoError(t, err)
	assert.True(t, authenticator.VerifyCode(secret, code))
	assert.False(t, authenticator.VerifyCode(secret, "000000"))
}
