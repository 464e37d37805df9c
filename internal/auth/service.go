package auth

import (
	"errors"
	"net/http"
	"sync"

	"github.com/pkaminski-dev/FinanceTracker/internal/user"
)

var (
	ErrUserNotFound          = user.ErrUserNotFound
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInternalError         = errors.New("internal Server Error")
	ErrUser2FANotEnabled     = errors.New("two factor auth is not enabled")
	ErrUser2FAAlreadyEnabled = errors.New("2fa auth already enabled")
	ErrInvalid2FACode        = errors.New("2fa code is invalid")
)

type Service interface {
	Login(email, password string) (string, string, bool, error)
	VerifyTwoFactor(sessionToken, code string) (string, string, error)
	RegisterTwoFactor(userID string) (string, error)
	ConfirmTwoFactor(userID, code string) error
	DisableTwoFactor(userID, code string) error
	RefreshAccessToken(userID string) (string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  Authenticator

	// pendingSecrets holds TOTP secrets between registration and the code
	// confirmation that enables 2FA.
	pendingMu      sync.Mutex
	pendingSecrets map[string]string
}

func NewAuthService(userService user.Service, sessionManager SessionManagerInterface, jwtManager JWTManagerInterface, authenticator Authenticator) Service {
	return &service{
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
		pendingSecrets: make(map[string]string),
	}
}

// Login checks the credentials and either issues the access/refresh token
// pair directly, or - when the user has 2FA enabled - returns a short-lived
// session token to be exchanged via VerifyTwoFactor. The boolean reports
// whether 2FA is still pending.
func (s *service) Login(email, password string) (string, string, bool, error) {
	existingUser, err := s.userService.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", "", false, ErrInvalidCredentials
		}
		return "", "", false, ErrInternalError
	}

	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return "", "", false, ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			return "", "", false, ErrInternalError
		}
		return sessionToken, "", true, nil
	}

	return s.issueTokens(existingUser.ID, existingUser.HashToken)
}

func (s *service) VerifyTwoFactor(sessionToken, code string) (string, string, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return "", "", err
	}
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", ErrInternalError
	}
	if !existingUser.TwoFactorEnabled {
		return "", "", ErrUser2FANotEnabled
	}

	if !s.authenticator.VerifyCode(existingUser.TwoFactorSecret, code) {
		return "", "", ErrInvalid2FACode
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	access, refresh, _, err := s.issueTokens(existingUser.ID, existingUser.HashToken)
	return access, refresh, err
}

// RegisterTwoFactor generates a TOTP secret and returns the otpauth URI for
// the authenticator app. 2FA only becomes active after ConfirmTwoFactor.
func (s *service) RegisterTwoFactor(userID string) (string, error) {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return "", err
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secretKey, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		return "", err
	}
	s.pendingMu.Lock()
	s.pendingSecrets[userID] = secretKey
	s.pendingMu.Unlock()
	return otpURI, nil
}

func (s *service) ConfirmTwoFactor(userID, code string) error {
	s.pendingMu.Lock()
	secret, ok := s.pendingSecrets[userID]
	s.pendingMu.Unlock()
	if !ok {
		return ErrUser2FANotEnabled
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}

	if err := s.userService.SetTwoFactor(userID, true, secret); err != nil {
		return ErrInternalError
	}
	s.pendingMu.Lock()
	delete(s.pendingSecrets, userID)
	s.pendingMu.Unlock()
	return nil
}

func (s *service) DisableTwoFactor(userID, code string) error {
	existingUser, err := s.userService.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}
	if !s.authenticator.VerifyCode(existingUser.TwoFactorSecret, code) {
		return ErrInvalid2FACode
	}
	return s.userService.SetTwoFactor(userID, false, "")
}

// RefreshAccessToken issues a new access token for an already-validated
// refresh token (the refresh middleware has done the validation).
func (s *service) RefreshAccessToken(userID string) (string, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(userID, defaultJWTDuration)
	if err != nil {
		return "", ErrInternalError
	}
	return accessToken, nil
}

func (s *service) issueTokens(userID, hashToken string) (string, string, bool, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(userID, defaultJWTDuration)
	if err != nil {
		return "", "", false, ErrInternalError
	}
	refreshToken, err := s.jwtManager.GenerateRefreshJWT(userID, hashToken, defaultJWTRefreshDuration)
	if err != nil {
		return "", "", false, ErrInternalError
	}
	return accessToken, refreshToken, false, nil
}
