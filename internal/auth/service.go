package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/hosana-alex/leave-management/internal"
	userdm "github.com/hosana-alex/leave-management/internal/core/datamodel/user"
)

type UserRepository interface {
	GetByEmail(email string) (*userdm.Account, error)
	GetByID(userID int64) (*userdm.Account, error)
	UpdatePassword(userID int64, passwordHash string, resetRequired bool) error
}

// Service is the auth gate: credential checks, token issuance, and the forced
// password-change flow.
type Service struct {
	userRepo          UserRepository
	tokenGenerator    TokenGenerator
	bcryptCost        int
	minPasswordLength int
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost, minPasswordLength int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if minPasswordLength == 0 {
		minPasswordLength = 8
	}
	return &Service{
		userRepo:          userRepo,
		tokenGenerator:    tokenGen,
		bcryptCost:        bcryptCost,
		minPasswordLength: minPasswordLength,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// Authenticate validates credentials and account status, then issues tokens.
// The invalid-credentials answer is identical for unknown email, wrong
// password and rejected accounts so none of them leaks from the login form.
func (s *Service) Authenticate(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	account, err := s.userRepo.GetByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	// Pending and deactivated answer with their distinct signal no matter
	// what password was supplied; only approved and rejected accounts fall
	// through to the credential check.
	switch account.Status {
	case userdm.StatusPending:
		return nil, internal.ErrAccountPending.WithDetails(map[string]string{"status": userdm.StatusPending})
	case userdm.StatusDeactivated:
		return nil, internal.ErrAccountDeactivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if account.Status != userdm.StatusApproved {
		return nil, internal.ErrInvalidCredentials
	}

	userID := strconv.FormatInt(account.ID, 10)
	accessToken, err := s.tokenGenerator.GenerateAccessToken(userID, account.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(userID, account.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate refresh token", err)
	}

	return &LoginResult{
		AuthTokens: AuthTokens{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
		User:                  userFromAccount(account),
		PasswordResetRequired: account.PasswordResetRequired,
	}, nil
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokenGenerator.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate access token", err)
	}

	newRefreshToken, err := s.tokenGenerator.GenerateRefreshToken(claims.UserID, claims.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate refresh token", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// GetUserWithPermissions resolves an approved account to the request identity
// used by handlers. Pending, rejected and deactivated accounts resolve to
// nothing so their existing tokens stop working immediately.
func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	account, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	if account.Status != userdm.StatusApproved {
		return nil, internal.ErrUserNotFound
	}
	return userFromAccount(account), nil
}

// ForceChangePassword verifies the current (possibly temporary) credential and
// replaces it, clearing the password-reset-required flag.
func (s *Service) ForceChangePassword(userID int64, dto ForceChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	account, err := s.userRepo.GetByID(userID)
	if err != nil {
		return internal.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrInvalidCredentials
	}

	if len(dto.NewPassword) < s.minPasswordLength {
		return internal.NewValidationError(
			fmt.Sprintf("new password must be at least %d characters", s.minPasswordLength),
			internal.ErrCodePasswordTooShort)
	}
	if dto.NewPassword != dto.ConfirmPassword {
		return internal.NewValidationError("new password and confirmation do not match", internal.ErrCodePasswordMismatch)
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}

	if err := s.userRepo.UpdatePassword(userID, hash, false); err != nil {
		return internal.NewInternalError("failed to update password", err)
	}
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func userFromAccount(account *userdm.Account) *User {
	return &User{
		ID:                    account.ID,
		Email:                 account.Email,
		Name:                  account.Name,
		Role:                  account.Role,
		Department:            account.Department,
		PasswordResetRequired: account.PasswordResetRequired,
		Permissions:           PermissionsForRole(account.Role),
	}
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(userID string, email string) (string, error) {
	return j.signToken(userID, email, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(userID string, email string) (string, error) {
	return j.signToken(userID, email, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) signToken(userID, email string, ttl time.Duration, secret []byte) (string, error) {
	expiresAt := time.Now().Add(ttl)

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		// Refresh tokens are told apart from access tokens by their longer
		// lifetime, so each can be checked against the right secret.
		if claims, ok := token.Claims.(*Claims); ok {
			if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) > j.AccessTokenTTL {
				return j.RefreshTokenSecret, nil
			}
		}
		return j.AccessTokenSecret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
