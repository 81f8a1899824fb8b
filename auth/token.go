// Package auth issues access tokens and gates routes by identity, role and
// resource ownership.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
)

// TokenTTL is the lifetime of an issued token.
const TokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidEmail  = errors.New("email is required")
	ErrUserNotFound  = errors.New("user not found")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrSecretMissing = errors.New("ACCESS_TOKEN_SECRET is not set")
)

// UserLookup is the part of the identity store the token service reads.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// Claims carried by an access token. Only exp is set among the registered claims.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	users  UserLookup
	now    func() time.Time
}

// Option configures a TokenService.
type Option func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, users UserLookup, opts ...Option) *TokenService {
	s := &TokenService{secret: []byte(secret), users: users, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for the registered user with email.
func (s *TokenService) Issue(ctx context.Context, email string) (string, error) {
	if email == "" || !strings.Contains(email, "@") {
		return "", ErrInvalidEmail
	}
	if len(s.secret) == 0 {
		return "", ErrSecretMissing
	}

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(s.now().Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the email claim.
func (s *TokenService) Verify(tokenString string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Email == "" {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}
