// Package jwt implements HS256 bearer tokens carrying the caller identity.
package jwt

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bissquit/taskboard/internal/domain"
	"github.com/bissquit/taskboard/internal/identity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTokenDuration is the token lifetime when none is configured.
const DefaultTokenDuration = 7 * 24 * time.Hour

// Config contains JWT configuration.
type Config struct {
	SecretKey     string
	TokenDuration time.Duration
	Issuer        string
}

// Claims are the JWT claims issued by the Authenticator.
type Claims struct {
	Role domain.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator implements identity.Authenticator.
type Authenticator struct {
	secret   []byte
	duration time.Duration
	issuer   string
	now      func() time.Time
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config) *Authenticator {
	duration := cfg.TokenDuration
	if duration <= 0 {
		duration = DefaultTokenDuration
	}
	return &Authenticator{
		secret:   []byte(cfg.SecretKey),
		duration: duration,
		issuer:   cfg.Issuer,
		now:      time.Now,
	}
}

// IssueToken signs a token for the account.
func (a *Authenticator) IssueToken(account *domain.Account) (string, error) {
	now := a.now()
	claims := Claims{
		Role: account.Role,
		Name: account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(account.ID, 10),
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature and expiry and returns the embedded caller.
func (a *Authenticator) ValidateToken(_ context.Context, token string) (domain.Caller, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return domain.Caller{}, identity.ErrInvalidToken
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id < 1 {
		return domain.Caller{}, identity.ErrInvalidToken
	}
	if !claims.Role.IsValid() {
		return domain.Caller{}, identity.ErrInvalidToken
	}

	return domain.Caller{
		AccountID: id,
		Role:      claims.Role,
		Name:      claims.Name,
	}, nil
}

var _ identity.Authenticator = (*Authenticator)(nil)
