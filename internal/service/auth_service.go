package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Common auth errors.
var (
	ErrTokenMissing = errors.New("token required")
	ErrTokenExpired = errors.New("token expired")
	ErrNoSecret     = errors.New("no signing secret configured")
)

// Claims are the fields the console reads from a staff token. Tokens are
// issued by the identity provider; the console only needs to know who is
// calling so it can forward the token and attribute audit entries.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Actor is the name audit entries are attributed to.
func (c *Claims) Actor() string {
	switch {
	case c.Email != "":
		return c.Email
	case c.Subject != "":
		return c.Subject
	default:
		return "unknown"
	}
}

// AuthService reads staff tokens.
type AuthService struct {
	secret []byte
	now    func() time.Time
}

// NewAuthService creates an AuthService. With an empty secret tokens are
// decoded without signature verification and the backend remains the only
// authority on whether the caller may do anything; the query cache must
// then be scoped per token (see querycache.Cache.ScopeBy) so no read is
// answered without the backend having accepted that token.
func NewAuthService(secret string) *AuthService {
	return &AuthService{secret: []byte(secret), now: time.Now}
}

// Verifies reports whether signatures are checked.
func (s *AuthService) Verifies() bool {
	return len(s.secret) > 0
}

// ValidateToken parses a token and returns its claims. Expired tokens are
// rejected in both modes.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims := &Claims{}
	if s.Verifies() {
		_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		}, jwt.WithTimeFunc(s.now))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("parse token: %w", err)
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now()) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// IssueToken signs a staff token. Used by the mint-token helper for local
// development against a backend that accepts the same secret.
func (s *AuthService) IssueToken(email string, ttl time.Duration) (string, error) {
	if !s.Verifies() {
		return "", ErrNoSecret
	}
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
