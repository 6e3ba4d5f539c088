package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "gharbas"

// DefaultTokenTTL is the session credential lifetime. Tokens are never
// refreshed silently; expiry forces a fresh login.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the typed body of a session token. The permission snapshot
// reflects the effective set at issuance; privileged actions re-resolve
// against live data instead of trusting it.
type Claims struct {
	Username    string        `json:"username"`
	Role        Role          `json:"role"`
	TenantScope string        `json:"tenant_scope,omitempty"`
	Permissions PermissionSet `json:"permissions"`
	jwt.RegisteredClaims
}

// IssueToken signs a session credential for a verified identity with a
// precomputed effective permission set. It persists nothing.
func (s *Service) IssueToken(identity Identity, perms PermissionSet) (string, time.Time, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return "", time.Time{}, errors.New("identity id is required")
	}
	if !identity.Role.Valid() {
		return "", time.Time{}, errors.New("identity role is required")
	}
	now := s.now().UTC()
	exp := now.Add(s.ttl)
	claims := Claims{
		Username:    identity.Username,
		Role:        identity.Role,
		TenantScope: identity.TenantScope(),
		Permissions: perms,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyToken validates signature and required claims and returns the
// typed claims. Every failure collapses to ErrInvalidToken; an invalid
// token is an expected outcome, not a fault.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
