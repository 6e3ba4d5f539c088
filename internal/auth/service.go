package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service owns credential issuance and verification. It is stateless
// per request: each call reads the credential store, decides, and
// returns without holding anything across requests.
type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithTokenTTL overrides the session credential lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl <= 0 {
			return errors.New("auth: token ttl must be positive")
		}
		s.ttl = ttl
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs a Service. The signing secret is mandatory;
// only tokens signed with the same secret verify.
func NewService(store Store, secret string, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth: store is required")
	}
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	svc := &Service{
		store:  store,
		secret: []byte(secret),
		ttl:    DefaultTokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// Login authenticates a username/password pair against one role
// channel and issues a session credential. Unknown usernames and wrong
// passwords return the same ErrInvalidCredentials so callers cannot
// enumerate accounts. A credential-store failure is returned as-is and
// must surface as a server error, never as a 401.
func (s *Service) Login(ctx context.Context, username, password string, channel Role) (string, *Claims, error) {
	if !channel.Valid() {
		return "", nil, fmt.Errorf("%w: unknown role channel", ErrInvalidInput)
	}
	username = NormalizeUsername(username)
	if username == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}
	identity, err := s.store.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("find identity: %w", err)
	}
	if err := VerifyPassword(identity.PasswordHash, password); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if identity.Role != channel {
		return "", nil, ErrNotAuthorizedRole
	}
	if !identity.IsActive {
		if identity.Role == RoleOfficer {
			return "", nil, ErrInactiveAccount
		}
		return "", nil, ErrInvalidCredentials
	}
	perms, err := s.Resolve(ctx, identity)
	if err != nil {
		return "", nil, err
	}
	if !perms.Has(CapabilityDashboard) {
		return "", nil, ErrNoDashboardAccess
	}
	token, _, err := s.IssueToken(identity, perms)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	claims, err := s.VerifyToken(token)
	if err != nil {
		return "", nil, fmt.Errorf("verify issued token: %w", err)
	}
	return token, claims, nil
}

// Authenticate verifies a session credential and recomputes the
// caller's effective permissions from live store data, so a revoked
// flag is observed immediately even on an unexpired token. Claims are
// rebuilt from the live identity record, not trusted from the token
// body.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, PermissionSet, error) {
	claims, err := s.VerifyToken(token)
	if err != nil {
		return nil, PermissionSet{}, ErrInvalidToken
	}
	identity, err := s.store.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, PermissionSet{}, ErrInvalidToken
		}
		return nil, PermissionSet{}, fmt.Errorf("find identity: %w", err)
	}
	if identity.Role != claims.Role {
		return nil, PermissionSet{}, ErrInvalidToken
	}
	if !identity.IsActive {
		if identity.Role == RoleOfficer {
			return nil, PermissionSet{}, ErrInactiveAccount
		}
		return nil, PermissionSet{}, ErrInvalidToken
	}
	perms, err := s.Resolve(ctx, identity)
	if err != nil {
		return nil, PermissionSet{}, err
	}
	claims.Username = identity.Username
	claims.TenantScope = identity.TenantScope()
	claims.Permissions = perms
	return claims, perms, nil
}

// NormalizeUsername lower-cases and trims a username. Usernames are
// unique case-insensitively.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(strings.ToLower(username))
}
