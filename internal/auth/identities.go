package auth

import (
	"context"
	"errors"
	"fmt"

	"gharbas.org/internal/ids"
)

// CreateAdmin provisions a new tenant owner. Superadmin-only at the
// HTTP layer; the service just enforces record shape.
func (s *Service) CreateAdmin(ctx context.Context, username, password string, perms PermissionSet) (Identity, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return Identity{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now().UTC()
	identity := Identity{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Permissions:  perms,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// CreateOfficer provisions delegated staff under the given admin.
// Requested flags are filtered through the admin's own effective set
// before storage, so an officer's stored flags are a subset of the
// parent's from the moment of creation.
func (s *Service) CreateOfficer(ctx context.Context, parent Identity, username, password string, requested PermissionSet) (Identity, error) {
	if parent.Role != RoleAdmin {
		return Identity{}, fmt.Errorf("%w: parent must be an admin", ErrInvalidInput)
	}
	username = NormalizeUsername(username)
	if username == "" {
		return Identity{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	parentPerms, err := s.Resolve(ctx, parent)
	if err != nil {
		return Identity{}, err
	}
	now := s.now().UTC()
	identity := Identity{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleOfficer,
		Permissions:  requested.Intersect(parentPerms),
		ParentTenant: parent.Username,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, identity); err != nil {
		return Identity{}, err
	}
	return identity, nil
}

// UpdateOfficerPermissions replaces an officer's stored flags, again
// filtered through the parent admin's current set. The parent may only
// touch its own officers.
func (s *Service) UpdateOfficerPermissions(ctx context.Context, parent Identity, officerID string, requested PermissionSet) (Identity, error) {
	officer, err := s.officerOf(ctx, parent, officerID)
	if err != nil {
		return Identity{}, err
	}
	parentPerms, err := s.Resolve(ctx, parent)
	if err != nil {
		return Identity{}, err
	}
	filtered := requested.Intersect(parentPerms)
	if err := s.store.UpdatePermissions(ctx, officer.ID, filtered); err != nil {
		return Identity{}, err
	}
	officer.Permissions = filtered
	return officer, nil
}

// SetOfficerActive toggles an officer account. Inactive officers fail
// verification regardless of valid credentials.
func (s *Service) SetOfficerActive(ctx context.Context, parent Identity, officerID string, active bool) error {
	officer, err := s.officerOf(ctx, parent, officerID)
	if err != nil {
		return err
	}
	return s.store.SetActive(ctx, officer.ID, active)
}

// ListOfficers returns the officers delegated under the given admin.
func (s *Service) ListOfficers(ctx context.Context, parent Identity) ([]Identity, error) {
	if parent.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: parent must be an admin", ErrInvalidInput)
	}
	return s.store.ListByParent(ctx, parent.Username)
}

// ListAdmins returns every tenant owner.
func (s *Service) ListAdmins(ctx context.Context) ([]Identity, error) {
	return s.store.ListByRole(ctx, RoleAdmin)
}

// SetAdminActive toggles a tenant owner account.
func (s *Service) SetAdminActive(ctx context.Context, adminID string, active bool) error {
	identity, err := s.store.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if identity.Role != RoleAdmin {
		return ErrNotFound
	}
	return s.store.SetActive(ctx, identity.ID, active)
}

// EnsureSuperadmin creates the bootstrap platform owner if no identity
// with the given username exists yet. The password is hashed here, so
// the stored credential always matches what the operator supplied.
// Safe to run on every deploy; an existing account is left untouched.
func (s *Service) EnsureSuperadmin(ctx context.Context, username, password string) (Identity, bool, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return Identity{}, false, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	existing, err := s.store.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Identity{}, false, fmt.Errorf("find superadmin: %w", err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return Identity{}, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	now := s.now().UTC()
	identity := Identity{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         RoleSuperadmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, identity); err != nil {
		return Identity{}, false, err
	}
	return identity, true, nil
}

// FindIdentity looks up an identity by id.
func (s *Service) FindIdentity(ctx context.Context, id string) (Identity, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) officerOf(ctx context.Context, parent Identity, officerID string) (Identity, error) {
	if parent.Role != RoleAdmin {
		return Identity{}, fmt.Errorf("%w: parent must be an admin", ErrInvalidInput)
	}
	officer, err := s.store.FindByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, ErrNotFound
		}
		return Identity{}, fmt.Errorf("find officer: %w", err)
	}
	if officer.Role != RoleOfficer {
		return Identity{}, ErrNotFound
	}
	if officer.ParentTenant != parent.Username {
		return Identity{}, ErrWrongTenant
	}
	return officer, nil
}
