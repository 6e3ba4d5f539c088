package auth

import (
	"context"
	"errors"
	"fmt"
)

// Resolve computes the effective permission set for an identity at
// call time. Superadmins hold every capability regardless of stored
// flags; admins get their stored flags verbatim; officers get the
// capability-wise AND of their own flags and the parent admin's
// current flags, read live so that narrowing the admin narrows every
// officer at once.
//
// A missing parent is not an error: the officer simply resolves to the
// empty set, which also fails the dashboard-access gate.
func (s *Service) Resolve(ctx context.Context, identity Identity) (PermissionSet, error) {
	switch identity.Role {
	case RoleSuperadmin:
		return AllCapabilities(), nil
	case RoleAdmin:
		return identity.Permissions, nil
	case RoleOfficer:
		if identity.ParentTenant == "" {
			return PermissionSet{}, nil
		}
		parent, err := s.store.FindByUsername(ctx, identity.ParentTenant)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return PermissionSet{}, nil
			}
			return PermissionSet{}, fmt.Errorf("resolve parent tenant: %w", err)
		}
		if parent.Role != RoleAdmin || !parent.IsActive {
			return PermissionSet{}, nil
		}
		return identity.Permissions.Intersect(parent.Permissions), nil
	}
	return PermissionSet{}, nil
}
