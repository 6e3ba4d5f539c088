package auth

import "context"

// Store is the credential store consumed by the authorization core.
// Implementations normalize the persisted permission shape into the
// closed PermissionSet before anything else sees it.
type Store interface {
	FindByUsername(ctx context.Context, username string) (Identity, error)
	FindByID(ctx context.Context, id string) (Identity, error)
	Create(ctx context.Context, identity Identity) error
	UpdatePermissions(ctx context.Context, id string, perms PermissionSet) error
	SetActive(ctx context.Context, id string, active bool) error
	ListByParent(ctx context.Context, parentTenant string) ([]Identity, error)
	ListByRole(ctx context.Context, role Role) ([]Identity, error)
}
