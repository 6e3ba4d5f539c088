package auth

// DenyReason classifies why the scope guard refused a request. The
// distinction is kept for auditing; the HTTP layer surfaces both as
// the same permission-denied message so a caller cannot learn which
// tenant owns a resource.
type DenyReason string

const (
	DenyMissingCapability DenyReason = "missing_capability"
	DenyWrongTenant       DenyReason = "wrong_tenant"
)

// Decision is the outcome of a scope-guard evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err maps a deny decision onto the sentinel error taxonomy. Allowed
// decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == DenyWrongTenant {
		return ErrWrongTenant
	}
	return ErrMissingCapability
}

// Authorize decides whether the caller may perform a capability-gated
// action on a resource owned by ownerTenant. First match wins:
//
//  1. superadmin bypasses tenant scoping entirely (capability checks
//     do not apply because every capability resolves true);
//  2. a capability the effective set lacks denies with
//     MissingCapability;
//  3. a tenant mismatch denies with WrongTenant.
//
// An empty ownerTenant marks a tenant-agnostic action confined to the
// caller's own scope, so only the capability gate applies.
func Authorize(claims *Claims, perms PermissionSet, capability Capability, ownerTenant string) Decision {
	if claims == nil {
		return Decision{Reason: DenyMissingCapability}
	}
	if claims.Role == RoleSuperadmin {
		return Decision{Allowed: true}
	}
	if !perms.Has(capability) {
		return Decision{Reason: DenyMissingCapability}
	}
	if ownerTenant != "" && claims.TenantScope != ownerTenant {
		return Decision{Reason: DenyWrongTenant}
	}
	return Decision{Allowed: true}
}
