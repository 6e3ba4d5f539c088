package auth

import "time"

// Role identifies the privilege tier an identity belongs to. The set is
// closed and mutually exclusive; the role also selects which session
// channel carries the identity's credential.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleOfficer    Role = "officer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperadmin, RoleAdmin, RoleOfficer:
		return true
	}
	return false
}

// Capability names a single permission flag.
type Capability string

const (
	CapabilityDashboard      Capability = "adminDashboardAccess"
	CapabilityApproval       Capability = "homestayApproval"
	CapabilityEdit           Capability = "homestayEdit"
	CapabilityDelete         Capability = "homestayDelete"
	CapabilityDocumentUpload Capability = "documentUpload"
	CapabilityImageUpload    Capability = "imageUpload"
)

// Capabilities lists every known capability in stable order.
var Capabilities = []Capability{
	CapabilityDashboard,
	CapabilityApproval,
	CapabilityEdit,
	CapabilityDelete,
	CapabilityDocumentUpload,
	CapabilityImageUpload,
}

// PermissionSet holds one boolean per capability. The set is closed;
// unknown keys are dropped at the store-adapter boundary so the rest of
// the code never sees a map-shaped variant.
type PermissionSet struct {
	DashboardAccess  bool `json:"adminDashboardAccess"`
	HomestayApproval bool `json:"homestayApproval"`
	HomestayEdit     bool `json:"homestayEdit"`
	HomestayDelete   bool `json:"homestayDelete"`
	DocumentUpload   bool `json:"documentUpload"`
	ImageUpload      bool `json:"imageUpload"`
}

// Has reports whether the capability is granted. Unknown capabilities
// are never granted.
func (p PermissionSet) Has(c Capability) bool {
	switch c {
	case CapabilityDashboard:
		return p.DashboardAccess
	case CapabilityApproval:
		return p.HomestayApproval
	case CapabilityEdit:
		return p.HomestayEdit
	case CapabilityDelete:
		return p.HomestayDelete
	case CapabilityDocumentUpload:
		return p.DocumentUpload
	case CapabilityImageUpload:
		return p.ImageUpload
	}
	return false
}

// Intersect returns the capability-wise AND of p and other.
func (p PermissionSet) Intersect(other PermissionSet) PermissionSet {
	return PermissionSet{
		DashboardAccess:  p.DashboardAccess && other.DashboardAccess,
		HomestayApproval: p.HomestayApproval && other.HomestayApproval,
		HomestayEdit:     p.HomestayEdit && other.HomestayEdit,
		HomestayDelete:   p.HomestayDelete && other.HomestayDelete,
		DocumentUpload:   p.DocumentUpload && other.DocumentUpload,
		ImageUpload:      p.ImageUpload && other.ImageUpload,
	}
}

// AllCapabilities returns a set with every capability granted.
func AllCapabilities() PermissionSet {
	return PermissionSet{
		DashboardAccess:  true,
		HomestayApproval: true,
		HomestayEdit:     true,
		HomestayDelete:   true,
		DocumentUpload:   true,
		ImageUpload:      true,
	}
}

// Identity is the stored principal record the authorization core reads.
// PasswordHash never leaves the store adapter except for verification.
type Identity struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	PasswordHash string        `json:"-"`
	Role         Role          `json:"role"`
	Permissions  PermissionSet `json:"permissions"`
	ParentTenant string        `json:"parent_tenant,omitempty"`
	IsActive     bool          `json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TenantScope returns the tenant boundary the identity acts within: the
// identity's own username for admins, the parent admin's username for
// officers. Superadmins have no tenant of their own.
func (id Identity) TenantScope() string {
	switch id.Role {
	case RoleAdmin:
		return id.Username
	case RoleOfficer:
		return id.ParentTenant
	}
	return ""
}
