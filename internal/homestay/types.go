package homestay

import "time"

// Status tracks the registry approval workflow.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Homestay is a tenant-scoped registry record. OwnerTenant is the
// owning admin's username; every read and write passes the scope guard
// against it.
type Homestay struct {
	ID           string    `json:"id"`
	OwnerTenant  string    `json:"owner_tenant"`
	Name         string    `json:"name"`
	District     string    `json:"district"`
	Address      string    `json:"address,omitempty"`
	Rooms        int       `json:"rooms"`
	Beds         int       `json:"beds"`
	Contact      string    `json:"contact,omitempty"`
	Status       Status    `json:"status"`
	DocumentPath string    `json:"document_path,omitempty"`
	ImagePaths   []string  `json:"image_paths,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
