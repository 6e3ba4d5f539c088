package homestay

import "context"

// Store persists homestay records. Tenant filtering happens here;
// deciding which filter applies is the scope guard's job upstream.
type Store interface {
	Create(ctx context.Context, h Homestay) error
	Find(ctx context.Context, id string) (Homestay, error)
	ListByTenant(ctx context.Context, ownerTenant string) ([]Homestay, error)
	ListAll(ctx context.Context) ([]Homestay, error)
	Update(ctx context.Context, h Homestay) error
	Delete(ctx context.Context, id string) error
	SetStatus(ctx context.Context, id string, status Status) error
}
