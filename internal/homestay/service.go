package homestay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gharbas.org/internal/ids"
)

// Service validates and persists registry records. Authorization
// happens upstream: callers pass only requests the scope guard already
// allowed, and list calls receive the tenant filter the guard decided
// on.
type Service struct {
	store Store
	now   func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("homestay: store is required")
	}
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CreateParams carries the caller-supplied fields of a new record.
type CreateParams struct {
	Name     string
	District string
	Address  string
	Rooms    int
	Beds     int
	Contact  string
}

// Create registers a new homestay under ownerTenant, starting in
// pending status.
func (s *Service) Create(ctx context.Context, ownerTenant string, params CreateParams) (Homestay, error) {
	ownerTenant = strings.TrimSpace(ownerTenant)
	if ownerTenant == "" {
		return Homestay{}, fmt.Errorf("%w: owner tenant is required", ErrInvalidInput)
	}
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return Homestay{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	params.District = strings.TrimSpace(params.District)
	if params.District == "" {
		return Homestay{}, fmt.Errorf("%w: district is required", ErrInvalidInput)
	}
	if params.Rooms < 0 || params.Beds < 0 {
		return Homestay{}, fmt.Errorf("%w: rooms and beds must not be negative", ErrInvalidInput)
	}
	now := s.now().UTC()
	h := Homestay{
		ID:          ids.New(),
		OwnerTenant: ownerTenant,
		Name:        params.Name,
		District:    params.District,
		Address:     strings.TrimSpace(params.Address),
		Rooms:       params.Rooms,
		Beds:        params.Beds,
		Contact:     strings.TrimSpace(params.Contact),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, h); err != nil {
		return Homestay{}, err
	}
	return h, nil
}

// Get fetches a single record.
func (s *Service) Get(ctx context.Context, id string) (Homestay, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Homestay{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

// ListForTenant returns one tenant's records.
func (s *Service) ListForTenant(ctx context.Context, ownerTenant string) ([]Homestay, error) {
	ownerTenant = strings.TrimSpace(ownerTenant)
	if ownerTenant == "" {
		return nil, fmt.Errorf("%w: owner tenant is required", ErrInvalidInput)
	}
	return s.store.ListByTenant(ctx, ownerTenant)
}

// ListAll returns every tenant's records. Superadmin only, enforced
// upstream.
func (s *Service) ListAll(ctx context.Context) ([]Homestay, error) {
	return s.store.ListAll(ctx)
}

// Update carries optional replacement fields; nil means keep.
type Update struct {
	Name     *string
	District *string
	Address  *string
	Rooms    *int
	Beds     *int
	Contact  *string
}

// Apply merges the update into an existing record.
func (s *Service) Apply(ctx context.Context, id string, upd Update) (Homestay, error) {
	h, err := s.Get(ctx, id)
	if err != nil {
		return Homestay{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Homestay{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
		}
		h.Name = name
	}
	if upd.District != nil {
		district := strings.TrimSpace(*upd.District)
		if district == "" {
			return Homestay{}, fmt.Errorf("%w: district is required", ErrInvalidInput)
		}
		h.District = district
	}
	if upd.Address != nil {
		h.Address = strings.TrimSpace(*upd.Address)
	}
	if upd.Rooms != nil {
		if *upd.Rooms < 0 {
			return Homestay{}, fmt.Errorf("%w: rooms must not be negative", ErrInvalidInput)
		}
		h.Rooms = *upd.Rooms
	}
	if upd.Beds != nil {
		if *upd.Beds < 0 {
			return Homestay{}, fmt.Errorf("%w: beds must not be negative", ErrInvalidInput)
		}
		h.Beds = *upd.Beds
	}
	if upd.Contact != nil {
		h.Contact = strings.TrimSpace(*upd.Contact)
	}
	h.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, h); err != nil {
		return Homestay{}, err
	}
	return h, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// SetStatus moves a record through the approval workflow.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	return s.store.SetStatus(ctx, id, status)
}

// SetDocument attaches the registration document path. The path is an
// opaque string; upload handling lives outside this service.
func (s *Service) SetDocument(ctx context.Context, id, path string) (Homestay, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Homestay{}, fmt.Errorf("%w: document path is required", ErrInvalidInput)
	}
	h, err := s.Get(ctx, id)
	if err != nil {
		return Homestay{}, err
	}
	h.DocumentPath = path
	h.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, h); err != nil {
		return Homestay{}, err
	}
	return h, nil
}

// AddImage appends an image path to the record.
func (s *Service) AddImage(ctx context.Context, id, path string) (Homestay, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Homestay{}, fmt.Errorf("%w: image path is required", ErrInvalidInput)
	}
	h, err := s.Get(ctx, id)
	if err != nil {
		return Homestay{}, err
	}
	h.ImagePaths = append(h.ImagePaths, path)
	h.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, h); err != nil {
		return Homestay{}, err
	}
	return h, nil
}
