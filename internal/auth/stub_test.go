package auth

import (
	"context"
	"sync"
)

// memStore is an in-memory Store used by service-level tests.
type memStore struct {
	mu         sync.Mutex
	identities map[string]Identity // keyed by id
	err        error               // forced failure for every call
}

func newMemStore(identities ...Identity) *memStore {
	s := &memStore{identities: make(map[string]Identity)}
	for _, identity := range identities {
		s.identities[identity.ID] = identity
	}
	return s
}

func (s *memStore) put(identity Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = identity
}

func (s *memStore) FindByUsername(_ context.Context, username string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Identity{}, s.err
	}
	for _, identity := range s.identities {
		if identity.Username == NormalizeUsername(username) {
			return identity, nil
		}
	}
	return Identity{}, ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Identity{}, s.err
	}
	identity, ok := s.identities[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return identity, nil
}

func (s *memStore) Create(_ context.Context, identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.identities {
		if existing.Username == identity.Username {
			return ErrAlreadyExists
		}
	}
	s.identities[identity.ID] = identity
	return nil
}

func (s *memStore) UpdatePermissions(_ context.Context, id string, perms PermissionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	identity, ok := s.identities[id]
	if !ok {
		return ErrNotFound
	}
	identity.Permissions = perms
	s.identities[id] = identity
	return nil
}

func (s *memStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	identity, ok := s.identities[id]
	if !ok {
		return ErrNotFound
	}
	identity.IsActive = active
	s.identities[id] = identity
	return nil
}

func (s *memStore) ListByParent(_ context.Context, parentTenant string) ([]Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var res []Identity
	for _, identity := range s.identities {
		if identity.ParentTenant == parentTenant {
			res = append(res, identity)
		}
	}
	return res, nil
}

func (s *memStore) ListByRole(_ context.Context, role Role) ([]Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var res []Identity
	for _, identity := range s.identities {
		if identity.Role == role {
			res = append(res, identity)
		}
	}
	return res, nil
}
