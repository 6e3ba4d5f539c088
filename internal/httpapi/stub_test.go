package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"gharbas.org/internal/auth"
	"gharbas.org/internal/homestay"
)

// memAuthStore is an in-memory auth.Store for end-to-end handler tests.
type memAuthStore struct {
	mu         sync.Mutex
	identities map[string]auth.Identity
}

func newMemAuthStore(identities ...auth.Identity) *memAuthStore {
	s := &memAuthStore{identities: make(map[string]auth.Identity)}
	for _, identity := range identities {
		s.identities[identity.ID] = identity
	}
	return s
}

func (s *memAuthStore) put(identity auth.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = identity
}

func (s *memAuthStore) FindByUsername(_ context.Context, username string) (auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, identity := range s.identities {
		if identity.Username == auth.NormalizeUsername(username) {
			return identity, nil
		}
	}
	return auth.Identity{}, auth.ErrNotFound
}

func (s *memAuthStore) FindByID(_ context.Context, id string) (auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return auth.Identity{}, auth.ErrNotFound
	}
	return identity, nil
}

func (s *memAuthStore) Create(_ context.Context, identity auth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.identities {
		if existing.Username == identity.Username {
			return auth.ErrAlreadyExists
		}
	}
	s.identities[identity.ID] = identity
	return nil
}

func (s *memAuthStore) UpdatePermissions(_ context.Context, id string, perms auth.PermissionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return auth.ErrNotFound
	}
	identity.Permissions = perms
	s.identities[id] = identity
	return nil
}

func (s *memAuthStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity, ok := s.identities[id]
	if !ok {
		return auth.ErrNotFound
	}
	identity.IsActive = active
	s.identities[id] = identity
	return nil
}

func (s *memAuthStore) ListByParent(_ context.Context, parentTenant string) ([]auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []auth.Identity
	for _, identity := range s.identities {
		if identity.ParentTenant == parentTenant {
			res = append(res, identity)
		}
	}
	return res, nil
}

func (s *memAuthStore) ListByRole(_ context.Context, role auth.Role) ([]auth.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []auth.Identity
	for _, identity := range s.identities {
		if identity.Role == role {
			res = append(res, identity)
		}
	}
	return res, nil
}

// memHomestayStore is an in-memory homestay.Store.
type memHomestayStore struct {
	mu      sync.Mutex
	records map[string]homestay.Homestay
}

func newMemHomestayStore(records ...homestay.Homestay) *memHomestayStore {
	s := &memHomestayStore{records: make(map[string]homestay.Homestay)}
	for _, h := range records {
		s.records[h.ID] = h
	}
	return s
}

func (s *memHomestayStore) Create(_ context.Context, h homestay.Homestay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[h.ID] = h
	return nil
}

func (s *memHomestayStore) Find(_ context.Context, id string) (homestay.Homestay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.records[id]
	if !ok {
		return homestay.Homestay{}, homestay.ErrNotFound
	}
	return h, nil
}

func (s *memHomestayStore) ListByTenant(_ context.Context, ownerTenant string) ([]homestay.Homestay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []homestay.Homestay
	for _, h := range s.records {
		if h.OwnerTenant == ownerTenant {
			res = append(res, h)
		}
	}
	return res, nil
}

func (s *memHomestayStore) ListAll(_ context.Context) ([]homestay.Homestay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []homestay.Homestay
	for _, h := range s.records {
		res = append(res, h)
	}
	return res, nil
}

func (s *memHomestayStore) Update(_ context.Context, h homestay.Homestay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[h.ID]; !ok {
		return homestay.ErrNotFound
	}
	s.records[h.ID] = h
	return nil
}

func (s *memHomestayStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return homestay.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *memHomestayStore) SetStatus(_ context.Context, id string, status homestay.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.records[id]
	if !ok {
		return homestay.ErrNotFound
	}
	h.Status = status
	s.records[id] = h
	return nil
}

// testEnv wires the full HTTP stack over in-memory stores.
type testEnv struct {
	handler   http.Handler
	auth      *memAuthStore
	homestays *memHomestayStore
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return hash
}

// newTestEnv seeds the usual cast: superadmin root, admins sita and
// gita, officer ram under sita, plus one homestay per admin.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authStore := newMemAuthStore(
		auth.Identity{
			ID: "s1", Username: "root", PasswordHash: mustHash(t, "root-pass"),
			Role: auth.RoleSuperadmin, IsActive: true,
		},
		auth.Identity{
			ID: "a1", Username: "sita", PasswordHash: mustHash(t, "sita-pass"),
			Role: auth.RoleAdmin, IsActive: true,
			Permissions: auth.PermissionSet{
				DashboardAccess: true, HomestayEdit: true, DocumentUpload: true,
			},
		},
		auth.Identity{
			ID: "a2", Username: "gita", PasswordHash: mustHash(t, "gita-pass"),
			Role: auth.RoleAdmin, IsActive: true,
			Permissions: auth.AllCapabilities(),
		},
		auth.Identity{
			ID: "o1", Username: "ram", PasswordHash: mustHash(t, "ram-pass"),
			Role: auth.RoleOfficer, ParentTenant: "sita", IsActive: true,
			Permissions: auth.PermissionSet{DashboardAccess: true, HomestayEdit: true},
		},
	)
	homestayStore := newMemHomestayStore(
		homestay.Homestay{ID: "h1", OwnerTenant: "sita", Name: "Lakeview", District: "Kaski", Status: homestay.StatusPending},
		homestay.Homestay{ID: "h2", OwnerTenant: "gita", Name: "Hilltop", District: "Mustang", Status: homestay.StatusApproved},
	)

	authSvc, err := auth.NewService(authStore, "test-secret")
	if err != nil {
		t.Fatalf("auth.NewService: %v", err)
	}
	homestaySvc, err := homestay.NewService(homestayStore)
	if err != nil {
		t.Fatalf("homestay.NewService: %v", err)
	}

	api := New(authSvc, homestaySvc, auth.SessionChannel{}, ReadyProbe{}, "test")
	return &testEnv{
		handler:   api.Handler(),
		auth:      authStore,
		homestays: homestayStore,
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:50000"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// login performs a login on the given role channel and returns the
// session cookie it set.
func (env *testEnv) login(t *testing.T, role auth.Role, username, password string) *http.Cookie {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/v1/auth/"+string(role)+"/login", map[string]string{
		"username": username,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s as %s: status %d, body %s", role, username, rec.Code, rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.ChannelName(role) && c.Value != "" {
			return c
		}
	}
	t.Fatalf("login did not set %s cookie", auth.ChannelName(role))
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
