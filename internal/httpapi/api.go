package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"gharbas.org/internal/auth"
	"gharbas.org/internal/homestay"
	"gharbas.org/internal/obs"
)

// ReadyProbe reports whether backing services can take traffic.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer. Every guarded route runs the same pipeline:
// session cookie read, token verify, live permission re-resolve, scope
// guard, handler.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	homestays  *homestay.Service
	sessions   auth.SessionChannel
	readyProbe ReadyProbe
	version    string
}

func New(authSvc *auth.Service, homestaySvc *homestay.Service, sessions auth.SessionChannel, rp ReadyProbe, version string) *API {
	a := &API{
		mux:        http.NewServeMux(),
		auth:       authSvc,
		homestays:  homestaySvc,
		sessions:   sessions,
		readyProbe: rp,
		version:    version,
	}

	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)
	a.mux.Handle("/metrics", obs.Handler())

	// Login is the only credential-guessing surface; rate limit it.
	a.mux.Handle("/v1/auth/", RateLimit(http.HandlerFunc(a.handleAuth), 5, 1))

	anyTier := []auth.Role{auth.RoleSuperadmin, auth.RoleAdmin, auth.RoleOfficer}
	a.mux.Handle("/v1/homestays", a.withSession(http.HandlerFunc(a.handleHomestays), anyTier...))
	a.mux.Handle("/v1/homestays/", a.withSession(http.HandlerFunc(a.handleHomestayScoped), anyTier...))

	a.mux.Handle("/v1/officers", a.withSession(http.HandlerFunc(a.handleOfficers), auth.RoleAdmin))
	a.mux.Handle("/v1/officers/", a.withSession(http.HandlerFunc(a.handleOfficerScoped), auth.RoleAdmin))

	a.mux.Handle("/v1/admins", a.withSession(http.HandlerFunc(a.handleAdmins), auth.RoleSuperadmin))
	a.mux.Handle("/v1/admins/", a.withSession(http.HandlerFunc(a.handleAdminScoped), auth.RoleSuperadmin))

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the fully wrapped root handler.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = LoggingJSON(h)
	h = obs.Instrument(h)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return h
}
