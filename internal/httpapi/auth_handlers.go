package httpapi

import (
	"net/http"
	"strings"
	"time"

	"gharbas.org/internal/audit"
	"gharbas.org/internal/auth"
	"gharbas.org/internal/obs"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username    string    `json:"username"`
	Role        auth.Role `json:"role"`
	TenantScope string    `json:"tenant_scope,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// handleAuth dispatches /v1/auth/{role}/{login|logout}. The role
// segment names the session channel being opened or closed.
func (a *API) handleAuth(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/auth/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	role := auth.Role(parts[0])
	if !role.Valid() {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch parts[1] {
	case "login":
		a.handleLogin(w, r, role)
	case "logout":
		a.handleLogout(w, r, role)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request, role auth.Role) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, claims, err := a.auth.Login(r.Context(), req.Username, req.Password, role)
	if err != nil {
		obs.ObserveLogin(string(role), "failure")
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"channel": string(role),
		})
		handleAuthError(w, r, err)
		return
	}

	a.sessions.Set(w, role, token)
	obs.ObserveLogin(string(role), "success")
	_ = audit.LogEvent(r.Context(), "auth.login", map[string]any{
		"channel":  string(role),
		"username": claims.Username,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Username:    claims.Username,
		Role:        claims.Role,
		TenantScope: claims.TenantScope,
		ExpiresAt:   claims.ExpiresAt.Time,
	})
}

// handleLogout clears one role channel. Tokens stay valid until expiry
// server-side; logout only removes the client's copy.
func (a *API) handleLogout(w http.ResponseWriter, r *http.Request, role auth.Role) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	a.sessions.Clear(w, role)
	_ = audit.LogEvent(r.Context(), "auth.logout", map[string]any{
		"channel": string(role),
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out"})
}
