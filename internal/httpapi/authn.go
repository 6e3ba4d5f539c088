package httpapi

import (
	"errors"
	"net/http"

	"gharbas.org/internal/audit"
	"gharbas.org/internal/auth"
	"gharbas.org/internal/obs"
)

// withSession authenticates the request from the first listed role
// channel that holds a valid credential. Channels are independent
// cookies, so a client carrying both a superadmin and an admin session
// is served from the higher tier first. Invalid or expired tokens
// clear their channel before the next one is tried.
func (a *API) withSession(next http.Handler, roles ...auth.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		sawInvalid := false
		for _, role := range roles {
			token, ok := a.sessions.Get(r, role)
			if !ok {
				continue
			}
			claims, perms, err := a.auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrInactiveAccount) {
					a.sessions.Clear(w, role)
					sawInvalid = true
					continue
				}
				writeError(w, r, http.StatusInternalServerError, "authentication error")
				return
			}
			if claims.Role != role {
				a.sessions.Clear(w, role)
				sawInvalid = true
				continue
			}
			ctx := auth.ContextWithPrincipal(r.Context(), auth.Principal{
				Claims:      claims,
				Permissions: perms,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}
		if sawInvalid {
			writeError(w, r, http.StatusUnauthorized, "session expired, please log in again")
			return
		}
		writeError(w, r, http.StatusUnauthorized, "authentication required")
	})
}

// authorize runs the scope guard for one capability-gated action. Both
// deny reasons produce the same response body; the internal reason
// goes to metrics and the audit log only.
func (a *API) authorize(w http.ResponseWriter, r *http.Request, capability auth.Capability, ownerTenant string) (auth.Principal, bool) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return auth.Principal{}, false
	}
	decision := auth.Authorize(principal.Claims, principal.Permissions, capability, ownerTenant)
	if !decision.Allowed {
		obs.ObserveDenial(string(decision.Reason))
		_ = audit.LogEvent(r.Context(), "auth.denied", map[string]any{
			"reason":     string(decision.Reason),
			"capability": string(capability),
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		writeError(w, r, http.StatusForbidden, "permission denied")
		return principal, false
	}
	return principal, true
}
