package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"gharbas.org/internal/audit"
	"gharbas.org/internal/auth"
)

type createIdentityRequest struct {
	Username    string             `json:"username"`
	Password    string             `json:"password"`
	Permissions auth.PermissionSet `json:"permissions"`
}

type updatePermissionsRequest struct {
	Permissions auth.PermissionSet `json:"permissions"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// --- officers (admin channel) ---

func (a *API) handleOfficers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listOfficers(w, r)
	case http.MethodPost:
		a.createOfficer(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listOfficers(w http.ResponseWriter, r *http.Request) {
	_, parent, ok := a.requireParentAdmin(w, r)
	if !ok {
		return
	}
	officers, err := a.auth.ListOfficers(r.Context(), parent)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if officers == nil {
		officers = []auth.Identity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"officers": officers})
}

func (a *API) createOfficer(w http.ResponseWriter, r *http.Request) {
	_, parent, ok := a.requireParentAdmin(w, r)
	if !ok {
		return
	}
	var req createIdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// Requested flags are filtered through the admin's own set inside
	// the service; the response shows what was actually stored.
	officer, err := a.auth.CreateOfficer(r.Context(), parent, req.Username, req.Password, req.Permissions)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "officer.create", map[string]any{
		"officer_id":    officer.ID,
		"username":      officer.Username,
		"parent_tenant": officer.ParentTenant,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/officers/%s", officer.ID))
	writeJSON(w, http.StatusCreated, officer)
}

func (a *API) handleOfficerScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/officers/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	officerID := parts[0]
	switch parts[1] {
	case "permissions":
		a.updateOfficerPermissions(w, r, officerID)
	case "active":
		a.setOfficerActive(w, r, officerID)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) updateOfficerPermissions(w http.ResponseWriter, r *http.Request, officerID string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	_, parent, ok := a.requireParentAdmin(w, r)
	if !ok {
		return
	}
	var req updatePermissionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	officer, err := a.auth.UpdateOfficerPermissions(r.Context(), parent, officerID, req.Permissions)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "officer.permissions", map[string]any{
		"officer_id": officer.ID,
	})
	writeJSON(w, http.StatusOK, officer)
}

func (a *API) setOfficerActive(w http.ResponseWriter, r *http.Request, officerID string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	_, parent, ok := a.requireParentAdmin(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.SetOfficerActive(r.Context(), parent, officerID, req.Active); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "officer.active", map[string]any{
		"officer_id": officerID,
		"active":     req.Active,
	})
	writeJSON(w, http.StatusOK, map[string]any{"active": req.Active})
}

// requireParentAdmin authorizes the dashboard capability and loads the
// calling admin's live identity, which officer provisioning needs for
// flag filtering.
func (a *API) requireParentAdmin(w http.ResponseWriter, r *http.Request) (auth.Principal, auth.Identity, bool) {
	principal, ok := a.authorize(w, r, auth.CapabilityDashboard, "")
	if !ok {
		return auth.Principal{}, auth.Identity{}, false
	}
	parent, err := a.auth.FindIdentity(r.Context(), principal.Claims.Subject)
	if err != nil {
		handleAuthError(w, r, err)
		return auth.Principal{}, auth.Identity{}, false
	}
	return principal, parent, true
}

// --- admins (superadmin channel) ---

func (a *API) handleAdmins(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listAdmins(w, r)
	case http.MethodPost:
		a.createAdmin(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listAdmins(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, auth.CapabilityDashboard, ""); !ok {
		return
	}
	admins, err := a.auth.ListAdmins(r.Context())
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	if admins == nil {
		admins = []auth.Identity{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

func (a *API) createAdmin(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.authorize(w, r, auth.CapabilityDashboard, ""); !ok {
		return
	}
	var req createIdentityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	admin, err := a.auth.CreateAdmin(r.Context(), req.Username, req.Password, req.Permissions)
	if err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "admin.create", map[string]any{
		"admin_id": admin.ID,
		"username": admin.Username,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/admins/%s", admin.ID))
	writeJSON(w, http.StatusCreated, admin)
}

func (a *API) handleAdminScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/admins/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[1] != "active" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.CapabilityDashboard, ""); !ok {
		return
	}
	var req setActiveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.auth.SetAdminActive(r.Context(), parts[0], req.Active); err != nil {
		handleAuthError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "admin.active", map[string]any{
		"admin_id": parts[0],
		"active":   req.Active,
	})
	writeJSON(w, http.StatusOK, map[string]any{"active": req.Active})
}
