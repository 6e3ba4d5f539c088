package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"gharbas.org/internal/audit"
	"gharbas.org/internal/auth"
	"gharbas.org/internal/homestay"
)

type createHomestayRequest struct {
	OwnerTenant string `json:"owner_tenant,omitempty"`
	Name        string `json:"name"`
	District    string `json:"district"`
	Address     string `json:"address"`
	Rooms       int    `json:"rooms"`
	Beds        int    `json:"beds"`
	Contact     string `json:"contact"`
}

type updateHomestayRequest struct {
	Name     *string `json:"name"`
	District *string `json:"district"`
	Address  *string `json:"address"`
	Rooms    *int    `json:"rooms"`
	Beds     *int    `json:"beds"`
	Contact  *string `json:"contact"`
}

type setStatusRequest struct {
	Status homestay.Status `json:"status"`
}

type attachmentRequest struct {
	Path string `json:"path"`
}

func (a *API) handleHomestays(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listHomestays(w, r)
	case http.MethodPost:
		a.createHomestay(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listHomestays(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, auth.CapabilityDashboard, "")
	if !ok {
		return
	}
	var (
		list []homestay.Homestay
		err  error
	)
	if principal.Claims.Role == auth.RoleSuperadmin {
		list, err = a.homestays.ListAll(r.Context())
	} else {
		list, err = a.homestays.ListForTenant(r.Context(), principal.Claims.TenantScope)
	}
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}
	if list == nil {
		list = []homestay.Homestay{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"homestays": list})
}

func (a *API) createHomestay(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.authorize(w, r, auth.CapabilityEdit, "")
	if !ok {
		return
	}
	var req createHomestayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	// Tenant-bound callers always create inside their own scope; only
	// a superadmin names the owner explicitly.
	owner := principal.Claims.TenantScope
	if principal.Claims.Role == auth.RoleSuperadmin {
		owner = auth.NormalizeUsername(req.OwnerTenant)
	}
	if owner == "" {
		writeError(w, r, http.StatusBadRequest, "owner tenant is required")
		return
	}
	h, err := a.homestays.Create(r.Context(), owner, homestay.CreateParams{
		Name:     req.Name,
		District: req.District,
		Address:  req.Address,
		Rooms:    req.Rooms,
		Beds:     req.Beds,
		Contact:  req.Contact,
	})
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.create", map[string]any{
		"homestay_id":  h.ID,
		"owner_tenant": h.OwnerTenant,
	})
	w.Header().Set("Location", fmt.Sprintf("/v1/homestays/%s", h.ID))
	writeJSON(w, http.StatusCreated, h)
}

func (a *API) handleHomestayScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/homestays/"), "/")
	parts := strings.Split(path, "/")
	if path == "" || len(parts) > 2 {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id := parts[0]

	h, err := a.homestays.Get(r.Context(), id)
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "status":
			a.setHomestayStatus(w, r, h)
		case "document":
			a.setHomestayDocument(w, r, h)
		case "images":
			a.addHomestayImage(w, r, h)
		default:
			writeError(w, r, http.StatusNotFound, "resource not found")
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getHomestay(w, r, h)
	case http.MethodPut:
		a.updateHomestay(w, r, h)
	case http.MethodDelete:
		a.deleteHomestay(w, r, h)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) getHomestay(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if _, ok := a.authorize(w, r, auth.CapabilityDashboard, h.OwnerTenant); !ok {
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (a *API) updateHomestay(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if _, ok := a.authorize(w, r, auth.CapabilityEdit, h.OwnerTenant); !ok {
		return
	}
	var req updateHomestayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.homestays.Apply(r.Context(), h.ID, homestay.Update{
		Name:     req.Name,
		District: req.District,
		Address:  req.Address,
		Rooms:    req.Rooms,
		Beds:     req.Beds,
		Contact:  req.Contact,
	})
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.update", map[string]any{
		"homestay_id": h.ID,
	})
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) deleteHomestay(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if _, ok := a.authorize(w, r, auth.CapabilityDelete, h.OwnerTenant); !ok {
		return
	}
	if err := a.homestays.Delete(r.Context(), h.ID); err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.delete", map[string]any{
		"homestay_id":  h.ID,
		"owner_tenant": h.OwnerTenant,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func (a *API) setHomestayStatus(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.CapabilityApproval, h.OwnerTenant); !ok {
		return
	}
	var req setStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.homestays.SetStatus(r.Context(), h.ID, req.Status); err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.status", map[string]any{
		"homestay_id": h.ID,
		"status":      string(req.Status),
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": string(req.Status)})
}

func (a *API) setHomestayDocument(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	if _, ok := a.authorize(w, r, auth.CapabilityDocumentUpload, h.OwnerTenant); !ok {
		return
	}
	var req attachmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.homestays.SetDocument(r.Context(), h.ID, req.Path)
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.document", map[string]any{
		"homestay_id": h.ID,
	})
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) addHomestayImage(w http.ResponseWriter, r *http.Request, h homestay.Homestay) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if _, ok := a.authorize(w, r, auth.CapabilityImageUpload, h.OwnerTenant); !ok {
		return
	}
	var req attachmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := a.homestays.AddImage(r.Context(), h.ID, req.Path)
	if err != nil {
		handleHomestayError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "homestay.image", map[string]any{
		"homestay_id": h.ID,
	})
	writeJSON(w, http.StatusOK, updated)
}
