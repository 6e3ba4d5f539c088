package httpapi

import (
	"net/http"
	"strings"
	"testing"
)

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	decodeBody(t, rec, &resp)
	if resp.Status != "ok" || resp.Service != "gharbas-api" || resp.Version != "test" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestReadyzWithoutDB(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRoute404WithRequestID(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v2/nothing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
	var resp struct {
		Error     string `json:"error"`
		RequestID string `json:"request_id"`
	}
	decodeBody(t, rec, &resp)
	if resp.Error != "resource not found" || resp.RequestID == "" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if rec.Header().Get("X-Request-Id") != resp.RequestID {
		t.Fatal("response header and body disagree on request id")
	}
}

func TestLoginRejectsMalformedJSON(t *testing.T) {
	env := newTestEnv(t)
	req := env.do(t, http.MethodPost, "/v1/auth/admin/login", nil)
	if req.Code != http.StatusBadRequest {
		t.Fatalf("empty body: expected 400, got %d", req.Code)
	}
}

func TestLoginRejectsUnknownFields(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/v1/auth/admin/login", map[string]any{
		"username": "sita",
		"password": "sita-pass",
		"remember": true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowedCarriesAllowHeader(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodDelete, "/v1/auth/admin/login", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); !strings.Contains(allow, http.MethodPost) {
		t.Fatalf("Allow header missing POST: %q", allow)
	}
}
