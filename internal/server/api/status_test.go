package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/app"
)

func TestStatusHandler_Get(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, s)
	handler := NewStatusHandler(a)

	p := createTestProfile(t, s, "Racing")
	if err := a.LoadProfile(p.ID); err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	a.SetEnabled(true)

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var status app.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if !status.Enabled {
		t.Error("expected enabled status")
	}
	if status.Profile != "Racing" {
		t.Errorf("expected profile 'Racing', got %q", status.Profile)
	}
	if status.Recording {
		t.Error("expected no recording in progress")
	}
}

func TestStatusHandler_Toggle(t *testing.T) {
	s := newTestStore(t)
	a := newTestApp(t, s)
	handler := NewStatusHandler(a)

	put := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/status", bytes.NewReader([]byte(body)))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := put(`{"enabled": true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !a.IsEnabled() {
		t.Error("detection should be enabled")
	}

	rec = put(`{"enabled": false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if a.IsEnabled() {
		t.Error("detection should be paused")
	}

	if rec := put(`{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing flag: expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestStatusHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewStatusHandler(newTestApp(t, s))

	req := httptest.NewRequest(http.MethodDelete, "/api/status", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
