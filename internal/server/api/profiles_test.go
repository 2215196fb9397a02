package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func TestProfilesHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)

	createTestProfile(t, s, "Racing")
	p := createTestProfile(t, s, "Video")
	if err := s.Settings().Set(store.SettingCurrentProfile, p.ID); err != nil {
		t.Fatalf("failed to set current profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response listProfilesResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(response.Profiles))
	}

	// exactly the selected profile is flagged current
	for _, pr := range response.Profiles {
		if want := pr.ID == p.ID; pr.Current != want {
			t.Errorf("profile %q: current = %v, want %v", pr.Name, pr.Current, want)
		}
	}
}

func TestProfilesHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)

	body, _ := json.Marshal(createProfileRequest{Name: "Racing Game", Description: "Wheel and pedals"})
	req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response profileResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.ID == "" {
		t.Error("expected a generated ID")
	}
	if response.Name != "Racing Game" {
		t.Errorf("expected name 'Racing Game', got %q", response.Name)
	}
	if response.Description != "Wheel and pedals" {
		t.Errorf("expected description 'Wheel and pedals', got %q", response.Description)
	}

	if _, err := s.Profiles().GetByID(response.ID); err != nil {
		t.Errorf("created profile not found in store: %v", err)
	}
}

func TestProfilesHandler_Create_Validation(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)
	createTestProfile(t, s, "Racing")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid JSON", "{not json", http.StatusBadRequest},
		{"missing name", "{}", http.StatusBadRequest},
		{"duplicate name", `{"name": "Racing"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/profiles", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestProfilesHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)
	p := createTestProfile(t, s, "Racing")

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+p.ID, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		var response profileResponse
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if response.Name != "Racing" {
			t.Errorf("expected name 'Racing', got %q", response.Name)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles/missing", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestProfilesHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)
	p := createTestProfile(t, s, "Racing")

	body, _ := json.Marshal(updateProfileRequest{Name: "Flight Sim"})
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+p.ID, bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	updated, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("failed to get updated profile: %v", err)
	}
	if updated.Name != "Flight Sim" {
		t.Errorf("expected name 'Flight Sim', got %q", updated.Name)
	}
}

func TestProfilesHandler_Update_Description(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)
	p := createTestProfile(t, s, "Racing")

	desc := "Cockpit controls"
	body, _ := json.Marshal(updateProfileRequest{Description: &desc})
	req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+p.ID, bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	updated, err := s.Profiles().GetByID(p.ID)
	if err != nil {
		t.Fatalf("failed to get updated profile: %v", err)
	}
	if updated.Name != "Racing" {
		t.Errorf("name should be unchanged, got %q", updated.Name)
	}
	if updated.Description != "Cockpit controls" {
		t.Errorf("expected description 'Cockpit controls', got %q", updated.Description)
	}
}

func TestProfilesHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewProfilesHandler(s, nil)
	p := createTestProfile(t, s, "Racing")

	g := &store.Gesture{
		ID: "g1", ProfileID: p.ID, Name: "boost",
		Pattern: []int{1, 1, 1, 1, 0}, HandType: store.HandTypeSingle,
	}
	if err := s.Gestures().Create(g); err != nil {
		t.Fatalf("failed to create gesture: %v", err)
	}
	if err := s.Settings().Set(store.SettingCurrentProfile, p.ID); err != nil {
		t.Fatalf("failed to set current profile: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/"+p.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	if _, err := s.Profiles().GetByID(p.ID); err != store.ErrNotFound {
		t.Errorf("profile still present after delete: %v", err)
	}
	// gestures go with their profile
	if _, err := s.Gestures().GetByID("g1"); err != store.ErrNotFound {
		t.Errorf("gesture still present after profile delete: %v", err)
	}
	// the current-profile setting no longer points at the dead profile
	if id, err := s.Settings().Get(store.SettingCurrentProfile); err != nil || id != "" {
		t.Errorf("current profile setting = %q (%v), want empty", id, err)
	}
}

func TestProfilesHandler_Select(t *testing.T) {
	s := newTestStore(t)
	p1 := createTestProfile(t, s, "Racing")
	p2 := createTestProfile(t, s, "Video")

	t.Run("without app", func(t *testing.T) {
		handler := NewProfilesHandler(s, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/profiles/"+p1.ID+"/select", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if id, _ := s.Settings().Get(store.SettingCurrentProfile); id != p1.ID {
			t.Errorf("current profile = %q, want %q", id, p1.ID)
		}
	})

	t.Run("with app", func(t *testing.T) {
		a := newTestApp(t, s)
		handler := NewProfilesHandler(s, a)

		req := httptest.NewRequest(http.MethodPost, "/api/profiles/"+p2.ID+"/select", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}
		if got := a.Status().Profile; got != "Video" {
			t.Errorf("app profile = %q, want Video", got)
		}
		if id, _ := s.Settings().Get(store.SettingCurrentProfile); id != p2.ID {
			t.Errorf("current profile = %q, want %q", id, p2.ID)
		}
	})

	t.Run("missing profile", func(t *testing.T) {
		handler := NewProfilesHandler(s, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/profiles/missing/select", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("only POST is allowed", func(t *testing.T) {
		handler := NewProfilesHandler(s, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+p1.ID+"/select", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}
