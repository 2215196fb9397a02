package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

func TestAPI_ProfileWorkflow(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	s, _ := store.New(filepath.Join(tmpDir, "test.db"))
	defer s.Close()

	srv := New(Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	// 1. Create a profile
	createBody := `{"name": "Racing Game"}`
	resp, err := client.Post(ts.URL+"/api/profiles", "application/json", bytes.NewBufferString(createBody))
	if err != nil {
		t.Fatalf("POST /api/profiles error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var profile struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	json.NewDecoder(resp.Body).Decode(&profile)
	resp.Body.Close()

	if profile.Name != "Racing Game" {
		t.Errorf("created name = %s, want Racing Game", profile.Name)
	}

	// 2. Create a gesture in it
	gestureBody := `{"name": "boost", "pattern": [1, 1, 1, 1, 0], "key_binding": "space"}`
	resp, err = client.Post(ts.URL+"/api/profiles/"+profile.ID+"/gestures", "application/json", bytes.NewBufferString(gestureBody))
	if err != nil {
		t.Fatalf("POST gesture error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST gesture status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}

	var gesture struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	json.NewDecoder(resp.Body).Decode(&gesture)
	resp.Body.Close()

	if !gesture.Active {
		t.Error("gesture with a pattern should start active")
	}

	// 3. List gestures through the nested route
	resp, _ = client.Get(ts.URL + "/api/profiles/" + profile.ID + "/gestures")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET gestures status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var listed struct {
		Gestures []struct {
			Name string `json:"name"`
		} `json:"gestures"`
	}
	json.NewDecoder(resp.Body).Decode(&listed)
	resp.Body.Close()

	if len(listed.Gestures) != 1 || listed.Gestures[0].Name != "boost" {
		t.Fatalf("listed gestures = %+v, want just boost", listed.Gestures)
	}

	// 4. Select the profile
	resp, _ = client.Post(ts.URL+"/api/profiles/"+profile.ID+"/select", "application/json", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("select status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	resp.Body.Close()

	if id, _ := s.Settings().Get(store.SettingCurrentProfile); id != profile.ID {
		t.Errorf("current profile = %q, want %q", id, profile.ID)
	}

	// 5. Delete the profile, gestures included
	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/profiles/"+profile.ID, nil)
	resp, _ = client.Do(req)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}
	resp.Body.Close()

	resp, _ = client.Get(ts.URL + "/api/profiles/" + profile.ID)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	resp.Body.Close()

	if _, err := s.Gestures().GetByID(gesture.ID); err != store.ErrNotFound {
		t.Errorf("gesture survived profile delete: %v", err)
	}
}

func TestAPI_HealthCheck(t *testing.T) {
	srv := New(Config{})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	json.NewDecoder(resp.Body).Decode(&health)

	if health.Status != "ok" {
		t.Errorf("status = %s, want ok", health.Status)
	}
}
