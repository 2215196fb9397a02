package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/store"
)

// ProfilesHandler handles HTTP requests for profile resources.
type ProfilesHandler struct {
	store *store.Store
	app   *app.App
}

// NewProfilesHandler creates a new ProfilesHandler. The app may be nil;
// when present, selecting a profile also switches the running app.
func NewProfilesHandler(s *store.Store, a *app.App) *ProfilesHandler {
	return &ProfilesHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate methods. Expected paths: /api/profiles,
// /api/profiles/{id} and /api/profiles/{id}/select.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.Trim(path, "/")

	if path == "" {
		// Collection endpoint
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1:
		// Item endpoint
		id := parts[0]
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case len(parts) == 2 && parts[1] == "select":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.selectProfile(w, r, parts[0])

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type createProfileRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type updateProfileRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type profileResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Current     bool   `json:"current"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

// toProfileResponse converts a store.Profile to a profileResponse.
func toProfileResponse(p *store.Profile, current bool) profileResponse {
	return profileResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Current:     current,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// currentProfileID reads the current-profile setting; a database without
// the setting yields "".
func (h *ProfilesHandler) currentProfileID() string {
	id, err := h.store.Settings().Get(store.SettingCurrentProfile)
	if err != nil {
		return ""
	}
	return id
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfilesHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	current := h.currentProfileID()
	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p, p.ID == current))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfilesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile, profile.ID == h.currentProfileID()))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfilesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if _, err := h.store.Profiles().GetByName(req.Name); err == nil {
		writeError(w, http.StatusConflict, "Profile name already in use")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check profile name")
		return
	}

	profile := &store.Profile{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile, false))
}

// update handles PUT /api/profiles/{id} and renames or redescribes a
// profile.
func (h *ProfilesHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" && req.Name != profile.Name {
		if _, err := h.store.Profiles().GetByName(req.Name); err == nil {
			writeError(w, http.StatusConflict, "Profile name already in use")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "Failed to check profile name")
			return
		}
		profile.Name = req.Name
	}

	if req.Description != nil {
		profile.Description = *req.Description
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile, profile.ID == h.currentProfileID()))
}

// delete handles DELETE /api/profiles/{id} and removes a profile with
// its gestures. Deleting the current profile clears the setting.
func (h *ProfilesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	wasCurrent := h.currentProfileID() == id

	if err := h.store.Profiles().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	if wasCurrent {
		if err := h.store.Settings().Set(store.SettingCurrentProfile, ""); err != nil {
			log.Printf("failed to clear current profile setting: %v", err)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// selectProfile handles POST /api/profiles/{id}/select, making the
// profile current and switching the running app onto it.
func (h *ProfilesHandler) selectProfile(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	if h.app != nil {
		if err := h.app.SwitchProfile(id); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to switch profile")
			return
		}
	} else if err := h.store.Settings().Set(store.SettingCurrentProfile, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to select profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile, true))
}
