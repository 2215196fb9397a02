// Package api provides the HTTP API handlers for the Mudra settings UI.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/input"
	"github.com/ayusman/mudra/internal/store"
)

// GesturesHandler handles HTTP requests for the gestures of a profile.
type GesturesHandler struct {
	store *store.Store
	app   *app.App
}

// NewGesturesHandler creates a new GesturesHandler. The app may be nil;
// when present its loaded profile is refreshed after every change.
func NewGesturesHandler(s *store.Store, a *app.App) *GesturesHandler {
	return &GesturesHandler{store: s, app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate methods. Expected paths:
//
//	/api/profiles/{id}/gestures
//	/api/profiles/{id}/gestures/{gid}
//	/api/profiles/{id}/gestures/{gid}/activate
//	/api/profiles/{id}/gestures/{gid}/deactivate
func (h *GesturesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

	if len(parts) < 2 || parts[0] == "" || parts[1] != "gestures" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	profileID := parts[0]

	switch {
	case len(parts) == 2:
		// Collection endpoint
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, profileID)
		case http.MethodPost:
			h.create(w, r, profileID)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case len(parts) == 3:
		// Item endpoint
		id := parts[2]
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, profileID, id)
		case http.MethodPut:
			h.update(w, r, profileID, id)
		case http.MethodDelete:
			h.delete(w, r, profileID, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case len(parts) == 4 && (parts[3] == "activate" || parts[3] == "deactivate"):
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.setActive(w, r, profileID, parts[2], parts[3] == "activate")

	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type createGestureRequest struct {
	Name        string `json:"name"`
	Pattern     []int  `json:"pattern"`
	HandType    string `json:"hand_type"`
	Description string `json:"description"`
	KeyBinding  string `json:"key_binding"`
	Active      *bool  `json:"active"`
	Position    int    `json:"position"`
}

type updateGestureRequest struct {
	Name        string `json:"name"`
	Pattern     []int  `json:"pattern"`
	HandType    string `json:"hand_type"`
	Description string `json:"description"`
	KeyBinding  string `json:"key_binding"`
	Active      *bool  `json:"active"`
	Position    int    `json:"position"`
}

type gestureResponse struct {
	ID              string `json:"id"`
	ProfileID       string `json:"profile_id"`
	Name            string `json:"name"`
	Pattern         []int  `json:"pattern"`
	HandType        string `json:"hand_type"`
	Description     string `json:"description"`
	KeyBinding      string `json:"key_binding"`
	Active          bool   `json:"active"`
	Position        int    `json:"position"`
	RecordedSamples int    `json:"recorded_samples"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toGestureResponse converts a store.Gesture to a gestureResponse.
func toGestureResponse(g *store.Gesture) gestureResponse {
	pattern := g.Pattern
	if pattern == nil {
		pattern = []int{}
	}
	return gestureResponse{
		ID:              g.ID,
		ProfileID:       g.ProfileID,
		Name:            g.Name,
		Pattern:         pattern,
		HandType:        string(g.HandType),
		Description:     g.Description,
		KeyBinding:      g.KeyBinding,
		Active:          g.Active,
		Position:        g.Position,
		RecordedSamples: g.RecordedSamples,
		CreatedAt:       g.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       g.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// validatePattern checks a pattern against its hand type. An empty
// pattern is a template waiting to be recorded and always passes.
func validatePattern(pattern []int, handType store.HandType) error {
	if len(pattern) == 0 {
		return nil
	}

	switch handType {
	case store.HandTypeSingle:
		if len(pattern) != 5 {
			return fmt.Errorf("single-hand pattern must have 5 values, got %d", len(pattern))
		}
		for _, v := range pattern {
			if v < -1 || v > 1 {
				return errors.New("single-hand pattern values must be -1, 0 or 1")
			}
		}

	case store.HandTypeBoth:
		if len(pattern) != 11 {
			return fmt.Errorf("both-hand pattern must have 11 values, got %d", len(pattern))
		}
		if pattern[0] < 0 || pattern[0] > 10 {
			return errors.New("total finger count must be between 0 and 10")
		}
		for _, v := range pattern[1:] {
			if v != 0 && v != 1 {
				return errors.New("per-finger values must be 0 or 1")
			}
		}

	default:
		return fmt.Errorf("invalid hand type %q", handType)
	}
	return nil
}

// reloadIfLoaded refreshes the app's profile snapshot when the change
// touched the profile it is running.
func (h *GesturesHandler) reloadIfLoaded(profileID string) {
	if h.app == nil || h.app.Status().ProfileID != profileID {
		return
	}
	if err := h.app.ReloadProfile(); err != nil {
		log.Printf("failed to reload profile after gesture change: %v", err)
	}
}

// list handles GET /api/profiles/{id}/gestures.
func (h *GesturesHandler) list(w http.ResponseWriter, r *http.Request, profileID string) {
	if _, err := h.store.Profiles().GetByID(profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	gestures, err := h.store.Gestures().ListByProfile(profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gestures")
		return
	}

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(gestures)),
	}
	for _, g := range gestures {
		response.Gestures = append(response.Gestures, toGestureResponse(g))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id}/gestures/{gid}.
func (h *GesturesHandler) get(w http.ResponseWriter, r *http.Request, profileID, id string) {
	gesture, err := h.fetch(w, profileID, id)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, toGestureResponse(gesture))
}

// fetch loads a gesture and verifies it belongs to the profile, writing
// the error response itself when it does not.
func (h *GesturesHandler) fetch(w http.ResponseWriter, profileID, id string) (*store.Gesture, error) {
	gesture, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return nil, err
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return nil, err
	}
	if gesture.ProfileID != profileID {
		writeError(w, http.StatusNotFound, "Gesture not found")
		return nil, store.ErrNotFound
	}
	return gesture, nil
}

// create handles POST /api/profiles/{id}/gestures.
func (h *GesturesHandler) create(w http.ResponseWriter, r *http.Request, profileID string) {
	if _, err := h.store.Profiles().GetByID(profileID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req createGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	handType := store.HandType(req.HandType)
	if handType == "" {
		handType = store.HandTypeSingle
	}
	if handType != store.HandTypeSingle && handType != store.HandTypeBoth {
		writeError(w, http.StatusBadRequest, "Invalid hand type")
		return
	}

	if err := validatePattern(req.Pattern, handType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.KeyBinding != "" {
		if _, err := input.ParseBinding(req.KeyBinding); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid key binding")
			return
		}
	}

	if _, err := h.store.Gestures().GetByName(profileID, req.Name); err == nil {
		writeError(w, http.StatusConflict, "Gesture name already in use")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "Failed to check gesture name")
		return
	}

	// Without an explicit flag, a gesture starts active only once it
	// has a pattern to match
	active := len(req.Pattern) > 0
	if req.Active != nil {
		active = *req.Active
	}
	if active && len(req.Pattern) == 0 {
		writeError(w, http.StatusBadRequest, "Gesture has no pattern to activate")
		return
	}

	gesture := &store.Gesture{
		ID:          uuid.New().String(),
		ProfileID:   profileID,
		Name:        req.Name,
		Pattern:     req.Pattern,
		HandType:    handType,
		Description: req.Description,
		KeyBinding:  req.KeyBinding,
		Active:      active,
		Position:    req.Position,
	}

	if err := h.store.Gestures().Create(gesture); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create gesture")
		return
	}

	h.reloadIfLoaded(profileID)
	writeJSON(w, http.StatusCreated, toGestureResponse(gesture))
}

// update handles PUT /api/profiles/{id}/gestures/{gid}.
func (h *GesturesHandler) update(w http.ResponseWriter, r *http.Request, profileID, id string) {
	gesture, err := h.fetch(w, profileID, id)
	if err != nil {
		return
	}

	var req updateGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" && req.Name != gesture.Name {
		if _, err := h.store.Gestures().GetByName(profileID, req.Name); err == nil {
			writeError(w, http.StatusConflict, "Gesture name already in use")
			return
		} else if !errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusInternalServerError, "Failed to check gesture name")
			return
		}
		gesture.Name = req.Name
	}
	if req.HandType != "" {
		handType := store.HandType(req.HandType)
		if handType != store.HandTypeSingle && handType != store.HandTypeBoth {
			writeError(w, http.StatusBadRequest, "Invalid hand type")
			return
		}
		gesture.HandType = handType
	}
	if req.Pattern != nil {
		gesture.Pattern = req.Pattern
	}
	if err := validatePattern(gesture.Pattern, gesture.HandType); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Description != "" {
		gesture.Description = req.Description
	}
	if req.KeyBinding != "" {
		if _, err := input.ParseBinding(req.KeyBinding); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid key binding")
			return
		}
		gesture.KeyBinding = req.KeyBinding
	}
	if req.Position > 0 {
		gesture.Position = req.Position
	}
	if req.Active != nil {
		if *req.Active && len(gesture.Pattern) == 0 {
			writeError(w, http.StatusBadRequest, "Gesture has no recorded pattern")
			return
		}
		gesture.Active = *req.Active
	}
	if len(gesture.Pattern) == 0 {
		gesture.Active = false
	}

	if err := h.store.Gestures().Update(gesture); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}

	h.reloadIfLoaded(profileID)
	writeJSON(w, http.StatusOK, toGestureResponse(gesture))
}

// delete handles DELETE /api/profiles/{id}/gestures/{gid}.
func (h *GesturesHandler) delete(w http.ResponseWriter, r *http.Request, profileID, id string) {
	if _, err := h.fetch(w, profileID, id); err != nil {
		return
	}

	if err := h.store.Gestures().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}

	h.reloadIfLoaded(profileID)
	w.WriteHeader(http.StatusNoContent)
}

// setActive handles POST /api/profiles/{id}/gestures/{gid}/activate and
// .../deactivate.
func (h *GesturesHandler) setActive(w http.ResponseWriter, r *http.Request, profileID, id string, active bool) {
	gesture, err := h.fetch(w, profileID, id)
	if err != nil {
		return
	}

	if active && len(gesture.Pattern) == 0 {
		writeError(w, http.StatusBadRequest, "Gesture has no recorded pattern")
		return
	}

	if err := h.store.Gestures().SetActive(id, active); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}
	gesture.Active = active

	h.reloadIfLoaded(profileID)
	writeJSON(w, http.StatusOK, toGestureResponse(gesture))
}
