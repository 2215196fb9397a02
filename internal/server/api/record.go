package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

// RecordHandler drives gesture recording sessions over HTTP.
type RecordHandler struct {
	app *app.App
}

// NewRecordHandler creates a new RecordHandler for the given app.
func NewRecordHandler(a *app.App) *RecordHandler {
	return &RecordHandler{app: a}
}

// ServeHTTP implements the http.Handler interface. POST starts a
// session, GET reports its state, DELETE cancels it.
func (h *RecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.start(w, r)
	case http.MethodGet:
		h.state(w, r)
	case http.MethodDelete:
		h.app.CancelRecording()
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type startRecordingRequest struct {
	GestureName string `json:"gesture_name"`
	KeyBinding  string `json:"key_binding"`
	HandType    string `json:"hand_type"`
}

type recorderStateResponse struct {
	Active    bool   `json:"active"`
	Recording bool   `json:"recording"`
	Gesture   string `json:"gesture,omitempty"`
	HandType  string `json:"hand_type,omitempty"`
}

// start handles POST /api/record and begins a recording session.
func (h *RecordHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startRecordingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.GestureName == "" {
		writeError(w, http.StatusBadRequest, "gesture_name is required")
		return
	}

	handType := gesture.HandType(req.HandType)
	if handType == "" {
		handType = gesture.HandTypeSingle
	}

	// The recorder samples the live pipeline, which only runs while
	// detection is enabled
	if !h.app.IsEnabled() {
		writeError(w, http.StatusConflict, "Gesture detection is paused")
		return
	}

	if err := h.app.StartRecording(req.GestureName, req.KeyBinding, handType); err != nil {
		if errors.Is(err, gesture.ErrRecorderBusy) {
			writeError(w, http.StatusConflict, "A recording is already in progress")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status":  "recording",
		"gesture": req.GestureName,
	})
}

// state handles GET /api/record and reports the recorder state.
func (h *RecordHandler) state(w http.ResponseWriter, r *http.Request) {
	rec := h.app.Recorder()

	response := recorderStateResponse{
		Active:    rec.Active(),
		Recording: rec.Recording(),
	}
	if response.Active {
		name, handType := rec.Session()
		response.Gesture = name
		response.HandType = string(handType)
	}

	writeJSON(w, http.StatusOK, response)
}
