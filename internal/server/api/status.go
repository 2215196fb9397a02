package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/app"
)

// StatusHandler reports the live service state and toggles detection.
type StatusHandler struct {
	app *app.App
}

// NewStatusHandler creates a new StatusHandler for the given app.
func NewStatusHandler(a *app.App) *StatusHandler {
	return &StatusHandler{app: a}
}

type setStatusRequest struct {
	Enabled *bool `json:"enabled"`
}

// ServeHTTP implements the http.Handler interface. GET reports the
// state, PUT {"enabled": bool} pauses or resumes detection.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.app.Status())

	case http.MethodPut:
		var req setStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		if req.Enabled == nil {
			writeError(w, http.StatusBadRequest, "enabled is required")
			return
		}
		h.app.SetEnabled(*req.Enabled)
		writeJSON(w, http.StatusOK, h.app.Status())

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
