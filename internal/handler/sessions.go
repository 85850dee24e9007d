package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atelier-ai/styling-assistant/internal/engine"
	"github.com/atelier-ai/styling-assistant/internal/middleware"
	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
)

// SessionHandler handles session endpoints.
type SessionHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(eng *engine.Engine, log *logger.Logger) *SessionHandler {
	return &SessionHandler{
		engine: eng,
		logger: log,
	}
}

// List handles GET /api/v1/sessions
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, &model.ListSessionsResponse{
		Sessions: snap.Sessions,
		Total:    len(snap.Sessions),
	})
}

// Select handles POST /api/v1/sessions/{id}/select
// The id "new" selects the fresh context.
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if id != "new" {
		if err := middleware.ValidateSessionID(id); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.engine.SelectSession(id)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

// Rename handles PUT /api/v1/sessions/{id}
func (h *SessionHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.RenameSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateTitle(req.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Blank titles are absorbed as a no-op; the response reflects
	// whatever the directory kept.
	h.engine.RenameSession(id, req.Title)
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateSessionID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.engine.DeleteSession(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
