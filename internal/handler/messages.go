package handler

import (
	"encoding/json"
	"net/http"

	"github.com/atelier-ai/styling-assistant/internal/engine"
	"github.com/atelier-ai/styling-assistant/internal/middleware"
	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
)

// MessageHandler handles message submission and regeneration.
type MessageHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(eng *engine.Engine, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		engine: eng,
		logger: log,
	}
}

// Submit handles POST /api/v1/messages
// The message goes to the selected session; when the "new" context is
// selected, a session is created from it.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateMessageContent(req.Content); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sessionID, msg := h.engine.SubmitUserMessage(req.Content)
	if msg == nil {
		writeError(w, http.StatusInternalServerError, "failed to submit message")
		return
	}

	writeJSON(w, http.StatusCreated, &model.SubmitMessageResponse{
		SessionID: sessionID,
		Message:   msg,
	})
}

// Regenerate handles POST /api/v1/regenerate
// Restarts generation for the selected session with the next script.
func (h *MessageHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	if !h.engine.RequestRegeneration() {
		writeError(w, http.StatusConflict, "nothing to regenerate")
		return
	}
	writeJSON(w, http.StatusAccepted, h.engine.Snapshot())
}
