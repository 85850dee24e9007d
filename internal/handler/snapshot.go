package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/atelier-ai/styling-assistant/internal/engine"
	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
	"github.com/atelier-ai/styling-assistant/pkg/metrics"
)

// snapshotPollInterval is how often the SSE stream samples the engine.
const snapshotPollInterval = 100 * time.Millisecond

// heartbeatInterval keeps idle SSE connections alive.
const heartbeatInterval = 30 * time.Second

// SnapshotHandler exposes the engine's view projection.
type SnapshotHandler struct {
	engine *engine.Engine
	logger *logger.Logger
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(eng *engine.Engine, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		engine: eng,
		logger: log,
	}
}

// Get handles GET /api/v1/snapshot
func (h *SnapshotHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Snapshot())
}

// snapshotSig is the change signature of a snapshot; the SSE stream
// only emits when it moves.
type snapshotSig struct {
	selected   string
	generating bool
	partial    int
	label      string
	messages   int
	sessions   int
}

func sigOf(snap *model.Snapshot) snapshotSig {
	return snapshotSig{
		selected:   snap.SelectedSessionID,
		generating: snap.IsGenerating,
		partial:    len(snap.PartialText),
		label:      snap.StatusLabel,
		messages:   len(snap.Transcript),
		sessions:   len(snap.Sessions),
	}
}

// Stream handles GET /api/v1/snapshot/stream
// Emits SSE "snapshot" events whenever the projection changes, with
// periodic heartbeats while idle.
func (h *SnapshotHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	snap := h.engine.Snapshot()
	last := sigOf(&snap)
	sendSSEEvent(w, flusher, "snapshot", snap)

	poll := time.NewTicker(snapshotPollInterval)
	defer poll.Stop()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("SSE client disconnected")
			return

		case <-poll.C:
			snap := h.engine.Snapshot()
			if sig := sigOf(&snap); sig != last {
				last = sig
				sendSSEEvent(w, flusher, "snapshot", snap)
			}

		case <-heartbeat.C:
			sendSSEEvent(w, flusher, "heartbeat", map[string]time.Time{
				"timestamp": time.Now(),
			})
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "event: %s\n", event)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
	flusher.Flush()

	return nil
}
