// Package engine owns chat session identity, in-flight response
// generation, and the projection of both into the view the
// presentation layer renders.
package engine

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atelier-ai/styling-assistant/internal/events"
	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/internal/script"
	"github.com/atelier-ai/styling-assistant/internal/store"
	"github.com/atelier-ai/styling-assistant/internal/timer"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
	"github.com/atelier-ai/styling-assistant/pkg/metrics"
)

// Config holds the cadences of the simulated generation sequence.
type Config struct {
	// ThinkingDelay is the one-shot delay before the first character.
	ThinkingDelay time.Duration
	// LabelInterval is the status-label rotation cadence while thinking.
	LabelInterval time.Duration
	// RevealInterval is the per-character reveal cadence.
	RevealInterval time.Duration
	// SuggestionDelay is the gap between the text commit and the
	// structured suggestion commit for flagged scripts.
	SuggestionDelay time.Duration
}

// DefaultConfig returns the production cadences.
func DefaultConfig() Config {
	return Config{
		ThinkingDelay:   2500 * time.Millisecond,
		LabelInterval:   800 * time.Millisecond,
		RevealInterval:  30 * time.Millisecond,
		SuggestionDelay: 500 * time.Millisecond,
	}
}

// Engine is the single-user conversational engine. All state is
// guarded by one mutex: timer callbacks and user intents interleave
// at lock boundaries, never inside a phase transition.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	sched timer.Scheduler
	dir   *store.Directory
	pub   *events.Publisher
	log   *logger.Logger

	// selected is the session the view is looking at; empty means the
	// fresh "new chat" context. The generation controller never reads
	// it; visibility is decided in snapshotLocked by comparison.
	selected string

	// turns counts generation turns per session, driving script
	// rotation so consecutive turns don't repeat a reply.
	turns map[string]int

	// current is the bound generation run, nil when idle. Superseded
	// runs are disowned, not cancelled: they finish on their own
	// timers and commit (or no-op) against their own session.
	current *generation
}

// New creates an engine. pub may be nil to disable event publishing.
func New(cfg Config, sched timer.Scheduler, dir *store.Directory, pub *events.Publisher, log *logger.Logger) *Engine {
	return &Engine{
		cfg:   cfg,
		sched: sched,
		dir:   dir,
		pub:   pub,
		log:   log,
		turns: make(map[string]int),
	}
}

// SubmitUserMessage appends a user message, creating a session when
// the "new" context is selected, and starts a generation run bound to
// that session. Returns the session id and the appended message.
//
// Submitting the identical text twice in a row as the opening message
// of a session is a no-op on the second submission.
func (e *Engine) SubmitUserMessage(text string) (string, *model.Message) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return e.selected, nil
	}

	if e.selected == "" || !e.dir.Exists(e.selected) {
		sess := e.dir.CreateSession(text)
		e.selected = sess.ID
		first := sess.Messages[0]

		metrics.SessionsTotal.Inc()
		metrics.RecordMessage(string(model.RoleUser), string(model.KindText))
		e.pub.MessageCommitted(&first)
		e.log.Info("session created",
			zap.String("session_id", sess.ID),
			zap.String("title", sess.Title),
		)

		e.startGenerationLocked(sess.ID)
		return sess.ID, &first
	}

	transcript := e.dir.Transcript(e.selected)
	if len(transcript) == 1 && transcript[0].Role == model.RoleUser && transcript[0].Content == text {
		// Same opening message again: an overtaken re-entrancy, not a
		// new turn.
		return e.selected, &transcript[0]
	}

	msg := e.dir.Append(e.selected, model.RoleUser, model.KindText, text, nil)
	if msg == nil {
		return e.selected, nil
	}

	metrics.RecordMessage(string(model.RoleUser), string(model.KindText))
	e.pub.MessageCommitted(msg)

	e.startGenerationLocked(e.selected)
	return e.selected, msg
}

// SelectSession switches the view to a session, or to the "new"
// context when id is empty or "new". Selecting an unknown session is
// a no-op. Switching never cancels an in-flight run; it only changes
// what the snapshot shows.
func (e *Engine) SelectSession(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" || id == "new" {
		e.selected = ""
		return
	}
	if e.dir.Exists(id) {
		e.selected = id
	}
}

// SelectedSession returns the current selection; empty means the
// "new" context.
func (e *Engine) SelectedSession() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// DeleteSession removes a session. If it was selected, the selection
// reverts to the "new" context. A run bound to the deleted session is
// left to finish; its commits become silent no-ops.
func (e *Engine) DeleteSession(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.dir.Delete(id) {
		return false
	}
	delete(e.turns, id)
	if e.selected == id {
		e.selected = ""
	}

	metrics.SessionsDeleted.Inc()
	e.log.Info("session deleted", zap.String("session_id", id))
	return true
}

// RenameSession retitles a session. Blank titles are rejected by the
// directory, leaving the prior title.
func (e *Engine) RenameSession(id, title string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dir.Rename(id, title)
}

// RequestRegeneration restarts generation for the selected session
// with the next script in the rotation ("try again"). No-op when the
// "new" context is selected or the session has no messages.
func (e *Engine) RequestRegeneration() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.selected == "" {
		return false
	}
	if len(e.dir.Transcript(e.selected)) == 0 {
		return false
	}
	e.startGenerationLocked(e.selected)
	return true
}

// Snapshot returns the read-only projection for the presentation
// layer. In-flight state is visible only while the bound run's owner
// is the selected session.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() model.Snapshot {
	snap := model.Snapshot{
		SelectedSessionID: e.selected,
		Sessions:          e.dir.List(),
	}
	if e.selected != "" {
		snap.Transcript = e.dir.Transcript(e.selected)
	}

	g := e.current
	if g == nil || e.selected == "" || g.owner != e.selected {
		return snap
	}

	switch g.phase {
	case PhaseThinking:
		snap.IsGenerating = true
		snap.StatusLabel = script.StatusLabels[g.labelIdx]
	case PhaseRevealing:
		snap.IsGenerating = true
		snap.PartialText = string(g.text[:g.revealed])
	}
	return snap
}
