package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/internal/script"
	"github.com/atelier-ai/styling-assistant/internal/timer"
	"github.com/atelier-ai/styling-assistant/pkg/metrics"
)

// Phase is one stage of a generation run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseThinking
	PhaseRevealing
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseThinking:
		return "thinking"
	case PhaseRevealing:
		return "revealing"
	case PhaseCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// generation is one in-flight assistant turn. It keeps its own timer
// handles so that being disowned by the engine does not stop it: a
// superseded run still reveals and commits against its own session.
type generation struct {
	owner       string
	scriptIndex int
	script      script.Script

	phase    Phase
	text     []rune
	revealed int
	labelIdx int

	labelTimer  timer.Handle
	revealTimer timer.Handle

	startedAt time.Time
}

// startGenerationLocked binds a fresh run to sessionID. Any previously
// bound run is disowned here: its timers keep firing and it will
// still commit to its original session when it completes.
func (e *Engine) startGenerationLocked(sessionID string) {
	idx := e.turns[sessionID]
	e.turns[sessionID]++

	g := &generation{
		owner:       sessionID,
		scriptIndex: idx,
		script:      script.Select(idx),
		phase:       PhaseThinking,
		startedAt:   time.Now(),
	}
	e.current = g

	// Two independently cancellable timers: the label rotation must
	// stop in the same transition that starts the reveal, with no tick
	// where both a label and partial text are observable.
	g.labelTimer = e.sched.Every(e.cfg.LabelInterval, func() { e.rotateLabel(g) })
	e.sched.After(e.cfg.ThinkingDelay, func() { e.beginReveal(g) })

	metrics.GenerationsStarted.Inc()
	e.pub.GenerationStarted(sessionID, idx)
	e.log.Debug("generation started",
		zap.String("session_id", sessionID),
		zap.Int("script_index", idx),
	)
}

func (e *Engine) rotateLabel(g *generation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g.phase != PhaseThinking {
		return
	}
	g.labelIdx = (g.labelIdx + 1) % len(script.StatusLabels)
}

func (e *Engine) beginReveal(g *generation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g.phase != PhaseThinking {
		return
	}
	g.labelTimer.Stop()
	g.phase = PhaseRevealing
	g.text = []rune(g.script.Text)

	e.log.Debug("generation revealing",
		zap.String("session_id", g.owner),
		zap.Int("chars", len(g.text)),
	)

	if len(g.text) == 0 {
		e.commitLocked(g)
		return
	}
	g.revealTimer = e.sched.Every(e.cfg.RevealInterval, func() { e.revealTick(g) })
}

func (e *Engine) revealTick(g *generation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if g.phase != PhaseRevealing {
		return
	}
	g.revealed++
	if g.revealed < len(g.text) {
		return
	}

	// Final character: stop the reveal timer and commit in the same
	// tick, so there is no gap between the last character and the
	// message becoming permanent.
	g.revealTimer.Stop()
	e.commitLocked(g)
}

func (e *Engine) commitLocked(g *generation) {
	g.phase = PhaseCommitting

	msg := e.dir.Append(g.owner, model.RoleAssistant, model.KindText, g.script.Text, nil)
	outcome := "committed"
	if msg == nil {
		// Owner session deleted mid-run; the append is a silent no-op.
		outcome = "orphaned"
		e.log.Debug("commit skipped, session gone", zap.String("session_id", g.owner))
	} else {
		metrics.RecordMessage(string(model.RoleAssistant), string(model.KindText))
		e.pub.MessageCommitted(msg)
		e.log.Info("assistant message committed",
			zap.String("session_id", g.owner),
			zap.String("message_id", msg.ID),
		)
	}

	// The deferred suggestion commit is armed after the text commit,
	// never before it; it re-validates the session when it fires.
	if g.script.HasSuggestions {
		e.sched.After(e.cfg.SuggestionDelay, func() { e.commitSuggestions(g) })
	}

	metrics.RecordGeneration(outcome, time.Since(g.startedAt).Seconds())
	e.pub.GenerationCompleted(g.owner, g.scriptIndex, outcome)

	g.revealed = 0
	g.phase = PhaseIdle
	if e.current == g {
		// Release the binding; a new run may start for any session,
		// including this one.
		e.current = nil
	}
}

func (e *Engine) commitSuggestions(g *generation) {
	e.mu.Lock()
	defer e.mu.Unlock()

	msg := e.dir.Append(g.owner, model.RoleAssistant, model.KindSuggestions, "", script.Outfits())
	if msg == nil {
		e.log.Debug("suggestion commit skipped, session gone", zap.String("session_id", g.owner))
		return
	}

	metrics.RecordMessage(string(model.RoleAssistant), string(model.KindSuggestions))
	e.pub.MessageCommitted(msg)
	e.log.Info("suggestions committed",
		zap.String("session_id", g.owner),
		zap.String("message_id", msg.ID),
		zap.Int("outfits", len(msg.Outfits)),
	)
}
