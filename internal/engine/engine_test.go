package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-ai/styling-assistant/internal/model"
	"github.com/atelier-ai/styling-assistant/internal/script"
	"github.com/atelier-ai/styling-assistant/internal/store"
	"github.com/atelier-ai/styling-assistant/internal/timer"
	"github.com/atelier-ai/styling-assistant/pkg/logger"
)

func newTestEngine(t *testing.T) (*Engine, *timer.Fake, *store.Directory) {
	t.Helper()
	fake := timer.NewFake()
	dir := store.NewDirectory()
	eng := New(DefaultConfig(), fake, dir, nil, logger.NewNop())
	return eng, fake, dir
}

// revealDuration is how long the per-character reveal of a script takes
// under the default cadences.
func revealDuration(s script.Script) time.Duration {
	return time.Duration(len([]rune(s.Text))) * DefaultConfig().RevealInterval
}

func TestSubmitCreatesSessionAndRunsFullSequence(t *testing.T) {
	eng, fake, _ := newTestEngine(t)

	sid, msg := eng.SubmitUserMessage("style me for brunch")
	require.NotEmpty(t, sid)
	require.NotNil(t, msg)
	assert.Equal(t, model.RoleUser, msg.Role)
	assert.Equal(t, "style me for brunch", msg.Content)

	snap := eng.Snapshot()
	assert.Equal(t, sid, snap.SelectedSessionID)
	require.Len(t, snap.Transcript, 1)
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "style me for brunch", snap.Sessions[0].Title)

	// Thinking: label rotates on its own cadence
	assert.True(t, snap.IsGenerating)
	assert.Equal(t, "Thinking", snap.StatusLabel)
	assert.Empty(t, snap.PartialText)

	fake.Advance(800 * time.Millisecond)
	assert.Equal(t, "Generating", eng.Snapshot().StatusLabel)

	fake.Advance(800 * time.Millisecond)
	assert.Equal(t, "Searching", eng.Snapshot().StatusLabel)

	// First-token delay elapses at 2.5s; the label stops, reveal begins
	fake.Advance(900 * time.Millisecond)
	snap = eng.Snapshot()
	assert.True(t, snap.IsGenerating)
	assert.Empty(t, snap.StatusLabel)
	assert.Empty(t, snap.PartialText)

	fake.Advance(30 * time.Millisecond)
	snap = eng.Snapshot()
	want := script.Select(0)
	assert.Equal(t, string([]rune(want.Text)[:1]), snap.PartialText)

	// Run the reveal to the end; commit happens on the final tick
	fake.Advance(revealDuration(want))
	snap = eng.Snapshot()
	assert.False(t, snap.IsGenerating)
	assert.Empty(t, snap.PartialText)
	require.Len(t, snap.Transcript, 2)
	assert.Equal(t, model.RoleAssistant, snap.Transcript[1].Role)
	assert.Equal(t, model.KindText, snap.Transcript[1].Kind)
	assert.Equal(t, want.Text, snap.Transcript[1].Content)

	// Script 0 is suggestion-flagged: a structured message follows
	require.True(t, want.HasSuggestions)
	fake.Advance(500 * time.Millisecond)
	snap = eng.Snapshot()
	require.Len(t, snap.Transcript, 3)
	assert.Equal(t, model.KindSuggestions, snap.Transcript[2].Kind)
	assert.NotEmpty(t, snap.Transcript[2].Outfits)
}

func TestSuggestionCommitStrictlyAfterTextCommit(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, _ := eng.SubmitUserMessage("what should I wear")
	fake.Advance(15 * time.Second)

	transcript := dir.Transcript(sid)
	require.Len(t, transcript, 3)
	textIdx, sugIdx := -1, -1
	for i, m := range transcript {
		switch m.Kind {
		case model.KindText:
			if m.Role == model.RoleAssistant {
				textIdx = i
			}
		case model.KindSuggestions:
			sugIdx = i
		}
	}
	require.NotEqual(t, -1, textIdx)
	require.NotEqual(t, -1, sugIdx)
	assert.Greater(t, sugIdx, textIdx)
	// IDs are monotonic in insertion order
	assert.Greater(t, transcript[sugIdx].ID, transcript[textIdx].ID)
}

func TestSwitchingSessionsHidesButDoesNotCancel(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sidA, _ := eng.SubmitUserMessage("brunch look please")

	// Still in the thinking window: switch to the new context
	fake.Advance(time.Second)
	eng.SelectSession("new")

	snap := eng.Snapshot()
	assert.False(t, snap.IsGenerating)
	assert.Empty(t, snap.StatusLabel)
	assert.Empty(t, snap.Transcript)

	// The disowned view doesn't stop the run: A's transcript gains the
	// assistant message even though A is not selected
	fake.Advance(15 * time.Second)
	assert.False(t, eng.Snapshot().IsGenerating)

	transcript := dir.Transcript(sidA)
	require.GreaterOrEqual(t, len(transcript), 2)
	assert.Equal(t, model.RoleAssistant, transcript[1].Role)
	assert.Equal(t, script.Select(0).Text, transcript[1].Content)
}

func TestSwitchAwayAndBackResumesVisibility(t *testing.T) {
	eng, fake, _ := newTestEngine(t)

	sidA, _ := eng.SubmitUserMessage("something for the office")

	// Into the reveal phase
	fake.Advance(2600 * time.Millisecond)

	eng.SelectSession("new")
	assert.False(t, eng.Snapshot().IsGenerating)

	// The simulation kept running in the background
	fake.Advance(300 * time.Millisecond)
	eng.SelectSession(sidA)
	snap := eng.Snapshot()
	assert.True(t, snap.IsGenerating)
	assert.NotEmpty(t, snap.PartialText)
}

func TestSessionIsolationAcrossConcurrentRuns(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sidA, _ := eng.SubmitUserMessage("first look")
	fake.Advance(time.Second)

	// Start a second session while A's run is still thinking; A's run
	// is disowned but keeps going
	eng.SelectSession("new")
	sidB, _ := eng.SubmitUserMessage("second look")
	require.NotEqual(t, sidA, sidB)

	// Only the bound run (B's) is ever visible, and only from B
	snap := eng.Snapshot()
	assert.Equal(t, sidB, snap.SelectedSessionID)
	assert.True(t, snap.IsGenerating)

	eng.SelectSession(sidA)
	assert.False(t, eng.Snapshot().IsGenerating)

	eng.SelectSession(sidB)
	assert.True(t, eng.Snapshot().IsGenerating)

	// Both runs complete against their own sessions
	fake.Advance(15 * time.Second)

	a := dir.Transcript(sidA)
	b := dir.Transcript(sidB)
	require.GreaterOrEqual(t, len(a), 2)
	require.GreaterOrEqual(t, len(b), 2)
	assert.Equal(t, script.Select(0).Text, a[1].Content)
	assert.Equal(t, script.Select(0).Text, b[1].Content)
	for _, m := range a {
		assert.Equal(t, sidA, m.SessionID)
	}
	for _, m := range b {
		assert.Equal(t, sidB, m.SessionID)
	}
}

func TestLabelAndPartialNeverVisibleTogether(t *testing.T) {
	eng, fake, _ := newTestEngine(t)

	eng.SubmitUserMessage("weekend outfit")

	// Walk the whole sequence in fine steps; at no instant are a
	// status label and partial text shown together.
	for i := 0; i < 1500; i++ {
		fake.Advance(10 * time.Millisecond)
		snap := eng.Snapshot()
		if snap.StatusLabel != "" && snap.PartialText != "" {
			t.Fatalf("label %q and partial text visible together at %v", snap.StatusLabel, fake.Now())
		}
		if !snap.IsGenerating {
			assert.Empty(t, snap.StatusLabel)
			assert.Empty(t, snap.PartialText)
		}
	}
}

func TestDeleteMidGenerationIsSafe(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	// A completed bystander session
	sidC, _ := eng.SubmitUserMessage("bystander")
	fake.Advance(15 * time.Second)
	bystanderLen := len(dir.Transcript(sidC))

	eng.SelectSession("new")
	sidA, _ := eng.SubmitUserMessage("doomed session")
	fake.Advance(time.Second)

	require.True(t, eng.DeleteSession(sidA))

	// Selection reverted to the new context
	snap := eng.Snapshot()
	assert.Empty(t, snap.SelectedSessionID)
	assert.False(t, snap.IsGenerating)

	// The run finishes on its own timers; every commit is a no-op
	fake.Advance(15 * time.Second)

	assert.False(t, dir.Exists(sidA))
	assert.Len(t, dir.Transcript(sidC), bystanderLen)
	require.Len(t, dir.List(), 1)
}

func TestRegenerationCyclesScripts(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, _ := eng.SubmitUserMessage("try something else")
	fake.Advance(15 * time.Second)
	base := len(dir.Transcript(sid))

	require.True(t, eng.RequestRegeneration())
	assert.True(t, eng.Snapshot().IsGenerating)

	fake.Advance(15 * time.Second)
	transcript := dir.Transcript(sid)
	require.Len(t, transcript, base+1)
	assert.Equal(t, script.Select(1).Text, transcript[base].Content)
}

func TestRegenerationMidRunDisownsOldRun(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, _ := eng.SubmitUserMessage("show me options")
	fake.Advance(time.Second)

	// Restart while the first run is still thinking. The old run is
	// disowned, not cancelled: both commits land, in completion order.
	require.True(t, eng.RequestRegeneration())
	fake.Advance(20 * time.Second)

	var contents []string
	for _, m := range dir.Transcript(sid) {
		if m.Role == model.RoleAssistant && m.Kind == model.KindText {
			contents = append(contents, m.Content)
		}
	}
	assert.Contains(t, contents, script.Select(0).Text)
	assert.Contains(t, contents, script.Select(1).Text)
}

func TestDuplicateOpeningMessageIsNoOp(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, first := eng.SubmitUserMessage("hello there")
	require.NotNil(t, first)
	pending := fake.Pending()

	sid2, dup := eng.SubmitUserMessage("hello there")
	assert.Equal(t, sid, sid2)
	require.NotNil(t, dup)
	assert.Equal(t, first.ID, dup.ID)

	// No second append, no second run
	assert.Len(t, dir.Transcript(sid), 1)
	assert.Equal(t, pending, fake.Pending())
	assert.Len(t, dir.List(), 1)
}

func TestFollowUpMessageIsNotDeduplicated(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, _ := eng.SubmitUserMessage("hello there")
	fake.Advance(15 * time.Second)
	base := len(dir.Transcript(sid))

	// Same text again, but no longer the opening message
	_, msg := eng.SubmitUserMessage("hello there")
	require.NotNil(t, msg)
	assert.Len(t, dir.Transcript(sid), base+1)
	assert.True(t, eng.Snapshot().IsGenerating)
}

func TestSelectUnknownSessionIsNoOp(t *testing.T) {
	eng, _, _ := newTestEngine(t)

	sid, _ := eng.SubmitUserMessage("keep me selected")
	eng.SelectSession("00000000-0000-7000-8000-000000000000")
	assert.Equal(t, sid, eng.SelectedSession())
}

func TestRegenerateFromNewContextIsRejected(t *testing.T) {
	eng, _, _ := newTestEngine(t)
	assert.False(t, eng.RequestRegeneration())
}

func TestBlankSubmitIsIgnored(t *testing.T) {
	eng, fake, dir := newTestEngine(t)

	sid, msg := eng.SubmitUserMessage("   ")
	assert.Empty(t, sid)
	assert.Nil(t, msg)
	assert.Zero(t, fake.Pending())
	assert.Empty(t, dir.List())
}
