// Package store provides the in-memory session directory and message
// store. History lives for the lifetime of the process; a persistence
// boundary would slot in behind the same interface.
package store

import (
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/atelier-ai/styling-assistant/internal/model"
)

// maxTitleRunes is how much of the first user message becomes the
// session title before truncation.
const maxTitleRunes = 50

// Directory owns all sessions and their transcripts. Appends against
// unknown session IDs are silent no-ops: a commit can legitimately
// target a session that was deleted while it was in flight.
type Directory struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	entropy  *ulid.MonotonicEntropy
}

// NewDirectory creates an empty session directory.
func NewDirectory() *Directory {
	return &Directory{
		sessions: make(map[string]*model.Session),
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// nextMessageID allocates a ULID under the directory lock, so message
// IDs are strictly increasing in insertion order.
func (d *Directory) nextMessageID(now time.Time) string {
	return ulid.MustNew(ulid.Timestamp(now), d.entropy).String()
}

// DeriveTitle produces a session title from its first message: the
// first 50 runes, with an ellipsis when truncated.
func DeriveTitle(firstMessage string) string {
	title := strings.TrimSpace(firstMessage)
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes]) + "…"
	}
	return title
}

// CreateSession allocates a new session titled after firstMessage and
// appends that message as the opening user turn.
func (d *Directory) CreateSession(firstMessage string) *model.Session {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	sess := &model.Session{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Title:     DeriveTitle(firstMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.Messages = append(sess.Messages, model.Message{
		ID:        d.nextMessageID(now),
		SessionID: sess.ID,
		Role:      model.RoleUser,
		Kind:      model.KindText,
		Content:   firstMessage,
		CreatedAt: now,
	})
	d.sessions[sess.ID] = sess

	return copySession(sess)
}

// Append adds a message to a session's transcript and returns the
// stored copy. Returns nil without error if the session no longer
// exists; callers treat that as an overtaken race, not a fault.
func (d *Directory) Append(sessionID string, role model.Role, kind model.MessageKind, content string, outfits []model.Outfit) *model.Message {
	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[sessionID]
	if !ok {
		return nil
	}

	now := time.Now()
	msg := model.Message{
		ID:        d.nextMessageID(now),
		SessionID: sessionID,
		Role:      role,
		Kind:      kind,
		Content:   content,
		Outfits:   outfits,
		CreatedAt: now,
	}
	sess.Messages = append(sess.Messages, msg)
	sess.UpdatedAt = now

	return &msg
}

// Get returns a copy of a session.
func (d *Directory) Get(sessionID string) (*model.Session, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sess, ok := d.sessions[sessionID]
	if !ok {
		return nil, false
	}
	return copySession(sess), true
}

// Exists reports whether a session is present.
func (d *Directory) Exists(sessionID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.sessions[sessionID]
	return ok
}

// Transcript returns a copy of a session's ordered messages. Unknown
// sessions yield an empty transcript.
func (d *Directory) Transcript(sessionID string) []model.Message {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sess, ok := d.sessions[sessionID]
	if !ok {
		return nil
	}
	msgs := make([]model.Message, len(sess.Messages))
	copy(msgs, sess.Messages)
	return msgs
}

// Rename sets a session's title. Blank or whitespace-only titles are
// rejected as a no-op, leaving the prior title.
func (d *Directory) Rename(sessionID, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	sess, ok := d.sessions[sessionID]
	if !ok {
		return
	}
	sess.Title = title
	sess.UpdatedAt = time.Now()
}

// Delete removes a session and its transcript. Reports whether a
// session was actually removed.
func (d *Directory) Delete(sessionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.sessions[sessionID]; !ok {
		return false
	}
	delete(d.sessions, sessionID)
	return true
}

// List returns session summaries ordered most-recently-updated first,
// ties broken by creation time descending.
func (d *Directory) List() []model.SessionSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	summaries := make([]model.SessionSummary, 0, len(d.sessions))
	for _, sess := range d.sessions {
		summaries = append(summaries, model.SessionSummary{
			ID:           sess.ID,
			Title:        sess.Title,
			MessageCount: len(sess.Messages),
			CreatedAt:    sess.CreatedAt,
			UpdatedAt:    sess.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

func copySession(sess *model.Session) *model.Session {
	cp := *sess
	cp.Messages = make([]model.Message, len(sess.Messages))
	copy(cp.Messages, sess.Messages)
	return &cp
}
