package store

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-ai/styling-assistant/internal/model"
)

func TestCreateSessionDerivesTitle(t *testing.T) {
	d := NewDirectory()

	sess := d.CreateSession("style me for brunch")
	assert.Equal(t, "style me for brunch", sess.Title)
	require.Len(t, sess.Messages, 1)
	assert.Equal(t, model.RoleUser, sess.Messages[0].Role)
	assert.Equal(t, sess.ID, sess.Messages[0].SessionID)
	assert.False(t, sess.CreatedAt.IsZero())
}

func TestDeriveTitleTruncates(t *testing.T) {
	long := strings.Repeat("a", 60)
	title := DeriveTitle(long)
	assert.Equal(t, strings.Repeat("a", 50)+"…", title)

	// Runes, not bytes
	unicode := strings.Repeat("é", 55)
	assert.Equal(t, strings.Repeat("é", 50)+"…", DeriveTitle(unicode))

	assert.Equal(t, "short", DeriveTitle("short"))
	assert.Equal(t, strings.Repeat("a", 50), DeriveTitle(strings.Repeat("a", 50)))
}

func TestAppendToUnknownSessionIsNoOp(t *testing.T) {
	d := NewDirectory()

	msg := d.Append("nope", model.RoleAssistant, model.KindText, "hello", nil)
	assert.Nil(t, msg)
	assert.Empty(t, d.List())
}

func TestMessageIDsAreMonotonic(t *testing.T) {
	d := NewDirectory()
	sess := d.CreateSession("ordering")

	prev := sess.Messages[0].ID
	for i := 0; i < 20; i++ {
		msg := d.Append(sess.ID, model.RoleAssistant, model.KindText, "reply", nil)
		require.NotNil(t, msg)
		assert.Greater(t, msg.ID, prev)
		prev = msg.ID
	}
}

func TestRenameRejectsBlankTitles(t *testing.T) {
	d := NewDirectory()
	sess := d.CreateSession("original title")

	d.Rename(sess.ID, "   ")
	got, ok := d.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, "original title", got.Title)

	d.Rename(sess.ID, "Brunch ideas")
	got, _ = d.Get(sess.ID)
	assert.Equal(t, "Brunch ideas", got.Title)

	// Unknown session: nothing to do
	d.Rename("nope", "whatever")
}

func TestDeleteSession(t *testing.T) {
	d := NewDirectory()
	sess := d.CreateSession("to delete")

	assert.True(t, d.Delete(sess.ID))
	assert.False(t, d.Exists(sess.ID))
	assert.False(t, d.Delete(sess.ID))
	assert.Nil(t, d.Transcript(sess.ID))
}

func TestListOrdersByUpdatedAt(t *testing.T) {
	d := NewDirectory()

	first := d.CreateSession("first")
	time.Sleep(2 * time.Millisecond)
	second := d.CreateSession("second")
	time.Sleep(2 * time.Millisecond)
	third := d.CreateSession("third")

	// Most recently created first
	list := d.List()
	require.Len(t, list, 3)
	assert.Equal(t, third.ID, list[0].ID)

	// Touching the oldest bumps it to the front
	time.Sleep(2 * time.Millisecond)
	d.Append(first.ID, model.RoleUser, model.KindText, "again", nil)
	list = d.List()
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, third.ID, list[1].ID)
	assert.Equal(t, second.ID, list[2].ID)
	assert.Equal(t, 2, list[0].MessageCount)
}

func TestTranscriptReturnsCopies(t *testing.T) {
	d := NewDirectory()
	sess := d.CreateSession("isolation")

	transcript := d.Transcript(sess.ID)
	require.Len(t, transcript, 1)
	transcript[0].Content = "mutated"

	fresh := d.Transcript(sess.ID)
	assert.Equal(t, "isolation", fresh[0].Content)
}
