package models

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewDirectMessage(10, 2, MessageDraft{SenderID: 1, Content: "hi"}, now)
	require.NoError(t, err)
	msg.ID = 100
	return msg
}

func TestNewMessageValidation(t *testing.T) {
	_, err := NewDirectMessage(10, 2, MessageDraft{SenderID: 1, Content: "  "}, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewChannelMessage(5, MessageDraft{SenderID: 1, Content: strings.Repeat("x", MaxContentLength+1)}, now)
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := NewChannelMessage(5, MessageDraft{SenderID: 1, FileURL: "https://files/1.png"}, now)
	require.NoError(t, err)
	assert.Equal(t, ChannelScope(5), msg.Scope())
	assert.False(t, msg.IsDirect())
}

func TestMessageEdit(t *testing.T) {
	msg := directMessage(t)

	changed, err := msg.Edit("hi", now)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.False(t, msg.IsEdited)
	assert.Nil(t, msg.EditedAt)

	later := now.Add(time.Minute)
	changed, err = msg.Edit("hello", later)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, msg.IsEdited)
	assert.Equal(t, later, *msg.EditedAt)

	_, err = msg.Edit(" ", later)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeletedMessageIsImmutable(t *testing.T) {
	msg := directMessage(t)

	assert.True(t, msg.Delete(now))
	assert.False(t, msg.Delete(now.Add(time.Second)))
	assert.Equal(t, now, *msg.DeletedAt)

	_, err := msg.Edit("again", now)
	assert.ErrorIs(t, err, ErrMessageDeleted)
	assert.ErrorIs(t, msg.Pin(1, now), ErrInvalidState)
}

func TestUnpinDeletedMessage(t *testing.T) {
	msg := directMessage(t)
	require.NoError(t, msg.Pin(2, now))
	msg.Delete(now)

	assert.ErrorIs(t, msg.Unpin(), ErrMessageDeleted)
	assert.True(t, msg.IsPinned)
}

func TestMessagePin(t *testing.T) {
	msg := directMessage(t)

	require.NoError(t, msg.Pin(2, now))
	assert.Equal(t, 2, *msg.PinnedBy)
	assert.ErrorIs(t, msg.Pin(2, now), ErrConflict)

	require.NoError(t, msg.Unpin())
	assert.Nil(t, msg.PinnedBy)
	assert.ErrorIs(t, msg.Unpin(), ErrConflict)
}

func TestVisibleMessages(t *testing.T) {
	a, b, c := directMessage(t), directMessage(t), directMessage(t)
	a.ID, b.ID, c.ID = 1, 2, 3
	b.Delete(now)

	got := VisibleMessages([]Message{a, b, c})
	if diff := cmp.Diff([]Message{a, c}, got); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkAsRead(t *testing.T) {
	msg := directMessage(t)
	assert.True(t, msg.MarkAsRead())
	assert.False(t, msg.MarkAsRead())
}
