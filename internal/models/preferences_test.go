package models

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPreferenceToggles(t *testing.T) {
	var p Preferences

	assert.True(t, p.TogglePin())
	assert.False(t, p.TogglePin())
	assert.True(t, p.ToggleMute())
	assert.True(t, p.SetHidden(true))
	assert.False(t, p.SetHidden(true))
}

func TestReadLaterValuesAreIndependent(t *testing.T) {
	var p Preferences

	assert.True(t, p.ToggleMessageAsLater(5))
	assert.True(t, p.MarkReadLater())
	assert.False(t, p.MarkReadLater())

	assert.True(t, p.UnmarkReadLater())
	assert.Equal(t, 5, *p.LastReadLaterMessageID, "scope flag does not touch the message mark")

	assert.True(t, p.ToggleMessageAsLater(6), "moves to another message")
	assert.Equal(t, 6, *p.LastReadLaterMessageID)
	assert.False(t, p.ToggleMessageAsLater(6), "same message clears")
	assert.Nil(t, p.LastReadLaterMessageID)
}

func TestClearReadLater(t *testing.T) {
	id := 3
	p := Preferences{MarkedReadLater: true, LastReadLaterMessageID: &id, Pinned: true}

	assert.True(t, p.ClearReadLater())
	assert.False(t, p.ClearReadLater())

	scope := ConversationScope(1)
	want := ReadLaterState{Scope: scope}
	if diff := cmp.Diff(want, ReadLaterStateOf(scope, p)); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, p.Pinned)
}

func TestScopeValidate(t *testing.T) {
	assert.NoError(t, ChannelScope(1).Validate())
	assert.ErrorIs(t, Scope{Kind: "group", ID: 1}.Validate(), ErrValidation)
	assert.ErrorIs(t, ConversationScope(0).Validate(), ErrValidation)
	assert.Equal(t, "channel:4", ChannelScope(4).String())
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Page{}.Normalize().Limit)
	assert.Equal(t, MaxPageSize, Page{Limit: 500}.Normalize().Limit)
	assert.Equal(t, 20, Page{Limit: 20}.Normalize().Limit)
}

func TestErrorMatching(t *testing.T) {
	err := Forbiddenf("nope")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotParticipant)
	assert.ErrorIs(t, ErrNotParticipant, ErrForbidden)
	assert.Equal(t, KindForbidden, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(assert.AnError))
}
