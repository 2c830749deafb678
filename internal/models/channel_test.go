package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ownerCount(ch Channel) int {
	n := 0
	for _, m := range ch.Members {
		if m.Role == RoleOwner {
			n++
		}
	}
	return n
}

func TestNewChannelCreatorIsOwner(t *testing.T) {
	ch, err := NewChannel(1, "  general ", "", "", now)
	require.NoError(t, err)

	assert.Equal(t, "general", ch.Name)
	assert.Equal(t, ChannelPublic, ch.Type)
	want := []Member{{UserID: 1, Role: RoleOwner, JoinedAt: now}}
	if diff := cmp.Diff(want, ch.Members); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}
}

func TestNewChannelValidation(t *testing.T) {
	_, err := NewChannel(1, "   ", "", ChannelPublic, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewChannel(1, "x", "", "secret", now)
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]rune, MaxChannelNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = NewChannel(1, string(long), "", ChannelPublic, now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestChannelAddMember(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)

	m, err := ch.AddMember(2, "", now)
	require.NoError(t, err)
	assert.Equal(t, RoleMember, m.Role)

	_, err = ch.AddMember(2, RoleMember, now)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = ch.AddMember(3, RoleOwner, now)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 1, ownerCount(ch))
}

func TestPrivateChannelOnlyAcceptsAdmins(t *testing.T) {
	ch, _ := NewChannel(1, "secret", "", ChannelPrivate, now)

	_, err := ch.AddMember(2, RoleMember, now)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = ch.AddMember(2, RoleAdmin, now)
	assert.NoError(t, err)

	_, err = ch.Join(3, now)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestArchivedChannelRejectsMembers(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	require.NoError(t, ch.Archive(now))

	_, err := ch.AddMember(2, RoleMember, now)
	assert.ErrorIs(t, err, ErrChannelArchived)
	assert.ErrorIs(t, ch.Archive(now), ErrConflict)
}

func TestTransferOwnershipKeepsSingleOwner(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	_, _ = ch.AddMember(2, RoleMember, now)

	require.NoError(t, ch.TransferOwnership(1, 2))

	owner, ok := ch.Owner()
	require.True(t, ok)
	assert.Equal(t, 2, owner.UserID)
	prev, _ := ch.Member(1)
	assert.Equal(t, RoleAdmin, prev.Role)
	assert.Equal(t, 1, ownerCount(ch))
}

func TestTransferOwnershipErrors(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	_, _ = ch.AddMember(2, RoleAdmin, now)

	assert.ErrorIs(t, ch.TransferOwnership(2, 1), ErrForbidden)
	assert.ErrorIs(t, ch.TransferOwnership(1, 1), ErrInvalidState)
	assert.ErrorIs(t, ch.TransferOwnership(1, 9), ErrNotFound)
	assert.ErrorIs(t, ch.TransferOwnership(9, 2), ErrNotParticipant)
	assert.Equal(t, 1, ownerCount(ch))
}

func TestOwnerCannotLeaveOrBeRemoved(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	_, _ = ch.AddMember(2, RoleMember, now)

	assert.ErrorIs(t, ch.Leave(1), ErrInvalidState)
	assert.ErrorIs(t, ch.RemoveMember(1), ErrInvalidState)
	assert.NoError(t, ch.Leave(2))
	assert.Equal(t, []int{1}, ch.MemberIDs())
	assert.ErrorIs(t, ch.Leave(2), ErrNotParticipant)
}

func TestUpdateMemberRole(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	_, _ = ch.AddMember(2, RoleMember, now)

	changed, err := ch.UpdateMemberRole(2, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = ch.UpdateMemberRole(2, RoleAdmin)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = ch.UpdateMemberRole(2, RoleOwner)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = ch.UpdateMemberRole(1, RoleMember)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = ch.UpdateMemberRole(2, "boss")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRequireRole(t *testing.T) {
	ch, _ := NewChannel(1, "general", "", ChannelPublic, now)
	_, _ = ch.AddMember(2, RoleMember, now)
	_, _ = ch.AddMember(3, RoleAdmin, now)

	_, err := ch.RequireRole(2, RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = ch.RequireRole(3, RoleAdmin)
	assert.NoError(t, err)
	_, err = ch.RequireRole(1, RoleAdmin)
	assert.NoError(t, err)
	_, err = ch.RequireRole(4, RoleMember)
	assert.True(t, errors.Is(err, ErrNotParticipant))
}
