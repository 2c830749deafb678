package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/models"
)

func TestEditMessageOnlyBySender(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 2), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Once()

	_, err := f.svc.EditMessage(context.Background(), 1, 100, "changed")

	assert.ErrorIs(t, err, models.ErrNotAuthor)
	f.store.Messages.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestEditMessage(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 2), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Once()
	f.store.Messages.On("Update", mock.Anything, mock.MatchedBy(func(m models.Message) bool {
		return m.Content == "changed" && m.IsEdited
	})).Return(nil).Once()
	f.expectChannelEvent(5, []int{1, 2}, models.EventMessageEdited)

	msg, err := f.svc.EditMessage(context.Background(), 2, 100, "changed")

	require.NoError(t, err)
	assert.Equal(t, now, *msg.EditedAt)
	f.assert(t)
}

func TestEditMessageSameContentIsNoop(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 2), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Once()

	msg, err := f.svc.EditMessage(context.Background(), 2, 100, "hello")

	require.NoError(t, err)
	assert.False(t, msg.IsEdited)
	f.store.Messages.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestDeleteMessageByChannelAdmin(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 3), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).
		Return(channelWith(member(2, models.RoleAdmin), member(3, models.RoleMember)), nil).Once()
	f.store.Messages.On("Update", mock.Anything, mock.MatchedBy(func(m models.Message) bool { return m.IsDeleted })).Return(nil).Once()
	f.expectChannelEvent(5, []int{1, 2, 3}, models.EventMessageDeleted)

	require.NoError(t, f.svc.DeleteMessage(context.Background(), 2, 100))
	f.assert(t)
}

func TestDeleteMessageByPlainMemberIsForbidden(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 3), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).
		Return(channelWith(member(2, models.RoleMember), member(3, models.RoleMember)), nil).Once()

	err := f.svc.DeleteMessage(context.Background(), 2, 100)

	assert.ErrorIs(t, err, models.ErrNotAuthor)
	f.assert(t)
}

func TestDeleteMessageTwiceSucceeds(t *testing.T) {
	f := newFixture(t)
	msg := channelMessage(100, 2)
	msg.IsDeleted = true
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(msg, nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Once()

	require.NoError(t, f.svc.DeleteMessage(context.Background(), 2, 100))
	f.store.Messages.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestPinAlreadyPinnedMessage(t *testing.T) {
	f := newFixture(t)
	msg := directMessage(100, 1, 2)
	msg.IsPinned = true
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(msg, nil).Once()
	f.store.Conversations.On("Get", mock.Anything, 10).Return(directConversation(), nil).Once()

	_, err := f.svc.PinMessage(context.Background(), 2, 100)

	assert.ErrorIs(t, err, models.ErrConflict)
	f.assert(t)
}

func TestUnpinDeletedMessageIsRejected(t *testing.T) {
	f := newFixture(t)
	msg := directMessage(100, 1, 2)
	msg.Content = "retained content"
	msg.IsPinned = true
	msg.IsDeleted = true
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(msg, nil).Once()
	f.store.Conversations.On("Get", mock.Anything, 10).Return(directConversation(), nil).Once()

	got, err := f.svc.UnpinMessage(context.Background(), 2, 100)

	assert.ErrorIs(t, err, models.ErrMessageDeleted)
	assert.Empty(t, got.Content)
	f.store.Messages.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "NotifyUser", mock.Anything, mock.Anything, mock.Anything)
	f.assert(t)
}

func TestMarkDirectMessageReadByReceiver(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(directMessage(100, 1, 2), nil).Twice()
	f.store.Conversations.On("Get", mock.Anything, 10).Return(directConversation(), nil).Twice()
	f.store.Messages.On("Update", mock.Anything, mock.MatchedBy(func(m models.Message) bool { return m.IsRead })).Return(nil).Once()
	f.expectUserEvent(1, models.EventMessageRead)
	f.expectUserEvent(2, models.EventMessageRead)

	_, err := f.svc.MarkMessageRead(context.Background(), 1, 100)
	assert.ErrorIs(t, err, models.ErrForbidden, "the sender cannot mark their own message")

	changed, err := f.svc.MarkMessageRead(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.True(t, changed)
	f.assert(t)
}

func TestMarkChannelMessageReadAddsReceipt(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 1), nil).Twice()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Twice()
	f.store.Receipts.On("Add", mock.Anything, models.ReadReceipt{MessageID: 100, UserID: 2, ReadAt: now}).Return(true, nil).Once()
	f.expectUserEvent(2, models.EventMessageRead)

	changed, err := f.svc.MarkMessageRead(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = f.svc.MarkMessageRead(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.False(t, changed, "own message is a no-op")
	f.assert(t)
}

func TestListMessagesHidesDeleted(t *testing.T) {
	f := newFixture(t)
	deleted := channelMessage(101, 1)
	deleted.IsDeleted = true
	page := models.Page{Limit: 20}
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(2, models.RoleMember)), nil).Once()
	f.store.Messages.On("List", mock.Anything, models.ChannelScope(5), page).
		Return([]models.Message{channelMessage(100, 1), deleted}, nil).Once()

	msgs, err := f.svc.ListMessages(context.Background(), 2, models.ChannelScope(5), page)

	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 100, msgs[0].ID)
	f.assert(t)
}

func TestListMessagesRejectsUnknownScope(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListMessages(context.Background(), 2, models.Scope{Kind: "group", ID: 5}, models.Page{})

	assert.ErrorIs(t, err, models.ErrValidation)
}
