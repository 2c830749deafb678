package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"messaging-service/internal/models"
)

func (f *fixture) expectChannelMessage(msg models.Message) {
	f.store.Messages.On("GetForUpdate", mock.Anything, msg.ID).Return(msg, nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).
		Return(channelWith(member(2, models.RoleMember), member(3, models.RoleMember)), nil).Once()
}

func TestToggleReactionReplaces(t *testing.T) {
	f := newFixture(t)
	f.expectChannelMessage(channelMessage(100, 3))
	f.store.Reactions.On("FindByUser", mock.Anything, 100, 2).
		Return(&models.Reaction{ID: 9, MessageID: 100, UserID: 2, Emoji: "👍"}, nil).Once()
	f.store.Reactions.On("Remove", mock.Anything, 9).Return(nil).Once()
	f.store.Reactions.On("Add", mock.Anything, mock.MatchedBy(func(r *models.Reaction) bool {
		return r.Emoji == "🎉" && r.UserID == 2 && r.MessageID == 100
	})).Return(nil).Once()
	f.expectChannelEvent(5, []int{1, 2, 3}, models.EventReactionReplaced)

	change, err := f.svc.ToggleReaction(context.Background(), 2, 100, "🎉")

	require.NoError(t, err)
	assert.True(t, change.Replaced())
	assert.Equal(t, 9, change.Remove.ID)
	f.assert(t)
}

func TestToggleReactionSameEmojiRemoves(t *testing.T) {
	f := newFixture(t)
	f.expectChannelMessage(channelMessage(100, 3))
	f.store.Reactions.On("FindByUser", mock.Anything, 100, 2).
		Return(&models.Reaction{ID: 9, MessageID: 100, UserID: 2, Emoji: "👍"}, nil).Once()
	f.store.Reactions.On("Remove", mock.Anything, 9).Return(nil).Once()
	f.expectChannelEvent(5, []int{1, 2, 3}, models.EventReactionRemoved)

	change, err := f.svc.ToggleReaction(context.Background(), 2, 100, "👍")

	require.NoError(t, err)
	assert.True(t, change.Removed())
	f.store.Reactions.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	f.assert(t)
}

func TestToggleReactionOnDeletedMessage(t *testing.T) {
	f := newFixture(t)
	msg := channelMessage(100, 3)
	msg.IsDeleted = true
	f.expectChannelMessage(msg)
	f.store.Reactions.On("FindByUser", mock.Anything, 100, 2).Return(nil, nil).Once()

	_, err := f.svc.ToggleReaction(context.Background(), 2, 100, "👍")

	assert.ErrorIs(t, err, models.ErrInvalidState)
	f.store.Reactions.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	assert.Equal(t, 1, f.store.Rollbacks)
	assert.Zero(t, f.store.Commits)
	f.assert(t)
}

func TestAddReactionWhenAlreadyReacted(t *testing.T) {
	f := newFixture(t)
	f.expectChannelMessage(channelMessage(100, 3))
	f.store.Reactions.On("FindByUser", mock.Anything, 100, 2).
		Return(&models.Reaction{ID: 9, MessageID: 100, UserID: 2, Emoji: "👍"}, nil).Once()

	_, err := f.svc.AddReaction(context.Background(), 2, 100, "🎉")

	assert.ErrorIs(t, err, models.ErrConflict)
	f.assert(t)
}

func TestReactionByOutsider(t *testing.T) {
	f := newFixture(t)
	f.store.Messages.On("GetForUpdate", mock.Anything, 100).Return(channelMessage(100, 3), nil).Once()
	f.store.Channels.On("Get", mock.Anything, 5).Return(channelWith(member(3, models.RoleMember)), nil).Once()

	_, err := f.svc.ToggleReaction(context.Background(), 2, 100, "👍")

	assert.ErrorIs(t, err, models.ErrNotParticipant)
	f.assert(t)
}

func TestListReactionsOfDeletedMessage(t *testing.T) {
	f := newFixture(t)
	msg := channelMessage(100, 3)
	msg.IsDeleted = true
	f.store.Messages.On("Get", mock.Anything, 100).Return(msg, nil).Once()

	_, err := f.svc.ListReactions(context.Background(), 2, 100)

	assert.ErrorIs(t, err, models.ErrNotFound)
	f.assert(t)
}

func TestToggleFavorite(t *testing.T) {
	f := newFixture(t)
	f.expectChannelMessage(channelMessage(100, 3))
	f.store.Favorites.On("Exists", mock.Anything, 2, 100).Return(false, nil).Once()
	f.store.Favorites.On("Add", mock.Anything, models.Favorite{UserID: 2, MessageID: 100, CreatedAt: now}).Return(nil).Once()
	f.expectUserEvent(2, models.EventFavoriteAdded)

	change, err := f.svc.ToggleFavorite(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.True(t, change.Added)

	f.expectChannelMessage(channelMessage(100, 3))
	f.store.Favorites.On("Exists", mock.Anything, 2, 100).Return(true, nil).Once()
	f.store.Favorites.On("Remove", mock.Anything, 2, 100).Return(nil).Once()
	f.expectUserEvent(2, models.EventFavoriteRemoved)

	change, err = f.svc.ToggleFavorite(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.True(t, change.Removed)
	f.assert(t)
}

func TestToggleMessageAsLaterClearsOnDeletedMessage(t *testing.T) {
	f := newFixture(t)
	msg := channelMessage(100, 3)
	msg.IsDeleted = true
	marked := 100
	scope := models.ChannelScope(5)
	f.expectChannelMessage(msg)
	f.store.Preferences.On("Get", mock.Anything, scope, 2).Return(models.Preferences{LastReadLaterMessageID: &marked}, nil).Once()
	f.store.Preferences.On("Save", mock.Anything, scope, 2, models.Preferences{}).Return(nil).Once()
	f.expectUserEvent(2, models.EventReadLaterChanged)

	state, err := f.svc.ToggleMessageAsLater(context.Background(), 2, 100)

	require.NoError(t, err)
	assert.Nil(t, state.MessageID)
	f.assert(t)
}

func TestToggleMessageAsLaterRefusesToMarkDeletedMessage(t *testing.T) {
	f := newFixture(t)
	msg := channelMessage(100, 3)
	msg.IsDeleted = true
	scope := models.ChannelScope(5)
	f.expectChannelMessage(msg)
	f.store.Preferences.On("Get", mock.Anything, scope, 2).Return(models.Preferences{}, nil).Once()

	_, err := f.svc.ToggleMessageAsLater(context.Background(), 2, 100)

	assert.ErrorIs(t, err, models.ErrMessageDeleted)
	f.assert(t)
}
