package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
	"messaging-service/internal/services"
)

// ServiceMock stands in for services.Service behind the HTTP handlers.
type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) GetOrCreateConversation(ctx context.Context, userID, otherID int) (models.ConversationSummary, bool, error) {
	args := m.Called(ctx, userID, otherID)
	return get[models.ConversationSummary](args, 0), args.Bool(1), args.Error(2)
}

func (m *ServiceMock) ListConversations(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	return get[[]models.ConversationSummary](args, 0), args.Error(1)
}

func (m *ServiceMock) GetConversation(ctx context.Context, userID, conversationID int) (models.ConversationSummary, error) {
	args := m.Called(ctx, userID, conversationID)
	return get[models.ConversationSummary](args, 0), args.Error(1)
}

func (m *ServiceMock) SendDirectMessage(ctx context.Context, senderID, conversationID int, draft models.MessageDraft) (models.Message, error) {
	args := m.Called(ctx, senderID, conversationID, draft)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) ListMessages(ctx context.Context, userID int, scope models.Scope, page models.Page) ([]models.Message, error) {
	args := m.Called(ctx, userID, scope, page)
	return get[[]models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) MarkAllAsRead(ctx context.Context, userID, conversationID int) (services.ReadResult, error) {
	args := m.Called(ctx, userID, conversationID)
	return get[services.ReadResult](args, 0), args.Error(1)
}

func (m *ServiceMock) ConversationUnread(ctx context.Context, userID, conversationID int) (int, error) {
	args := m.Called(ctx, userID, conversationID)
	return args.Int(0), args.Error(1)
}

func (m *ServiceMock) CreateChannel(ctx context.Context, creatorID int, in services.ChannelInput) (models.Channel, error) {
	args := m.Called(ctx, creatorID, in)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) ListChannels(ctx context.Context, userID int) ([]models.Channel, error) {
	args := m.Called(ctx, userID)
	return get[[]models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) GetChannel(ctx context.Context, userID, channelID int) (models.Channel, error) {
	args := m.Called(ctx, userID, channelID)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) UpdateChannel(ctx context.Context, actorID, channelID int, name, description string) (models.Channel, error) {
	args := m.Called(ctx, actorID, channelID, name, description)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) ArchiveChannel(ctx context.Context, actorID, channelID int) (models.Channel, error) {
	args := m.Called(ctx, actorID, channelID)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) JoinChannel(ctx context.Context, userID, channelID int) (models.Channel, error) {
	args := m.Called(ctx, userID, channelID)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) LeaveChannel(ctx context.Context, userID, channelID int) error {
	args := m.Called(ctx, userID, channelID)
	return args.Error(0)
}

func (m *ServiceMock) AddMember(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error) {
	args := m.Called(ctx, actorID, channelID, targetID, role)
	return get[models.Member](args, 0), args.Error(1)
}

func (m *ServiceMock) RemoveMember(ctx context.Context, actorID, channelID, targetID int) error {
	args := m.Called(ctx, actorID, channelID, targetID)
	return args.Error(0)
}

func (m *ServiceMock) UpdateMemberRole(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error) {
	args := m.Called(ctx, actorID, channelID, targetID, role)
	return get[models.Member](args, 0), args.Error(1)
}

func (m *ServiceMock) TransferOwnership(ctx context.Context, actorID, channelID, newOwnerID int) (models.Channel, error) {
	args := m.Called(ctx, actorID, channelID, newOwnerID)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ServiceMock) SendChannelMessage(ctx context.Context, senderID, channelID int, draft models.MessageDraft) (models.Message, error) {
	args := m.Called(ctx, senderID, channelID, draft)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) MarkChannelAsRead(ctx context.Context, userID, channelID int) (int64, error) {
	args := m.Called(ctx, userID, channelID)
	return get[int64](args, 0), args.Error(1)
}

func (m *ServiceMock) ChannelUnread(ctx context.Context, userID, channelID int) (int, error) {
	args := m.Called(ctx, userID, channelID)
	return args.Int(0), args.Error(1)
}

func (m *ServiceMock) EditMessage(ctx context.Context, userID, messageID int, content string) (models.Message, error) {
	args := m.Called(ctx, userID, messageID, content)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) DeleteMessage(ctx context.Context, userID, messageID int) error {
	args := m.Called(ctx, userID, messageID)
	return args.Error(0)
}

func (m *ServiceMock) PinMessage(ctx context.Context, userID, messageID int) (models.Message, error) {
	args := m.Called(ctx, userID, messageID)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) UnpinMessage(ctx context.Context, userID, messageID int) (models.Message, error) {
	args := m.Called(ctx, userID, messageID)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) ToggleReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	return get[models.ReactionChange](args, 0), args.Error(1)
}

func (m *ServiceMock) AddReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	return get[models.ReactionChange](args, 0), args.Error(1)
}

func (m *ServiceMock) RemoveReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	args := m.Called(ctx, userID, messageID, emoji)
	return get[models.ReactionChange](args, 0), args.Error(1)
}

func (m *ServiceMock) ListReactions(ctx context.Context, userID, messageID int) ([]models.Reaction, error) {
	args := m.Called(ctx, userID, messageID)
	return get[[]models.Reaction](args, 0), args.Error(1)
}

func (m *ServiceMock) ToggleFavorite(ctx context.Context, userID, messageID int) (models.FavoriteChange, error) {
	args := m.Called(ctx, userID, messageID)
	return get[models.FavoriteChange](args, 0), args.Error(1)
}

func (m *ServiceMock) ListFavorites(ctx context.Context, userID int, page models.Page) ([]models.Message, error) {
	args := m.Called(ctx, userID, page)
	return get[[]models.Message](args, 0), args.Error(1)
}

func (m *ServiceMock) ToggleMessageAsLater(ctx context.Context, userID, messageID int) (models.ReadLaterState, error) {
	args := m.Called(ctx, userID, messageID)
	return get[models.ReadLaterState](args, 0), args.Error(1)
}

func (m *ServiceMock) MarkMessageRead(ctx context.Context, userID, messageID int) (bool, error) {
	args := m.Called(ctx, userID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *ServiceMock) TogglePin(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error) {
	args := m.Called(ctx, userID, scope)
	return get[models.Preferences](args, 0), args.Error(1)
}

func (m *ServiceMock) ToggleMute(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error) {
	args := m.Called(ctx, userID, scope)
	return get[models.Preferences](args, 0), args.Error(1)
}

func (m *ServiceMock) SetHidden(ctx context.Context, userID int, scope models.Scope, hidden bool) (models.Preferences, error) {
	args := m.Called(ctx, userID, scope, hidden)
	return get[models.Preferences](args, 0), args.Error(1)
}

func (m *ServiceMock) MarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	args := m.Called(ctx, userID, scope)
	return get[models.ReadLaterState](args, 0), args.Error(1)
}

func (m *ServiceMock) UnmarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	args := m.Called(ctx, userID, scope)
	return get[models.ReadLaterState](args, 0), args.Error(1)
}

func (m *ServiceMock) UnmarkOnOpen(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	args := m.Called(ctx, userID, scope)
	return get[models.ReadLaterState](args, 0), args.Error(1)
}

func (m *ServiceMock) ListPinnedMessages(ctx context.Context, userID int, scope models.Scope) ([]models.Message, error) {
	args := m.Called(ctx, userID, scope)
	return get[[]models.Message](args, 0), args.Error(1)
}
