package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"messaging-service/internal/models"
	"messaging-service/internal/repositories"
)

var (
	_ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
	_ repositories.ChannelRepository      = (*ChannelRepositoryMock)(nil)
	_ repositories.MessageRepository      = (*MessageRepositoryMock)(nil)
	_ repositories.PreferenceRepository   = (*PreferenceRepositoryMock)(nil)
	_ repositories.ReactionRepository     = (*ReactionRepositoryMock)(nil)
	_ repositories.FavoriteRepository     = (*FavoriteRepositoryMock)(nil)
	_ repositories.ReadReceiptRepository  = (*ReadReceiptRepositoryMock)(nil)
)

// get returns the i-th return value as T, or T's zero value when unset.
func get[T any](args mock.Arguments, i int) T {
	v, _ := args.Get(i).(T)
	return v
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) Get(ctx context.Context, id int) (models.Conversation, error) {
	args := m.Called(ctx, id)
	return get[models.Conversation](args, 0), args.Error(1)
}

func (m *ConversationRepositoryMock) GetForUpdate(ctx context.Context, id int) (models.Conversation, error) {
	args := m.Called(ctx, id)
	return get[models.Conversation](args, 0), args.Error(1)
}

func (m *ConversationRepositoryMock) GetByPair(ctx context.Context, userA, userB int) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	return get[models.Conversation](args, 0), args.Error(1)
}

// Create assigns the id given as the second return value, if any.
func (m *ConversationRepositoryMock) Create(ctx context.Context, conv *models.Conversation) error {
	args := m.Called(ctx, conv)
	if len(args) > 1 {
		conv.ID = args.Int(1)
	}
	return args.Error(0)
}

func (m *ConversationRepositoryMock) Update(ctx context.Context, conv models.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *ConversationRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	args := m.Called(ctx, userID)
	return get[[]models.ConversationSummary](args, 0), args.Error(1)
}

type ChannelRepositoryMock struct {
	mock.Mock
}

// Create assigns the id given as the second return value, if any.
func (m *ChannelRepositoryMock) Create(ctx context.Context, ch *models.Channel) error {
	args := m.Called(ctx, ch)
	if len(args) > 1 {
		ch.ID = args.Int(1)
	}
	return args.Error(0)
}

func (m *ChannelRepositoryMock) Get(ctx context.Context, id int) (models.Channel, error) {
	args := m.Called(ctx, id)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ChannelRepositoryMock) GetForUpdate(ctx context.Context, id int) (models.Channel, error) {
	args := m.Called(ctx, id)
	return get[models.Channel](args, 0), args.Error(1)
}

func (m *ChannelRepositoryMock) Update(ctx context.Context, ch models.Channel) error {
	args := m.Called(ctx, ch)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) ListForUser(ctx context.Context, userID int) ([]models.Channel, error) {
	args := m.Called(ctx, userID)
	return get[[]models.Channel](args, 0), args.Error(1)
}

func (m *ChannelRepositoryMock) AddMember(ctx context.Context, channelID int, member models.Member) error {
	args := m.Called(ctx, channelID, member)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) RemoveMember(ctx context.Context, channelID, userID int) error {
	args := m.Called(ctx, channelID, userID)
	return args.Error(0)
}

func (m *ChannelRepositoryMock) UpdateMemberRole(ctx context.Context, channelID, userID int, role models.Role) error {
	args := m.Called(ctx, channelID, userID, role)
	return args.Error(0)
}

type MessageRepositoryMock struct {
	mock.Mock
}

// Create assigns the id given as the second return value, if any.
func (m *MessageRepositoryMock) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if len(args) > 1 {
		msg.ID = args.Int(1)
	}
	return args.Error(0)
}

func (m *MessageRepositoryMock) Get(ctx context.Context, id int) (models.Message, error) {
	args := m.Called(ctx, id)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *MessageRepositoryMock) GetForUpdate(ctx context.Context, id int) (models.Message, error) {
	args := m.Called(ctx, id)
	return get[models.Message](args, 0), args.Error(1)
}

func (m *MessageRepositoryMock) Update(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MessageRepositoryMock) List(ctx context.Context, scope models.Scope, page models.Page) ([]models.Message, error) {
	args := m.Called(ctx, scope, page)
	return get[[]models.Message](args, 0), args.Error(1)
}

func (m *MessageRepositoryMock) ListPinned(ctx context.Context, scope models.Scope) ([]models.Message, error) {
	args := m.Called(ctx, scope)
	return get[[]models.Message](args, 0), args.Error(1)
}

func (m *MessageRepositoryMock) MarkAllDirectRead(ctx context.Context, conversationID, userID int) (int64, error) {
	args := m.Called(ctx, conversationID, userID)
	return get[int64](args, 0), args.Error(1)
}

func (m *MessageRepositoryMock) CountUnreadDirect(ctx context.Context, conversationID, userID int) (int, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Int(0), args.Error(1)
}

type PreferenceRepositoryMock struct {
	mock.Mock
}

func (m *PreferenceRepositoryMock) Get(ctx context.Context, scope models.Scope, userID int) (models.Preferences, error) {
	args := m.Called(ctx, scope, userID)
	return get[models.Preferences](args, 0), args.Error(1)
}

func (m *PreferenceRepositoryMock) Save(ctx context.Context, scope models.Scope, userID int, prefs models.Preferences) error {
	args := m.Called(ctx, scope, userID, prefs)
	return args.Error(0)
}

func (m *PreferenceRepositoryMock) Unhide(ctx context.Context, scope models.Scope, userIDs []int) (int64, error) {
	args := m.Called(ctx, scope, userIDs)
	return get[int64](args, 0), args.Error(1)
}

type ReactionRepositoryMock struct {
	mock.Mock
}

func (m *ReactionRepositoryMock) FindByUser(ctx context.Context, messageID, userID int) (*models.Reaction, error) {
	args := m.Called(ctx, messageID, userID)
	return get[*models.Reaction](args, 0), args.Error(1)
}

func (m *ReactionRepositoryMock) Add(ctx context.Context, r *models.Reaction) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReactionRepositoryMock) Remove(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ReactionRepositoryMock) ListByMessage(ctx context.Context, messageID int) ([]models.Reaction, error) {
	args := m.Called(ctx, messageID)
	return get[[]models.Reaction](args, 0), args.Error(1)
}

type FavoriteRepositoryMock struct {
	mock.Mock
}

func (m *FavoriteRepositoryMock) Exists(ctx context.Context, userID, messageID int) (bool, error) {
	args := m.Called(ctx, userID, messageID)
	return args.Bool(0), args.Error(1)
}

func (m *FavoriteRepositoryMock) Add(ctx context.Context, f models.Favorite) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) Remove(ctx context.Context, userID, messageID int) error {
	args := m.Called(ctx, userID, messageID)
	return args.Error(0)
}

func (m *FavoriteRepositoryMock) ListForUser(ctx context.Context, userID int, page models.Page) ([]models.Message, error) {
	args := m.Called(ctx, userID, page)
	return get[[]models.Message](args, 0), args.Error(1)
}

type ReadReceiptRepositoryMock struct {
	mock.Mock
}

func (m *ReadReceiptRepositoryMock) Add(ctx context.Context, r models.ReadReceipt) (bool, error) {
	args := m.Called(ctx, r)
	return args.Bool(0), args.Error(1)
}

func (m *ReadReceiptRepositoryMock) CountUnread(ctx context.Context, channelID, userID int, since time.Time) (int, error) {
	args := m.Called(ctx, channelID, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *ReadReceiptRepositoryMock) MarkAll(ctx context.Context, channelID, userID int, since, readAt time.Time) (int64, error) {
	args := m.Called(ctx, channelID, userID, since, readAt)
	return get[int64](args, 0), args.Error(1)
}
