package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"

	"messaging-service/internal/cache"
	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/services"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    *mocks.StoreMock
	notifier *mocks.NotifierMock
	unread   *memoryCache
	svc      *services.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := zaptest.NewLogger(t)
	f := &fixture{
		store:    mocks.NewStoreMock(),
		notifier: new(mocks.NotifierMock),
		unread:   newMemoryCache(),
	}
	dispatcher := notify.NewDispatcher(f.notifier, log)
	f.svc = services.New(f.store, dispatcher, f.unread, log, services.WithClock(func() time.Time { return now }))
	return f
}

func (f *fixture) assert(t *testing.T) {
	t.Helper()
	f.store.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func eventOf(typ string) any {
	return mock.MatchedBy(func(e models.Event) bool { return e.Type == typ })
}

func (f *fixture) expectUserEvent(userID int, typ string) {
	f.notifier.On("NotifyUser", mock.Anything, userID, eventOf(typ)).Return(nil).Once()
}

func (f *fixture) expectChannelEvent(channelID int, members []int, typ string) {
	f.notifier.On("NotifyChannelMembers", mock.Anything, channelID, members, eventOf(typ)).Return(nil).Once()
}

func directConversation() models.Conversation {
	return models.Conversation{
		ID:          10,
		User1ID:     1,
		User2ID:     2,
		InitiatedBy: 1,
		HasMessages: true,
		CreatedAt:   now,
	}
}

// channelWith builds active channel 5 owned by user 1 with the given extra members.
func channelWith(members ...models.Member) models.Channel {
	return models.Channel{
		ID:        5,
		Name:      "general",
		Type:      models.ChannelPublic,
		CreatorID: 1,
		CreatedAt: now,
		Members:   append([]models.Member{{UserID: 1, Role: models.RoleOwner, JoinedAt: now}}, members...),
	}
}

func member(userID int, role models.Role) models.Member {
	return models.Member{UserID: userID, Role: role, JoinedAt: now.Add(-time.Hour)}
}

func channelMessage(id, senderID int) models.Message {
	ch := 5
	return models.Message{ID: id, ChannelID: &ch, SenderID: senderID, Content: "hello", CreatedAt: now}
}

func directMessage(id, senderID, receiverID int) models.Message {
	conv, recv := 10, receiverID
	return models.Message{ID: id, ConversationID: &conv, SenderID: senderID, ReceiverID: &recv, Content: "hi", CreatedAt: now}
}

// memoryCache is an in-process UnreadCache with the same generation rule
// as the Redis one.
type memoryCache struct {
	counts      map[string]int
	versions    map[string]int64
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{counts: map[string]int{}, versions: map[string]int64{}}
}

func (c *memoryCache) Get(_ context.Context, scope models.Scope, userID int) (cache.Lookup, error) {
	k := cache.Key(scope, userID)
	n, ok := c.counts[k]
	return cache.Lookup{Count: n, Hit: ok, Version: c.versions[k]}, nil
}

func (c *memoryCache) Set(_ context.Context, scope models.Scope, userID, count int, version int64) error {
	k := cache.Key(scope, userID)
	if c.versions[k] == version {
		c.counts[k] = count
	}
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, scope models.Scope, userIDs ...int) error {
	for _, id := range userIDs {
		k := cache.Key(scope, id)
		delete(c.counts, k)
		c.versions[k]++
		c.invalidated = append(c.invalidated, k)
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }
