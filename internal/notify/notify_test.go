package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"messaging-service/internal/mocks"
	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/observability"
)

func TestToUsersDeduplicates(t *testing.T) {
	n := notify.ToUsers(models.Event{Type: models.EventMessageRead}, 2, 1, 2)

	assert.Equal(t, []int{2, 1}, n.UserIDs)
	assert.Zero(t, n.ChannelID)
}

func TestMultiJoinsErrors(t *testing.T) {
	first, second := new(mocks.NotifierMock), new(mocks.NotifierMock)
	errA, errB := errors.New("hub down"), errors.New("broker down")
	first.On("NotifyUser", mock.Anything, 1, mock.Anything).Return(errA).Once()
	second.On("NotifyUser", mock.Anything, 1, mock.Anything).Return(errB).Once()

	err := notify.Multi{first, second}.NotifyUser(context.Background(), 1, models.Event{Type: models.EventMessageCreated})

	require.Error(t, err)
	assert.Equal(t, []error{errA, errB}, multierr.Errors(err))
	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestDispatcherRoutesAndSwallowsErrors(t *testing.T) {
	n := new(mocks.NotifierMock)
	ev := models.Event{Type: models.EventMessageCreated}
	n.On("NotifyChannelMembers", mock.Anything, 5, []int{1, 2}, ev).Return(errors.New("write failed")).Once()
	n.On("NotifyUser", mock.Anything, 3, ev).Return(nil).Once()
	n.On("NotifyUser", mock.Anything, 4, ev).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	notify.NewDispatcher(n, zaptest.NewLogger(t)).Dispatch(ctx,
		notify.ToChannel(5, []int{1, 2, 1}, ev),
		notify.ToUsers(ev, 3, 4),
	)

	n.AssertExpectations(t)
	for _, call := range n.Calls {
		assert.NoError(t, call.Arguments.Get(0).(context.Context).Err(), "dispatch outlives the request")
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *notify.Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), notify.ToUsers(models.Event{Type: "x"}, 1))
	})
}

func TestAMQPNotifierRoutingKeys(t *testing.T) {
	pub := new(mocks.PublisherMock)
	scope := models.ConversationScope(10)
	ev := models.Event{Type: models.EventMessageEdited, Scope: &scope, Payload: map[string]int{"message_id": 1}}
	pub.On("Publish", mock.Anything, "messaging.user.message.edited", mock.MatchedBy(func(env observability.EventEnvelope) bool {
		d, ok := env.Payload.(notify.Delivery)
		return ok && env.EventName == models.EventMessageEdited && assert.ObjectsAreEqual([]int{2}, d.UserIDs)
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, "messaging.channel.message.edited", mock.MatchedBy(func(env observability.EventEnvelope) bool {
		d, ok := env.Payload.(notify.Delivery)
		return ok && d.ChannelID == 5 && len(d.UserIDs) == 3
	})).Return(nil).Once()

	n := notify.NewAMQPNotifier(pub)
	require.NoError(t, n.NotifyUser(context.Background(), 2, ev))
	require.NoError(t, n.NotifyChannelMembers(context.Background(), 5, []int{1, 2, 3}, ev))
	pub.AssertExpectations(t)
}
