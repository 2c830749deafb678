package notify

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// Notifier delivers events to connected users. Delivery is best effort.
type Notifier interface {
	NotifyUser(ctx context.Context, userID int, event models.Event) error
	NotifyChannelMembers(ctx context.Context, channelID int, memberIDs []int, event models.Event) error
}

// Notification is one delivery queued by a command and sent after commit.
type Notification struct {
	// ChannelID routes through NotifyChannelMembers when set.
	ChannelID int
	UserIDs   []int
	Event     models.Event
}

// ToUsers addresses event to each distinct user.
func ToUsers(event models.Event, userIDs ...int) Notification {
	return Notification{UserIDs: distinct(userIDs), Event: event}
}

// ToChannel addresses event to the members of a channel.
func ToChannel(channelID int, memberIDs []int, event models.Event) Notification {
	return Notification{ChannelID: channelID, UserIDs: distinct(memberIDs), Event: event}
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Multi fans every call out to all notifiers and joins their errors.
type Multi []Notifier

func (m Multi) NotifyUser(ctx context.Context, userID int, event models.Event) error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.NotifyUser(ctx, userID, event))
	}
	return err
}

func (m Multi) NotifyChannelMembers(ctx context.Context, channelID int, memberIDs []int, event models.Event) error {
	var err error
	for _, n := range m {
		err = multierr.Append(err, n.NotifyChannelMembers(ctx, channelID, memberIDs, event))
	}
	return err
}

// Dispatcher sends queued notifications. Failures are logged and counted,
// never returned and never retried.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
}

func NewDispatcher(notifier Notifier, log *zap.Logger) *Dispatcher {
	return &Dispatcher{notifier: notifier, log: log}
}

// Dispatch delivers items in order. It outlives cancellation of ctx so a
// client hanging up after commit does not drop the events.
func (d *Dispatcher) Dispatch(ctx context.Context, items ...Notification) {
	if d == nil || d.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, item := range items {
		var err error
		if item.ChannelID > 0 {
			err = d.notifier.NotifyChannelMembers(ctx, item.ChannelID, item.UserIDs, item.Event)
		} else {
			for _, userID := range item.UserIDs {
				err = multierr.Append(err, d.notifier.NotifyUser(ctx, userID, item.Event))
			}
		}
		if err != nil {
			observability.IncDispatchError(item.Event.Type)
			d.log.Warn("notification dispatch failed",
				zap.String("event", item.Event.Type),
				zap.Int("channel_id", item.ChannelID),
				zap.Ints("user_ids", item.UserIDs),
				zap.Error(err),
			)
		}
	}
}
