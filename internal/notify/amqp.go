package notify

import (
	"context"
	"time"

	"messaging-service/internal/models"
	"messaging-service/internal/observability"
)

// Publisher is the broker side used by AMQPNotifier.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}

// AMQPNotifier forwards events to the broker so other services (push,
// email digests) can fan them out further.
type AMQPNotifier struct {
	publisher Publisher
	now       func() time.Time
}

func NewAMQPNotifier(publisher Publisher) *AMQPNotifier {
	return &AMQPNotifier{publisher: publisher, now: time.Now}
}

// Delivery is the payload of a broker event.
type Delivery struct {
	UserIDs   []int         `json:"user_ids"`
	ChannelID int           `json:"channel_id,omitempty"`
	Scope     *models.Scope `json:"scope,omitempty"`
	Data      any           `json:"data,omitempty"`
}

const eventType = "messaging_events"

func (n *AMQPNotifier) NotifyUser(ctx context.Context, userID int, event models.Event) error {
	return n.publish(ctx, "messaging.user."+event.Type, Delivery{
		UserIDs: []int{userID},
		Scope:   event.Scope,
		Data:    event.Payload,
	}, event.Type)
}

func (n *AMQPNotifier) NotifyChannelMembers(ctx context.Context, channelID int, memberIDs []int, event models.Event) error {
	return n.publish(ctx, "messaging.channel."+event.Type, Delivery{
		UserIDs:   memberIDs,
		ChannelID: channelID,
		Scope:     event.Scope,
		Data:      event.Payload,
	}, event.Type)
}

func (n *AMQPNotifier) publish(ctx context.Context, routingKey string, d Delivery, name string) error {
	return n.publisher.Publish(ctx, routingKey, observability.EventEnvelope{
		EventType:  eventType,
		EventName:  name,
		OccurredAt: n.now().UTC().Format(time.RFC3339Nano),
		Payload:    d,
	})
}
