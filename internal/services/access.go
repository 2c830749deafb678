package services

import (
	"context"
	"errors"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// access is what a user may see of a scope: the loaded aggregate plus the
// audience of its events.
type access struct {
	scope   models.Scope
	conv    *models.Conversation
	channel *models.Channel
}

func (a access) recipients() []int {
	if a.channel != nil {
		return a.channel.MemberIDs()
	}
	if a.conv != nil {
		return a.conv.ParticipantIDs()
	}
	return nil
}

func (a access) broadcast(ev models.Event) notify.Notification {
	if a.channel != nil {
		return notify.ToChannel(a.channel.ID, a.channel.MemberIDs(), ev)
	}
	return notify.ToUsers(ev, a.recipients()...)
}

// writable fails for archived channels.
func (a access) writable() error {
	if a.channel != nil {
		return a.channel.EnsureActive()
	}
	return nil
}

// authorize loads scope and checks that userID participates in it.
func authorize(ctx context.Context, r repositories.Repos, scope models.Scope, userID int) (access, error) {
	if err := scope.Validate(); err != nil {
		return access{}, err
	}
	switch scope.Kind {
	case models.ScopeConversation:
		conv, err := r.Conversations.Get(ctx, scope.ID)
		if err != nil {
			return access{}, err
		}
		if !conv.IsParticipant(userID) {
			return access{}, models.ErrNotParticipant
		}
		return access{scope: scope, conv: &conv}, nil
	default:
		ch, err := r.Channels.Get(ctx, scope.ID)
		if err != nil {
			return access{}, err
		}
		if !ch.IsMember(userID) {
			return access{}, models.ErrNotParticipant
		}
		return access{scope: scope, channel: &ch}, nil
	}
}

// loadMessage locks a message and authorizes userID on its scope.
func loadMessage(ctx context.Context, r repositories.Repos, messageID, userID int) (models.Message, access, error) {
	msg, err := r.Messages.GetForUpdate(ctx, messageID)
	if err != nil {
		return models.Message{}, access{}, err
	}
	a, err := authorize(ctx, r, msg.Scope(), userID)
	if err != nil {
		return models.Message{}, access{}, err
	}
	return msg, a, nil
}

// loadPreferences returns userID's preference row in scope.
func loadPreferences(ctx context.Context, r repositories.Repos, scope models.Scope, userID int) (models.Preferences, error) {
	prefs, err := r.Preferences.Get(ctx, scope, userID)
	if errors.Is(err, models.ErrNotFound) {
		return models.Preferences{}, models.ErrNotParticipant
	}
	return prefs, err
}

// checkReply requires a reply target to be a visible message of scope.
func checkReply(ctx context.Context, r repositories.Repos, replyTo *int, scope models.Scope) error {
	if replyTo == nil {
		return nil
	}
	target, err := r.Messages.Get(ctx, *replyTo)
	if err != nil {
		return err
	}
	if target.IsDeleted || target.Scope() != scope {
		return models.NotFoundf("message %d not found in %s", *replyTo, scope)
	}
	return nil
}
