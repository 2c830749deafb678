package services

import (
	"context"
	"errors"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// GetOrCreateConversation returns the conversation between userID and
// otherID, creating it with userID as initiator when missing. Passing the
// same id twice yields the user's notes conversation.
func (s *Service) GetOrCreateConversation(ctx context.Context, userID, otherID int) (summary models.ConversationSummary, created bool, err error) {
	if userID <= 0 || otherID <= 0 {
		return models.ConversationSummary{}, false, models.Validationf("participant ids are required")
	}
	err = s.command(ctx, "get_or_create_conversation", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		conv, err := r.Conversations.GetByPair(ctx, userID, otherID)
		if err == nil {
			summary, err = conv.SummaryFor(userID)
			return err
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}

		conv, err = models.NewConversation(userID, otherID, s.now())
		if err != nil {
			return err
		}
		if err := r.Conversations.Create(ctx, &conv); err != nil {
			if !errors.Is(err, models.ErrConflict) {
				return err
			}
			// A concurrent request created the same pair first.
			if conv, err = r.Conversations.GetByPair(ctx, userID, otherID); err != nil {
				return err
			}
			summary, err = conv.SummaryFor(userID)
			return err
		}

		created = true
		if summary, err = conv.SummaryFor(userID); err != nil {
			return err
		}
		out.notify(notify.ToUsers(event(models.EventConversationCreated, models.ConversationScope(conv.ID), summary), userID))
		return nil
	})
	return summary, created, err
}

// ListConversations returns the conversations visible to userID.
func (s *Service) ListConversations(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	var list []models.ConversationSummary
	err := s.query(ctx, "list_conversations", func(ctx context.Context, r repositories.Repos) error {
		var err error
		list, err = r.Conversations.ListForUser(ctx, userID)
		return err
	})
	return list, err
}

// GetConversation returns one conversation as seen by a participant.
func (s *Service) GetConversation(ctx context.Context, userID, conversationID int) (models.ConversationSummary, error) {
	var summary models.ConversationSummary
	err := s.query(ctx, "get_conversation", func(ctx context.Context, r repositories.Repos) error {
		conv, err := r.Conversations.Get(ctx, conversationID)
		if err != nil {
			return err
		}
		summary, err = conv.SummaryFor(userID)
		return err
	})
	return summary, err
}

// SendDirectMessage posts a message into a conversation. The first message
// makes the conversation visible to both sides, and any participant who had
// hidden it sees it again.
func (s *Service) SendDirectMessage(ctx context.Context, senderID, conversationID int, draft models.MessageDraft) (models.Message, error) {
	draft.SenderID = senderID
	var msg models.Message
	err := s.command(ctx, "send_direct_message", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		conv, err := r.Conversations.GetForUpdate(ctx, conversationID)
		if err != nil {
			return err
		}
		receiverID, err := conv.OtherUserID(senderID)
		if err != nil {
			return err
		}
		scope := models.ConversationScope(conv.ID)
		if err := checkReply(ctx, r, draft.ReplyToMessageID, scope); err != nil {
			return err
		}

		msg, err = models.NewDirectMessage(conv.ID, receiverID, draft, s.now())
		if err != nil {
			return err
		}
		if err := r.Messages.Create(ctx, &msg); err != nil {
			return err
		}
		if conv.RecordMessage() {
			if err := r.Conversations.Update(ctx, conv); err != nil {
				return err
			}
		}
		if _, err := r.Preferences.Unhide(ctx, scope, conv.ParticipantIDs()); err != nil {
			return err
		}

		out.notify(notify.ToUsers(event(models.EventMessageCreated, scope, msg), conv.ParticipantIDs()...))
		out.invalidate(scope, without(conv.ParticipantIDs(), senderID)...)
		return nil
	})
	return msg, err
}

// MarkAllAsRead marks every message addressed to userID in the
// conversation as read and clears both read-later marks, in one
// transaction.
func (s *Service) MarkAllAsRead(ctx context.Context, userID, conversationID int) (ReadResult, error) {
	var res ReadResult
	err := s.command(ctx, "mark_conversation_read", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		conv, err := r.Conversations.GetForUpdate(ctx, conversationID)
		if err != nil {
			return err
		}
		otherID, err := conv.OtherUserID(userID)
		if err != nil {
			return err
		}
		scope := models.ConversationScope(conv.ID)

		if res.Marked, err = r.Messages.MarkAllDirectRead(ctx, conv.ID, userID); err != nil {
			return err
		}
		prefs, err := loadPreferences(ctx, r, scope, userID)
		if err != nil {
			return err
		}
		if prefs.ClearReadLater() {
			if err := r.Preferences.Save(ctx, scope, userID, prefs); err != nil {
				return err
			}
		}
		res.ReadLater = models.ReadLaterStateOf(scope, prefs)

		out.notify(notify.ToUsers(event(models.EventConversationRead, scope, res), userID, otherID))
		out.invalidate(scope, userID)
		return nil
	})
	return res, err
}

// ReadResult reports how many messages a bulk read marked and the
// resulting read-later state.
type ReadResult struct {
	Marked    int64                 `json:"marked"`
	ReadLater models.ReadLaterState `json:"read_later"`
}

// ConversationUnread counts unread messages addressed to userID.
func (s *Service) ConversationUnread(ctx context.Context, userID, conversationID int) (int, error) {
	var count int
	err := s.query(ctx, "conversation_unread", func(ctx context.Context, r repositories.Repos) error {
		conv, err := r.Conversations.Get(ctx, conversationID)
		if err != nil {
			return err
		}
		if !conv.IsParticipant(userID) {
			return models.ErrNotParticipant
		}
		count, err = s.cachedUnread(ctx, models.ConversationScope(conv.ID), userID, func() (int, error) {
			return r.Messages.CountUnreadDirect(ctx, conv.ID, userID)
		})
		return err
	})
	return count, err
}
