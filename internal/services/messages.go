package services

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// ListMessages pages through the visible messages of a scope.
func (s *Service) ListMessages(ctx context.Context, userID int, scope models.Scope, page models.Page) ([]models.Message, error) {
	var msgs []models.Message
	err := s.query(ctx, "list_messages", func(ctx context.Context, r repositories.Repos) error {
		if _, err := authorize(ctx, r, scope, userID); err != nil {
			return err
		}
		list, err := r.Messages.List(ctx, scope, page)
		if err != nil {
			return err
		}
		msgs = models.VisibleMessages(list)
		return nil
	})
	return msgs, err
}

// ListPinnedMessages returns the pinned messages of a scope.
func (s *Service) ListPinnedMessages(ctx context.Context, userID int, scope models.Scope) ([]models.Message, error) {
	var msgs []models.Message
	err := s.query(ctx, "list_pinned_messages", func(ctx context.Context, r repositories.Repos) error {
		if _, err := authorize(ctx, r, scope, userID); err != nil {
			return err
		}
		list, err := r.Messages.ListPinned(ctx, scope)
		if err != nil {
			return err
		}
		msgs = models.VisibleMessages(list)
		return nil
	})
	return msgs, err
}

// messageCommand locks a message, authorizes userID on its scope and hands
// both to fn.
func (s *Service) messageCommand(ctx context.Context, name string, userID, messageID int, fn func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error) (models.Message, error) {
	var msg models.Message
	err := s.command(ctx, name, func(ctx context.Context, r repositories.Repos, out *outbox) error {
		m, a, err := loadMessage(ctx, r, messageID, userID)
		if err != nil {
			return err
		}
		msg = m
		return fn(ctx, r, &msg, a, out)
	})
	if err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// EditMessage replaces the content of a message. Only its sender may edit.
func (s *Service) EditMessage(ctx context.Context, userID, messageID int, content string) (models.Message, error) {
	return s.messageCommand(ctx, "edit_message", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		if msg.SenderID != userID {
			return models.ErrNotAuthor
		}
		if err := a.writable(); err != nil {
			return err
		}
		changed, err := msg.Edit(content, s.now())
		if err != nil || !changed {
			return err
		}
		if err := r.Messages.Update(ctx, *msg); err != nil {
			return err
		}
		out.notify(a.broadcast(event(models.EventMessageEdited, a.scope, msg)))
		return nil
	})
}

// DeleteMessage soft-deletes a message. The sender may delete; in channels
// admins and the owner may too. Deleting twice succeeds.
func (s *Service) DeleteMessage(ctx context.Context, userID, messageID int) error {
	_, err := s.messageCommand(ctx, "delete_message", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		if msg.SenderID != userID {
			if a.channel == nil {
				return models.ErrNotAuthor
			}
			if _, err := a.channel.RequireRole(userID, models.RoleAdmin); err != nil {
				return models.ErrNotAuthor
			}
		}
		if err := a.writable(); err != nil {
			return err
		}
		if !msg.Delete(s.now()) {
			return nil
		}
		if err := r.Messages.Update(ctx, *msg); err != nil {
			return err
		}
		out.notify(a.broadcast(event(models.EventMessageDeleted, a.scope, map[string]int{"message_id": msg.ID})))
		out.invalidate(a.scope, without(a.recipients(), msg.SenderID)...)
		return nil
	})
	return err
}

// PinMessage pins a message for everyone in its scope.
func (s *Service) PinMessage(ctx context.Context, userID, messageID int) (models.Message, error) {
	return s.messageCommand(ctx, "pin_message", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		if err := a.writable(); err != nil {
			return err
		}
		if err := msg.Pin(userID, s.now()); err != nil {
			return err
		}
		if err := r.Messages.Update(ctx, *msg); err != nil {
			return err
		}
		out.notify(a.broadcast(event(models.EventMessagePinned, a.scope, msg)))
		return nil
	})
}

// UnpinMessage removes a pin.
func (s *Service) UnpinMessage(ctx context.Context, userID, messageID int) (models.Message, error) {
	return s.messageCommand(ctx, "unpin_message", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		if err := a.writable(); err != nil {
			return err
		}
		if err := msg.Unpin(); err != nil {
			return err
		}
		if err := r.Messages.Update(ctx, *msg); err != nil {
			return err
		}
		out.notify(a.broadcast(event(models.EventMessageUnpinned, a.scope, msg)))
		return nil
	})
}

// MarkMessageRead marks one message as read by userID. Direct messages flip
// IsRead and only their receiver may do it; channel messages get a receipt.
// It reports whether anything changed.
func (s *Service) MarkMessageRead(ctx context.Context, userID, messageID int) (bool, error) {
	var changed bool
	_, err := s.messageCommand(ctx, "mark_message_read", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		payload := map[string]int{"message_id": msg.ID, "user_id": userID}
		if msg.IsDirect() {
			if msg.ReceiverID == nil || *msg.ReceiverID != userID {
				return models.Forbiddenf("only the receiver can mark message %d as read", msg.ID)
			}
			if changed = msg.MarkAsRead(); !changed {
				return nil
			}
			if err := r.Messages.Update(ctx, *msg); err != nil {
				return err
			}
			out.notify(notify.ToUsers(event(models.EventMessageRead, a.scope, payload), msg.SenderID, userID))
			out.invalidate(a.scope, userID)
			return nil
		}

		if msg.SenderID == userID {
			return nil
		}
		var err error
		changed, err = r.Receipts.Add(ctx, models.ReadReceipt{MessageID: msg.ID, UserID: userID, ReadAt: s.now()})
		if err != nil || !changed {
			return err
		}
		out.notify(notify.ToUsers(event(models.EventMessageRead, a.scope, payload), userID))
		out.invalidate(a.scope, userID)
		return nil
	})
	return changed, err
}
