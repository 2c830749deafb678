package services

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// ChannelInput carries the editable parts of a channel.
type ChannelInput struct {
	Name        string
	Description string
	Type        models.ChannelType
}

// CreateChannel creates a channel owned by creatorID.
func (s *Service) CreateChannel(ctx context.Context, creatorID int, in ChannelInput) (models.Channel, error) {
	var ch models.Channel
	err := s.command(ctx, "create_channel", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		var err error
		ch, err = models.NewChannel(creatorID, in.Name, in.Description, in.Type, s.now())
		if err != nil {
			return err
		}
		if err := r.Channels.Create(ctx, &ch); err != nil {
			return err
		}
		out.notify(notify.ToUsers(event(models.EventChannelCreated, models.ChannelScope(ch.ID), ch), creatorID))
		return nil
	})
	return ch, err
}

// ListChannels returns the active, non-hidden channels of userID.
func (s *Service) ListChannels(ctx context.Context, userID int) ([]models.Channel, error) {
	var list []models.Channel
	err := s.query(ctx, "list_channels", func(ctx context.Context, r repositories.Repos) error {
		var err error
		list, err = r.Channels.ListForUser(ctx, userID)
		return err
	})
	return list, err
}

// GetChannel returns a channel. Private channels are visible to members only.
func (s *Service) GetChannel(ctx context.Context, userID, channelID int) (models.Channel, error) {
	var ch models.Channel
	err := s.query(ctx, "get_channel", func(ctx context.Context, r repositories.Repos) error {
		var err error
		if ch, err = r.Channels.Get(ctx, channelID); err != nil {
			return err
		}
		if ch.Type == models.ChannelPrivate && !ch.IsMember(userID) {
			return models.ErrNotParticipant
		}
		return nil
	})
	return ch, err
}

// channelCommand locks a channel and hands it to fn.
func (s *Service) channelCommand(ctx context.Context, name string, channelID int, fn func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error) (models.Channel, error) {
	var ch models.Channel
	err := s.command(ctx, name, func(ctx context.Context, r repositories.Repos, out *outbox) error {
		var err error
		if ch, err = r.Channels.GetForUpdate(ctx, channelID); err != nil {
			return err
		}
		return fn(ctx, r, &ch, out)
	})
	return ch, err
}

// UpdateChannel renames a channel. Admins and the owner may do this.
func (s *Service) UpdateChannel(ctx context.Context, actorID, channelID int, name, description string) (models.Channel, error) {
	return s.channelCommand(ctx, "update_channel", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if _, err := ch.RequireRole(actorID, models.RoleAdmin); err != nil {
			return err
		}
		if err := ch.EnsureActive(); err != nil {
			return err
		}
		if err := ch.Rename(name, description); err != nil {
			return err
		}
		if err := r.Channels.Update(ctx, *ch); err != nil {
			return err
		}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventChannelUpdated, models.ChannelScope(ch.ID), ch)))
		return nil
	})
}

// ArchiveChannel is the channel delete. Only the owner may archive.
func (s *Service) ArchiveChannel(ctx context.Context, actorID, channelID int) (models.Channel, error) {
	return s.channelCommand(ctx, "archive_channel", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if _, err := ch.RequireRole(actorID, models.RoleOwner); err != nil {
			return err
		}
		if err := ch.Archive(s.now()); err != nil {
			return err
		}
		if err := r.Channels.Update(ctx, *ch); err != nil {
			return err
		}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventChannelArchived, models.ChannelScope(ch.ID), ch)))
		return nil
	})
}

// JoinChannel adds userID to a public channel as a member.
func (s *Service) JoinChannel(ctx context.Context, userID, channelID int) (models.Channel, error) {
	return s.channelCommand(ctx, "join_channel", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		m, err := ch.Join(userID, s.now())
		if err != nil {
			return err
		}
		if err := r.Channels.AddMember(ctx, ch.ID, m); err != nil {
			return err
		}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventMemberAdded, models.ChannelScope(ch.ID), m)))
		return nil
	})
}

// LeaveChannel removes userID from a channel. The owner has to transfer
// ownership first.
func (s *Service) LeaveChannel(ctx context.Context, userID, channelID int) error {
	_, err := s.channelCommand(ctx, "leave_channel", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if err := ch.Leave(userID); err != nil {
			return err
		}
		if err := r.Channels.RemoveMember(ctx, ch.ID, userID); err != nil {
			return err
		}
		payload := map[string]int{"user_id": userID}
		out.notify(notify.ToChannel(ch.ID, append(ch.MemberIDs(), userID), event(models.EventMemberRemoved, models.ChannelScope(ch.ID), payload)))
		out.invalidate(models.ChannelScope(ch.ID), userID)
		return nil
	})
	return err
}

// AddMember adds targetID with role. The actor must be an admin or the owner.
func (s *Service) AddMember(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error) {
	var m models.Member
	_, err := s.channelCommand(ctx, "add_member", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if _, err := ch.RequireRole(actorID, models.RoleAdmin); err != nil {
			return err
		}
		var err error
		if m, err = ch.AddMember(targetID, role, s.now()); err != nil {
			return err
		}
		if err := r.Channels.AddMember(ctx, ch.ID, m); err != nil {
			return err
		}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventMemberAdded, models.ChannelScope(ch.ID), m)))
		return nil
	})
	return m, err
}

// RemoveMember removes a non-owner member. The actor must be an admin or the owner.
func (s *Service) RemoveMember(ctx context.Context, actorID, channelID, targetID int) error {
	_, err := s.channelCommand(ctx, "remove_member", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if _, err := ch.RequireRole(actorID, models.RoleAdmin); err != nil {
			return err
		}
		if err := ch.RemoveMember(targetID); err != nil {
			return err
		}
		if err := r.Channels.RemoveMember(ctx, ch.ID, targetID); err != nil {
			return err
		}
		payload := map[string]int{"user_id": targetID}
		out.notify(notify.ToChannel(ch.ID, append(ch.MemberIDs(), targetID), event(models.EventMemberRemoved, models.ChannelScope(ch.ID), payload)))
		out.invalidate(models.ChannelScope(ch.ID), targetID)
		return nil
	})
	return err
}

// UpdateMemberRole switches a member between admin and member.
func (s *Service) UpdateMemberRole(ctx context.Context, actorID, channelID, targetID int, role models.Role) (models.Member, error) {
	var m models.Member
	_, err := s.channelCommand(ctx, "update_member_role", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if _, err := ch.RequireRole(actorID, models.RoleAdmin); err != nil {
			return err
		}
		changed, err := ch.UpdateMemberRole(targetID, role)
		if err != nil {
			return err
		}
		member, _ := ch.Member(targetID)
		m = *member
		if !changed {
			return nil
		}
		if err := r.Channels.UpdateMemberRole(ctx, ch.ID, targetID, role); err != nil {
			return err
		}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventMemberRoleChanged, models.ChannelScope(ch.ID), m)))
		return nil
	})
	return m, err
}

// TransferOwnership hands the channel to newOwnerID. The old owner stays
// on as admin. Both role changes commit together.
func (s *Service) TransferOwnership(ctx context.Context, actorID, channelID, newOwnerID int) (models.Channel, error) {
	return s.channelCommand(ctx, "transfer_ownership", channelID, func(ctx context.Context, r repositories.Repos, ch *models.Channel, out *outbox) error {
		if err := ch.TransferOwnership(actorID, newOwnerID); err != nil {
			return err
		}
		// Demote first: the schema allows a single owner row per channel.
		if err := r.Channels.UpdateMemberRole(ctx, ch.ID, actorID, models.RoleAdmin); err != nil {
			return err
		}
		if err := r.Channels.UpdateMemberRole(ctx, ch.ID, newOwnerID, models.RoleOwner); err != nil {
			return err
		}
		payload := map[string]int{"previous_owner_id": actorID, "owner_id": newOwnerID}
		out.notify(notify.ToChannel(ch.ID, ch.MemberIDs(), event(models.EventOwnershipTransfer, models.ChannelScope(ch.ID), payload)))
		return nil
	})
}

// SendChannelMessage posts a message to a channel the sender belongs to.
func (s *Service) SendChannelMessage(ctx context.Context, senderID, channelID int, draft models.MessageDraft) (models.Message, error) {
	draft.SenderID = senderID
	var msg models.Message
	err := s.command(ctx, "send_channel_message", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		scope := models.ChannelScope(channelID)
		a, err := authorize(ctx, r, scope, senderID)
		if err != nil {
			return err
		}
		if err := a.writable(); err != nil {
			return err
		}
		if err := checkReply(ctx, r, draft.ReplyToMessageID, scope); err != nil {
			return err
		}
		if msg, err = models.NewChannelMessage(channelID, draft, s.now()); err != nil {
			return err
		}
		if err := r.Messages.Create(ctx, &msg); err != nil {
			return err
		}
		if _, err := r.Preferences.Unhide(ctx, scope, a.recipients()); err != nil {
			return err
		}

		out.notify(a.broadcast(event(models.EventMessageCreated, scope, msg)))
		out.invalidate(scope, without(a.recipients(), senderID)...)
		return nil
	})
	return msg, err
}

// MarkChannelAsRead records receipts for every unread message of userID.
// Read-later marks are left alone.
func (s *Service) MarkChannelAsRead(ctx context.Context, userID, channelID int) (int64, error) {
	var marked int64
	err := s.command(ctx, "mark_channel_read", func(ctx context.Context, r repositories.Repos, out *outbox) error {
		scope := models.ChannelScope(channelID)
		a, err := authorize(ctx, r, scope, userID)
		if err != nil {
			return err
		}
		m, _ := a.channel.Member(userID)
		if marked, err = r.Receipts.MarkAll(ctx, channelID, userID, m.JoinedAt, s.now()); err != nil {
			return err
		}
		out.notify(notify.ToUsers(event(models.EventChannelRead, scope, map[string]int64{"marked": marked}), userID))
		out.invalidate(scope, userID)
		return nil
	})
	return marked, err
}

// ChannelUnread counts messages posted since userID joined that userID has
// neither written nor read.
func (s *Service) ChannelUnread(ctx context.Context, userID, channelID int) (int, error) {
	var count int
	err := s.query(ctx, "channel_unread", func(ctx context.Context, r repositories.Repos) error {
		scope := models.ChannelScope(channelID)
		a, err := authorize(ctx, r, scope, userID)
		if err != nil {
			return err
		}
		m, _ := a.channel.Member(userID)
		count, err = s.cachedUnread(ctx, scope, userID, func() (int, error) {
			return r.Receipts.CountUnread(ctx, channelID, userID, m.JoinedAt)
		})
		return err
	})
	return count, err
}
