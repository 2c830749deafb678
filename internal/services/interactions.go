package services

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// ToggleReaction adds, removes or replaces userID's reaction on a message.
func (s *Service) ToggleReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	return guarded(ctx, s.guard, "toggle_reaction", userID, [2]any{messageID, emoji}, func(ctx context.Context) (models.ReactionChange, error) {
		return s.reactionCommand(ctx, "toggle_reaction", userID, messageID, func(msg *models.Message, current *models.Reaction) (models.ReactionChange, error) {
			return models.ToggleReaction(msg, current, userID, emoji, s.now())
		})
	})
}

// AddReaction adds a reaction. A user holding any reaction already gets a conflict.
func (s *Service) AddReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	return s.reactionCommand(ctx, "add_reaction", userID, messageID, func(msg *models.Message, current *models.Reaction) (models.ReactionChange, error) {
		return models.AddReaction(msg, current, userID, emoji, s.now())
	})
}

// RemoveReaction removes userID's reaction with emoji.
func (s *Service) RemoveReaction(ctx context.Context, userID, messageID int, emoji string) (models.ReactionChange, error) {
	return s.reactionCommand(ctx, "remove_reaction", userID, messageID, func(msg *models.Message, current *models.Reaction) (models.ReactionChange, error) {
		return models.RemoveReaction(msg, current, emoji)
	})
}

func (s *Service) reactionCommand(ctx context.Context, name string, userID, messageID int, decide func(msg *models.Message, current *models.Reaction) (models.ReactionChange, error)) (models.ReactionChange, error) {
	var change models.ReactionChange
	_, err := s.messageCommand(ctx, name, userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
		if err := a.writable(); err != nil {
			return err
		}
		current, err := r.Reactions.FindByUser(ctx, msg.ID, userID)
		if err != nil {
			return err
		}
		if change, err = decide(msg, current); err != nil {
			return err
		}
		if change.Remove != nil {
			if err := r.Reactions.Remove(ctx, change.Remove.ID); err != nil {
				return err
			}
		}
		if change.Add != nil {
			if err := r.Reactions.Add(ctx, change.Add); err != nil {
				return err
			}
		}
		out.notify(a.broadcast(event(models.ReactionEventName(change.Outcome), a.scope, change)))
		return nil
	})
	return change, err
}

// ListReactions returns the reactions on a visible message.
func (s *Service) ListReactions(ctx context.Context, userID, messageID int) ([]models.Reaction, error) {
	var list []models.Reaction
	err := s.query(ctx, "list_reactions", func(ctx context.Context, r repositories.Repos) error {
		msg, err := r.Messages.Get(ctx, messageID)
		if err != nil {
			return err
		}
		if msg.IsDeleted {
			return models.NotFoundf("message %d not found", messageID)
		}
		if _, err := authorize(ctx, r, msg.Scope(), userID); err != nil {
			return err
		}
		list, err = r.Reactions.ListByMessage(ctx, messageID)
		return err
	})
	return list, err
}

// ToggleFavorite bookmarks or un-bookmarks a message for userID.
func (s *Service) ToggleFavorite(ctx context.Context, userID, messageID int) (models.FavoriteChange, error) {
	return guarded(ctx, s.guard, "toggle_favorite", userID, messageID, func(ctx context.Context) (models.FavoriteChange, error) {
		var change models.FavoriteChange
		_, err := s.messageCommand(ctx, "toggle_favorite", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
			exists, err := r.Favorites.Exists(ctx, userID, msg.ID)
			if err != nil {
				return err
			}
			if change, err = models.ToggleFavorite(msg, exists); err != nil {
				return err
			}
			name := models.EventFavoriteAdded
			if change.Added {
				err = r.Favorites.Add(ctx, models.Favorite{UserID: userID, MessageID: msg.ID, CreatedAt: s.now()})
			} else {
				name = models.EventFavoriteRemoved
				err = r.Favorites.Remove(ctx, userID, msg.ID)
			}
			if err != nil {
				return err
			}
			out.notify(notify.ToUsers(event(name, a.scope, map[string]int{"message_id": msg.ID}), userID))
			return nil
		})
		return change, err
	})
}

// ListFavorites pages through userID's favorited messages.
func (s *Service) ListFavorites(ctx context.Context, userID int, page models.Page) ([]models.Message, error) {
	var msgs []models.Message
	err := s.query(ctx, "list_favorites", func(ctx context.Context, r repositories.Repos) error {
		list, err := r.Favorites.ListForUser(ctx, userID, page)
		if err != nil {
			return err
		}
		msgs = models.VisibleMessages(list)
		return nil
	})
	return msgs, err
}

// ToggleMessageAsLater moves userID's read-later mark in the message's
// scope to this message, or clears it when it already points here.
// Clearing is allowed on a deleted message; marking is not.
func (s *Service) ToggleMessageAsLater(ctx context.Context, userID, messageID int) (models.ReadLaterState, error) {
	return guarded(ctx, s.guard, "toggle_read_later", userID, messageID, func(ctx context.Context) (models.ReadLaterState, error) {
		var state models.ReadLaterState
		_, err := s.messageCommand(ctx, "toggle_message_read_later", userID, messageID, func(ctx context.Context, r repositories.Repos, msg *models.Message, a access, out *outbox) error {
			prefs, err := loadPreferences(ctx, r, a.scope, userID)
			if err != nil {
				return err
			}
			marksHere := prefs.LastReadLaterMessageID != nil && *prefs.LastReadLaterMessageID == msg.ID
			if !marksHere {
				if err := msg.EnsureMutable(); err != nil {
					return err
				}
			}
			prefs.ToggleMessageAsLater(msg.ID)
			if err := r.Preferences.Save(ctx, a.scope, userID, prefs); err != nil {
				return err
			}
			state = models.ReadLaterStateOf(a.scope, prefs)
			out.notify(notify.ToUsers(event(models.EventReadLaterChanged, a.scope, state), userID))
			return nil
		})
		return state, err
	})
}
