package services

import (
	"context"

	"messaging-service/internal/models"
	"messaging-service/internal/notify"
	"messaging-service/internal/repositories"
)

// updatePreferences loads userID's row in scope, applies mutate and saves
// it when mutate reports a change.
func (s *Service) updatePreferences(ctx context.Context, name, eventName string, userID int, scope models.Scope, mutate func(p *models.Preferences) bool) (models.Preferences, error) {
	var prefs models.Preferences
	err := s.command(ctx, name, func(ctx context.Context, r repositories.Repos, out *outbox) error {
		if _, err := authorize(ctx, r, scope, userID); err != nil {
			return err
		}
		var err error
		if prefs, err = loadPreferences(ctx, r, scope, userID); err != nil {
			return err
		}
		if !mutate(&prefs) {
			return nil
		}
		if err := r.Preferences.Save(ctx, scope, userID, prefs); err != nil {
			return err
		}
		var payload any = prefs
		if eventName == models.EventReadLaterChanged {
			payload = models.ReadLaterStateOf(scope, prefs)
		}
		out.notify(notify.ToUsers(event(eventName, scope, payload), userID))
		return nil
	})
	return prefs, err
}

// TogglePin pins or unpins a conversation or channel in userID's list.
func (s *Service) TogglePin(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error) {
	return guarded(ctx, s.guard, "toggle_pin", userID, scope, func(ctx context.Context) (models.Preferences, error) {
		return s.updatePreferences(ctx, "toggle_pin", models.EventPreferencesChanged, userID, scope, func(p *models.Preferences) bool {
			p.TogglePin()
			return true
		})
	})
}

// ToggleMute mutes or unmutes a conversation or channel for userID.
func (s *Service) ToggleMute(ctx context.Context, userID int, scope models.Scope) (models.Preferences, error) {
	return guarded(ctx, s.guard, "toggle_mute", userID, scope, func(ctx context.Context) (models.Preferences, error) {
		return s.updatePreferences(ctx, "toggle_mute", models.EventPreferencesChanged, userID, scope, func(p *models.Preferences) bool {
			p.ToggleMute()
			return true
		})
	})
}

// SetHidden hides or shows a conversation or channel in userID's list. A
// new message shows it again.
func (s *Service) SetHidden(ctx context.Context, userID int, scope models.Scope, hidden bool) (models.Preferences, error) {
	return s.updatePreferences(ctx, "set_hidden", models.EventPreferencesChanged, userID, scope, func(p *models.Preferences) bool {
		return p.SetHidden(hidden)
	})
}

// MarkAsReadLater sets the scope-level read-later flag.
func (s *Service) MarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	prefs, err := s.updatePreferences(ctx, "mark_read_later", models.EventReadLaterChanged, userID, scope, (*models.Preferences).MarkReadLater)
	return models.ReadLaterStateOf(scope, prefs), err
}

// UnmarkAsReadLater clears the scope-level read-later flag only.
func (s *Service) UnmarkAsReadLater(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	prefs, err := s.updatePreferences(ctx, "unmark_read_later", models.EventReadLaterChanged, userID, scope, (*models.Preferences).UnmarkReadLater)
	return models.ReadLaterStateOf(scope, prefs), err
}

// UnmarkOnOpen clears both read-later values when userID opens the scope.
// No message is marked as read.
func (s *Service) UnmarkOnOpen(ctx context.Context, userID int, scope models.Scope) (models.ReadLaterState, error) {
	prefs, err := s.updatePreferences(ctx, "unmark_on_open", models.EventReadLaterChanged, userID, scope, (*models.Preferences).ClearReadLater)
	return models.ReadLaterStateOf(scope, prefs), err
}
