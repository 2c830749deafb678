package repositories

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"messaging-service/internal/models"
)

// PreferenceRepository reads and writes the per-user preference row of a
// conversation participant or a channel member.
type PreferenceRepository interface {
	// Get locks and returns the row. Outsiders get models.ErrNotFound.
	Get(ctx context.Context, scope models.Scope, userID int) (models.Preferences, error)
	Save(ctx context.Context, scope models.Scope, userID int, prefs models.Preferences) error
	// Unhide clears the hidden flag of userIDs and leaves every other
	// preference column alone. It returns the number of rows it changed.
	Unhide(ctx context.Context, scope models.Scope, userIDs []int) (int64, error)
}

// PreferenceRepo is a sqlx implementation of PreferenceRepository.
type PreferenceRepo struct {
	db dbtx
}

func preferenceTable(scope models.Scope) (table, key string, err error) {
	switch scope.Kind {
	case models.ScopeConversation:
		return "conversation_participants", "conversation_id", nil
	case models.ScopeChannel:
		return "channel_members", "channel_id", nil
	}
	return "", "", models.Validationf("unknown scope kind %q", scope.Kind)
}

// Get implements PreferenceRepository.
func (r *PreferenceRepo) Get(ctx context.Context, scope models.Scope, userID int) (models.Preferences, error) {
	table, key, err := preferenceTable(scope)
	if err != nil {
		return models.Preferences{}, err
	}
	var prefs models.Preferences
	query := fmt.Sprintf(`SELECT is_pinned, is_muted, is_hidden, marked_read_later, last_read_later_message_id
        FROM %s WHERE %s=$1 AND user_id=$2 FOR UPDATE`, table, key)
	if err := r.db.GetContext(ctx, &prefs, query, scope.ID, userID); err != nil {
		return models.Preferences{}, notFound(err, "user %d has no preferences in %s", userID, scope)
	}
	return prefs, nil
}

// Save implements PreferenceRepository.
func (r *PreferenceRepo) Save(ctx context.Context, scope models.Scope, userID int, prefs models.Preferences) error {
	table, key, err := preferenceTable(scope)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET is_pinned=$3, is_muted=$4, is_hidden=$5, marked_read_later=$6, last_read_later_message_id=$7
        WHERE %s=$1 AND user_id=$2`, table, key)
	res, err := r.db.ExecContext(ctx, query, scope.ID, userID,
		prefs.Pinned, prefs.Muted, prefs.Hidden, prefs.MarkedReadLater, prefs.LastReadLaterMessageID)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("user %d has no preferences in %s", userID, scope)
	}
	return nil
}

func unhideQuery(scope models.Scope) (string, error) {
	table, key, err := preferenceTable(scope)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`UPDATE %s SET is_hidden=FALSE WHERE %s=$1 AND user_id = ANY($2) AND is_hidden`, table, key), nil
}

// Unhide implements PreferenceRepository.
func (r *PreferenceRepo) Unhide(ctx context.Context, scope models.Scope, userIDs []int) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	query, err := unhideQuery(scope)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, query, scope.ID, pq.Array(userIDs))
	if err != nil {
		return 0, fmt.Errorf("unhide: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("unhide: %w", err)
	}
	return n, nil
}
