package repositories

import (
	"context"
	"fmt"
	"strings"

	"messaging-service/internal/models"
)

// FavoriteRepository persists per-user message bookmarks.
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, messageID int) (bool, error)
	Add(ctx context.Context, f models.Favorite) error
	Remove(ctx context.Context, userID, messageID int) error
	// ListForUser pages through the user's favorited messages, skipping
	// deleted ones and those of scopes the user no longer belongs to.
	ListForUser(ctx context.Context, userID int, page models.Page) ([]models.Message, error)
}

// FavoriteRepo is a sqlx implementation of FavoriteRepository.
type FavoriteRepo struct {
	db dbtx
}

// Exists implements FavoriteRepository.
func (r *FavoriteRepo) Exists(ctx context.Context, userID, messageID int) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id=$1 AND message_id=$2)`,
		userID, messageID); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

// Add implements FavoriteRepository.
func (r *FavoriteRepo) Add(ctx context.Context, f models.Favorite) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO favorites (user_id, message_id, created_at) VALUES ($1, $2, $3)`,
		f.UserID, f.MessageID, f.CreatedAt)
	if isUniqueViolation(err) {
		return models.Conflictf("message %d is already a favorite", f.MessageID)
	}
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove implements FavoriteRepository.
func (r *FavoriteRepo) Remove(ctx context.Context, userID, messageID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id=$1 AND message_id=$2`, userID, messageID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("message %d is not a favorite", messageID)
	}
	return nil
}

// ListForUser implements FavoriteRepository. The cursor applies to the time
// the favorite was added. Messages from scopes the user has left are skipped.
func (r *FavoriteRepo) ListForUser(ctx context.Context, userID int, page models.Page) ([]models.Message, error) {
	query, args := favoritesQuery(userID, page)
	var msgs []models.Message
	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return msgs, nil
}

func favoritesQuery(userID int, page models.Page) (string, []interface{}) {
	page = page.Normalize()
	var (
		where = []string{
			"f.user_id = $1",
			"m.is_deleted = FALSE",
			`(EXISTS (SELECT 1 FROM conversation_participants cp WHERE cp.conversation_id = m.conversation_id AND cp.user_id = $1)
            OR EXISTS (SELECT 1 FROM channel_members cm WHERE cm.channel_id = m.channel_id AND cm.user_id = $1))`,
		}
		args  = []interface{}{userID}
		order = "DESC"
	)
	if page.Before != nil {
		args = append(args, *page.Before)
		where = append(where, fmt.Sprintf("f.created_at < $%d", len(args)))
	}
	if page.After != nil {
		args = append(args, *page.After)
		where = append(where, fmt.Sprintf("f.created_at > $%d", len(args)))
		order = "ASC"
	}
	args = append(args, page.Limit)

	query := fmt.Sprintf(`SELECT %s FROM favorites f INNER JOIN messages m ON m.id = f.message_id
        WHERE %s ORDER BY f.created_at %s LIMIT $%d`, qualify("m", messageColumns), strings.Join(where, " AND "), order, len(args))
	return query, args
}
