package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messaging-service/internal/models"
)

// ReactionRepository persists message reactions.
type ReactionRepository interface {
	// FindByUser returns the user's reaction on the message, or nil.
	FindByUser(ctx context.Context, messageID, userID int) (*models.Reaction, error)
	Add(ctx context.Context, r *models.Reaction) error
	Remove(ctx context.Context, id int) error
	ListByMessage(ctx context.Context, messageID int) ([]models.Reaction, error)
}

// ReactionRepo is a sqlx implementation of ReactionRepository.
type ReactionRepo struct {
	db dbtx
}

// FindByUser implements ReactionRepository.
func (r *ReactionRepo) FindByUser(ctx context.Context, messageID, userID int) (*models.Reaction, error) {
	var reaction models.Reaction
	err := r.db.GetContext(ctx, &reaction, `SELECT id, message_id, user_id, emoji, created_at FROM reactions
        WHERE message_id=$1 AND user_id=$2`, messageID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find reaction: %w", err)
	}
	return &reaction, nil
}

// Add inserts a reaction. The (message_id, user_id) unique key turns a
// second reaction by the same user into a conflict.
func (r *ReactionRepo) Add(ctx context.Context, reaction *models.Reaction) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO reactions (message_id, user_id, emoji, created_at)
        VALUES ($1, $2, $3, $4) RETURNING id`,
		reaction.MessageID, reaction.UserID, reaction.Emoji, reaction.CreatedAt).Scan(&reaction.ID)
	if isUniqueViolation(err) {
		return models.Conflictf("user %d already reacted to message %d", reaction.UserID, reaction.MessageID)
	}
	if err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	return nil
}

// Remove deletes a reaction by id.
func (r *ReactionRepo) Remove(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reactions WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("reaction %d not found", id)
	}
	return nil
}

// ListByMessage implements ReactionRepository.
func (r *ReactionRepo) ListByMessage(ctx context.Context, messageID int) ([]models.Reaction, error) {
	var reactions []models.Reaction
	if err := r.db.SelectContext(ctx, &reactions, `SELECT id, message_id, user_id, emoji, created_at FROM reactions
        WHERE message_id=$1 ORDER BY created_at ASC, id ASC`, messageID); err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	return reactions, nil
}
