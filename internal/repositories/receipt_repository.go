package repositories

import (
	"context"
	"fmt"
	"time"

	"messaging-service/internal/models"
)

// ReadReceiptRepository tracks which channel messages a member has read.
type ReadReceiptRepository interface {
	// Add records a receipt and reports whether it was new.
	Add(ctx context.Context, r models.ReadReceipt) (bool, error)
	// CountUnread counts non-deleted messages posted after since by someone
	// else that the user holds no receipt for.
	CountUnread(ctx context.Context, channelID, userID int, since time.Time) (int, error)
	// MarkAll inserts receipts for every unread message and returns how many were added.
	MarkAll(ctx context.Context, channelID, userID int, since, readAt time.Time) (int64, error)
}

// ReadReceiptRepo is a sqlx implementation of ReadReceiptRepository.
type ReadReceiptRepo struct {
	db dbtx
}

const unreadChannelMessages = `FROM messages m
        WHERE m.channel_id=$1 AND m.sender_id<>$2 AND m.is_deleted = FALSE AND m.created_at > $3
        AND NOT EXISTS (SELECT 1 FROM read_receipts r WHERE r.message_id = m.id AND r.user_id = $2)`

// Add implements ReadReceiptRepository.
func (r *ReadReceiptRepo) Add(ctx context.Context, receipt models.ReadReceipt) (bool, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO read_receipts (message_id, user_id, read_at) VALUES ($1, $2, $3)
        ON CONFLICT (message_id, user_id) DO NOTHING`, receipt.MessageID, receipt.UserID, receipt.ReadAt)
	if err != nil {
		return false, fmt.Errorf("insert receipt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert receipt: %w", err)
	}
	return n > 0, nil
}

// CountUnread implements ReadReceiptRepository.
func (r *ReadReceiptRepo) CountUnread(ctx context.Context, channelID, userID int, since time.Time) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) `+unreadChannelMessages, channelID, userID, since); err != nil {
		return 0, fmt.Errorf("count channel unread: %w", err)
	}
	return count, nil
}

// MarkAll implements ReadReceiptRepository.
func (r *ReadReceiptRepo) MarkAll(ctx context.Context, channelID, userID int, since, readAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO read_receipts (message_id, user_id, read_at)
        SELECT m.id, $2, $4 `+unreadChannelMessages+`
        ON CONFLICT (message_id, user_id) DO NOTHING`, channelID, userID, since, readAt)
	if err != nil {
		return 0, fmt.Errorf("mark channel read: %w", err)
	}
	return res.RowsAffected()
}
