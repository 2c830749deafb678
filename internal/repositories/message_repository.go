package repositories

import (
	"context"
	"fmt"
	"strings"

	"messaging-service/internal/models"
)

// MessageRepository defines interactions for direct and channel messages.
type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	Get(ctx context.Context, id int) (models.Message, error)
	GetForUpdate(ctx context.Context, id int) (models.Message, error)
	Update(ctx context.Context, msg models.Message) error
	List(ctx context.Context, scope models.Scope, page models.Page) ([]models.Message, error)
	ListPinned(ctx context.Context, scope models.Scope) ([]models.Message, error)
	MarkAllDirectRead(ctx context.Context, conversationID, userID int) (int64, error)
	CountUnreadDirect(ctx context.Context, conversationID, userID int) (int, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db dbtx
}

const messageColumns = `id, conversation_id, channel_id, sender_id, receiver_id, content, file_url, reply_to_message_id,
        is_forwarded, is_edited, edited_at, is_deleted, deleted_at, is_pinned, pinned_at, pinned_by, is_read, created_at`

// qualify prefixes every column of a column list with a table alias.
func qualify(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

func scopeColumn(scope models.Scope) (string, error) {
	switch scope.Kind {
	case models.ScopeConversation:
		return "conversation_id", nil
	case models.ScopeChannel:
		return "channel_id", nil
	}
	return "", models.Validationf("unknown scope kind %q", scope.Kind)
}

// Create stores a new message.
func (r *MessageRepo) Create(ctx context.Context, msg *models.Message) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages
        (conversation_id, channel_id, sender_id, receiver_id, content, file_url, reply_to_message_id, is_forwarded, is_read, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id, created_at`,
		msg.ConversationID, msg.ChannelID, msg.SenderID, msg.ReceiverID, msg.Content, msg.FileURL,
		msg.ReplyToMessageID, msg.IsForwarded, msg.IsRead, msg.CreatedAt).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// Get retrieves a single message, deleted or not.
func (r *MessageRepo) Get(ctx context.Context, id int) (models.Message, error) {
	var msg models.Message
	if err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, id); err != nil {
		return models.Message{}, notFound(err, "message %d not found", id)
	}
	return msg, nil
}

// GetForUpdate is Get with the message row locked until the transaction
// ends. Every per-message toggle goes through it so concurrent toggles on
// one message serialise.
func (r *MessageRepo) GetForUpdate(ctx context.Context, id int) (models.Message, error) {
	var msg models.Message
	if err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1 FOR UPDATE`, id); err != nil {
		return models.Message{}, notFound(err, "message %d not found", id)
	}
	return msg, nil
}

// Update persists the mutable message columns.
func (r *MessageRepo) Update(ctx context.Context, msg models.Message) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET content=$2, is_edited=$3, edited_at=$4, is_deleted=$5, deleted_at=$6,
        is_pinned=$7, pinned_at=$8, pinned_by=$9, is_read=$10 WHERE id=$1`,
		msg.ID, msg.Content, msg.IsEdited, msg.EditedAt, msg.IsDeleted, msg.DeletedAt,
		msg.IsPinned, msg.PinnedAt, msg.PinnedBy, msg.IsRead)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("message %d not found", msg.ID)
	}
	return nil
}

// List returns one page of non-deleted messages in a scope. Pages read
// backwards from Before (or now) unless After is set.
func (r *MessageRepo) List(ctx context.Context, scope models.Scope, page models.Page) ([]models.Message, error) {
	col, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}
	page = page.Normalize()

	var (
		where = []string{col + " = $1", "is_deleted = FALSE"}
		args  = []interface{}{scope.ID}
		order = "DESC"
	)
	if page.Before != nil {
		args = append(args, *page.Before)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	if page.After != nil {
		args = append(args, *page.After)
		where = append(where, fmt.Sprintf("created_at > $%d", len(args)))
		order = "ASC"
	}
	args = append(args, page.Limit)
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE %s ORDER BY created_at %s, id %s LIMIT $%d`,
		messageColumns, strings.Join(where, " AND "), order, order, len(args))

	var msgs []models.Message
	if err := r.db.SelectContext(ctx, &msgs, query, args...); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// ListPinned returns the pinned, non-deleted messages of a scope, latest pin first.
func (r *MessageRepo) ListPinned(ctx context.Context, scope models.Scope) ([]models.Message, error) {
	col, err := scopeColumn(scope)
	if err != nil {
		return nil, err
	}
	var msgs []models.Message
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE %s = $1 AND is_pinned = TRUE AND is_deleted = FALSE ORDER BY pinned_at DESC`, messageColumns, col)
	if err := r.db.SelectContext(ctx, &msgs, query, scope.ID); err != nil {
		return nil, fmt.Errorf("list pinned messages: %w", err)
	}
	return msgs, nil
}

// MarkAllDirectRead flips every unread message addressed to userID in the
// conversation and returns how many changed.
func (r *MessageRepo) MarkAllDirectRead(ctx context.Context, conversationID, userID int) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = TRUE
        WHERE conversation_id=$1 AND receiver_id=$2 AND sender_id<>$2 AND is_read = FALSE`, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("mark conversation read: %w", err)
	}
	return res.RowsAffected()
}

// CountUnreadDirect counts unread, non-deleted messages addressed to userID.
func (r *MessageRepo) CountUnreadDirect(ctx context.Context, conversationID, userID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM messages
        WHERE conversation_id=$1 AND receiver_id=$2 AND sender_id<>$2 AND is_read = FALSE AND is_deleted = FALSE`, conversationID, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}
