package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"messaging-service/internal/models"
)

// ConversationRepository abstracts direct conversation persistence.
type ConversationRepository interface {
	Get(ctx context.Context, id int) (models.Conversation, error)
	GetForUpdate(ctx context.Context, id int) (models.Conversation, error)
	GetByPair(ctx context.Context, userA, userB int) (models.Conversation, error)
	Create(ctx context.Context, conv *models.Conversation) error
	Update(ctx context.Context, conv models.Conversation) error
	ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db dbtx
}

const conversationColumns = `id, user1_id, user2_id, initiated_by, is_notes, has_messages, created_at`

type participantRow struct {
	UserID int `db:"user_id"`
	models.Preferences
}

// Get fetches a conversation with its participants' preferences.
func (r *ConversationRepo) Get(ctx context.Context, id int) (models.Conversation, error) {
	return r.get(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1`, id)
}

// GetForUpdate is Get with the conversation row locked until the transaction ends.
func (r *ConversationRepo) GetForUpdate(ctx context.Context, id int) (models.Conversation, error) {
	return r.get(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id=$1 FOR UPDATE`, id)
}

// GetByPair looks a conversation up by its canonical participant pair.
func (r *ConversationRepo) GetByPair(ctx context.Context, userA, userB int) (models.Conversation, error) {
	u1, u2 := models.CanonicalPair(userA, userB)
	return r.get(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE user1_id=$1 AND user2_id=$2`, u1, u2)
}

func (r *ConversationRepo) get(ctx context.Context, query string, args ...interface{}) (models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.GetContext(ctx, &conv, query, args...); err != nil {
		return models.Conversation{}, notFound(err, "conversation not found")
	}

	var rows []participantRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT user_id, is_pinned, is_muted, is_hidden, marked_read_later, last_read_later_message_id
        FROM conversation_participants WHERE conversation_id=$1`, conv.ID); err != nil {
		return models.Conversation{}, fmt.Errorf("load participants: %w", err)
	}
	conv.Participants = make(map[int]*models.Preferences, len(rows))
	for i := range rows {
		conv.Participants[rows[i].UserID] = &rows[i].Preferences
	}
	return conv, nil
}

// Create inserts the conversation and one participant row per user. A
// concurrent insert of the same pair surfaces as models.ErrConflict without
// aborting the transaction.
func (r *ConversationRepo) Create(ctx context.Context, conv *models.Conversation) error {
	err := r.db.QueryRowxContext(ctx, `INSERT INTO conversations (user1_id, user2_id, initiated_by, is_notes, has_messages, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (user1_id, user2_id) DO NOTHING
        RETURNING id, created_at`,
		conv.User1ID, conv.User2ID, conv.InitiatedBy, conv.IsNotes, conv.HasMessages, conv.CreatedAt).
		Scan(&conv.ID, &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Conflictf("conversation between %d and %d already exists", conv.User1ID, conv.User2ID)
	}
	if err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	for _, userID := range conv.ParticipantIDs() {
		if _, err := r.db.ExecContext(ctx, `INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2)`, conv.ID, userID); err != nil {
			return fmt.Errorf("insert participant: %w", err)
		}
		if _, ok := conv.Participants[userID]; !ok {
			if conv.Participants == nil {
				conv.Participants = map[int]*models.Preferences{}
			}
			conv.Participants[userID] = &models.Preferences{}
		}
	}
	return nil
}

// Update persists the mutable conversation columns. Participant preferences
// are saved through PreferenceRepository.
func (r *ConversationRepo) Update(ctx context.Context, conv models.Conversation) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET has_messages=$2 WHERE id=$1`, conv.ID, conv.HasMessages)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("conversation %d not found", conv.ID)
	}
	return nil
}

// ListForUser returns the conversations visible to the user.
func (r *ConversationRepo) ListForUser(ctx context.Context, userID int) ([]models.ConversationSummary, error) {
	query := `SELECT c.id,
            CASE WHEN c.user1_id=$1 THEN c.user2_id ELSE c.user1_id END AS other_user_id,
            c.is_notes, c.has_messages, c.created_at,
            p.is_pinned, p.is_muted, p.is_hidden, p.marked_read_later, p.last_read_later_message_id
        FROM conversations c
        INNER JOIN conversation_participants p ON p.conversation_id = c.id AND p.user_id = $1
        WHERE (c.has_messages OR c.initiated_by = $1 OR c.is_notes) AND p.is_hidden = FALSE
        ORDER BY p.is_pinned DESC, c.created_at DESC`
	var result []models.ConversationSummary
	if err := r.db.SelectContext(ctx, &result, query, userID); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return result, nil
}
