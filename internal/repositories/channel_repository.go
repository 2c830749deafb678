package repositories

import (
	"context"
	"fmt"

	"messaging-service/internal/models"
)

// ChannelRepository abstracts channel and membership persistence.
type ChannelRepository interface {
	Create(ctx context.Context, ch *models.Channel) error
	Get(ctx context.Context, id int) (models.Channel, error)
	GetForUpdate(ctx context.Context, id int) (models.Channel, error)
	Update(ctx context.Context, ch models.Channel) error
	ListForUser(ctx context.Context, userID int) ([]models.Channel, error)
	AddMember(ctx context.Context, channelID int, m models.Member) error
	RemoveMember(ctx context.Context, channelID, userID int) error
	UpdateMemberRole(ctx context.Context, channelID, userID int, role models.Role) error
}

// ChannelRepo is a sqlx implementation of ChannelRepository.
type ChannelRepo struct {
	db dbtx
}

const channelColumns = `id, name, description, type, creator_id, is_archived, archived_at, created_at`

// Create inserts a channel and its initial members.
func (r *ChannelRepo) Create(ctx context.Context, ch *models.Channel) error {
	if err := r.db.QueryRowxContext(ctx, `INSERT INTO channels (name, description, type, creator_id, created_at)
        VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		ch.Name, ch.Description, ch.Type, ch.CreatorID, ch.CreatedAt).
		Scan(&ch.ID, &ch.CreatedAt); err != nil {
		return fmt.Errorf("insert channel: %w", err)
	}
	for _, m := range ch.Members {
		if err := r.AddMember(ctx, ch.ID, m); err != nil {
			return err
		}
	}
	return nil
}

// Get fetches a channel with its members ordered by join time.
func (r *ChannelRepo) Get(ctx context.Context, id int) (models.Channel, error) {
	return r.get(ctx, `SELECT `+channelColumns+` FROM channels WHERE id=$1`, id)
}

// GetForUpdate is Get with the channel row locked until the transaction ends.
func (r *ChannelRepo) GetForUpdate(ctx context.Context, id int) (models.Channel, error) {
	return r.get(ctx, `SELECT `+channelColumns+` FROM channels WHERE id=$1 FOR UPDATE`, id)
}

func (r *ChannelRepo) get(ctx context.Context, query string, id int) (models.Channel, error) {
	var ch models.Channel
	if err := r.db.GetContext(ctx, &ch, query, id); err != nil {
		return models.Channel{}, notFound(err, "channel %d not found", id)
	}
	if err := r.db.SelectContext(ctx, &ch.Members, `SELECT user_id, role, joined_at, is_pinned, is_muted, is_hidden, marked_read_later, last_read_later_message_id
        FROM channel_members WHERE channel_id=$1 ORDER BY joined_at ASC, user_id ASC`, id); err != nil {
		return models.Channel{}, fmt.Errorf("load members: %w", err)
	}
	return ch, nil
}

// Update persists name, description and archive state.
func (r *ChannelRepo) Update(ctx context.Context, ch models.Channel) error {
	res, err := r.db.ExecContext(ctx, `UPDATE channels SET name=$2, description=$3, is_archived=$4, archived_at=$5 WHERE id=$1`,
		ch.ID, ch.Name, ch.Description, ch.IsArchived, ch.ArchivedAt)
	if err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("channel %d not found", ch.ID)
	}
	return nil
}

// ListForUser returns active channels that include the user.
func (r *ChannelRepo) ListForUser(ctx context.Context, userID int) ([]models.Channel, error) {
	var channels []models.Channel
	err := r.db.SelectContext(ctx, &channels, `SELECT c.id, c.name, c.description, c.type, c.creator_id, c.is_archived, c.archived_at, c.created_at
        FROM channels c INNER JOIN channel_members m ON m.channel_id = c.id
        WHERE m.user_id=$1 AND c.is_archived = FALSE AND m.is_hidden = FALSE
        ORDER BY m.is_pinned DESC, c.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return channels, nil
}

// AddMember inserts a membership row.
func (r *ChannelRepo) AddMember(ctx context.Context, channelID int, m models.Member) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO channel_members (channel_id, user_id, role, joined_at) VALUES ($1, $2, $3, $4)`,
		channelID, m.UserID, m.Role, m.JoinedAt)
	if isUniqueViolation(err) {
		return models.Conflictf("user %d is already a member of channel %d", m.UserID, channelID)
	}
	if err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

// RemoveMember deletes a membership row.
func (r *ChannelRepo) RemoveMember(ctx context.Context, channelID, userID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM channel_members WHERE channel_id=$1 AND user_id=$2`, channelID, userID)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("user %d is not a member of channel %d", userID, channelID)
	}
	return nil
}

// UpdateMemberRole sets a member's role.
func (r *ChannelRepo) UpdateMemberRole(ctx context.Context, channelID, userID int, role models.Role) error {
	res, err := r.db.ExecContext(ctx, `UPDATE channel_members SET role=$3 WHERE channel_id=$1 AND user_id=$2`, channelID, userID, role)
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.NotFoundf("user %d is not a member of channel %d", userID, channelID)
	}
	return nil
}
