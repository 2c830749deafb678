package repositories

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"messaging-service/internal/models"
)

func TestQualify(t *testing.T) {
	assert.Equal(t, "m.id, m.sender_id, m.created_at", qualify("m", "id, sender_id,\n\tcreated_at"))
}

func TestScopeTables(t *testing.T) {
	col, err := scopeColumn(models.ChannelScope(5))
	assert.NoError(t, err)
	assert.Equal(t, "channel_id", col)

	table, key, err := preferenceTable(models.ConversationScope(10))
	assert.NoError(t, err)
	assert.Equal(t, "conversation_participants", table)
	assert.Equal(t, "conversation_id", key)

	_, err = scopeColumn(models.Scope{Kind: "group", ID: 1})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, _, err = preferenceTable(models.Scope{Kind: "group", ID: 1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestErrorMapping(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pq.Error{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}))

	assert.ErrorIs(t, notFound(sql.ErrNoRows, "message %d not found", 1), models.ErrNotFound)
	assert.Equal(t, assert.AnError, notFound(assert.AnError, "unused"))
}

func TestUnhideQueryTouchesOnlyHidden(t *testing.T) {
	query, err := unhideQuery(models.ChannelScope(5))
	assert.NoError(t, err)
	assert.Equal(t, "UPDATE channel_members SET is_hidden=FALSE WHERE channel_id=$1 AND user_id = ANY($2) AND is_hidden", query)

	_, err = unhideQuery(models.Scope{Kind: "group", ID: 1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFavoritesQueryFiltersByMembership(t *testing.T) {
	before := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	query, args := favoritesQuery(3, models.Page{Limit: 500, Before: &before})

	assert.Contains(t, query, "cp.conversation_id = m.conversation_id AND cp.user_id = $1")
	assert.Contains(t, query, "cm.channel_id = m.channel_id AND cm.user_id = $1")
	assert.Contains(t, query, "f.created_at < $2")
	assert.Contains(t, query, "ORDER BY f.created_at DESC LIMIT $3")
	assert.Equal(t, []interface{}{3, before, 100}, args)
}
