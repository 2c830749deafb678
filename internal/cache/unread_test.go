package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"messaging-service/internal/models"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "unread:channel:5:2", Key(models.ChannelScope(5), 2))
	assert.Equal(t, "unread:conversation:10:1", Key(models.ConversationScope(10), 1))
	assert.Equal(t, "unread:channel:5:2:version", VersionKey(models.ChannelScope(5), 2))
}

func TestParseInt64(t *testing.T) {
	n, err := parseInt64(nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = parseInt64("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	_, err = parseInt64(42)
	assert.Error(t, err)
}

func TestNewUnreadCacheWithoutAddrIsNoop(t *testing.T) {
	c := NewUnreadCache("", time.Minute, zaptest.NewLogger(t))

	assert.IsType(t, Noop{}, c)
}

func TestNoopNeverHits(t *testing.T) {
	var c UnreadCache = Noop{}
	ctx := context.Background()
	scope := models.ChannelScope(5)

	require.NoError(t, c.Set(ctx, scope, 1, 3, 0))
	l, err := c.Get(ctx, scope, 1)
	require.NoError(t, err)
	assert.False(t, l.Hit)
	assert.NoError(t, c.Invalidate(ctx, scope, 1, 2))
	assert.NoError(t, c.Close())
}
