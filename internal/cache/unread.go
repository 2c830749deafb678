package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"messaging-service/internal/models"
)

// UnreadCache caches per-user unread counters of a conversation or channel.
type UnreadCache interface {
	Get(ctx context.Context, scope models.Scope, userID int) (Lookup, error)
	// Set stores count unless the counter was invalidated after the Get
	// that returned version.
	Set(ctx context.Context, scope models.Scope, userID, count int, version int64) error
	Invalidate(ctx context.Context, scope models.Scope, userIDs ...int) error
	Close() error
}

// Lookup is the result of a cache read.
type Lookup struct {
	Count int
	Hit   bool
	// Version is the invalidation generation of the counter at read time.
	Version int64
}

// NewUnreadCache connects to Redis, or returns a noop cache when addr is
// empty or the server does not answer a ping.
func NewUnreadCache(addr string, ttl time.Duration, log *zap.Logger) UnreadCache {
	if addr == "" {
		log.Info("unread cache disabled, using noop", zap.String("reason", "empty redis addr"))
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("unread cache disabled, using noop", zap.Error(err))
		_ = client.Close()
		return Noop{}
	}

	log.Info("unread cache connected", zap.String("addr", addr))
	return NewRedisUnreadCache(client, ttl)
}

// versionTTL bounds how long an invalidation generation is remembered.
const versionTTL = 24 * time.Hour

// RedisUnreadCache stores counters as plain integer keys with a TTL. Each
// counter has a generation key that Invalidate bumps; Set only writes
// when the generation is still the one its caller read.
type RedisUnreadCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisUnreadCache wraps an existing client.
func NewRedisUnreadCache(client *redis.Client, ttl time.Duration) *RedisUnreadCache {
	return &RedisUnreadCache{client: client, ttl: ttl}
}

// Key is the Redis key of one counter.
func Key(scope models.Scope, userID int) string {
	return fmt.Sprintf("unread:%s:%d:%d", scope.Kind, scope.ID, userID)
}

// VersionKey is the Redis key of the generation of one counter.
func VersionKey(scope models.Scope, userID int) string {
	return Key(scope, userID) + ":version"
}

func (c *RedisUnreadCache) Get(ctx context.Context, scope models.Scope, userID int) (Lookup, error) {
	vals, err := c.client.MGet(ctx, Key(scope, userID), VersionKey(scope, userID)).Result()
	if err != nil {
		return Lookup{}, fmt.Errorf("get unread: %w", err)
	}
	var l Lookup
	if l.Version, err = parseInt64(vals[1]); err != nil {
		return Lookup{}, fmt.Errorf("parse unread version: %w", err)
	}
	if vals[0] == nil {
		return l, nil
	}
	n, err := parseInt64(vals[0])
	if err != nil {
		return Lookup{}, fmt.Errorf("parse unread: %w", err)
	}
	l.Count, l.Hit = int(n), true
	return l, nil
}

func parseInt64(v interface{}) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected value %v", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *RedisUnreadCache) Set(ctx context.Context, scope models.Scope, userID, count int, version int64) error {
	key, vkey := Key(scope, userID), VersionKey(scope, userID)
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, vkey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, count, c.ttl)
			return nil
		})
		return err
	}, vkey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("set unread: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, scope models.Scope, userIDs ...int) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			vkey := VersionKey(scope, id)
			pipe.Del(ctx, Key(scope, id))
			pipe.Incr(ctx, vkey)
			pipe.Expire(ctx, vkey, versionTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate unread: %w", err)
	}
	return nil
}

func (c *RedisUnreadCache) Close() error {
	return c.client.Close()
}

// Noop never caches anything.
type Noop struct{}

func (Noop) Get(context.Context, models.Scope, int) (Lookup, error)    { return Lookup{}, nil }
func (Noop) Set(context.Context, models.Scope, int, int, int64) error { return nil }
func (Noop) Invalidate(context.Context, models.Scope, ...int) error   { return nil }
func (Noop) Close() error                                             { return nil }
