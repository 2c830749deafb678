package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("UNREAD_CACHE_TTL", "")
	t.Setenv("DEBUG_ROUTES", "true")

	cfg, err := FromEnv()

	require.Error(t, err, "an empty TTL is not a duration")

	t.Setenv("UNREAD_CACHE_TTL", "30s")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.UnreadCacheTTL)
	assert.True(t, cfg.DebugRoutes)
	assert.Equal(t, "messaging.events", cfg.AMQPExchange)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"UNREAD_CACHE_TTL": "-1m",
		"LOG_DEVELOPMENT":  "sometimes",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv("UNREAD_CACHE_TTL", "1m")
			t.Setenv(key, val)

			_, err := FromEnv()

			assert.ErrorContains(t, err, key)
		})
	}
}
