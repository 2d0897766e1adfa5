package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_URL", "root@tcp(localhost:3306)/authkit")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.ClientURL)
	assert.Equal(t, 120*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.True(t, cfg.DBMigrate)
	assert.False(t, cfg.EventsEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestParse_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "memory")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestParse_SQLDriverNeedsURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_URL", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")
}

func TestParse_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Parse()
	require.Error(t, err)
}

func TestParse_MemoryDriverAndProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("DB_DRIVER", " Memory ")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DBDriver)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.TokenTTL)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.Equal(t, KeyByIPRoute, rl.KeyStrategy)
}

func TestLoadRateLimitConfig_KeyStrategy(t *testing.T) {
	tests := map[string]string{
		"ip":            KeyByIP,
		" Route ":       KeyByRoute,
		"ip_route":      KeyByIPRoute,
		"user":          KeyByIPRoute,
		"ip_user_route": KeyByIPRoute,
		"bogus":         KeyByIPRoute,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			t.Setenv("RATE_LIMIT_KEY_STRATEGY", in)
			assert.Equal(t, want, LoadRateLimitConfig().KeyStrategy)
		})
	}
}

func TestLoadRateLimitConfig_BurstAndEvery(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "7")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "500ms")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 7, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 500*time.Millisecond, rl.RefillInterval)
}

func TestLoadRedisConfig_HostPortWins(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_ADDR", "ignored:1")

	rc := LoadRedisConfig()
	assert.True(t, rc.Enabled)
	assert.Equal(t, "cache:6380", rc.Addr)
}

func TestNewRedisClient_Disabled(t *testing.T) {
	assert.Nil(t, NewRedisClient(RedisConfig{Enabled: false, Addr: "localhost:6379"}))
}

func TestLoadUserCacheConfig(t *testing.T) {
	t.Setenv("USER_CACHE_ENABLED", "off")
	t.Setenv("USER_CACHE_TTL", "1m")

	uc := LoadUserCacheConfig()
	assert.False(t, uc.Enabled)
	assert.Equal(t, time.Minute, uc.TTL)
	assert.Equal(t, "authkit:user", uc.Prefix)
}
