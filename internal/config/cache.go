package config

import "time"

// UserCacheConfig controls the Redis read-through cache in front of user
// lookups by id.  The cache is skipped when Enabled is false or no Redis
// client is available.  TTL bounds how long a cached projection may be
// served after the underlying record changes.
type UserCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadUserCacheConfig reads USER_CACHE_* variables, falling back to defaults.
func LoadUserCacheConfig() UserCacheConfig {
	return UserCacheConfig{
		Enabled: envBool("USER_CACHE_ENABLED", true),
		TTL:     envDur("USER_CACHE_TTL", 30*time.Second),
		Prefix:  envStr("USER_CACHE_PREFIX", "authkit:user"),
	}
}
