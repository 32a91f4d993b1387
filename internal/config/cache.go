package config

import (
	"time"
)

// CacheConfig defines settings for the list response cache middleware.
// When Enabled is false or no Redis client is available, caching is a no-op.
// TTL controls the lifetime of cached entries; Prefix namespaces the keys so
// several deployments can share one Redis instance.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("MEDIA_CACHE_ENABLED", true),
		TTL:     envDur("MEDIA_CACHE_TTL", 30*time.Second),
		Prefix:  envStr("MEDIA_CACHE_PREFIX", "cache"),
	}
}
