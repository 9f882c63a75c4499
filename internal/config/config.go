// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
//
// Configuration Categories:
//
//  1. Infrastructure:
//     - Server: HTTP listener and timeouts
//     - Store: shared counter/set store backend, per-op deadline, circuit breaker
//
//  2. Domain:
//     - Engagement: recently viewed capacity and retention
//     - Recommend: co-occurrence retention, popularity window, result sizes
//     - Presence: viewer count mirror and per-connection limits
//     - Cart: session cart retention
//
//  3. Security and observability:
//     - Security: identity tokens, CORS, REST rate limiting
//     - Logging: log level and output format
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Store      StoreConfig      `koanf:"store"`
	Engagement EngagementConfig `koanf:"engagement"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Presence   PresenceConfig   `koanf:"presence"`
	Cart       CartConfig       `koanf:"cart"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Store backends.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// StoreConfig holds the shared store connection and resilience settings.
type StoreConfig struct {
	// Backend selects the store implementation: redis or memory.
	// The memory backend is process-local and only suitable for a single instance.
	Backend string `koanf:"backend"`

	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	PoolSize int    `koanf:"pool_size"`

	DialTimeout time.Duration `koanf:"dial_timeout"`

	// OpTimeout bounds every store call. A call that exceeds it fails with
	// store.ErrUnavailable.
	OpTimeout time.Duration `koanf:"op_timeout"`

	// KeyPrefix namespaces every key written by this process.
	KeyPrefix string `koanf:"key_prefix"`

	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32 `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing again.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// EngagementConfig holds affinity recorder settings
type EngagementConfig struct {
	RecentCapacity int           `koanf:"recent_capacity"`
	RecentTTL      time.Duration `koanf:"recent_ttl"`
}

// RecommendConfig holds recommender settings
type RecommendConfig struct {
	// CoOccurrenceTopN is how many partners each product keeps.
	CoOccurrenceTopN int           `koanf:"cooccurrence_top_n"`
	PopularTTL       time.Duration `koanf:"popular_ttl"`
	DefaultK         int           `koanf:"default_k"`
	MaxK             int           `koanf:"max_k"`

	// CategoryCacheTTL keeps product category lookups in process memory.
	// Zero disables the cache.
	CategoryCacheTTL time.Duration `koanf:"category_cache_ttl"`
}

// PresenceConfig holds realtime presence settings
type PresenceConfig struct {
	MirrorTTL     time.Duration `koanf:"mirror_ttl"`
	MirrorRefresh time.Duration `koanf:"mirror_refresh"`
	SendBuffer    int           `koanf:"send_buffer"`

	// InboundRate is the sustained number of client frames per second.
	InboundRate  float64 `koanf:"inbound_rate"`
	InboundBurst int     `koanf:"inbound_burst"`
}

// CartConfig holds session cart settings
type CartConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// SecurityConfig holds identity and HTTP protection settings
type SecurityConfig struct {
	// JWTSecret enables signed identity tokens. When empty, any presented
	// token is rejected; requests without one still resolve to X-Identity
	// or the client address.
	JWTSecret         string        `koanf:"jwt_secret"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}
