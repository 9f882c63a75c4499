// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/vitrine/internal/logging"
)

// minJWTSecretLength is the minimum accepted HS256 secret length.
const minJWTSecretLength = 32

// Validate checks that the configuration is complete and consistent
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateDomain(); err != nil {
		return err
	}
	if err := c.validatePresence(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendRedis:
		if c.Store.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORE_BACKEND=redis")
		}
		if c.Store.PoolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be at least 1, got %d", c.Store.PoolSize)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendRedis, BackendMemory, c.Store.Backend)
	}

	if c.Store.OpTimeout <= 0 {
		return fmt.Errorf("STORE_OP_TIMEOUT must be positive")
	}
	if strings.TrimSpace(c.Store.KeyPrefix) == "" {
		return fmt.Errorf("STORE_KEY_PREFIX must not be empty")
	}
	if strings.Contains(c.Store.KeyPrefix, " ") {
		return fmt.Errorf("STORE_KEY_PREFIX must not contain spaces")
	}
	if c.Store.BreakerFailures == 0 {
		return fmt.Errorf("STORE_BREAKER_FAILURES must be at least 1")
	}
	if c.Store.BreakerTimeout <= 0 {
		return fmt.Errorf("STORE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDomain() error {
	if c.Engagement.RecentCapacity < 1 {
		return fmt.Errorf("RECENT_CAPACITY must be at least 1, got %d", c.Engagement.RecentCapacity)
	}
	if c.Engagement.RecentTTL <= 0 {
		return fmt.Errorf("RECENT_TTL must be positive")
	}
	if c.Recommend.CoOccurrenceTopN < 1 {
		return fmt.Errorf("COOCCURRENCE_TOP_N must be at least 1, got %d", c.Recommend.CoOccurrenceTopN)
	}
	if c.Recommend.PopularTTL <= 0 {
		return fmt.Errorf("POPULAR_TTL must be positive")
	}
	if c.Recommend.DefaultK < 1 || c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K must be between 1 and RECOMMEND_MAX_K (%d), got %d",
			c.Recommend.MaxK, c.Recommend.DefaultK)
	}
	if c.Cart.TTL <= 0 {
		return fmt.Errorf("CART_TTL must be positive")
	}
	return nil
}

func (c *Config) validatePresence() error {
	if c.Presence.MirrorTTL <= 0 {
		return fmt.Errorf("PRESENCE_MIRROR_TTL must be positive")
	}
	if c.Presence.MirrorRefresh <= 0 || c.Presence.MirrorRefresh >= c.Presence.MirrorTTL {
		return fmt.Errorf("PRESENCE_MIRROR_REFRESH must be positive and shorter than PRESENCE_MIRROR_TTL")
	}
	if c.Presence.SendBuffer < 1 {
		return fmt.Errorf("PRESENCE_SEND_BUFFER must be at least 1, got %d", c.Presence.SendBuffer)
	}
	if c.Presence.InboundRate <= 0 || c.Presence.InboundBurst < 1 {
		return fmt.Errorf("PRESENCE_INBOUND_RATE and PRESENCE_INBOUND_BURST must be positive")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret != "" && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", minJWTSecretLength)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}
