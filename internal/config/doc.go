// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package config provides centralized configuration management for Vitrine.

Configuration is layered with Koanf v2, lowest priority first:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (config.yaml, /etc/vitrine/config.yaml, or CONFIG_PATH)
 3. Environment variables, mapped explicitly by envTransformFunc

Unmapped environment variables are ignored so unrelated process environment
never leaks into configuration.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT

Store:
  - STORE_BACKEND: redis or memory (default: redis)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_POOL_SIZE
  - STORE_OP_TIMEOUT: per-operation deadline (default: 250ms)
  - STORE_KEY_PREFIX: key namespace (default: vitrine)
  - STORE_BREAKER_FAILURES, STORE_BREAKER_TIMEOUT

Engagement and recommendations:
  - RECENT_CAPACITY, RECENT_TTL
  - COOCCURRENCE_TOP_N, POPULAR_TTL, RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K

Presence:
  - PRESENCE_MIRROR_TTL, PRESENCE_MIRROR_REFRESH, PRESENCE_SEND_BUFFER
  - PRESENCE_INBOUND_RATE, PRESENCE_INBOUND_BURST

Cart:
  - CART_TTL

Security:
  - JWT_SECRET: enables bearer identity tokens when set
  - CORS_ORIGINS: comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
