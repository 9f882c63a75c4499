// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/vitrine/config.yaml",
	"/etc/vitrine/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns the built-in configuration without reading files or the
// environment. Tests and embedded uses start from it.
func Default() *Config {
	return defaultConfig()
}

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:         BackendRedis,
			Addr:            "127.0.0.1:6379",
			Password:        "",
			DB:              0,
			PoolSize:        20,
			DialTimeout:     2 * time.Second,
			OpTimeout:       250 * time.Millisecond,
			KeyPrefix:       "vitrine",
			BreakerFailures: 5,
			BreakerTimeout:  10 * time.Second,
		},
		Engagement: EngagementConfig{
			RecentCapacity: 10,
			RecentTTL:      7 * 24 * time.Hour,
		},
		Recommend: RecommendConfig{
			CoOccurrenceTopN: 20,
			PopularTTL:       30 * 24 * time.Hour,
			DefaultK:         10,
			MaxK:             50,
			CategoryCacheTTL: time.Minute,
		},
		Presence: PresenceConfig{
			MirrorTTL:     5 * time.Minute,
			MirrorRefresh: 1 * time.Minute,
			SendBuffer:    256,
			InboundRate:   10,
			InboundBurst:  20,
		},
		Cart: CartConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// The resulting configuration is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	return load(findConfigFile())
}

// load builds the configuration from defaults, the given file (skipped when
// empty) and the environment.
func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// REDIS_ADDR -> store.addr
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML may already provide a list.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// Store mappings
	"store_backend":          "store.backend",
	"redis_addr":             "store.addr",
	"redis_password":         "store.password",
	"redis_db":               "store.db",
	"redis_pool_size":        "store.pool_size",
	"redis_dial_timeout":     "store.dial_timeout",
	"store_op_timeout":       "store.op_timeout",
	"store_key_prefix":       "store.key_prefix",
	"store_breaker_failures": "store.breaker_failures",
	"store_breaker_timeout":  "store.breaker_timeout",

	// Engagement mappings
	"recent_capacity": "engagement.recent_capacity",
	"recent_ttl":      "engagement.recent_ttl",

	// Recommendation mappings
	"cooccurrence_top_n":  "recommend.cooccurrence_top_n",
	"popular_ttl":         "recommend.popular_ttl",
	"recommend_default_k": "recommend.default_k",
	"recommend_max_k":     "recommend.max_k",
	"category_cache_ttl":  "recommend.category_cache_ttl",

	// Presence mappings
	"presence_mirror_ttl":     "presence.mirror_ttl",
	"presence_mirror_refresh": "presence.mirror_refresh",
	"presence_send_buffer":    "presence.send_buffer",
	"presence_inbound_rate":   "presence.inbound_rate",
	"presence_inbound_burst":  "presence.inbound_burst",

	// Cart mappings
	"cart_ttl": "cart.ttl",

	// Security mappings
	"jwt_secret":          "security.jwt_secret",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - REDIS_ADDR -> store.addr
//   - PRESENCE_MIRROR_TTL -> presence.mirror_ttl
//   - HTTP_PORT -> server.port
//
// Unmapped keys return an empty string and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
