// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"memory backend without addr", func(c *Config) {
			c.Store.Backend = BackendMemory
			c.Store.Addr = ""
		}, ""},
		{"redis backend without addr", func(c *Config) { c.Store.Addr = "" }, "REDIS_ADDR"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "mongo" }, "STORE_BACKEND"},
		{"zero op timeout", func(c *Config) { c.Store.OpTimeout = 0 }, "STORE_OP_TIMEOUT"},
		{"empty prefix", func(c *Config) { c.Store.KeyPrefix = " " }, "STORE_KEY_PREFIX"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"zero recent capacity", func(c *Config) { c.Engagement.RecentCapacity = 0 }, "RECENT_CAPACITY"},
		{"default k above max", func(c *Config) { c.Recommend.DefaultK = 100 }, "RECOMMEND_DEFAULT_K"},
		{"refresh not shorter than ttl", func(c *Config) { c.Presence.MirrorRefresh = 5 * time.Minute }, "PRESENCE_MIRROR_REFRESH"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "JWT_SECRET"},
		{"rate limit disabled ignores reqs", func(c *Config) {
			c.Security.RateLimitDisabled = true
			c.Security.RateLimitReqs = 0
		}, ""},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to mention %q", err.Error(), tt.wantErr)
			}
		})
	}
}
