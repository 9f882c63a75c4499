// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"

	"github.com/tomtom215/vitrine/internal/logging"
)

// Local is a concurrency-safe string cache. A nil *Local is a valid,
// always-missing cache.
type Local struct {
	cache *bigcache.BigCache
}

// NewLocal creates a cache whose entries live for ttl. maxEntries sizes
// the initial allocation and is not a hard cap.
func NewLocal(ttl time.Duration, maxEntries int) (*Local, error) {
	if ttl <= 0 {
		return nil, errors.New("cache ttl must be positive")
	}
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = 64
	cfg.MaxEntriesInWindow = maxEntries
	cfg.MaxEntrySize = 256
	cfg.CleanWindow = ttl
	cfg.Verbose = false

	c, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("init local cache: %w", err)
	}
	return &Local{cache: c}, nil
}

// Get returns the cached value for key.
func (l *Local) Get(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	data, err := l.cache.Get(key)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Set stores value under key. Failures are logged and otherwise ignored;
// the cache is an optimization.
func (l *Local) Set(key, value string) {
	if l == nil {
		return
	}
	if err := l.cache.Set(key, []byte(value)); err != nil {
		logging.Debug().Err(err).Str("key", key).Msg("Local cache set failed")
	}
}

// Delete removes key. Missing keys are ignored.
func (l *Local) Delete(key string) {
	if l == nil {
		return
	}
	if err := l.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		logging.Debug().Err(err).Str("key", key).Msg("Local cache delete failed")
	}
}

// Len returns the number of stored entries, including expired ones not yet
// cleaned up.
func (l *Local) Len() int {
	if l == nil {
		return 0
	}
	return l.cache.Len()
}

// Close stops the cleanup goroutine.
func (l *Local) Close() error {
	if l == nil {
		return nil
	}
	return l.cache.Close()
}
