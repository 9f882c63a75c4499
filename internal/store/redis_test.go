// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/vitrine/internal/config"
)

func newMiniRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = r.Close() })
	return r, mr
}

func TestRedisContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		r, _ := newMiniRedis(t)
		return r
	})
}

func TestRedisBatchesApplyExpiry(t *testing.T) {
	ctx := context.Background()
	r, mr := newMiniRedis(t)

	if err := r.LPushTrim(ctx, "recent", "p1", 10, 7*24*time.Hour); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("recent"); got != 7*24*time.Hour {
		t.Errorf("recent TTL = %v, want 168h", got)
	}

	if _, err := r.ZIncrBy(ctx, "trend", "p1", 1, 2*time.Hour); err != nil {
		t.Fatal(err)
	}
	if got := mr.TTL("trend"); got != 2*time.Hour {
		t.Errorf("trend TTL = %v, want 2h", got)
	}

	mr.FastForward(2 * time.Hour)
	if mr.Exists("trend") {
		t.Error("trend should have expired")
	}
}

func TestRedisGetAbsentIsNotError(t *testing.T) {
	r, _ := newMiniRedis(t)
	v, found, err := r.Get(context.Background(), "missing")
	if err != nil || found || v != "" {
		t.Errorf("Get(missing) = %q, %v, %v", v, found, err)
	}
}

func TestNewRedisPingFailure(t *testing.T) {
	cfg := &config.StoreConfig{
		Addr:        "127.0.0.1:1",
		PoolSize:    1,
		DialTimeout: 200 * time.Millisecond,
		OpTimeout:   100 * time.Millisecond,
	}
	if _, err := NewRedis(context.Background(), cfg); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestNewRedisConnects(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.StoreConfig{
		Addr:        mr.Addr(),
		PoolSize:    2,
		DialTimeout: time.Second,
		OpTimeout:   time.Second,
	}
	r, err := NewRedis(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer r.Close()

	if _, err := r.Incr(context.Background(), "c"); err != nil {
		t.Errorf("Incr() error = %v", err)
	}
}
