// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store { return NewMemory() })
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now))

	if err := m.Set(ctx, "viewers", "3", 5*time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := m.LPushTrim(ctx, "recent", "p1", 10, time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ZIncrBy(ctx, "trend", "p1", 1, 2*time.Hour); err != nil {
		t.Fatal(err)
	}

	if got := m.TTL("viewers"); got != 5*time.Minute {
		t.Errorf("TTL(viewers) = %v, want 5m", got)
	}

	clock.Advance(5 * time.Minute)
	if _, found, _ := m.Get(ctx, "viewers"); found {
		t.Error("viewers should have expired")
	}
	if items, _ := m.LRange(ctx, "recent", 0, -1); len(items) != 1 {
		t.Errorf("recent should still exist, got %v", items)
	}

	// A later write refreshes the rolling TTL.
	if err := m.LPushTrim(ctx, "recent", "p2", 10, time.Hour); err != nil {
		t.Fatal(err)
	}
	clock.Advance(58 * time.Minute)
	if items, _ := m.LRange(ctx, "recent", 0, -1); len(items) != 2 {
		t.Errorf("recent TTL should have been refreshed, got %v", items)
	}

	clock.Advance(2 * time.Hour)
	if scores, _ := m.ZScores(ctx, "trend"); len(scores) != 0 {
		t.Errorf("trend should have expired, got %v", scores)
	}
}

func TestMemorySweepsUnreadExpiredKeys(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now))

	// One hourly bucket per hour for two days, each with a two hour TTL.
	// Only the newest bucket is ever read.
	for hour := 0; hour < 48; hour++ {
		key := "trending:dresses:" + strconv.Itoa(hour)
		if _, err := m.ZIncrBy(ctx, key, "p1", 1, 2*time.Hour); err != nil {
			t.Fatal(err)
		}
		if err := m.Set(ctx, "cart:visitor-"+strconv.Itoa(hour), "{}", 3*time.Hour); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Hour)
	}

	// Buckets and carts from the last 2h and 3h are still live.
	if got := m.Len(); got > 5 {
		t.Errorf("entries held after 48 hours = %d, want <= 5", got)
	}
	if scores, _ := m.ZScores(ctx, "trending:dresses:47"); len(scores) != 1 {
		t.Errorf("newest bucket = %v, want one member", scores)
	}
}

func TestMemorySweepInterval(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := NewMemory(WithClock(clock.Now), WithSweepInterval(time.Hour))

	if err := m.Set(ctx, "a", "1", time.Minute); err != nil {
		t.Fatal(err)
	}
	clock.Advance(2 * time.Minute)

	// The first write swept at t0, so "a" survives until the next hour.
	if err := m.Set(ctx, "b", "1", 0); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() before interval = %d, want 2", got)
	}

	clock.Advance(time.Hour)
	if err := m.Set(ctx, "c", "1", 0); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() after interval = %d, want 2", got)
	}
}

func TestMemoryZIncrByZeroTTLKeepsExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Unix(0, 0)}
	m := NewMemory(WithClock(clock.Now))

	if _, err := m.ZIncrBy(ctx, "z", "a", 1, time.Hour); err != nil {
		t.Fatal(err)
	}
	clock.Advance(30 * time.Minute)
	if _, err := m.ZIncrBy(ctx, "z", "a", 1, 0); err != nil {
		t.Fatal(err)
	}
	if got := m.TTL("z"); got != 30*time.Minute {
		t.Errorf("TTL = %v, want 30m (unchanged)", got)
	}
}

func TestMemoryTieOrderMatchesRedis(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, member := range []string{"b", "a", "c"} {
		if _, err := m.ZIncrBy(ctx, "z", member, 1, 0); err != nil {
			t.Fatal(err)
		}
	}

	desc, _ := m.ZTop(ctx, "z", 3, true)
	if desc[0].Member != "c" || desc[2].Member != "a" {
		t.Errorf("desc ties = %v, want c,b,a", desc)
	}
	asc, _ := m.ZTop(ctx, "z", 3, false)
	if asc[0].Member != "a" || asc[2].Member != "c" {
		t.Errorf("asc ties = %v, want a,b,c", asc)
	}
}

func TestMemoryWrongType(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.SAdd(ctx, "k", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Incr(ctx, "k"); !errors.Is(err, ErrWrongType) {
		t.Errorf("Incr on set error = %v, want ErrWrongType", err)
	}
	if err := m.Set(ctx, "str", "abc", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Incr(ctx, "str"); !errors.Is(err, ErrWrongType) {
		t.Errorf("Incr on non-integer error = %v, want ErrWrongType", err)
	}
}

func TestMemoryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemory().Incr(ctx, "k"); !errors.Is(err, context.Canceled) {
		t.Errorf("Incr with cancelled ctx error = %v", err)
	}
}

func TestMemoryConcurrentIncr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := m.Incr(ctx, "c"); err != nil {
				t.Errorf("Incr() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if v, _, _ := m.Get(ctx, "c"); v != "50" {
		t.Errorf("counter = %s, want 50", v)
	}
}
