// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"sort"
	"strconv"
	"testing"
	"time"
)

// runContract exercises the behaviour every backend must share.
func runContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("counters", func(t *testing.T) {
		s := newStore(t)
		if n, err := s.Incr(ctx, "c"); err != nil || n != 1 {
			t.Fatalf("Incr() = %d, %v; want 1", n, err)
		}
		if n, _ := s.Incr(ctx, "c"); n != 2 {
			t.Errorf("Incr() = %d, want 2", n)
		}
		if n, _ := s.Decr(ctx, "c"); n != 1 {
			t.Errorf("Decr() = %d, want 1", n)
		}
		if n, _ := s.Decr(ctx, "fresh"); n != -1 {
			t.Errorf("Decr() on missing key = %d, want -1", n)
		}
		v, found, err := s.Get(ctx, "c")
		if err != nil || !found || v != "1" {
			t.Errorf("Get(counter) = %q, %v, %v", v, found, err)
		}
	})

	t.Run("sets", func(t *testing.T) {
		s := newStore(t)
		if err := s.SAdd(ctx, "s1", "a", "b", "c"); err != nil {
			t.Fatalf("SAdd() error = %v", err)
		}
		if err := s.SAdd(ctx, "s2", "b", "c", "d"); err != nil {
			t.Fatalf("SAdd() error = %v", err)
		}
		if ok, _ := s.SIsMember(ctx, "s1", "a"); !ok {
			t.Error("SIsMember(a) = false")
		}
		if ok, _ := s.SIsMember(ctx, "missing", "a"); ok {
			t.Error("SIsMember on missing set = true")
		}

		inter, err := s.SInter(ctx, "s1", "s2")
		if err != nil {
			t.Fatalf("SInter() error = %v", err)
		}
		sort.Strings(inter)
		if len(inter) != 2 || inter[0] != "b" || inter[1] != "c" {
			t.Errorf("SInter() = %v, want [b c]", inter)
		}
		if inter, _ := s.SInter(ctx, "s1", "missing"); len(inter) != 0 {
			t.Errorf("SInter with missing set = %v, want empty", inter)
		}

		if err := s.SRem(ctx, "s1", "a"); err != nil {
			t.Fatalf("SRem() error = %v", err)
		}
		members, _ := s.SMembers(ctx, "s1")
		sort.Strings(members)
		if len(members) != 2 || members[0] != "b" {
			t.Errorf("SMembers() = %v, want [b c]", members)
		}
		if members, _ := s.SMembers(ctx, "missing"); len(members) != 0 {
			t.Errorf("SMembers(missing) = %v", members)
		}
	})

	t.Run("sorted sets", func(t *testing.T) {
		s := newStore(t)
		for i, m := range []string{"a", "b", "c", "d"} {
			if _, err := s.ZIncrBy(ctx, "z", m, float64(i+1), 0); err != nil {
				t.Fatalf("ZIncrBy() error = %v", err)
			}
		}
		score, err := s.ZIncrBy(ctx, "z", "a", 10, 0)
		if err != nil || score != 11 {
			t.Fatalf("ZIncrBy(a,+10) = %v, %v; want 11", score, err)
		}

		top, err := s.ZTop(ctx, "z", 2, true)
		if err != nil {
			t.Fatalf("ZTop() error = %v", err)
		}
		if len(top) != 2 || top[0].Member != "a" || top[1].Member != "d" {
			t.Errorf("ZTop(desc) = %v, want [a d]", top)
		}
		low, _ := s.ZTop(ctx, "z", 1, false)
		if len(low) != 1 || low[0].Member != "b" {
			t.Errorf("ZTop(asc) = %v, want [b]", low)
		}

		if err := s.ZTrim(ctx, "z", 2); err != nil {
			t.Fatalf("ZTrim() error = %v", err)
		}
		scores, _ := s.ZScores(ctx, "z")
		if len(scores) != 2 || scores["a"] != 11 || scores["d"] != 4 {
			t.Errorf("after ZTrim, ZScores() = %v, want a=11 d=4", scores)
		}

		if top, err := s.ZTop(ctx, "cold", 5, true); err != nil || len(top) != 0 {
			t.Errorf("ZTop(cold) = %v, %v; want empty", top, err)
		}
		if scores, err := s.ZScores(ctx, "cold"); err != nil || len(scores) != 0 {
			t.Errorf("ZScores(cold) = %v, %v; want empty", scores, err)
		}
	})

	t.Run("bounded list", func(t *testing.T) {
		s := newStore(t)
		for i := 1; i <= 12; i++ {
			if err := s.LPushTrim(ctx, "l", "p"+strconv.Itoa(i), 10, time.Hour); err != nil {
				t.Fatalf("LPushTrim() error = %v", err)
			}
		}
		items, err := s.LRange(ctx, "l", 0, -1)
		if err != nil {
			t.Fatalf("LRange() error = %v", err)
		}
		if len(items) != 10 {
			t.Fatalf("len = %d, want 10", len(items))
		}
		if items[0] != "p12" || items[9] != "p3" {
			t.Errorf("LRange() = %v, want p12..p3", items)
		}
		if items, _ := s.LRange(ctx, "missing", 0, -1); len(items) != 0 {
			t.Errorf("LRange(missing) = %v", items)
		}
	})

	t.Run("strings", func(t *testing.T) {
		s := newStore(t)
		if _, found, err := s.Get(ctx, "nope"); err != nil || found {
			t.Errorf("Get(missing) found=%v err=%v", found, err)
		}
		if err := s.Set(ctx, "k", `{"items":[]}`, time.Hour); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if v, found, _ := s.Get(ctx, "k"); !found || v != `{"items":[]}` {
			t.Errorf("Get() = %q, %v", v, found)
		}
		if err := s.Del(ctx, "k"); err != nil {
			t.Fatalf("Del() error = %v", err)
		}
		if _, found, _ := s.Get(ctx, "k"); found {
			t.Error("key still present after Del")
		}
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}
