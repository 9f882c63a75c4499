// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"
)

type valueKind int

const (
	kindString valueKind = iota + 1
	kindSet
	kindZSet
	kindList
)

type memEntry struct {
	kind      valueKind
	str       string
	set       map[string]struct{}
	zset      map[string]float64
	list      []string
	expiresAt time.Time
}

// Memory is a process-local Store. Keys expire lazily on access, and any
// write that creates a key first sweeps every expired entry once per sweep
// interval, so keys nobody reads again are still reclaimed.
// Ordering of equal scores matches Redis: ascending by member for ascending
// reads, descending by member for descending reads.
type Memory struct {
	mu   sync.Mutex
	data map[string]*memEntry
	now  func() time.Time

	sweepEvery time.Duration
	nextSweep  time.Time
}

// DefaultSweepInterval is how often a Memory store scans for expired keys.
const DefaultSweepInterval = time.Minute

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithClock replaces the clock used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// WithSweepInterval sets the minimum time between expiry sweeps.
// Non-positive values keep the default.
func WithSweepInterval(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			m.sweepEvery = d
		}
	}
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		data:       make(map[string]*memEntry),
		now:        time.Now,
		sweepEvery: DefaultSweepInterval,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// sweepLocked deletes expired entries if the sweep interval has elapsed and
// returns how many were removed. Must be called with mu held.
func (m *Memory) sweepLocked() int {
	now := m.now()
	if now.Before(m.nextSweep) {
		return 0
	}
	m.nextSweep = now.Add(m.sweepEvery)

	removed := 0
	for key, e := range m.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, including expired keys not yet
// swept.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// lookup returns the live entry for key, dropping it if expired.
// Must be called with mu held.
func (m *Memory) lookup(key string) *memEntry {
	e, ok := m.data[key]
	if !ok {
		return nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		delete(m.data, key)
		return nil
	}
	return e
}

// typed returns the entry for key if it holds kind, creating it when create is set.
// Must be called with mu held.
func (m *Memory) typed(key string, kind valueKind, create bool) (*memEntry, error) {
	e := m.lookup(key)
	if e == nil {
		if !create {
			return nil, nil
		}
		m.sweepLocked()
		e = &memEntry{kind: kind}
		switch kind {
		case kindSet:
			e.set = make(map[string]struct{})
		case kindZSet:
			e.zset = make(map[string]float64)
		}
		m.data[key] = e
		return e, nil
	}
	if e.kind != kind {
		return nil, fmt.Errorf("%w: %s", ErrWrongType, key)
	}
	return e, nil
}

func (m *Memory) expireLocked(e *memEntry, ttl time.Duration) {
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
}

func (m *Memory) incrBy(ctx context.Context, key string, delta int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindString, true)
	if err != nil {
		return 0, err
	}
	var n int64
	if e.str != "" {
		n, err = strconv.ParseInt(e.str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not an integer", ErrWrongType, key)
		}
	}
	n += delta
	e.str = strconv.FormatInt(n, 10)
	return n, nil
}

// Incr atomically increments the counter at key.
func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	return m.incrBy(ctx, key, 1)
}

// Decr atomically decrements the counter at key.
func (m *Memory) Decr(ctx context.Context, key string) (int64, error) {
	return m.incrBy(ctx, key, -1)
}

func (m *Memory) SAdd(ctx context.Context, key string, members ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindSet, true)
	if err != nil {
		return err
	}
	for _, member := range members {
		e.set[member] = struct{}{}
	}
	return nil
}

func (m *Memory) SRem(ctx context.Context, key string, members ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindSet, false)
	if err != nil || e == nil {
		return err
	}
	for _, member := range members {
		delete(e.set, member)
	}
	if len(e.set) == 0 {
		delete(m.data, key)
	}
	return nil
}

func (m *Memory) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindSet, false)
	if err != nil || e == nil {
		return false, err
	}
	_, ok := e.set[member]
	return ok, nil
}

func (m *Memory) SMembers(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindSet, false)
	if err != nil || e == nil {
		return nil, err
	}
	out := make([]string, 0, len(e.set))
	for member := range e.set {
		out = append(out, member)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) SInter(ctx context.Context, keys ...string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	sets := make([]map[string]struct{}, 0, len(keys))
	for _, key := range keys {
		e, err := m.typed(key, kindSet, false)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, nil
		}
		sets = append(sets, e.set)
	}

	var out []string
	for member := range sets[0] {
		inAll := true
		for _, s := range sets[1:] {
			if _, ok := s[member]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			out = append(out, member)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) ZIncrBy(ctx context.Context, key, member string, delta float64, ttl time.Duration) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindZSet, true)
	if err != nil {
		return 0, err
	}
	e.zset[member] += delta
	m.expireLocked(e, ttl)
	return e.zset[member], nil
}

// sortedMembers returns members ordered by score, ties by member name.
func sortedMembers(zset map[string]float64, descending bool) []ScoredMember {
	out := make([]ScoredMember, 0, len(zset))
	for member, score := range zset {
		out = append(out, ScoredMember{Member: member, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			if descending {
				return out[i].Score > out[j].Score
			}
			return out[i].Score < out[j].Score
		}
		if descending {
			return out[i].Member > out[j].Member
		}
		return out[i].Member < out[j].Member
	})
	return out
}

func (m *Memory) ZTop(ctx context.Context, key string, k int, descending bool) ([]ScoredMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindZSet, false)
	if err != nil || e == nil {
		return nil, err
	}
	sorted := sortedMembers(e.zset, descending)
	if len(sorted) > k {
		sorted = sorted[:k]
	}
	return sorted, nil
}

func (m *Memory) ZScores(ctx context.Context, key string) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindZSet, false)
	if err != nil || e == nil {
		return map[string]float64{}, err
	}
	out := make(map[string]float64, len(e.zset))
	for member, score := range e.zset {
		out[member] = score
	}
	return out, nil
}

func (m *Memory) ZTrim(ctx context.Context, key string, keepTopN int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindZSet, false)
	if err != nil || e == nil {
		return err
	}
	if keepTopN <= 0 {
		delete(m.data, key)
		return nil
	}
	excess := len(e.zset) - keepTopN
	if excess <= 0 {
		return nil
	}
	for _, sm := range sortedMembers(e.zset, false)[:excess] {
		delete(e.zset, sm.Member)
	}
	return nil
}

func (m *Memory) LPushTrim(ctx context.Context, key, value string, capacity int, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindList, true)
	if err != nil {
		return err
	}
	list := make([]string, 0, len(e.list)+1)
	list = append(list, value)
	list = append(list, e.list...)
	if capacity > 0 && len(list) > capacity {
		list = list[:capacity]
	}
	e.list = list
	m.expireLocked(e, ttl)
	return nil
}

func (m *Memory) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindList, false)
	if err != nil || e == nil {
		return nil, err
	}
	n := int64(len(e.list))
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []string{}, nil
	}
	out := make([]string, stop-start+1)
	copy(out, e.list[start:stop+1])
	return out, nil
}

func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if e := m.lookup(key); e != nil {
		if ttl <= 0 {
			delete(m.data, key)
			return nil
		}
		e.expiresAt = m.now().Add(ttl)
	}
	return nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	e, err := m.typed(key, kindString, false)
	if err != nil || e == nil {
		return "", false, err
	}
	return e.str, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	e := &memEntry{kind: kindString, str: value}
	m.expireLocked(e, ttl)
	m.data[key] = e
	return nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

// TTL returns the remaining lifetime of key, or zero if it has none or does
// not exist.
func (m *Memory) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(m.now())
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close() error { return nil }
