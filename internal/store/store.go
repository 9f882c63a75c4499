// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package store defines the shared counter/set store used by every Vitrine
// component and provides its backends.
//
// The contract is a small set of single-key atomic primitives (counters, sets,
// sorted sets, bounded lists, strings with expiry). Nothing is assumed to be
// atomic across keys. Absence is never an error: a missing counter reads as
// zero, a missing set or list reads as empty, and Get reports found=false.
//
// Backends:
//   - Redis: go-redis/v9 client, shared by all service instances
//   - Memory: process-local maps with lazy expiry, for tests and single-instance runs
//
// Callers normally hold a *Guard, which bounds every call with a deadline and
// a circuit breaker and reports every failure as ErrUnavailable.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when the store cannot serve a call: it is
// unreachable, too slow, or the circuit breaker is open.
var ErrUnavailable = errors.New("store unavailable")

// ErrWrongType is returned when an operation targets a key holding a
// different kind of value.
var ErrWrongType = errors.New("store: operation against a key holding the wrong kind of value")

// ScoredMember is a sorted set member with its score.
type ScoredMember struct {
	Member string
	Score  float64
}

// Store is the counter/set contract shared by all components.
type Store interface {
	// Incr atomically increments an integer counter and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Decr atomically decrements an integer counter and returns the new value.
	Decr(ctx context.Context, key string) (int64, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	// SInter returns the members present in every given set.
	SInter(ctx context.Context, keys ...string) ([]string, error)

	// ZIncrBy adds delta to member's score. A positive ttl (re)sets the key
	// expiry in the same batch; zero leaves the expiry unchanged.
	ZIncrBy(ctx context.Context, key, member string, delta float64, ttl time.Duration) (float64, error)
	// ZTop returns up to k members ordered by score.
	ZTop(ctx context.Context, key string, k int, descending bool) ([]ScoredMember, error)
	// ZScores returns every member with its score.
	ZScores(ctx context.Context, key string) (map[string]float64, error)
	// ZTrim keeps only the keepTopN highest-scoring members.
	ZTrim(ctx context.Context, key string, keepTopN int) error

	// LPushTrim pushes value to the front of a list, trims it to capacity
	// and refreshes its expiry as one batch.
	LPushTrim(ctx context.Context, key, value string, capacity int, ttl time.Duration) error
	// LRange returns list elements between start and stop inclusive;
	// negative indexes count from the end.
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Get returns the string value at key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value. A zero ttl stores it without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
	Close() error
}
