// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
)

// DefaultOpTimeout bounds a store call when GuardConfig.OpTimeout is zero.
const DefaultOpTimeout = 250 * time.Millisecond

// GuardConfig configures a Guard.
type GuardConfig struct {
	// OpTimeout bounds each call, including time spent in the backend.
	OpTimeout time.Duration
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// Guard wraps a backend with a per-call deadline and a circuit breaker.
// Every failure it returns satisfies errors.Is(err, ErrUnavailable).
type Guard struct {
	backend   Store
	opTimeout time.Duration
	cb        *gobreaker.CircuitBreaker[interface{}]
}

var _ Store = (*Guard)(nil)

// NewGuard wraps backend.
func NewGuard(backend Store, cfg GuardConfig) *Guard {
	if cfg.OpTimeout <= 0 {
		cfg.OpTimeout = DefaultOpTimeout
	}
	if cfg.Failures == 0 {
		cfg.Failures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 10 * time.Second
	}

	metrics.StoreBreakerState.Set(metrics.BreakerClosed)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        "store",
		MaxRequests: 3,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Failures
		},
		// A caller abandoning its request says nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("Store circuit breaker state transition")
			metrics.RecordBreakerTransition(from.String(), to.String())
		},
	})

	return &Guard{backend: backend, opTimeout: cfg.OpTimeout, cb: cb}
}

// Backend returns the wrapped store.
func (g *Guard) Backend() Store { return g.backend }

// State returns the breaker state name: closed, half-open or open.
func (g *Guard) State() string { return g.cb.State().String() }

// guarded runs fn under the op deadline and the breaker, converting any
// failure into ErrUnavailable.
func guarded[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	opCtx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()

	result, err := g.cb.Execute(func() (interface{}, error) {
		return fn(opCtx)
	})
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	typed, ok := result.(T)
	if !ok && result != nil {
		return zero, fmt.Errorf("%w: %s: unexpected result type %T", ErrUnavailable, op, result)
	}
	return typed, nil
}

func guardedErr(ctx context.Context, g *Guard, op string, fn func(context.Context) error) error {
	_, err := guarded(ctx, g, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (g *Guard) Incr(ctx context.Context, key string) (int64, error) {
	return guarded(ctx, g, "incr", func(ctx context.Context) (int64, error) {
		return g.backend.Incr(ctx, key)
	})
}

func (g *Guard) Decr(ctx context.Context, key string) (int64, error) {
	return guarded(ctx, g, "decr", func(ctx context.Context) (int64, error) {
		return g.backend.Decr(ctx, key)
	})
}

func (g *Guard) SAdd(ctx context.Context, key string, members ...string) error {
	return guardedErr(ctx, g, "sadd", func(ctx context.Context) error {
		return g.backend.SAdd(ctx, key, members...)
	})
}

func (g *Guard) SRem(ctx context.Context, key string, members ...string) error {
	return guardedErr(ctx, g, "srem", func(ctx context.Context) error {
		return g.backend.SRem(ctx, key, members...)
	})
}

func (g *Guard) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return guarded(ctx, g, "sismember", func(ctx context.Context) (bool, error) {
		return g.backend.SIsMember(ctx, key, member)
	})
}

func (g *Guard) SMembers(ctx context.Context, key string) ([]string, error) {
	return guarded(ctx, g, "smembers", func(ctx context.Context) ([]string, error) {
		return g.backend.SMembers(ctx, key)
	})
}

func (g *Guard) SInter(ctx context.Context, keys ...string) ([]string, error) {
	return guarded(ctx, g, "sinter", func(ctx context.Context) ([]string, error) {
		return g.backend.SInter(ctx, keys...)
	})
}

func (g *Guard) ZIncrBy(ctx context.Context, key, member string, delta float64, ttl time.Duration) (float64, error) {
	return guarded(ctx, g, "zincrby", func(ctx context.Context) (float64, error) {
		return g.backend.ZIncrBy(ctx, key, member, delta, ttl)
	})
}

func (g *Guard) ZTop(ctx context.Context, key string, k int, descending bool) ([]ScoredMember, error) {
	return guarded(ctx, g, "ztop", func(ctx context.Context) ([]ScoredMember, error) {
		return g.backend.ZTop(ctx, key, k, descending)
	})
}

func (g *Guard) ZScores(ctx context.Context, key string) (map[string]float64, error) {
	return guarded(ctx, g, "zscores", func(ctx context.Context) (map[string]float64, error) {
		return g.backend.ZScores(ctx, key)
	})
}

func (g *Guard) ZTrim(ctx context.Context, key string, keepTopN int) error {
	return guardedErr(ctx, g, "ztrim", func(ctx context.Context) error {
		return g.backend.ZTrim(ctx, key, keepTopN)
	})
}

func (g *Guard) LPushTrim(ctx context.Context, key, value string, capacity int, ttl time.Duration) error {
	return guardedErr(ctx, g, "lpushtrim", func(ctx context.Context) error {
		return g.backend.LPushTrim(ctx, key, value, capacity, ttl)
	})
}

func (g *Guard) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return guarded(ctx, g, "lrange", func(ctx context.Context) ([]string, error) {
		return g.backend.LRange(ctx, key, start, stop)
	})
}

func (g *Guard) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return guardedErr(ctx, g, "expire", func(ctx context.Context) error {
		return g.backend.Expire(ctx, key, ttl)
	})
}

type getResult struct {
	value string
	found bool
}

func (g *Guard) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := guarded(ctx, g, "get", func(ctx context.Context) (getResult, error) {
		v, found, err := g.backend.Get(ctx, key)
		return getResult{value: v, found: found}, err
	})
	return res.value, res.found, err
}

func (g *Guard) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return guardedErr(ctx, g, "set", func(ctx context.Context) error {
		return g.backend.Set(ctx, key, value, ttl)
	})
}

func (g *Guard) Del(ctx context.Context, keys ...string) error {
	return guardedErr(ctx, g, "del", func(ctx context.Context) error {
		return g.backend.Del(ctx, keys...)
	})
}

// Ping checks the backend directly, bypassing the breaker, so readiness
// reflects the store itself.
func (g *Guard) Ping(ctx context.Context) error {
	opCtx, cancel := context.WithTimeout(ctx, g.opTimeout)
	defer cancel()
	if err := g.backend.Ping(opCtx); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrUnavailable, err)
	}
	return nil
}

func (g *Guard) Close() error {
	return g.backend.Close()
}
