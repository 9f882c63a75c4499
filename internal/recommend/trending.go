// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/vitrine/internal/store"
)

const (
	// BucketTTL keeps a bucket readable while it is the previous bucket.
	BucketTTL = 2 * BucketWidth

	// DefaultPopularTTL is the rolling retention of category popularity.
	DefaultPopularTTL = 30 * 24 * time.Hour
)

// Trending ranks products by view velocity within a category and serves
// category popularity for similar-product lists.
//
// Velocity compares exactly two buckets: the current hour and the one before.
// When the previous bucket has already expired its scores count as zero, so a
// category that was quiet for over two hours reports its whole current count
// as velocity.
type Trending struct {
	store      store.Store
	keys       store.Keys
	popularTTL time.Duration
	now        func() time.Time
}

// TrendingOption configures Trending.
type TrendingOption func(*Trending)

// WithNow replaces the clock used to pick buckets.
func WithNow(now func() time.Time) TrendingOption {
	return func(t *Trending) { t.now = now }
}

// NewTrending creates a Trending engine.
func NewTrending(s store.Store, keys store.Keys, popularTTL time.Duration, opts ...TrendingOption) *Trending {
	if popularTTL <= 0 {
		popularTTL = DefaultPopularTTL
	}
	t := &Trending{store: s, keys: keys, popularTTL: popularTTL, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordView counts one view of productID in categoryID for the current
// bucket and for the category's popularity.
func (t *Trending) RecordView(ctx context.Context, categoryID, productID string) error {
	bucket := Bucket(t.now())
	if _, err := t.store.ZIncrBy(ctx, t.keys.Trending(categoryID, bucket), productID, 1, BucketTTL); err != nil {
		return fmt.Errorf("record trending view: %w", err)
	}
	if _, err := t.store.ZIncrBy(ctx, t.keys.Popular(categoryID), productID, 1, t.popularTTL); err != nil {
		return fmt.Errorf("record popular view: %w", err)
	}
	return nil
}

// Trending returns up to k products of categoryID with the highest velocity.
func (t *Trending) Trending(ctx context.Context, categoryID string, k int) ([]string, error) {
	current, previous, err := t.buckets(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return RankByVelocity(current, previous, k), nil
}

// buckets reads the current and previous bucket concurrently.
func (t *Trending) buckets(ctx context.Context, categoryID string) (current, previous map[string]float64, err error) {
	bucket := Bucket(t.now())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = t.store.ZScores(gctx, t.keys.Trending(categoryID, bucket))
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = t.store.ZScores(gctx, t.keys.Trending(categoryID, bucket-1))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("trending %s: %w", categoryID, err)
	}
	return current, previous, nil
}

// Similar returns up to k of the most viewed products in categoryID,
// excluding productID itself.
func (t *Trending) Similar(ctx context.Context, productID, categoryID string, k int) ([]string, error) {
	if k <= 0 {
		return []string{}, nil
	}
	top, err := t.store.ZTop(ctx, t.keys.Popular(categoryID), k+1, true)
	if err != nil {
		return nil, fmt.Errorf("similar to %s: %w", productID, err)
	}
	out := make([]string, 0, k)
	for _, sm := range top {
		if sm.Member == productID {
			continue
		}
		out = append(out, sm.Member)
		if len(out) == k {
			break
		}
	}
	return out, nil
}
