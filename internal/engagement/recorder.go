// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package engagement records per-identity affinity signals: product likes
// and the recently viewed list.
package engagement

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/tomtom215/vitrine/internal/store"
)

// Defaults for the recently viewed list.
const (
	DefaultRecentCapacity = 10
	DefaultRecentTTL      = 7 * 24 * time.Hour
)

// Recorder reads and writes likes and recently viewed products.
type Recorder struct {
	store    store.Store
	keys     store.Keys
	capacity int
	ttl      time.Duration
}

// NewRecorder creates a Recorder. Non-positive capacity or ttl use the defaults.
func NewRecorder(s store.Store, keys store.Keys, capacity int, ttl time.Duration) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	if ttl <= 0 {
		ttl = DefaultRecentTTL
	}
	return &Recorder{store: s, keys: keys, capacity: capacity, ttl: ttl}
}

// ToggleLike flips the liked state of productID for identity and returns the
// new state.
//
// The membership check and the two writes are separate store calls. Two
// concurrent toggles by the same identity on the same product can both act
// on the same observed state, leaving the counter off by one. Like counts are
// approximate; LikeCount never reports a negative value.
func (r *Recorder) ToggleLike(ctx context.Context, identity, productID string) (bool, error) {
	setKey := r.keys.LikedBy(identity)
	countKey := r.keys.LikeCount(productID)

	liked, err := r.store.SIsMember(ctx, setKey, productID)
	if err != nil {
		return false, fmt.Errorf("toggle like: read state: %w", err)
	}

	if liked {
		if err := r.store.SRem(ctx, setKey, productID); err != nil {
			return true, fmt.Errorf("toggle like: unlike: %w", err)
		}
		if _, err := r.store.Decr(ctx, countKey); err != nil {
			return false, fmt.Errorf("toggle like: decrement count: %w", err)
		}
		return false, nil
	}

	if err := r.store.SAdd(ctx, setKey, productID); err != nil {
		return false, fmt.Errorf("toggle like: like: %w", err)
	}
	if _, err := r.store.Incr(ctx, countKey); err != nil {
		return true, fmt.Errorf("toggle like: increment count: %w", err)
	}
	return true, nil
}

// LikedProducts returns the products identity has liked, sorted by id.
func (r *Recorder) LikedProducts(ctx context.Context, identity string) ([]string, error) {
	members, err := r.store.SMembers(ctx, r.keys.LikedBy(identity))
	if err != nil {
		return nil, fmt.Errorf("liked products: %w", err)
	}
	sort.Strings(members)
	return members, nil
}

// IsLiked reports whether identity currently likes productID.
func (r *Recorder) IsLiked(ctx context.Context, identity, productID string) (bool, error) {
	liked, err := r.store.SIsMember(ctx, r.keys.LikedBy(identity), productID)
	if err != nil {
		return false, fmt.Errorf("is liked: %w", err)
	}
	return liked, nil
}

// LikeCount returns the like counter for productID, zero when absent.
func (r *Recorder) LikeCount(ctx context.Context, productID string) (int64, error) {
	raw, found, err := r.store.Get(ctx, r.keys.LikeCount(productID))
	if err != nil {
		return 0, fmt.Errorf("like count: %w", err)
	}
	if !found {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("like count: parse %q: %w", raw, err)
	}
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

// RecordView pushes productID to the front of identity's recently viewed
// list, trims it to capacity and refreshes its expiry in one batch.
// Repeat views are kept and move the product to the front.
func (r *Recorder) RecordView(ctx context.Context, identity, productID string) error {
	if err := r.store.LPushTrim(ctx, r.keys.Recent(identity), productID, r.capacity, r.ttl); err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// RecentlyViewed returns identity's recently viewed products, most recent first.
// Each call returns a fresh snapshot.
func (r *Recorder) RecentlyViewed(ctx context.Context, identity string) ([]string, error) {
	items, err := r.store.LRange(ctx, r.keys.Recent(identity), 0, int64(r.capacity-1))
	if err != nil {
		return nil, fmt.Errorf("recently viewed: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
