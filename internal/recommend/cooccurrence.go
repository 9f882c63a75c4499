// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"fmt"

	"github.com/tomtom215/vitrine/internal/store"
)

const (
	// DefaultCoOccurrenceTopN is the number of partners kept per product.
	DefaultCoOccurrenceTopN = 20

	// MaxBasketSize bounds pair expansion; only the first MaxBasketSize
	// distinct products of a basket are paired.
	MaxBasketSize = 25
)

// CoOccurrence tracks symmetric affinity scores between products viewed or
// purchased together.
type CoOccurrence struct {
	store store.Store
	keys  store.Keys
	topN  int
}

// NewCoOccurrence creates a CoOccurrence recommender keeping topN partners per product.
func NewCoOccurrence(s store.Store, keys store.Keys, topN int) *CoOccurrence {
	if topN <= 0 {
		topN = DefaultCoOccurrenceTopN
	}
	return &CoOccurrence{store: s, keys: keys, topN: topN}
}

// RecordPair increments the score between a and b on both sides, then trims
// each side to its top partners. Pairing a product with itself is ignored.
//
// Among equally scored partners the store decides which is evicted.
func (c *CoOccurrence) RecordPair(ctx context.Context, a, b string) error {
	if a == b {
		return nil
	}
	for _, side := range [2][2]string{{a, b}, {b, a}} {
		key := c.keys.CoOccur(side[0])
		if _, err := c.store.ZIncrBy(ctx, key, side[1], 1, 0); err != nil {
			return fmt.Errorf("record pair %s/%s: %w", a, b, err)
		}
		if err := c.store.ZTrim(ctx, key, c.topN); err != nil {
			return fmt.Errorf("record pair %s/%s: trim: %w", a, b, err)
		}
	}
	return nil
}

// RecordBasket records every unordered pair of distinct products in ids.
func (c *CoOccurrence) RecordBasket(ctx context.Context, ids []string) error {
	distinct := dedupe(ids, MaxBasketSize)
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			if err := c.RecordPair(ctx, distinct[i], distinct[j]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Top returns up to k partners of productID, highest score first.
// A product with no recorded partners yields an empty list.
func (c *CoOccurrence) Top(ctx context.Context, productID string, k int) ([]string, error) {
	top, err := c.store.ZTop(ctx, c.keys.CoOccur(productID), k, true)
	if err != nil {
		return nil, fmt.Errorf("top co-occurring %s: %w", productID, err)
	}
	return members(top), nil
}

func members(scored []store.ScoredMember) []string {
	out := make([]string, 0, len(scored))
	for _, sm := range scored {
		out = append(out, sm.Member)
	}
	return out
}

// dedupe returns the first limit distinct non-empty ids, keeping order.
func dedupe(ids []string, limit int) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == limit {
			break
		}
	}
	return out
}
