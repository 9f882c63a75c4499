// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import "context"

// Matcher finds products that complete the look of a source product.
type Matcher struct {
	catalog *Catalog
}

// NewMatcher creates a Matcher over catalog.
func NewMatcher(catalog *Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Complementary returns up to k products from categories complementary to
// productID's category that share at least one of its style tags.
//
// Results are in discovery order: complementary categories by name, then
// tags by name, then matching product ids. There is no ranking. An unknown
// product, a product without tags, or a category without complements yields
// an empty list.
func (m *Matcher) Complementary(ctx context.Context, productID string, k int) ([]string, error) {
	out := []string{}
	if k <= 0 {
		return out, nil
	}

	category, found, err := m.catalog.Category(ctx, productID)
	if err != nil || !found {
		return out, err
	}
	tags, err := m.catalog.Tags(ctx, productID)
	if err != nil || len(tags) == 0 {
		return out, err
	}
	complements, err := m.catalog.Complements(ctx, category)
	if err != nil {
		return out, err
	}

	seen := map[string]struct{}{productID: {}}
	for _, comp := range complements {
		for _, tag := range tags {
			ids, err := m.catalog.Matching(ctx, comp, tag)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
				if len(out) == k {
					return out, nil
				}
			}
		}
	}
	return out, nil
}
