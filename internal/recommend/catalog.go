// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/vitrine/internal/store"
)

// Catalog holds the product metadata the Matcher reads: each product's
// category and style tags, membership sets, and which categories complement
// each other. It is written by the catalog owner, not derived from traffic.
type Catalog struct {
	store store.Store
	keys  store.Keys
}

// NewCatalog creates a Catalog.
func NewCatalog(s store.Store, keys store.Keys) *Catalog {
	return &Catalog{store: s, keys: keys}
}

// IndexProduct records productID's category and style tags and adds it to
// the matching membership sets. Re-indexing under a new category or tag set
// removes it from the old memberships.
func (c *Catalog) IndexProduct(ctx context.Context, productID, categoryID string, tags []string) error {
	oldCategory, hadCategory, err := c.Category(ctx, productID)
	if err != nil {
		return err
	}
	oldTags, err := c.Tags(ctx, productID)
	if err != nil {
		return err
	}

	if hadCategory && oldCategory != categoryID {
		if err := c.store.SRem(ctx, c.keys.CategoryMembers(oldCategory), productID); err != nil {
			return fmt.Errorf("index %s: %w", productID, err)
		}
	}
	keep := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		keep[tag] = struct{}{}
	}
	for _, tag := range oldTags {
		if _, ok := keep[tag]; ok {
			continue
		}
		if err := c.store.SRem(ctx, c.keys.TagMembers(tag), productID); err != nil {
			return fmt.Errorf("index %s: %w", productID, err)
		}
		if err := c.store.SRem(ctx, c.keys.ProductTags(productID), tag); err != nil {
			return fmt.Errorf("index %s: %w", productID, err)
		}
	}

	if err := c.store.Set(ctx, c.keys.ProductCategory(productID), categoryID, 0); err != nil {
		return fmt.Errorf("index %s: %w", productID, err)
	}
	if err := c.store.SAdd(ctx, c.keys.CategoryMembers(categoryID), productID); err != nil {
		return fmt.Errorf("index %s: %w", productID, err)
	}
	for tag := range keep {
		if err := c.store.SAdd(ctx, c.keys.ProductTags(productID), tag); err != nil {
			return fmt.Errorf("index %s: %w", productID, err)
		}
		if err := c.store.SAdd(ctx, c.keys.TagMembers(tag), productID); err != nil {
			return fmt.Errorf("index %s: %w", productID, err)
		}
	}
	return nil
}

// SetComplements replaces the categories registered as complementary to categoryID.
func (c *Catalog) SetComplements(ctx context.Context, categoryID string, complements []string) error {
	key := c.keys.Complements(categoryID)
	if err := c.store.Del(ctx, key); err != nil {
		return fmt.Errorf("set complements %s: %w", categoryID, err)
	}
	if len(complements) == 0 {
		return nil
	}
	if err := c.store.SAdd(ctx, key, complements...); err != nil {
		return fmt.Errorf("set complements %s: %w", categoryID, err)
	}
	return nil
}

// Category returns productID's category.
func (c *Catalog) Category(ctx context.Context, productID string) (string, bool, error) {
	cat, found, err := c.store.Get(ctx, c.keys.ProductCategory(productID))
	if err != nil {
		return "", false, fmt.Errorf("category of %s: %w", productID, err)
	}
	return cat, found, nil
}

// Tags returns productID's style tags, sorted.
func (c *Catalog) Tags(ctx context.Context, productID string) ([]string, error) {
	return c.sortedMembers(ctx, c.keys.ProductTags(productID))
}

// Complements returns the categories complementary to categoryID, sorted.
func (c *Catalog) Complements(ctx context.Context, categoryID string) ([]string, error) {
	return c.sortedMembers(ctx, c.keys.Complements(categoryID))
}

// Matching returns products in categoryID carrying tag, sorted.
func (c *Catalog) Matching(ctx context.Context, categoryID, tag string) ([]string, error) {
	ids, err := c.store.SInter(ctx, c.keys.CategoryMembers(categoryID), c.keys.TagMembers(tag))
	if err != nil {
		return nil, fmt.Errorf("match %s/%s: %w", categoryID, tag, err)
	}
	sort.Strings(ids)
	return ids, nil
}

func (c *Catalog) sortedMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.store.SMembers(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	sort.Strings(members)
	return members, nil
}
