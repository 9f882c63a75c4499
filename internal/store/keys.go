// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"strconv"
	"strings"
)

// DefaultKeyPrefix namespaces keys when no prefix is configured.
const DefaultKeyPrefix = "vitrine"

// Keys builds the composite key names used in the shared store.
//
//	{prefix}:likes:count:{productId}         counter
//	{prefix}:likes:user:{identity}           set of productIds
//	{prefix}:recent:{identity}               list, most recent first
//	{prefix}:cooccur:{productId}             sorted set of partner productIds
//	{prefix}:trending:{categoryId}:{bucket}  sorted set of productIds
//	{prefix}:popular:{categoryId}            sorted set of productIds
//	{prefix}:viewers:{productId}             string count
//	{prefix}:cart:{identity}                 JSON cart document
//	{prefix}:catalog:...                     catalog lookups
type Keys struct {
	prefix string
}

// NewKeys returns a key builder for prefix. An empty prefix uses DefaultKeyPrefix.
func NewKeys(prefix string) Keys {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keys{prefix: prefix}
}

// Prefix returns the namespace prefix.
func (k Keys) Prefix() string { return k.prefix }

func (k Keys) join(parts ...string) string {
	return k.prefix + ":" + strings.Join(parts, ":")
}

func (k Keys) LikeCount(productID string) string { return k.join("likes", "count", productID) }
func (k Keys) LikedBy(identity string) string { return k.join("likes", "user", identity) }
func (k Keys) Recent(identity string) string { return k.join("recent", identity) }
func (k Keys) CoOccur(productID string) string { return k.join("cooccur", productID) }
func (k Keys) Popular(categoryID string) string { return k.join("popular", categoryID) }
func (k Keys) Viewers(productID string) string { return k.join("viewers", productID) }
func (k Keys) Cart(identity string) string { return k.join("cart", identity) }

// Trending is the per-category view counter for one hour bucket.
func (k Keys) Trending(categoryID string, bucket int64) string {
	return k.join("trending", categoryID, strconv.FormatInt(bucket, 10))
}

func (k Keys) ProductCategory(productID string) string { return k.join("catalog", "category", productID) }
func (k Keys) ProductTags(productID string) string { return k.join("catalog", "tags", productID) }
func (k Keys) TagMembers(tag string) string { return k.join("catalog", "tag", tag) }
func (k Keys) CategoryMembers(categoryID string) string {
	return k.join("catalog", "members", categoryID)
}
func (k Keys) Complements(categoryID string) string { return k.join("catalog", "complements", categoryID) }
