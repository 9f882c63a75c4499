// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package recommend produces product recommendation lists from signals kept
// in the shared store.
//
// # Recommenders
//
//   - CoOccurrence: "bought together". Symmetric pair scores, each product
//     keeps only its top partners.
//   - Trending: per-category view velocity between the current and previous
//     hour bucket. "Similar" reads the same view stream aggregated over a
//     longer popularity window.
//   - Matcher: "complete the look". Products from complementary categories
//     that share a style tag with the source product.
//
// Cold products and categories yield empty lists, never errors. Store
// failures are returned to the caller wrapped; the engine decides whether to
// degrade.
//
// # Usage
//
//	co := recommend.NewCoOccurrence(st, keys, 20)
//	_ = co.RecordBasket(ctx, []string{"p1", "p2", "p3"})
//	partners, _ := co.Top(ctx, "p1", 5)
//
//	tr := recommend.NewTrending(st, keys, 30*24*time.Hour)
//	_ = tr.RecordView(ctx, "dresses", "p1")
//	ids, _ := tr.Trending(ctx, "dresses", 10)
package recommend
