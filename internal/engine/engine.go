// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package engine is the boundary that collaborators call: the storefront,
// checkout and catalog services reach likes, views, recommendations and carts
// only through Engine.
//
// Read paths never fail. When the store errors or times out, a read logs a
// warning, counts a degradation and returns the empty default with Degraded
// set. Write paths return the error, which wraps store.ErrUnavailable when
// the store is down, so the caller can show a transient "try again" state.
// Absence is never an error: a cold product or category reads as empty.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/vitrine/internal/cache"
	"github.com/tomtom215/vitrine/internal/cart"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/engagement"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/recommend"
	"github.com/tomtom215/vitrine/internal/store"
)

// Result is the answer of a read. Degraded is set when the store failed and
// Value holds the empty default.
type Result[T any] struct {
	Value    T
	Degraded bool
}

// Engine wires the recorders, recommenders and cart manager over one store.
type Engine struct {
	store    store.Store
	recorder *engagement.Recorder
	cooccur  *recommend.CoOccurrence
	trending *recommend.Trending
	catalog  *recommend.Catalog
	matcher  *recommend.Matcher
	carts    *cart.Manager

	// categories caches product -> category for Similar lookups.
	categories *cache.Local

	defaultK int
	maxK     int
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for trending buckets.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates an Engine over s using cfg's domain sections.
func New(s store.Store, cfg *config.Config, opts ...Option) *Engine {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	keys := store.NewKeys(cfg.Store.KeyPrefix)
	catalog := recommend.NewCatalog(s, keys)

	defaultK, maxK := cfg.Recommend.DefaultK, cfg.Recommend.MaxK
	if defaultK <= 0 {
		defaultK = 10
	}
	if maxK < defaultK {
		maxK = defaultK
	}

	var categories *cache.Local
	if ttl := cfg.Recommend.CategoryCacheTTL; ttl > 0 {
		var err error
		if categories, err = cache.NewLocal(ttl, 10000); err != nil {
			logging.Warn().Err(err).Msg("Category cache disabled")
		}
	}

	return &Engine{
		store:    s,
		recorder: engagement.NewRecorder(s, keys, cfg.Engagement.RecentCapacity, cfg.Engagement.RecentTTL),
		cooccur:  recommend.NewCoOccurrence(s, keys, cfg.Recommend.CoOccurrenceTopN),
		trending: recommend.NewTrending(s, keys, cfg.Recommend.PopularTTL, recommend.WithNow(o.now)),
		catalog:  catalog,
		matcher:  recommend.NewMatcher(catalog),
		carts:    cart.NewManager(s, keys, cfg.Cart.TTL),

		categories: categories,

		defaultK: defaultK,
		maxK:     maxK,
	}
}

// Recorder exposes the affinity recorder for the realtime view consumer.
func (e *Engine) Recorder() *engagement.Recorder { return e.recorder }

// Ping checks the store.
func (e *Engine) Ping(ctx context.Context) error { return e.store.Ping(ctx) }

// Close releases the process-local caches. The store is owned by the caller.
func (e *Engine) Close() error { return e.categories.Close() }

// clampK maps a requested result size onto [1, maxK]; non-positive uses the default.
func (e *Engine) clampK(k int) int {
	if k <= 0 {
		return e.defaultK
	}
	if k > e.maxK {
		return e.maxK
	}
	return k
}

func read[T any](ctx context.Context, op string, value T, err error, empty T) Result[T] {
	if err == nil {
		return Result[T]{Value: value}
	}
	logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("Serving degraded read")
	metrics.RecordDegraded(op)
	return Result[T]{Value: empty, Degraded: true}
}

// ToggleLike flips identity's like of productID and returns the new state.
func (e *Engine) ToggleLike(ctx context.Context, identity, productID string) (bool, error) {
	return e.recorder.ToggleLike(ctx, identity, productID)
}

// LikedProducts returns the products identity has liked.
func (e *Engine) LikedProducts(ctx context.Context, identity string) Result[[]string] {
	ids, err := e.recorder.LikedProducts(ctx, identity)
	return read(ctx, "liked_products", ids, err, []string{})
}

// LikeCount returns productID's like count.
func (e *Engine) LikeCount(ctx context.Context, productID string) Result[int64] {
	n, err := e.recorder.LikeCount(ctx, productID)
	return read(ctx, "like_count", n, err, 0)
}

// RecordView records that identity viewed productID in categoryID. It
// updates the recently viewed list and category trending, and pairs the
// product with the identity's previous view as co-viewed. Every step is
// attempted; the returned error joins the failures.
func (e *Engine) RecordView(ctx context.Context, identity, categoryID, productID string) error {
	var errs []error

	previous, err := e.recorder.RecentlyViewed(ctx, identity)
	if err != nil {
		errs = append(errs, err)
	}
	if err := e.recorder.RecordView(ctx, identity, productID); err != nil {
		errs = append(errs, err)
	}
	if categoryID != "" {
		if err := e.trending.RecordView(ctx, categoryID, productID); err != nil {
			errs = append(errs, err)
		}
	}
	if len(previous) > 0 && previous[0] != productID {
		if err := e.cooccur.RecordPair(ctx, previous[0], productID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecentlyViewed returns identity's recently viewed products, most recent first.
func (e *Engine) RecentlyViewed(ctx context.Context, identity string) Result[[]string] {
	ids, err := e.recorder.RecentlyViewed(ctx, identity)
	return read(ctx, "recently_viewed", ids, err, []string{})
}

// RecordPurchase pairs every product of an order as bought together.
func (e *Engine) RecordPurchase(ctx context.Context, productIDs []string) error {
	return e.cooccur.RecordBasket(ctx, productIDs)
}

// Similar returns popular products of productID's category. An empty
// categoryID is looked up in the catalog.
func (e *Engine) Similar(ctx context.Context, productID, categoryID string, k int) Result[[]string] {
	if categoryID == "" {
		cat, found, err := e.categoryOf(ctx, productID)
		if err != nil {
			return read(ctx, "similar", []string(nil), err, []string{})
		}
		if !found {
			return Result[[]string]{Value: []string{}}
		}
		categoryID = cat
	}
	ids, err := e.trending.Similar(ctx, productID, categoryID, e.clampK(k))
	return read(ctx, "similar", ids, err, []string{})
}

func (e *Engine) categoryOf(ctx context.Context, productID string) (string, bool, error) {
	if cat, ok := e.categories.Get(productID); ok {
		return cat, true, nil
	}
	cat, found, err := e.catalog.Category(ctx, productID)
	if err == nil && found {
		e.categories.Set(productID, cat)
	}
	return cat, found, err
}

// Trending returns the fastest rising products of categoryID.
func (e *Engine) Trending(ctx context.Context, categoryID string, k int) Result[[]string] {
	ids, err := e.trending.Trending(ctx, categoryID, e.clampK(k))
	return read(ctx, "trending", ids, err, []string{})
}

// BoughtTogether returns the products most often viewed or bought with productID.
func (e *Engine) BoughtTogether(ctx context.Context, productID string, k int) Result[[]string] {
	ids, err := e.cooccur.Top(ctx, productID, e.clampK(k))
	return read(ctx, "bought_together", ids, err, []string{})
}

// CompleteTheLook returns products from complementary categories sharing a
// style tag with productID.
func (e *Engine) CompleteTheLook(ctx context.Context, productID string, k int) Result[[]string] {
	ids, err := e.matcher.Complementary(ctx, productID, e.clampK(k))
	return read(ctx, "complete_the_look", ids, err, []string{})
}

// IndexProduct records productID's category and style tags.
func (e *Engine) IndexProduct(ctx context.Context, productID, categoryID string, tags []string) error {
	defer e.categories.Delete(productID)
	return e.catalog.IndexProduct(ctx, productID, categoryID, tags)
}

// SetComplements replaces the complementary categories of categoryID.
func (e *Engine) SetComplements(ctx context.Context, categoryID string, complements []string) error {
	return e.catalog.SetComplements(ctx, categoryID, complements)
}

// Cart returns identity's cart.
func (e *Engine) Cart(ctx context.Context, identity string) Result[*models.Cart] {
	c, err := e.carts.Get(ctx, identity)
	return read(ctx, "cart", c, err, &models.Cart{Items: []models.CartLine{}})
}

// CartSummary returns line count, item count and subtotal of identity's cart.
func (e *Engine) CartSummary(ctx context.Context, identity string) Result[models.CartSummary] {
	s, err := e.carts.Summary(ctx, identity)
	return read(ctx, "cart_summary", s, err, (&models.Cart{}).Summarize())
}

// AddToCart merges line into identity's cart.
func (e *Engine) AddToCart(ctx context.Context, identity string, line models.CartLine) (*models.Cart, error) {
	return e.carts.Add(ctx, identity, line)
}

// UpdateCartItem sets a line's quantity; zero or less removes it.
func (e *Engine) UpdateCartItem(ctx context.Context, identity, lineID string, quantity int) (*models.Cart, error) {
	return e.carts.UpdateQuantity(ctx, identity, lineID, quantity)
}

// RemoveFromCart removes a line.
func (e *Engine) RemoveFromCart(ctx context.Context, identity, lineID string) (*models.Cart, error) {
	return e.carts.Remove(ctx, identity, lineID)
}

// ClearCart empties identity's cart.
func (e *Engine) ClearCart(ctx context.Context, identity string) error {
	return e.carts.Clear(ctx, identity)
}
