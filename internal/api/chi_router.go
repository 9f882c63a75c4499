// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/middleware"
)

// Router wires handlers and middleware into a chi route tree.
type Router struct {
	handler       *Handler
	resolver      *auth.Resolver
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router.
func NewRouter(handler *Handler, resolver *auth.Resolver, mwConfig *ChiMiddlewareConfig) *Router {
	return &Router{
		handler:       handler,
		resolver:      resolver,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)

		// The realtime handler resolves identity before upgrading.
		r.Get("/ws", router.handler.WebSocket)

		r.Group(func(r chi.Router) {
			r.Use(router.resolver.Middleware)

			r.Get("/likes", router.handler.LikedProducts)
			r.Post("/likes/{productId}/toggle", router.handler.ToggleLike)
			r.Get("/likes/{productId}/count", router.handler.LikeCount)

			r.Post("/views", router.handler.RecordView)
			r.Get("/recently-viewed", router.handler.RecentlyViewed)
			r.Post("/purchases", router.handler.RecordPurchase)

			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/similar/{productId}", router.handler.Similar)
				r.Get("/trending/{categoryId}", router.handler.Trending)
				r.Get("/bought-together/{productId}", router.handler.BoughtTogether)
				r.Get("/complete-the-look/{productId}", router.handler.CompleteTheLook)
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", router.handler.GetCart)
				r.Delete("/", router.handler.ClearCart)
				r.Post("/items", router.handler.AddCartItem)
				r.Put("/items/{lineId}", router.handler.UpdateCartItem)
				r.Delete("/items/{lineId}", router.handler.RemoveCartItem)
			})

			r.Route("/catalog", func(r chi.Router) {
				r.Put("/products/{productId}", router.handler.IndexProduct)
				r.Put("/categories/{categoryId}/complements", router.handler.SetComplements)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
