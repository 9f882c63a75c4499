// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/store"
)

// ToggleLike flips the caller's like on a product.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	liked, err := h.engine.ToggleLike(r.Context(), identityOf(r), productID)
	if err != nil {
		respondWriteError(w, r, "toggle_like", err)
		return
	}
	respondSuccess(w, http.StatusOK, models.LikeToggleResponse{ProductID: productID, Liked: liked}, false, start)
}

// LikedProducts lists the products the caller likes.
func (h *Handler) LikedProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := h.engine.LikedProducts(r.Context(), identityOf(r))
	respondSuccess(w, http.StatusOK, models.ProductListResponse{ProductIDs: res.Value}, res.Degraded, start)
}

// LikeCount returns the number of identities liking a product.
func (h *Handler) LikeCount(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	res := h.engine.LikeCount(r.Context(), productID)
	respondSuccess(w, http.StatusOK, models.LikeCountResponse{ProductID: productID, Count: res.Value}, res.Degraded, start)
}

// RecordView records a product view for the caller.
func (h *Handler) RecordView(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.ViewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.engine.RecordView(r.Context(), identityOf(r), req.CategoryID, req.ProductID)
	respondSignal(w, r, "record_view", err, start)
}

// RecentlyViewed lists the caller's recently viewed products, newest first.
func (h *Handler) RecentlyViewed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := h.engine.RecentlyViewed(r.Context(), identityOf(r))
	respondSuccess(w, http.StatusOK, models.ProductListResponse{ProductIDs: res.Value}, res.Degraded, start)
}

// RecordPurchase records a purchased basket for co-occurrence.
func (h *Handler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req models.PurchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.engine.RecordPurchase(r.Context(), req.ProductIDs)
	respondSignal(w, r, "record_purchase", err, start)
}

// respondSignal answers a recorded view or purchase. A signal lost to a store
// outage is logged and counted as degraded; the caller still gets 202.
func respondSignal(w http.ResponseWriter, r *http.Request, op string, err error, start time.Time) {
	switch {
	case err == nil:
		respondSuccess(w, http.StatusAccepted, nil, false, start)
	case errors.Is(err, store.ErrUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Str("op", op).Msg("Dropped signal, store unavailable")
		metrics.RecordDegraded(op)
		respondSuccess(w, http.StatusAccepted, nil, true, start)
	default:
		respondWriteError(w, r, op, err)
	}
}
