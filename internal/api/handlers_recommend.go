// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/engine"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/validation"
)

// Similar recommends products co-viewed with a product. The category is
// optional; without it the catalog category of the product is used.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	categoryID := r.URL.Query().Get("categoryId")
	if categoryID != "" {
		if verr := validation.ValidateID("categoryId", categoryID); verr != nil {
			respondValidation(w, verr)
			return
		}
	}

	res := h.engine.Similar(r.Context(), productID, categoryID, getIntParam(r, "k", 0))
	respondProducts(w, res, start)
}

// Trending ranks a category's products by view velocity.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	res := h.engine.Trending(r.Context(), categoryID, getIntParam(r, "k", 0))
	respondProducts(w, res, start)
}

// BoughtTogether recommends products purchased with a product.
func (h *Handler) BoughtTogether(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	res := h.engine.BoughtTogether(r.Context(), productID, getIntParam(r, "k", 0))
	respondProducts(w, res, start)
}

// CompleteTheLook recommends products from complementary categories that
// share a style tag with the product.
func (h *Handler) CompleteTheLook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}

	res := h.engine.CompleteTheLook(r.Context(), productID, getIntParam(r, "k", 0))
	respondProducts(w, res, start)
}

func respondProducts(w http.ResponseWriter, res engine.Result[[]string], start time.Time) {
	respondSuccess(w, http.StatusOK, models.ProductListResponse{ProductIDs: res.Value}, res.Degraded, start)
}
