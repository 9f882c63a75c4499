// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/models"
)

// IndexProduct sets a product's category and style tags.
func (h *Handler) IndexProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	var req models.IndexProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.engine.IndexProduct(r.Context(), productID, req.CategoryID, req.Tags); err != nil {
		respondWriteError(w, r, "index_product", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil, false, start)
}

// SetComplements replaces the complementary categories of a category.
func (h *Handler) SetComplements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	var req models.ComplementsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.engine.SetComplements(r.Context(), categoryID, req.CategoryIDs); err != nil {
		respondWriteError(w, r, "set_complements", err)
		return
	}
	respondSuccess(w, http.StatusOK, nil, false, start)
}
