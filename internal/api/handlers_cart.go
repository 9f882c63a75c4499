// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/validation"
)

// GetCart returns the caller's cart and its summary.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	res := h.engine.Cart(r.Context(), identityOf(r))
	respondSuccess(w, http.StatusOK, cartResponse(res.Value), res.Degraded, start)
}

// AddCartItem adds a line, merging into an existing line of the same
// variant. An omitted quantity counts as one.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var line models.CartLine
	line.Quantity = 1
	if !decodeBody(w, r, &line) {
		return
	}
	if line.Price.IsNegative() {
		respondValidation(w, validation.NewFieldError("price", "gte", "0", "price must be greater than or equal to 0"))
		return
	}

	c, err := h.engine.AddToCart(r.Context(), identityOf(r), line)
	if err != nil {
		respondWriteError(w, r, "add_to_cart", err)
		return
	}
	respondSuccess(w, http.StatusOK, cartResponse(c), false, start)
}

// UpdateCartItem sets the quantity of a line. Zero removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lineID, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}
	var req models.UpdateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.engine.UpdateCartItem(r.Context(), identityOf(r), lineID, req.Quantity)
	if err != nil {
		respondWriteError(w, r, "update_cart_item", err)
		return
	}
	respondSuccess(w, http.StatusOK, cartResponse(c), false, start)
}

// RemoveCartItem deletes a line.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lineID, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}

	c, err := h.engine.RemoveFromCart(r.Context(), identityOf(r), lineID)
	if err != nil {
		respondWriteError(w, r, "remove_cart_item", err)
		return
	}
	respondSuccess(w, http.StatusOK, cartResponse(c), false, start)
}

// ClearCart empties the caller's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.engine.ClearCart(r.Context(), identityOf(r)); err != nil {
		respondWriteError(w, r, "clear_cart", err)
		return
	}
	respondSuccess(w, http.StatusOK, cartResponse(nil), false, start)
}

func cartResponse(c *models.Cart) models.CartResponse {
	if c == nil {
		c = &models.Cart{}
	}
	if c.Items == nil {
		c.Items = []models.CartLine{}
	}
	return models.CartResponse{Items: c.Items, Summary: c.Summarize()}
}
