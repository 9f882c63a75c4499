// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/engine"
)

// Handler holds the dependencies of the REST handlers.
type Handler struct {
	engine    *engine.Engine
	realtime  http.Handler
	startTime time.Time
}

// NewHandler creates a Handler. realtime serves the WebSocket upgrade and
// may be nil, in which case /ws answers 404.
func NewHandler(eng *engine.Engine, realtime http.Handler) *Handler {
	return &Handler{
		engine:    eng,
		realtime:  realtime,
		startTime: time.Now(),
	}
}

// WebSocket hands the request to the realtime handler.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.realtime == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Realtime channel disabled", nil)
		return
	}
	h.realtime.ServeHTTP(w, r)
}
