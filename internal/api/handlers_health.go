// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/vitrine/internal/logging"
)

// HealthLive is the liveness probe. It never touches the store.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, false, time.Now())
}

// HealthReady is the readiness probe. It answers 503 while the store is
// unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.engine.Ping(r.Context()); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Readiness check failed")
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Engagement store is unreachable", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"ready": true}, false, start)
}
