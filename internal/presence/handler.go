// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/logging"
)

// HandlerConfig configures the upgrade handler.
type HandlerConfig struct {
	AllowedOrigins []string
	SendBuffer     int
	InboundRate    float64
	InboundBurst   int
}

// Handler upgrades HTTP requests to realtime sessions.
type Handler struct {
	registry *Registry
	resolver *auth.Resolver
	cfg      HandlerConfig
	upgrader websocket.Upgrader
}

// NewHandler creates a Handler.
func NewHandler(registry *Registry, resolver *auth.Resolver, cfg HandlerConfig) *Handler {
	h := &Handler{registry: registry, resolver: resolver, cfg: cfg}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// ServeHTTP resolves the identity, upgrades the connection and starts the
// session. An invalid token is rejected before the upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.resolver.Resolve(r)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Realtime connection rejected")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","error":{"code":"INVALID_IDENTITY","message":"invalid identity"}}`))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade error")
		return
	}

	session := NewSession(h.registry, h.cfg.SendBuffer)
	if err := session.Authenticate(identity.ID); err != nil {
		_ = conn.Close()
		return
	}
	logging.Ctx(r.Context()).Debug().
		Uint64("session_id", session.ID()).
		Str("identity_source", identity.Source).
		Msg("Realtime session connected")

	NewClient(session, conn, h.cfg.InboundRate, h.cfg.InboundBurst).Start(r.Context())
}

// checkOrigin requires an Origin header listed in AllowedOrigins, or any
// origin when the list contains "*".
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Warn().Str("origin", origin).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
