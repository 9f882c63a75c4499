// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package main

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/vitrine/internal/api"
	"github.com/tomtom215/vitrine/internal/auth"
	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/engine"
	"github.com/tomtom215/vitrine/internal/events"
	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/presence"
	"github.com/tomtom215/vitrine/internal/store"
)

// app holds the wired components of one server process.
type app struct {
	engine    *engine.Engine
	bus       *events.Bus
	registry  *presence.Registry
	consumer  *events.ViewConsumer
	refresher *presence.MirrorRefresher
	handler   http.Handler
}

// newApp wires the engine, event bus, presence and HTTP layers over st.
func newApp(cfg *config.Config, st store.Store) (*app, error) {
	eng := engine.New(st, cfg)
	bus := events.NewBus(events.DefaultBufferSize)

	registry := presence.NewRegistry(presence.RegistryConfig{
		Mirror:    st,
		Keys:      store.NewKeys(cfg.Store.KeyPrefix),
		MirrorTTL: cfg.Presence.MirrorTTL,
		Events:    bus,
	})

	var jwtManager *auth.JWTManager
	if cfg.Security.JWTSecret != "" {
		var err error
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, fmt.Errorf("jwt manager: %w", err)
		}
		logging.Info().Msg("Signed identity tokens enabled")
	} else {
		logging.Info().Msg("No JWT secret configured, identity comes from X-Identity or client address")
	}
	resolver := auth.NewResolver(jwtManager)

	realtime := presence.NewHandler(registry, resolver, presence.HandlerConfig{
		AllowedOrigins: cfg.Security.CORSOrigins,
		SendBuffer:     cfg.Presence.SendBuffer,
		InboundRate:    cfg.Presence.InboundRate,
		InboundBurst:   cfg.Presence.InboundBurst,
	})

	router := api.NewRouter(api.NewHandler(eng, realtime), resolver, api.ChiMiddlewareConfigFrom(&cfg.Security))

	return &app{
		engine:    eng,
		bus:       bus,
		registry:  registry,
		consumer:  events.NewViewConsumer(bus, eng.Recorder()),
		refresher: presence.NewMirrorRefresher(registry, cfg.Presence.MirrorRefresh),
		handler:   router.SetupChi(),
	}, nil
}
