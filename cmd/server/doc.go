// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package main is the entry point for the Vitrine server.

Vitrine records shopper engagement (likes, views, purchases, carts) in a
shared counter/set store and serves recommendations and live viewer counts
from it.

	RootSupervisor ("vitrine")
	├── EventsSupervisor ("events-layer")
	│   └── ViewConsumer (product.viewed -> recently viewed, co-views)
	├── RealtimeSupervisor ("realtime-layer")
	│   └── MirrorRefresher (viewer count mirror TTL)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST + /api/v1/ws)

Component initialization order:

 1. Configuration: koanf v2 defaults, config.yaml, environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: Redis or in-process memory behind a circuit breaker
 4. Engine: engagement recorder, recommenders and session carts
 5. Event bus: watermill GoChannel for product.viewed
 6. Presence: session registry and WebSocket upgrade handler
 7. HTTP: chi router with middleware stack
 8. Supervisor tree: suture v4

The store is probed at startup but an unreachable store is not fatal: reads
degrade to empty results and /api/v1/health/ready reports 503 until the
store answers.

# Signals

SIGINT and SIGTERM cancel the root context. Services stop in reverse
dependency order within the configured shutdown timeout, WebSocket sessions
are closed and the store connection is released.
*/
package main
