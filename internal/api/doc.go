// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package api exposes the engine over HTTP using the chi router.

Routes live under /api/v1 and share one middleware chain: rate limiting,
security headers, Prometheus metrics and identity resolution. Identity is a
bearer token when one is presented, then the X-Identity header, then the
client IP.

Responses use the models.APIResponse envelope. Reads that fell back to empty
results because the store was unreachable carry metadata.degraded=true and
still answer 200; writes that could not reach the store answer 503 with
code STORE_UNAVAILABLE.

The realtime channel is mounted at /api/v1/ws and served by the presence
package. /metrics and the health probes sit outside the identity middleware.
*/
package api
