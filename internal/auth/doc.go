// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package auth resolves the identity that partitions likes, recently viewed
lists and carts.

Identity is resolved per request in this order:

 1. A signed token, from "Authorization: Bearer <jwt>" or the "token" query
    parameter (browsers cannot set headers on a WebSocket upgrade). The
    token's subject is the identity. A token that is present but does not
    verify yields ErrInvalidIdentity; there is no silent fallback.
 2. The X-Identity header, set by a trusted collaborator that already
    authenticated the shopper.
 3. The client address, as rewritten by chi's RealIP middleware.

Tokens are HMAC-SHA256 (HS256) signed with JWT_SECRET. When no secret is
configured every presented token is rejected.

Usage:

	jwtManager, _ := auth.NewJWTManager(&cfg.Security)
	resolver := auth.NewResolver(jwtManager)

	r.Use(resolver.Middleware)
	identity := auth.IdentityFromContext(r.Context())
*/
package auth
