// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/validation"
)

// ErrInvalidIdentity is returned when a presented token does not verify or
// an explicit identity is malformed.
var ErrInvalidIdentity = errors.New("invalid identity")

// IdentityHeader carries an identity asserted by a trusted collaborator.
const IdentityHeader = "X-Identity"

// TokenQueryParam carries a token on WebSocket upgrades.
const TokenQueryParam = "token"

// Identity sources.
const (
	SourceToken    = "token"
	SourceHeader   = "header"
	SourceFallback = "fallback"
)

// Identity is the resolved partition key for a request.
type Identity struct {
	ID     string
	Source string
}

// Authenticated reports whether the identity came from a verified token.
func (i Identity) Authenticated() bool {
	return i.Source == SourceToken
}

type contextKey string

const identityContextKey contextKey = "identity"

// Resolver resolves request identities.
type Resolver struct {
	jwt *JWTManager
}

// NewResolver creates a Resolver. jwtManager may be nil, in which case any
// presented token is rejected.
func NewResolver(jwtManager *JWTManager) *Resolver {
	return &Resolver{jwt: jwtManager}
}

// Resolve returns the identity of r.
func (res *Resolver) Resolve(r *http.Request) (Identity, error) {
	if token := tokenFromRequest(r); token != "" {
		if res.jwt == nil {
			return Identity{}, fmt.Errorf("%w: token verification is not configured", ErrInvalidIdentity)
		}
		claims, err := res.jwt.ValidateToken(token)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
		}
		return Identity{ID: claims.Subject, Source: SourceToken}, nil
	}

	if id := strings.TrimSpace(r.Header.Get(IdentityHeader)); id != "" {
		if verr := validation.ValidateID(IdentityHeader, id); verr != nil {
			return Identity{}, fmt.Errorf("%w: %s", ErrInvalidIdentity, verr.Error())
		}
		return Identity{ID: id, Source: SourceHeader}, nil
	}

	return Identity{ID: clientAddress(r), Source: SourceFallback}, nil
}

// Middleware resolves the identity and stores it in the request context.
// Requests with an invalid identity are rejected with 401.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := res.Resolve(r)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected request identity")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","error":{"code":"INVALID_IDENTITY","message":"invalid identity"}}`))
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// ContextWithIdentity returns a context carrying identity.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the identity stored by Middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return r.URL.Query().Get(TokenQueryParam)
}

// clientAddress returns the host part of RemoteAddr.
func clientAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
