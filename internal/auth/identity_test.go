// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolve(t *testing.T) {
	m := newTestManager(t)
	good, _ := m.GenerateToken("user-42", time.Hour)

	tests := []struct {
		name       string
		resolver   *Resolver
		setup      func(r *http.Request)
		wantID     string
		wantSource string
		wantErr    bool
	}{
		{
			name:       "bearer token",
			resolver:   NewResolver(m),
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+good) },
			wantID:     "user-42",
			wantSource: SourceToken,
		},
		{
			name:       "query token",
			resolver:   NewResolver(m),
			setup:      func(r *http.Request) { r.URL.RawQuery = "token=" + good },
			wantID:     "user-42",
			wantSource: SourceToken,
		},
		{
			name:     "invalid token does not fall back",
			resolver: NewResolver(m),
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
				r.Header.Set(IdentityHeader, "u1")
			},
			wantErr: true,
		},
		{
			name:     "token without verifier",
			resolver: NewResolver(nil),
			setup:    func(r *http.Request) { r.URL.RawQuery = "token=" + good },
			wantErr:  true,
		},
		{
			name:       "identity header",
			resolver:   NewResolver(nil),
			setup:      func(r *http.Request) { r.Header.Set(IdentityHeader, "u1") },
			wantID:     "u1",
			wantSource: SourceHeader,
		},
		{
			name:     "malformed identity header",
			resolver: NewResolver(nil),
			setup:    func(r *http.Request) { r.Header.Set(IdentityHeader, "u 1") },
			wantErr:  true,
		},
		{
			name:       "client address fallback",
			resolver:   NewResolver(m),
			setup:      func(r *http.Request) { r.RemoteAddr = "203.0.113.7:51234" },
			wantID:     "203.0.113.7",
			wantSource: SourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			tt.setup(r)

			identity, err := tt.resolver.Resolve(r)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIdentity) {
					t.Errorf("Resolve() error = %v, want ErrInvalidIdentity", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if identity.ID != tt.wantID || identity.Source != tt.wantSource {
				t.Errorf("Resolve() = %+v, want %s/%s", identity, tt.wantID, tt.wantSource)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	resolver := NewResolver(newTestManager(t))

	var seen Identity
	handler := resolver.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/likes", nil)
	req.Header.Set(IdentityHeader, "u9")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen.ID != "u9" {
		t.Errorf("code = %d, identity = %+v", rec.Code, seen)
	}
	if seen.Authenticated() {
		t.Error("header identity should not count as authenticated")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/likes", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("invalid token code = %d, want 401", rec.Code)
	}
}
