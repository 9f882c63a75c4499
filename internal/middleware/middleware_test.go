// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
)

func TestRequestID(t *testing.T) {
	var gotRequestID, gotCorrelationID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = logging.RequestIDFromContext(r.Context())
		gotCorrelationID = logging.CorrelationIDFromContext(r.Context())
	}))

	tests := []struct {
		name      string
		header    string
		wantReuse bool
	}{
		{"generated", "", false},
		{"reused from upstream", "upstream-123", true},
		{"oversized replaced", strings.Repeat("x", 100), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			echoed := rec.Header().Get(RequestIDHeader)
			if echoed == "" || echoed != gotRequestID {
				t.Errorf("echoed %q, context %q", echoed, gotRequestID)
			}
			if tt.wantReuse && echoed != tt.header {
				t.Errorf("request id = %q, want %q", echoed, tt.header)
			}
			if !tt.wantReuse && echoed == tt.header {
				t.Errorf("request id %q should have been replaced", echoed)
			}
			if gotCorrelationID == "" {
				t.Error("correlation id missing from context")
			}
		})
	}
}

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/likes/{productId}/count", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/likes/{productId}/count", "418")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"p1", "p2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/likes/"+id+"/count", nil))
	}

	if got := testutil.ToFloat64(counter); got != before+2 {
		t.Errorf("requests = %v, want %v", got, before+2)
	}
}
