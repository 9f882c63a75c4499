// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered on the default registry through promauto, so they
// exist as soon as the package is imported:
//   - Store command latency and failures, per backend
//   - Circuit breaker state
//   - Engine degradations (reads served empty because the store was unavailable)
//   - API request latency and throughput
//   - Realtime connections, rooms, and message flow
//   - In-process event bus traffic
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitrine_store_op_duration_seconds",
			Help:    "Duration of shared store commands in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"backend", "command"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_store_op_errors_total",
			Help: "Total number of failed shared store commands",
		},
		[]string{"backend", "command"},
	)

	StoreBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrine_store_breaker_state",
			Help: "Store circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	StoreBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_store_breaker_transitions_total",
			Help: "Total number of store circuit breaker state transitions",
		},
		[]string{"from", "to"},
	)

	// EngineDegraded counts reads answered empty and signals (views,
	// purchases) dropped because the store was unavailable.
	EngineDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_engine_degraded_total",
			Help: "Total number of reads served empty or signals dropped due to store unavailability",
		},
		[]string{"operation"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vitrine_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrine_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)

	// Realtime Metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrine_ws_connections_active",
			Help: "Current number of active realtime connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vitrine_ws_messages_sent_total",
			Help: "Total number of realtime messages written to clients",
		},
	)

	WSMessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_ws_messages_received_total",
			Help: "Total number of realtime messages received from clients",
		},
		[]string{"type"},
	)

	WSMessagesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_ws_messages_dropped_total",
			Help: "Total number of realtime messages dropped",
		},
		[]string{"reason"}, // "send_buffer_full", "rate_limited"
	)

	PresenceRoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrine_presence_rooms_active",
			Help: "Current number of product rooms with at least one viewer",
		},
	)

	PresenceViewersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vitrine_presence_viewers_active",
			Help: "Current number of sessions joined to a product room",
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_events_published_total",
			Help: "Total number of events published to the in-process bus",
		},
		[]string{"topic"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vitrine_events_consumed_total",
			Help: "Total number of events handled by consumers",
		},
		[]string{"topic", "result"}, // "ok", "error", "invalid"
	)
)

// Breaker state gauge values.
const (
	BreakerClosed   = 0
	BreakerHalfOpen = 1
	BreakerOpen     = 2
)

// RecordStoreOp records one store command
func RecordStoreOp(backend, command string, duration time.Duration, err error) {
	StoreOpDuration.WithLabelValues(backend, command).Observe(duration.Seconds())
	if err != nil {
		StoreOpErrors.WithLabelValues(backend, command).Inc()
	}
}

// RecordBreakerTransition updates the breaker gauge and transition counter.
func RecordBreakerTransition(from, to string) {
	StoreBreakerTransitions.WithLabelValues(from, to).Inc()
	switch to {
	case "open":
		StoreBreakerState.Set(BreakerOpen)
	case "half-open":
		StoreBreakerState.Set(BreakerHalfOpen)
	default:
		StoreBreakerState.Set(BreakerClosed)
	}
}

// RecordDegraded counts a degraded read
func RecordDegraded(operation string) {
	EngineDegraded.WithLabelValues(operation).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
