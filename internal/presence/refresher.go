// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"context"
	"time"

	"github.com/tomtom215/vitrine/internal/logging"
)

// DefaultMirrorRefresh is how often live counts are rewritten to the mirror.
const DefaultMirrorRefresh = time.Minute

// MirrorRefresher rewrites the mirrored count of every occupied room so
// that quiet rooms do not expire from the store while viewers remain.
// It implements suture.Service.
type MirrorRefresher struct {
	registry *Registry
	interval time.Duration
}

// NewMirrorRefresher creates a refresher running every interval.
func NewMirrorRefresher(registry *Registry, interval time.Duration) *MirrorRefresher {
	if interval <= 0 {
		interval = DefaultMirrorRefresh
	}
	return &MirrorRefresher{registry: registry, interval: interval}
}

// Serve refreshes until ctx is cancelled, then disconnects every session.
func (m *MirrorRefresher) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.registry.CloseAll(ctx)
			return ctx.Err()
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}

// Refresh rewrites the count of every room occupied when it starts. Rooms
// that empty before their turn are skipped.
func (m *MirrorRefresher) Refresh(ctx context.Context) {
	refreshed := 0
	for productID := range m.registry.Counts() {
		if m.registry.syncMirror(ctx, productID, true) {
			refreshed++
		}
	}
	logging.Debug().Int("rooms", refreshed).Msg("Refreshed viewer count mirror")
}

// String implements fmt.Stringer for supervisor logs.
func (m *MirrorRefresher) String() string {
	return "presence-mirror-refresher"
}
