// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/vitrine/internal/config"
	"github.com/tomtom215/vitrine/internal/logging"
)

// Open builds the configured backend and wraps it in a Guard.
func Open(ctx context.Context, cfg *config.StoreConfig) (*Guard, error) {
	var backend Store
	switch cfg.Backend {
	case config.BackendRedis:
		r, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		backend = r
	case config.BackendMemory:
		logging.Warn().Msg("Using in-memory store: state is process-local and lost on restart")
		backend = NewMemory()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	return NewGuard(backend, GuardConfig{
		OpTimeout:   cfg.OpTimeout,
		Failures:    cfg.BreakerFailures,
		OpenTimeout: cfg.BreakerTimeout,
	}), nil
}
