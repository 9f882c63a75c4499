// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package cache provides a process-local string cache for hot catalog
// lookups, backed by allegro/bigcache.
//
// Entries share one lifetime. Lookups may return a value up to one cleanup
// window past its lifetime, so the cache only holds data where a short
// stale read is harmless and writers in the same process call Delete.
package cache
