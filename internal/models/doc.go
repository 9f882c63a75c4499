// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package models defines the data shapes shared between packages and the wire:
// the REST response envelope, cart documents stored in the shared store, and
// realtime channel messages.
package models
