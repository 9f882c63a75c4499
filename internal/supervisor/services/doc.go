// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package services adapts server components to suture.Service.
//
// The event consumer and the presence mirror refresher already implement
// Serve(ctx) error; only the HTTP server needs translating from its
// blocking Serve/Shutdown lifecycle.
package services
