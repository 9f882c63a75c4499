// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package supervisor runs the long-lived Vitrine services under a suture v4
supervisor tree.

	RootSupervisor ("vitrine")
	├── EventsSupervisor ("events-layer")
	│   └── ViewConsumer
	├── RealtimeSupervisor ("realtime-layer")
	│   └── MirrorRefresher
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashing consumer is restarted without dropping WebSocket sessions or
HTTP traffic. Supervisor events are logged through sutureslog using the
zerolog-backed slog adapter from the logging package.
*/
package supervisor
