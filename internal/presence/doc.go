// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package presence tracks live product viewers over WebSocket connections.

Each connection is a Session with a small state machine:

	Unauthenticated -> Connected -> InRoom(productId) -> Disconnected
	                  ^            |
	                  +--- leave --+

A session watches at most one product. Joining a new product first leaves
the current one. Disconnecting from any state leaves the current room before
the session is finalized, so counts never keep a phantom viewer.

The Registry owns the rooms. After every count change it sends

	{"type":"viewer_count","data":{"productId":"p7","count":3}}

to the sessions in that room only. Delivery never blocks: a session whose
send buffer is full misses that message. The in-process room size is
authoritative; it is also mirrored to the shared store under
{prefix}:viewers:{productId} with a short TTL for other readers. Mirror
writes are best-effort and refreshed periodically by MirrorRefresher.

Client frames:

	{"type":"join","data":{"productId":"p7"}}
	{"type":"leave","data":{"productId":"p7"}}
	{"type":"ping"}

Server frames are viewer_count, pong and error. Inbound frames are rate
limited per connection; frames over the limit get an error reply and are
otherwise ignored.

Identity is resolved before the upgrade. A token that is present but invalid
ends the request with 401 and no session is created.
*/
package presence
