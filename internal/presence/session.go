// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// State is a session lifecycle state.
type State int

// Session states.
const (
	StateUnauthenticated State = iota
	StateConnected
	StateInRoom
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateConnected:
		return "connected"
	case StateInRoom:
		return "in_room"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session errors.
var (
	ErrNotInRoom         = errors.New("session is not in that room")
	ErrInvalidTransition = errors.New("invalid session transition")
)

// DefaultSendBuffer is the outbound queue length per session.
const DefaultSendBuffer = 256

var sessionIDCounter atomic.Uint64

// Session is one realtime connection. Transitions are serialized by mu;
// different sessions proceed in parallel.
type Session struct {
	id       uint64
	registry *Registry

	mu       sync.Mutex
	state    State
	identity string
	room     string

	sendMu sync.Mutex
	closed bool
	send   chan models.OutboundMessage
}

// NewSession creates an unauthenticated session attached to registry.
func NewSession(registry *Registry, sendBuffer int) *Session {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Session{
		id:       sessionIDCounter.Add(1),
		registry: registry,
		send:     make(chan models.OutboundMessage, sendBuffer),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() uint64 { return s.id }

// State returns the current state and, when in a room, its product id.
func (s *Session) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.room
}

// Identity returns the identity set by Authenticate.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Outbound returns the channel the write pump drains. It is closed when the
// session disconnects.
func (s *Session) Outbound() <-chan models.OutboundMessage {
	return s.send
}

// Authenticate moves an unauthenticated session to Connected for identity.
func (s *Session) Authenticate(identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateUnauthenticated {
		return fmt.Errorf("%w: authenticate from %s", ErrInvalidTransition, s.state)
	}
	s.identity = identity
	s.state = StateConnected
	s.registry.register(s)
	return nil
}

// Join subscribes the session to productID's room, leaving the current room
// first. Joining the room the session is already in is a no-op.
func (s *Session) Join(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateConnected:
	case StateInRoom:
		if s.room == productID {
			return nil
		}
		s.registry.leave(ctx, s, s.room)
	default:
		return fmt.Errorf("%w: join from %s", ErrInvalidTransition, s.state)
	}

	s.registry.join(ctx, s, productID)
	s.state = StateInRoom
	s.room = productID
	s.registry.viewed(ctx, s.identity, productID)
	return nil
}

// Leave unsubscribes the session from productID's room.
func (s *Session) Leave(ctx context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInRoom || s.room != productID {
		return ErrNotInRoom
	}
	s.registry.leave(ctx, s, productID)
	s.state = StateConnected
	s.room = ""
	return nil
}

// Disconnect finalizes the session from any state. It leaves the current
// room, unregisters the session and closes its outbound channel. It is
// idempotent. Cleanup ignores cancellation of ctx.
func (s *Session) Disconnect(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return
	}
	if s.state == StateInRoom {
		s.registry.leave(ctx, s, s.room)
		s.room = ""
	}
	wasRegistered := s.state != StateUnauthenticated
	s.state = StateDisconnected
	s.mu.Unlock()

	if wasRegistered {
		s.registry.unregister(s)
	}
	s.closeSend()
}

// Deliver queues msg without blocking. It reports false when the session is
// closed or its buffer is full.
func (s *Session) Deliver(msg models.OutboundMessage) bool {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.send <- msg:
		return true
	default:
		metrics.WSMessagesDropped.WithLabelValues("buffer_full").Inc()
		return false
	}
}

func (s *Session) closeSend() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.send)
	}
}
