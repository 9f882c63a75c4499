// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"context"
	"hash/fnv"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/store"
)

// DefaultMirrorTTL is the lifetime of a mirrored viewer count.
const DefaultMirrorTTL = 5 * time.Minute

// mirrorStripes is the number of locks serializing mirror writes by room.
const mirrorStripes = 64

// Mirror receives viewer counts for other readers. store.Store satisfies it.
type Mirror interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ViewPublisher forwards joins to the engagement recorder.
type ViewPublisher interface {
	PublishViewed(ctx context.Context, event models.ProductViewedEvent) error
}

// RegistryConfig configures a Registry. Mirror and Events may be nil.
type RegistryConfig struct {
	Mirror    Mirror
	Keys      store.Keys
	MirrorTTL time.Duration
	Events    ViewPublisher
}

// Registry holds the rooms of one process. It is an explicit object so that
// separate instances never share state.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]map[uint64]*Session
	sessions map[uint64]*Session

	// mirrorLocks serialize mirror writes per room; see syncMirror.
	mirrorLocks [mirrorStripes]sync.Mutex

	mirror    Mirror
	keys      store.Keys
	mirrorTTL time.Duration
	events    ViewPublisher
}

// NewRegistry creates an empty Registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.MirrorTTL <= 0 {
		cfg.MirrorTTL = DefaultMirrorTTL
	}
	return &Registry{
		rooms:     make(map[string]map[uint64]*Session),
		sessions:  make(map[uint64]*Session),
		mirror:    cfg.Mirror,
		keys:      cfg.Keys,
		mirrorTTL: cfg.MirrorTTL,
		events:    cfg.Events,
	}
}

// Count returns the number of sessions in productID's room.
func (r *Registry) Count(productID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[productID])
}

// Counts returns a snapshot of every non-empty room's size.
func (r *Registry) Counts() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]int, len(r.rooms))
	for productID, room := range r.rooms {
		out[productID] = len(room)
	}
	return out
}

// Sessions returns the number of connected sessions.
func (r *Registry) Sessions() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll disconnects every session. Used on shutdown so that write pumps
// close their connections.
func (r *Registry) CloseAll(ctx context.Context) {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool { return sessions[i].id < sessions[j].id })
	for _, s := range sessions {
		s.Disconnect(ctx)
	}
	logging.Info().Int("sessions_closed", len(sessions)).Msg("Closed all realtime sessions")
}

func (r *Registry) register(s *Session) {
	r.mu.Lock()
	r.sessions[s.id] = s
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.WSConnectionsActive.Set(float64(n))
}

func (r *Registry) unregister(s *Session) {
	r.mu.Lock()
	delete(r.sessions, s.id)
	n := len(r.sessions)
	r.mu.Unlock()
	metrics.WSConnectionsActive.Set(float64(n))
}

func (r *Registry) join(ctx context.Context, s *Session, productID string) {
	r.mu.Lock()
	room, ok := r.rooms[productID]
	if !ok {
		room = make(map[uint64]*Session)
		r.rooms[productID] = room
	}
	room[s.id] = s
	count := len(room)
	r.broadcastLocked(productID, count)
	r.updateGaugesLocked()
	r.mu.Unlock()

	r.syncMirror(ctx, productID, false)
}

func (r *Registry) leave(ctx context.Context, s *Session, productID string) {
	r.mu.Lock()
	room := r.rooms[productID]
	delete(room, s.id)
	count := len(room)
	if count == 0 {
		delete(r.rooms, productID)
	} else {
		r.broadcastLocked(productID, count)
	}
	r.updateGaugesLocked()
	r.mu.Unlock()

	r.syncMirror(ctx, productID, false)
}

// broadcastLocked sends the room's count to its members in session id order.
// Delivering under the lock keeps successive counts in order per session.
func (r *Registry) broadcastLocked(productID string, count int) {
	room := r.rooms[productID]
	members := make([]*Session, 0, len(room))
	for _, s := range room {
		members = append(members, s)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].id < members[j].id })

	msg := models.OutboundMessage{
		Type: models.MessageTypeViewerCount,
		Data: models.ViewerCount{ProductID: productID, Count: count},
	}
	for _, s := range members {
		s.Deliver(msg)
	}
}

func (r *Registry) updateGaugesLocked() {
	viewers := 0
	for _, room := range r.rooms {
		viewers += len(room)
	}
	metrics.PresenceRoomsActive.Set(float64(len(r.rooms)))
	metrics.PresenceViewersActive.Set(float64(viewers))
}

func (r *Registry) mirrorLock(productID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(productID))
	return &r.mirrorLocks[h.Sum32()%mirrorStripes]
}

// syncMirror writes productID's current count to the mirror. Writes for a
// room are serialized and each one reads the count at write time, so the
// last write carries the latest membership. With skipEmpty an empty room is
// left to the leave that emptied it.
func (r *Registry) syncMirror(ctx context.Context, productID string, skipEmpty bool) bool {
	if r.mirror == nil {
		return false
	}
	lock := r.mirrorLock(productID)
	lock.Lock()
	defer lock.Unlock()

	count := r.Count(productID)
	if count == 0 && skipEmpty {
		return false
	}
	if err := r.mirror.Set(ctx, r.keys.Viewers(productID), strconv.Itoa(count), r.mirrorTTL); err != nil {
		logging.Debug().Err(err).Str("product_id", productID).Msg("Viewer count mirror write failed")
	}
	return true
}

func (r *Registry) viewed(ctx context.Context, identity, productID string) {
	if r.events == nil {
		return
	}
	event := models.ProductViewedEvent{Identity: identity, ProductID: productID, Source: "realtime"}
	if err := r.events.PublishViewed(ctx, event); err != nil {
		logging.Warn().Err(err).Str("product_id", productID).Msg("Failed to publish product view")
	}
}
