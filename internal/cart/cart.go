// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

// Package cart stores per-identity shopping carts as a single JSON document
// in the shared store.
//
// The document shape is {"items": [CartLine...]} and is read by clients
// directly, so field names must stay stable. Every mutation rewrites the
// whole document and refreshes its TTL.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/store"
)

// DefaultTTL is the rolling lifetime of a cart document.
const DefaultTTL = 7 * 24 * time.Hour

// ErrLineNotFound is returned when a line id does not exist in the cart.
var ErrLineNotFound = errors.New("cart line not found")

// Manager reads and mutates session carts.
//
// Mutations are read-modify-write without a lock, so two concurrent writes to
// the same cart keep only the last one. This matches a single shopper acting
// from one browser session.
type Manager struct {
	store store.Store
	keys  store.Keys
	ttl   time.Duration
	newID func() string
}

// NewManager creates a Manager. A non-positive ttl uses DefaultTTL.
func NewManager(s store.Store, keys store.Keys, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: s, keys: keys, ttl: ttl, newID: uuid.NewString}
}

// Get returns the cart for identity. A missing cart is empty.
func (m *Manager) Get(ctx context.Context, identity string) (*models.Cart, error) {
	raw, found, err := m.store.Get(ctx, m.keys.Cart(identity))
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	cart := &models.Cart{Items: []models.CartLine{}}
	if !found || raw == "" {
		return cart, nil
	}
	if err := json.Unmarshal([]byte(raw), cart); err != nil {
		// An unreadable document is replaced on the next write.
		logging.Warn().Err(err).Str("identity", identity).Msg("Discarding unreadable cart document")
		return &models.Cart{Items: []models.CartLine{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	return cart, nil
}

// Add merges line into the cart. A line with the same product, size and
// color has its quantity increased; otherwise the line is appended with a
// new id. A non-positive quantity counts as one.
func (m *Manager) Add(ctx context.Context, identity string, line models.CartLine) (*models.Cart, error) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	return m.mutate(ctx, identity, "add", func(cart *models.Cart) error {
		for i := range cart.Items {
			if cart.Items[i].SameVariant(&line) {
				cart.Items[i].Quantity += line.Quantity
				return nil
			}
		}
		line.ID = m.newID()
		cart.Items = append(cart.Items, line)
		return nil
	})
}

// UpdateQuantity sets the quantity of lineID. A quantity of zero or less
// removes the line. Inventory is not checked.
func (m *Manager) UpdateQuantity(ctx context.Context, identity, lineID string, quantity int) (*models.Cart, error) {
	return m.mutate(ctx, identity, "update", func(cart *models.Cart) error {
		i := indexOf(cart, lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		if quantity <= 0 {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return nil
		}
		cart.Items[i].Quantity = quantity
		return nil
	})
}

// Remove deletes lineID from the cart.
func (m *Manager) Remove(ctx context.Context, identity, lineID string) (*models.Cart, error) {
	return m.mutate(ctx, identity, "remove", func(cart *models.Cart) error {
		i := indexOf(cart, lineID)
		if i < 0 {
			return ErrLineNotFound
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		return nil
	})
}

// Clear empties the cart. The empty document is kept with a fresh TTL.
func (m *Manager) Clear(ctx context.Context, identity string) error {
	_, err := m.mutate(ctx, identity, "clear", func(cart *models.Cart) error {
		cart.Items = []models.CartLine{}
		return nil
	})
	return err
}

// Summary returns line count, item count and subtotal for identity's cart.
func (m *Manager) Summary(ctx context.Context, identity string) (models.CartSummary, error) {
	cart, err := m.Get(ctx, identity)
	if err != nil {
		return models.CartSummary{}, err
	}
	return cart.Summarize(), nil
}

func (m *Manager) mutate(ctx context.Context, identity, op string, apply func(*models.Cart) error) (*models.Cart, error) {
	cart, err := m.Get(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("%s cart item: %w", op, err)
	}
	if err := apply(cart); err != nil {
		return nil, err
	}
	data, err := json.Marshal(cart)
	if err != nil {
		return nil, fmt.Errorf("%s cart item: encode: %w", op, err)
	}
	if err := m.store.Set(ctx, m.keys.Cart(identity), string(data), m.ttl); err != nil {
		return nil, fmt.Errorf("%s cart item: %w", op, err)
	}
	return cart, nil
}

func indexOf(cart *models.Cart, lineID string) int {
	for i := range cart.Items {
		if cart.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}
