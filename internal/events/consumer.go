// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// ViewSink receives product views for an identity.
type ViewSink interface {
	RecordView(ctx context.Context, identity, productID string) error
}

// ViewConsumer appends realtime product views to the viewer's recently
// viewed list. It implements suture.Service.
//
// Every message is acked. A view that cannot be recorded is logged and
// counted, never redelivered: the next join records a fresh view.
type ViewConsumer struct {
	bus  *Bus
	sink ViewSink
}

// NewViewConsumer creates a consumer reading TopicProductViewed from bus.
func NewViewConsumer(bus *Bus, sink ViewSink) *ViewConsumer {
	return &ViewConsumer{bus: bus, sink: sink}
}

// Serve consumes until ctx is cancelled or the bus is closed.
func (c *ViewConsumer) Serve(ctx context.Context) error {
	messages, err := c.bus.Subscribe(ctx, TopicProductViewed)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicProductViewed, err)
	}
	logging.Info().Str("topic", TopicProductViewed).Msg("View consumer started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			c.handle(ctx, msg)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (c *ViewConsumer) String() string {
	return "view-consumer"
}

func (c *ViewConsumer) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	msgCtx := ctx
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		msgCtx = logging.ContextWithCorrelationID(ctx, id)
	}

	var event models.ProductViewedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil || event.Identity == "" || event.ProductID == "" {
		logging.Ctx(msgCtx).Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed product view event")
		metrics.EventsConsumed.WithLabelValues(TopicProductViewed, "invalid").Inc()
		return
	}

	if err := c.sink.RecordView(msgCtx, event.Identity, event.ProductID); err != nil {
		logging.Ctx(msgCtx).Warn().Err(err).
			Str("product_id", event.ProductID).
			Msg("Failed to record realtime view")
		metrics.EventsConsumed.WithLabelValues(TopicProductViewed, "failed").Inc()
		return
	}
	metrics.EventsConsumed.WithLabelValues(TopicProductViewed, "ok").Inc()
}
