// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
)

// TopicProductViewed carries models.ProductViewedEvent payloads.
const TopicProductViewed = "product.viewed"

// DefaultBufferSize is the per-subscriber output buffer.
const DefaultBufferSize = 1024

// Metadata keys set on every published message.
const (
	MetadataCorrelationID = "correlation_id"
)

// Bus is the in-process event bus.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// NewBus creates a Bus with the given subscriber buffer size.
func NewBus(bufferSize int64) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	logger := NewZerologAdapter()
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: bufferSize,
		}, logger),
		logger: logger,
	}
}

// PublishViewed publishes a product view. The correlation id of ctx, if any,
// travels in the message metadata.
func (b *Bus) PublishViewed(ctx context.Context, event models.ProductViewedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s: %w", TopicProductViewed, err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	if err := b.pubsub.Publish(TopicProductViewed, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicProductViewed, err)
	}
	metrics.EventsPublished.WithLabelValues(TopicProductViewed).Inc()
	return nil
}

// Subscribe returns a channel of messages on topic until ctx is done or the
// bus is closed. Every message must be acked or nacked.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close stops the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
