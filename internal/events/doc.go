// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

/*
Package events carries in-process domain events between the presence tracker
and the engagement recorder.

The bus is a Watermill Go channel pub/sub. It is not persistent: events
published while no consumer is subscribed are dropped, and nothing survives a
restart. The only topic today is TopicProductViewed, published when a
realtime session joins a product room and consumed by ViewConsumer, which
appends the product to the identity's recently viewed list.

Usage:

	bus := events.NewBus(events.DefaultBufferSize)
	consumer := events.NewViewConsumer(bus, recorder)
	go consumer.Serve(ctx)

	bus.PublishViewed(ctx, models.ProductViewedEvent{Identity: "u1", ProductID: "p7"})
*/
package events
