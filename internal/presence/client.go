// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package presence

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/tomtom215/vitrine/internal/logging"
	"github.com/tomtom215/vitrine/internal/metrics"
	"github.com/tomtom215/vitrine/internal/models"
	"github.com/tomtom215/vitrine/internal/validation"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Error codes sent in error frames.
const (
	CodeRateLimited    = "RATE_LIMITED"
	CodeBadMessage     = "BAD_MESSAGE"
	CodeUnknownType    = "UNKNOWN_TYPE"
	CodeNotInRoom      = "NOT_IN_ROOM"
	CodeInvalidProduct = "INVALID_PRODUCT"
)

// Client pumps frames between a WebSocket connection and its Session.
type Client struct {
	session *Session
	conn    *websocket.Conn
	limiter *rate.Limiter
}

// NewClient creates a Client. The limiter allows inboundRate frames per
// second with the given burst.
func NewClient(session *Session, conn *websocket.Conn, inboundRate float64, burst int) *Client {
	if inboundRate <= 0 {
		inboundRate = 10
	}
	if burst <= 0 {
		burst = 20
	}
	return &Client{
		session: session,
		conn:    conn,
		limiter: rate.NewLimiter(rate.Limit(inboundRate), burst),
	}
}

// Start runs the pumps. ctx carries request-scoped log fields; the pumps
// stop when the connection closes, not when ctx is cancelled.
func (c *Client) Start(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	go c.writePump()
	go c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.session.Disconnect(ctx)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				logging.Warn().Err(err).Uint64("session_id", c.session.ID()).Msg("unexpected websocket close error")
			}
			return
		}
		c.handleFrame(ctx, data)
	}
}

func (c *Client) handleFrame(ctx context.Context, data []byte) {
	if !c.limiter.Allow() {
		metrics.WSMessagesDropped.WithLabelValues("rate_limited").Inc()
		c.sendError(CodeRateLimited, "too many messages")
		return
	}

	var msg models.InboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		metrics.WSMessagesReceived.WithLabelValues("invalid").Inc()
		c.sendError(CodeBadMessage, "message is not valid JSON")
		return
	}
	metrics.WSMessagesReceived.WithLabelValues(messageLabel(msg.Type)).Inc()

	switch msg.Type {
	case models.MessageTypePing:
		c.session.Deliver(models.OutboundMessage{Type: models.MessageTypePong})
	case models.MessageTypeJoin, models.MessageTypeLeave:
		c.handleRoom(ctx, msg)
	default:
		c.sendError(CodeUnknownType, "unknown message type")
	}
}

func (c *Client) handleRoom(ctx context.Context, msg models.InboundMessage) {
	var payload models.RoomPayload
	if len(msg.Data) == 0 || json.Unmarshal(msg.Data, &payload) != nil {
		c.sendError(CodeBadMessage, "data.productId is required")
		return
	}
	if verr := validation.ValidateID("productId", payload.ProductID); verr != nil {
		c.sendError(CodeInvalidProduct, verr.Error())
		return
	}

	var err error
	if msg.Type == models.MessageTypeJoin {
		err = c.session.Join(ctx, payload.ProductID)
	} else {
		err = c.session.Leave(ctx, payload.ProductID)
	}
	switch {
	case err == nil:
	case errors.Is(err, ErrNotInRoom):
		c.sendError(CodeNotInRoom, "not watching that product")
	default:
		logging.Debug().Err(err).Uint64("session_id", c.session.ID()).Msg("Rejected room transition")
	}
}

func (c *Client) sendError(code, message string) {
	c.session.Deliver(models.OutboundMessage{
		Type: models.MessageTypeError,
		Data: models.ErrorPayload{Code: code, Message: message},
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	outbound := c.session.Outbound()
	for {
		select {
		case msg, ok := <-outbound:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline")
				return
			}
			if !ok {
				// Session disconnected.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				logging.Error().Err(err).Str("type", msg.Type).Msg("failed to encode realtime message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			metrics.WSMessagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Msg("failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// messageLabel bounds the metric label set to known types.
func messageLabel(t string) string {
	switch t {
	case models.MessageTypeJoin, models.MessageTypeLeave, models.MessageTypePing:
		return t
	default:
		return "unknown"
	}
}
