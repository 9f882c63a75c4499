// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "github.com/goccy/go-json"

// Realtime message types.
const (
	MessageTypeJoin        = "join"
	MessageTypeLeave       = "leave"
	MessageTypePing        = "ping"
	MessageTypePong        = "pong"
	MessageTypeViewerCount = "viewer_count"
	MessageTypeError       = "error"
)

// InboundMessage is a frame sent by a realtime client.
//
//	{"type":"join","data":{"productId":"p7"}}
type InboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RoomPayload is the data of join and leave messages.
type RoomPayload struct {
	ProductID string `json:"productId"`
}

// OutboundMessage is a frame sent to a realtime client.
type OutboundMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ViewerCount is broadcast to a product room whenever its viewer count changes.
//
//	{"type":"viewer_count","data":{"productId":"p7","count":3}}
type ViewerCount struct {
	ProductID string `json:"productId"`
	Count     int    `json:"count"`
}

// ErrorPayload is the data of an error message.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ProductViewedEvent is published on the event bus when a session joins a
// product room.
type ProductViewedEvent struct {
	Identity  string `json:"identity"`
	ProductID string `json:"productId"`
	Source    string `json:"source"`
}
