// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "time"

// APIResponse is the standard envelope for all REST responses.
//
// Example success:
//
//	{"status":"success","data":{"liked":true},"metadata":{"timestamp":"2026-01-01T12:00:00Z"}}
//
// Example error:
//
//	{"status":"error","data":null,"metadata":{...},"error":{"code":"STORE_UNAVAILABLE","message":"..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
// Degraded is set when a read was answered empty because the store was unavailable.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - STORE_UNAVAILABLE: Shared store unreachable or too slow
//   - INVALID_IDENTITY: Identity token present but not valid
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// LikeToggleResponse is returned by the like toggle endpoint.
type LikeToggleResponse struct {
	ProductID string `json:"productId"`
	Liked     bool   `json:"liked"`
}

// LikeCountResponse is returned by the like count endpoint.
type LikeCountResponse struct {
	ProductID string `json:"productId"`
	Count     int64  `json:"count"`
}

// ProductListResponse carries an ordered list of product ids.
type ProductListResponse struct {
	ProductIDs []string `json:"productIds"`
}

// ViewRequest records a product detail view.
type ViewRequest struct {
	CategoryID string `json:"categoryId" validate:"required,max=128,entityid"`
	ProductID  string `json:"productId" validate:"required,max=128,entityid"`
}

// PurchaseRequest records the products bought together in one order.
type PurchaseRequest struct {
	ProductIDs []string `json:"productIds" validate:"required,min=1,max=100,dive,required,max=128,entityid"`
}

// UpdateQuantityRequest changes the quantity of one cart line.
// A quantity of zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=999"`
}

// IndexProductRequest sets a product's category and style tags.
type IndexProductRequest struct {
	CategoryID string   `json:"categoryId" validate:"required,max=128,entityid"`
	Tags       []string `json:"tags" validate:"max=32,dive,required,max=64,entityid"`
}

// ComplementsRequest replaces the complementary categories of a category.
type ComplementsRequest struct {
	CategoryIDs []string `json:"categoryIds" validate:"max=32,dive,required,max=128,entityid"`
}

// CartResponse is a cart together with its summary.
type CartResponse struct {
	Items   []CartLine  `json:"items"`
	Summary CartSummary `json:"summary"`
}
