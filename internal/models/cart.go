// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

package models

import "github.com/shopspring/decimal"

// CartLine is one line of a session cart. Lines are unique on
// (ProductID, SelectedSize, SelectedColor).
type CartLine struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"productId" validate:"required,max=128,entityid"`
	Name          string          `json:"name" validate:"max=256"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" validate:"gte=1,lte=999"`
	SelectedSize  string          `json:"selectedSize,omitempty" validate:"max=32"`
	SelectedColor string          `json:"selectedColor,omitempty" validate:"max=32"`
	Image         string          `json:"image,omitempty" validate:"max=2048"`
}

// SameVariant reports whether two lines describe the same product variant.
func (l *CartLine) SameVariant(other *CartLine) bool {
	return l.ProductID == other.ProductID &&
		l.SelectedSize == other.SelectedSize &&
		l.SelectedColor == other.SelectedColor
}

// Cart is the document stored per identity.
type Cart struct {
	Items []CartLine `json:"items"`
}

// CartSummary aggregates a cart for display.
type CartSummary struct {
	Lines     int             `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Summarize computes line count, total quantity and subtotal.
func (c *Cart) Summarize() CartSummary {
	summary := CartSummary{Lines: len(c.Items), Subtotal: decimal.Zero}
	for i := range c.Items {
		line := &c.Items[i]
		summary.ItemCount += line.Quantity
		summary.Subtotal = summary.Subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return summary
}
