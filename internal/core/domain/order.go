package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderLineItem is one requested line of an order. It is copied field-by-field
// from the inbound request and never modified after the order is built.
type OrderLineItem struct {
	SKUCode  string
	Quantity int
	Price    float64
}

type Order struct {
	OrderNumber string
	LineItems   []OrderLineItem
	CreatedAt   time.Time
}

// NewOrder builds an order with a freshly generated order number. The number
// is assigned exactly once, before any external call is made, and never reused.
func NewOrder(lineItems []OrderLineItem) Order {
	items := make([]OrderLineItem, len(lineItems))
	copy(items, lineItems)

	return Order{
		OrderNumber: uuid.NewString(),
		LineItems:   items,
		CreatedAt:   time.Now().UTC(),
	}
}

// SKUCodes returns the SKU codes of all line items in input order.
// Duplicates pass through unchanged.
func (o Order) SKUCodes() []string {
	codes := make([]string, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		codes = append(codes, item.SKUCode)
	}
	return codes
}
