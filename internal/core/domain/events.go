package domain

// OrderPlacedEvent is emitted at most once per successfully persisted order.
// It carries only the order number; consumers re-query for details.
type OrderPlacedEvent struct {
	OrderNumber string `json:"orderNumber"`
}
