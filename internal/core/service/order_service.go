package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rl1809/order-service/internal/core/domain"
	"github.com/rl1809/order-service/internal/port"
)

// completionTimeout bounds the save+publish tail of an accepted placement,
// which runs detached from the caller's context.
const completionTimeout = 10 * time.Second

type LineItemRequest struct {
	SKUCode  string
	Quantity int
	Price    float64
}

type PlaceOrderRequest struct {
	LineItems []LineItemRequest
}

// Options control explicit policy decisions left open by the placement flow.
type Options struct {
	// StrictLineItems rejects non-positive quantities and negative prices
	// before any external call. Off by default: the flow is otherwise
	// permissive about quantity and price, and integrators opt in.
	StrictLineItems bool
}

// Placer is the entry point of the order placement flow. Decorators such as
// the circuit breaker wrap this interface.
type Placer interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error)
}

// OrderService orchestrates a single placement attempt: build the order,
// consult inventory, classify, and on full acceptance persist then publish.
type OrderService struct {
	log       *zap.Logger
	inventory port.InventoryClient
	repo      port.OrderRepository
	publisher port.EventPublisher
	opts      Options
}

func NewOrderService(log *zap.Logger, inventory port.InventoryClient, repo port.OrderRepository, publisher port.EventPublisher, opts Options) *OrderService {
	return &OrderService{
		log:       log,
		inventory: inventory,
		repo:      repo,
		publisher: publisher,
		opts:      opts,
	}
}

// PlaceOrder returns the generated order number on acceptance. Acceptance is
// all-or-nothing across the whole line-item set: a single unknown or
// out-of-stock SKU rejects the entire order with zero writes.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (string, error) {
	lineItems := make([]domain.OrderLineItem, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		lineItems = append(lineItems, domain.OrderLineItem{
			SKUCode:  li.SKUCode,
			Quantity: li.Quantity,
			Price:    li.Price,
		})
	}

	if s.opts.StrictLineItems {
		if err := validateLineItems(lineItems); err != nil {
			return "", err
		}
	}

	order := domain.NewOrder(lineItems)
	skuCodes := order.SKUCodes()

	facts, err := s.inventory.CheckAvailability(ctx, skuCodes)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInventoryUnavailable, err)
	}
	if facts == nil {
		return "", fmt.Errorf("%w: lookup returned no result", ErrInventoryUnavailable)
	}

	unavailable, outOfStock := classify(skuCodes, facts)
	if len(unavailable) > 0 {
		return "", &UnavailableSKUError{SKUCodes: unavailable}
	}
	if len(outOfStock) > 0 {
		return "", &OutOfStockError{SKUCodes: outOfStock}
	}

	// Once persistence begins the placement runs to completion even if the
	// caller has disconnected; a publish must never reference an order that
	// was not durably saved first.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), completionTimeout)
	defer cancel()

	if err := s.repo.Save(ctx, order); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	event := domain.OrderPlacedEvent{OrderNumber: order.OrderNumber}
	if err := s.publisher.Publish(ctx, event); err != nil {
		// Best-effort: the order is already durably accepted. A lost
		// notification is a logged condition, not a placement failure.
		s.log.Error("order placed event publish failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
	} else {
		s.log.Info("order placed",
			zap.String("order_number", order.OrderNumber),
			zap.Int("line_items", len(order.LineItems)))
	}

	return order.OrderNumber, nil
}

func validateLineItems(items []domain.OrderLineItem) error {
	var invalid []string
	for _, item := range items {
		if item.Quantity <= 0 || item.Price < 0 {
			invalid = append(invalid, item.SKUCode)
		}
	}
	if len(invalid) > 0 {
		return &InvalidLineItemError{SKUCodes: invalid}
	}
	return nil
}

// classify splits the input SKU codes into unknown-to-inventory and known but
// out-of-stock. Each input occurrence is classified independently, so
// duplicate codes stay duplicated in the result. A missing fact cannot also
// be false, so the two lists never share an occurrence.
func classify(skuCodes []string, facts []domain.InventoryFact) (unavailable, outOfStock []string) {
	known := make(map[string]bool, len(facts))
	depleted := make(map[string]bool, len(facts))
	for _, fact := range facts {
		known[fact.SKUCode] = true
		if !fact.InStock {
			depleted[fact.SKUCode] = true
		}
	}

	for _, code := range skuCodes {
		switch {
		case !known[code]:
			unavailable = append(unavailable, code)
		case depleted[code]:
			outOfStock = append(outOfStock, code)
		}
	}
	return unavailable, outOfStock
}
