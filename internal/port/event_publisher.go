package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type EventPublisher interface {
	// Publish emits an order-placed event on the notification topic.
	// Best-effort: delivery guarantees belong to the transport.
	Publish(ctx context.Context, event domain.OrderPlacedEvent) error
}
