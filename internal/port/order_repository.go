package port

import (
	"context"

	"github.com/rl1809/order-service/internal/core/domain"
)

type OrderRepository interface {
	// Save persists an accepted order and its line items atomically.
	// The store is append-only from the caller's perspective.
	Save(ctx context.Context, order domain.Order) error
}
